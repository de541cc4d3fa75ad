package invoice

import (
	"github.com/google/uuid"
)

// Edits below never mutate the receiver: each returns a new Invoice with its
// own Items slice.

// Blank returns the default state of a fresh invoice: one empty line, GST
// intra-state at 0%, no discount, cash payment. It is composed from the same
// edits the form applies.
func Blank(currency string) Invoice {
	return Invoice{}.
		AddItem().
		WithTax(SplitGST{Rate: 0, Type: GSTIntraState}).
		WithDiscount(0).
		WithPaymentMethod("Cash").
		WithCurrency(currency)
}

// NewItemID returns a fresh, never reused item identifier.
func NewItemID() string {
	return uuid.NewString()
}

// ClampNonNegative maps negative input to 0. Used at the edit boundary only.
func ClampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func (inv Invoice) clone() Invoice {
	out := inv
	out.Items = make([]Item, len(inv.Items))
	copy(out.Items, inv.Items)
	return out
}

func (inv Invoice) WithNumber(n string) Invoice {
	out := inv.clone()
	out.InvoiceNumber = n
	return out
}

func (inv Invoice) WithDate(d string) Invoice {
	out := inv.clone()
	out.InvoiceDate = d
	return out
}

func (inv Invoice) WithDueDate(d string) Invoice {
	out := inv.clone()
	out.DueDate = d
	return out
}

func (inv Invoice) WithYourCompany(c Company) Invoice {
	out := inv.clone()
	out.YourCompany = c
	return out
}

func (inv Invoice) WithClient(c Company) Invoice {
	out := inv.clone()
	out.Client = c
	return out
}

func (inv Invoice) WithTax(p TaxPolicy) Invoice {
	out := inv.clone()
	out.Tax = p
	return out
}

func (inv Invoice) WithDiscount(d float64) Invoice {
	out := inv.clone()
	out.Discount = ClampNonNegative(d)
	return out
}

func (inv Invoice) WithPaymentMethod(m string) Invoice {
	out := inv.clone()
	out.PaymentMethod = m
	return out
}

func (inv Invoice) WithSignature(s string) Invoice {
	out := inv.clone()
	out.Signature = s
	return out
}

func (inv Invoice) WithCurrency(c string) Invoice {
	out := inv.clone()
	out.Currency = c
	return out
}

// AddItem appends an empty line with quantity 1 and a fresh ID.
func (inv Invoice) AddItem() Invoice {
	out := inv.clone()
	out.Items = append(out.Items, Item{ID: NewItemID(), Quantity: 1})
	return out
}

// UpdateItem applies fn to a copy of the item at index. Quantity and price are
// clamped to >= 0 afterwards; the ID cannot be changed. Out-of-range indexes
// return an unchanged copy.
func (inv Invoice) UpdateItem(index int, fn func(*Item)) Invoice {
	out := inv.clone()
	if index < 0 || index >= len(out.Items) {
		return out
	}
	it := out.Items[index]
	id := it.ID
	fn(&it)
	it.ID = id
	it.Quantity = ClampNonNegative(it.Quantity)
	it.Price = ClampNonNegative(it.Price)
	out.Items[index] = it
	return out
}

// RemoveItem drops the item at index, preserving the order of the rest.
func (inv Invoice) RemoveItem(index int) Invoice {
	out := inv.clone()
	if index < 0 || index >= len(out.Items) {
		return out
	}
	out.Items = append(out.Items[:index], out.Items[index+1:]...)
	return out
}
