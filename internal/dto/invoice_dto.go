package dto

import (
	"errors"
	"fmt"

	"invoicegen/internal/invoice"
)

// ErrUnknownGSTType rejects a gstType other than "CGST+SGST" or "IGST".
var ErrUnknownGSTType = errors.New("unknown gstType")

// InvoicePayload is the wire shape of an invoice. It is the superset schema:
// when gstType is absent the invoice is a plain flat-tax invoice, when it is
// present the invoice is GST-aware.
type InvoicePayload struct {
	InvoiceNumber string           `json:"invoiceNumber"`
	InvoiceDate   string           `json:"invoiceDate"`
	DueDate       string           `json:"dueDate,omitempty"`
	YourCompany   CompanyPayload   `json:"yourCompany"`
	Client        CompanyPayload   `json:"client"`
	Items         []ItemPayload    `json:"items"`
	TaxRate       float64          `json:"taxRate"`
	GSTType       *invoice.GSTType `json:"gstType,omitempty"`
	Discount      float64          `json:"discount"`
	PaymentMethod string           `json:"paymentMethod,omitempty"`
	Signature     string           `json:"signature,omitempty"`
	Currency      string           `json:"currency,omitempty"`
}

type CompanyPayload struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	GSTIN   string `json:"gstin,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

type ItemPayload struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	HSN         string  `json:"hsn,omitempty"`
}

// ToInvoice converts the payload into the domain aggregate. Numbers are taken
// literally; only the tax variant can fail.
func (p InvoicePayload) ToInvoice() (invoice.Invoice, error) {
	inv := invoice.Invoice{
		InvoiceNumber: p.InvoiceNumber,
		InvoiceDate:   p.InvoiceDate,
		DueDate:       p.DueDate,
		YourCompany:   p.YourCompany.ToCompany(),
		Client:        p.Client.ToCompany(),
		Items:         make([]invoice.Item, 0, len(p.Items)),
		Discount:      p.Discount,
		PaymentMethod: p.PaymentMethod,
		Signature:     p.Signature,
		Currency:      p.Currency,
	}
	for _, it := range p.Items {
		inv.Items = append(inv.Items, invoice.Item{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			Price:       it.Price,
			HSN:         it.HSN,
		})
	}

	switch {
	case p.GSTType == nil:
		inv.Tax = invoice.Flat{Rate: p.TaxRate}
	case p.GSTType.Valid():
		inv.Tax = invoice.SplitGST{Rate: p.TaxRate, Type: *p.GSTType}
	default:
		return invoice.Invoice{}, fmt.Errorf("%w: %q", ErrUnknownGSTType, string(*p.GSTType))
	}
	return inv, nil
}

func (c CompanyPayload) ToCompany() invoice.Company {
	return invoice.Company(c)
}

// FromInvoice is the inverse of ToInvoice.
func FromInvoice(inv invoice.Invoice) InvoicePayload {
	p := InvoicePayload{
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceDate:   inv.InvoiceDate,
		DueDate:       inv.DueDate,
		YourCompany:   FromCompany(inv.YourCompany),
		Client:        FromCompany(inv.Client),
		Items:         make([]ItemPayload, 0, len(inv.Items)),
		Discount:      inv.Discount,
		PaymentMethod: inv.PaymentMethod,
		Signature:     inv.Signature,
		Currency:      inv.Currency,
	}
	for _, it := range inv.Items {
		p.Items = append(p.Items, ItemPayload(it))
	}
	switch t := inv.Tax.(type) {
	case invoice.SplitGST:
		gt := t.Type
		p.TaxRate = t.Rate
		p.GSTType = &gt
	case invoice.Flat:
		p.TaxRate = t.Rate
	}
	return p
}

func FromCompany(c invoice.Company) CompanyPayload {
	return CompanyPayload(c)
}

// ─── Totals ──────────────────────────────────────────────────────────────────

// TotalsResponse carries the raw computation and the display strings every
// renderer prints.
type TotalsResponse struct {
	Title     string            `json:"title"`
	Totals    invoice.Totals    `json:"totals"`
	TaxLines  []invoice.TaxLine `json:"taxLines"`
	Formatted FormattedTotals   `json:"formatted"`
}

type FormattedTotals struct {
	Subtotal string            `json:"subtotal"`
	TaxLines map[string]string `json:"taxLines"`
	Discount string            `json:"discount,omitempty"`
	Total    string            `json:"total"`
}
