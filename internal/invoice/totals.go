package invoice

import (
	"encoding/json"
	"math"
	"strconv"
)

// Totals is the derived view of an invoice. It is produced by Compute and is
// never persisted or accepted as input by a renderer.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	// TaxAmount is the whole tax: the flat amount, or CGST+SGST+IGST.
	TaxAmount float64 `json:"taxAmount"`
	CGST      float64 `json:"cgst"`
	SGST      float64 `json:"sgst"`
	IGST      float64 `json:"igst"`
	Discount  float64 `json:"discount"`
	Total     float64 `json:"total"`
}

// TaxLine is one displayed tax row, e.g. "CGST (9%)".
type TaxLine struct {
	Label  string  `json:"label"`
	Rate   float64 `json:"rate"`
	Amount float64 `json:"amount"`
}

// finite maps overflowed values to nil so they encode as JSON null;
// encoding/json rejects ±Inf and NaN.
func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

func (t Totals) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Subtotal  *float64 `json:"subtotal"`
		TaxAmount *float64 `json:"taxAmount"`
		CGST      *float64 `json:"cgst"`
		SGST      *float64 `json:"sgst"`
		IGST      *float64 `json:"igst"`
		Discount  *float64 `json:"discount"`
		Total     *float64 `json:"total"`
	}{
		finite(t.Subtotal), finite(t.TaxAmount), finite(t.CGST), finite(t.SGST),
		finite(t.IGST), finite(t.Discount), finite(t.Total),
	})
}

func (l TaxLine) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Label  string   `json:"label"`
		Rate   *float64 `json:"rate"`
		Amount *float64 `json:"amount"`
	}{l.Label, finite(l.Rate), finite(l.Amount)})
}

// LineAmount is quantity*price for a single item. Negative inputs produce a
// negative amount.
func LineAmount(it Item) float64 {
	return it.Quantity * it.Price
}

// Compute derives subtotal, tax split and total from the invoice.
// It is a pure function: same input, same output.
func Compute(inv Invoice) Totals {
	var subtotal float64
	for _, it := range inv.Items {
		subtotal += LineAmount(it)
	}

	t := Totals{Subtotal: subtotal, Discount: inv.Discount}

	switch p := inv.taxPolicy().(type) {
	case SplitGST:
		gross := subtotal * p.Rate / 100
		t.TaxAmount = gross
		switch p.Type {
		case GSTIntraState:
			t.CGST = gross / 2
			t.SGST = gross / 2
		case GSTInterState:
			t.IGST = gross
		}
	case Flat:
		t.TaxAmount = subtotal * p.Rate / 100
	}

	t.Total = t.Subtotal + t.TaxAmount - t.Discount
	return t
}

// TaxLines lists the tax rows a renderer should display for inv.
// A flat policy always shows its single line; a GST policy shows nothing at
// rate 0 (bill of supply).
func (t Totals) TaxLines(inv Invoice) []TaxLine {
	switch p := inv.taxPolicy().(type) {
	case SplitGST:
		if p.Rate == 0 {
			return nil
		}
		if p.Type == GSTInterState {
			return []TaxLine{{Label: "IGST (" + FormatRate(p.Rate) + "%)", Rate: p.Rate, Amount: t.IGST}}
		}
		half := p.Rate / 2
		return []TaxLine{
			{Label: "CGST (" + FormatRate(half) + "%)", Rate: half, Amount: t.CGST},
			{Label: "SGST (" + FormatRate(half) + "%)", Rate: half, Amount: t.SGST},
		}
	case Flat:
		return []TaxLine{{Label: "Tax (" + FormatRate(p.Rate) + "%)", Rate: p.Rate, Amount: t.TaxAmount}}
	}
	return nil
}

// FormatRate prints a percentage without trailing zeros: 18, 2.5, 0.25.
func FormatRate(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}

const (
	TitleInvoice      = "INVOICE"
	TitleTaxInvoice   = "Tax Invoice"
	TitleBillOfSupply = "Bill of Supply"

	NonGSTDisclaimer = "This is a non-GST invoice. Supplier not registered under GST"
)

// IsBillOfSupply is true for a GST-aware invoice with a zero rate.
func IsBillOfSupply(inv Invoice) bool {
	p, ok := inv.taxPolicy().(SplitGST)
	return ok && p.Rate == 0
}

// DocumentTitle is the label printed at the top of every rendering.
func DocumentTitle(inv Invoice) string {
	if !inv.IsGSTAware() {
		return TitleInvoice
	}
	if IsBillOfSupply(inv) {
		return TitleBillOfSupply
	}
	return TitleTaxInvoice
}
