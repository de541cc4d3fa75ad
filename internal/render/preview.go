package render

import (
	"invoicegen/internal/invoice"
)

// PreviewView is the interactive rendering: a display-ready model the
// browser binds to its live preview. All strings are already formatted.
type PreviewView struct {
	Title         string         `json:"title"`
	InvoiceNumber string         `json:"invoiceNumber"`
	InvoiceDate   string         `json:"invoiceDate"`
	DueDate       string         `json:"dueDate,omitempty"`
	Currency      string         `json:"currency,omitempty"`
	Biller        PartyView      `json:"biller"`
	Client        PartyView      `json:"client"`
	ShowHSN       bool           `json:"showHsn"`
	Rows          []RowView      `json:"rows"`
	Summary       []SummaryLine  `json:"summary"`
	Total         SummaryLine    `json:"total"`
	PaymentMethod string         `json:"paymentMethod,omitempty"`
	Signature     SignatureView  `json:"signature"`
	Footer        []string       `json:"footer"`
	Totals        invoice.Totals `json:"totals"`
}

type PartyView struct {
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Lines   []string `json:"lines"`
}

type RowView struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	HSN         string `json:"hsn,omitempty"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	Amount      string `json:"amount"`
}

type SummaryLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type SignatureView struct {
	Image    string `json:"image,omitempty"`
	Fallback string `json:"fallback,omitempty"`
	Label    string `json:"label"`
}

// Preview builds the interactive view model for inv.
func Preview(inv invoice.Invoice) PreviewView {
	totals := invoice.Compute(inv)
	sym := CurrencySymbol(inv.Currency)
	gst := inv.IsGSTAware()

	v := PreviewView{
		Title:         invoice.DocumentTitle(inv),
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceDate:   inv.InvoiceDate,
		DueDate:       inv.DueDate,
		Currency:      inv.Currency,
		Biller:        partyView(inv.YourCompany),
		Client:        partyView(inv.Client),
		ShowHSN:       gst,
		Rows:          make([]RowView, 0, len(inv.Items)),
		PaymentMethod: inv.PaymentMethod,
		Totals:        totals,
		Signature:     SignatureView{Label: SignatoryLabel},
	}

	for _, it := range inv.Items {
		row := RowView{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    Quantity(it.Quantity),
			UnitPrice:   Money(sym, it.Price),
			Amount:      Money(sym, invoice.LineAmount(it)),
		}
		if gst {
			row.HSN = hsnOrNA(it.HSN)
		}
		v.Rows = append(v.Rows, row)
	}

	v.Summary = append(v.Summary, SummaryLine{Label: "Subtotal", Value: Money(sym, totals.Subtotal)})
	for _, tl := range totals.TaxLines(inv) {
		v.Summary = append(v.Summary, SummaryLine{Label: tl.Label, Value: Money(sym, tl.Amount)})
	}
	if inv.Discount > 0 {
		v.Summary = append(v.Summary, SummaryLine{Label: "Discount", Value: Deduction(sym, inv.Discount)})
	}
	v.Total = SummaryLine{Label: "Total", Value: Money(sym, totals.Total)}

	if hasSignature(inv) {
		v.Signature.Image = inv.Signature
	} else {
		v.Signature.Fallback = signatureFallback(inv.YourCompany)
	}

	v.Footer = []string{ThankYouNote}
	if invoice.IsBillOfSupply(inv) {
		v.Footer = append(v.Footer, invoice.NonGSTDisclaimer)
	}
	return v
}

// partyView lists the optional contact lines that are present.
func partyView(c invoice.Company) PartyView {
	p := PartyView{Name: c.Name, Address: c.Address, Lines: []string{}}
	if c.Phone != "" {
		p.Lines = append(p.Lines, c.Phone)
	}
	if c.Email != "" {
		p.Lines = append(p.Lines, c.Email)
	}
	if c.GSTIN != "" {
		p.Lines = append(p.Lines, "GSTIN: "+c.GSTIN)
	}
	return p
}
