package render_test

import (
	"encoding/json"
	"testing"

	"invoicegen/internal/invoice"
	"invoicegen/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(lines []render.SummaryLine) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Label)
	}
	return out
}

func TestPreview_IntraStateTaxInvoice(t *testing.T) {
	v := render.Preview(gstInvoice())

	assert.Equal(t, invoice.TitleTaxInvoice, v.Title)
	assert.True(t, v.ShowHSN)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "8471", v.Rows[0].HSN)
	assert.Equal(t, "₹200.00", v.Rows[0].Amount)
	assert.Equal(t, []string{"Subtotal", "CGST (9%)", "SGST (9%)"}, labels(v.Summary))
	assert.Equal(t, "₹18.00", v.Summary[1].Value)
	assert.Equal(t, "₹236.00", v.Total.Value)
	assert.Equal(t, []string{"+91 80 1234 5678", "GSTIN: 29ABCDE1234F1Z5"}, v.Biller.Lines)
	assert.Equal(t, []string{render.ThankYouNote}, v.Footer)
}

func TestPreview_InterStateAndDiscount(t *testing.T) {
	inv := gstInvoice()
	inv.Tax = invoice.SplitGST{Rate: 12, Type: invoice.GSTInterState}
	inv.Discount = 4

	v := render.Preview(inv)

	assert.Equal(t, []string{"Subtotal", "IGST (12%)", "Discount"}, labels(v.Summary))
	assert.Equal(t, "-₹4.00", v.Summary[2].Value)
	assert.Equal(t, "₹220.00", v.Total.Value)
}

func TestPreview_BillOfSupply(t *testing.T) {
	inv := gstInvoice()
	inv.Tax = invoice.SplitGST{Rate: 0, Type: invoice.GSTIntraState}

	v := render.Preview(inv)

	assert.Equal(t, invoice.TitleBillOfSupply, v.Title)
	assert.Equal(t, []string{"Subtotal"}, labels(v.Summary))
	assert.Contains(t, v.Footer, invoice.NonGSTDisclaimer)
}

func TestPreview_FlatShowsTaxLineEvenAtZero(t *testing.T) {
	inv := gstInvoice()
	inv.Tax = invoice.Flat{Rate: 0}

	v := render.Preview(inv)

	assert.Equal(t, invoice.TitleInvoice, v.Title)
	assert.False(t, v.ShowHSN)
	assert.Empty(t, v.Rows[0].HSN)
	assert.Equal(t, []string{"Subtotal", "Tax (0%)"}, labels(v.Summary))
}

func TestPreview_MissingHSNShowsNA(t *testing.T) {
	inv := gstInvoice()
	inv.Items[0].HSN = ""

	assert.Equal(t, "N/A", render.Preview(inv).Rows[0].HSN)
}

func TestPreview_SignatureFallback(t *testing.T) {
	inv := gstInvoice()
	inv.Signature = "not-an-image"

	v := render.Preview(inv)

	assert.Empty(t, v.Signature.Image)
	assert.Equal(t, "(Acme Traders)", v.Signature.Fallback)
	assert.Equal(t, render.SignatoryLabel, v.Signature.Label)

	inv.Signature = "data:image/png;base64,AAAA"
	v = render.Preview(inv)
	assert.Equal(t, inv.Signature, v.Signature.Image)
	assert.Empty(t, v.Signature.Fallback)
}

func TestPreview_CurrencySymbolFollowsLabel(t *testing.T) {
	inv := gstInvoice()
	inv.Currency = "USD"

	assert.Equal(t, "$236.00", render.Preview(inv).Total.Value)
}

func TestPreview_OverflowedTotalsStayRenderable(t *testing.T) {
	inv := invoice.Invoice{
		Items: []invoice.Item{{ID: "a", Quantity: 1e200, Price: 1e200}},
		Tax:   invoice.SplitGST{Rate: 18, Type: invoice.GSTIntraState},
	}

	v := render.Preview(inv)

	assert.Equal(t, "₹Infinity", v.Total.Value)
	assert.Equal(t, "₹Infinity", v.Rows[0].Amount)
	_, err := json.Marshal(v)
	require.NoError(t, err)

	html, err := render.HTML(inv)
	require.NoError(t, err)
	assert.Contains(t, html, "₹Infinity")
}
