package invoice_test

import (
	"encoding/json"
	"math"
	"testing"

	"invoicegen/internal/invoice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(pairs ...float64) []invoice.Item {
	out := make([]invoice.Item, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, invoice.Item{ID: invoice.NewItemID(), Quantity: pairs[i], Price: pairs[i+1]})
	}
	return out
}

func TestCompute_IntraStateScenario(t *testing.T) {
	inv := invoice.Invoice{
		Items: items(2, 100),
		Tax:   invoice.SplitGST{Rate: 18, Type: invoice.GSTIntraState},
	}

	got := invoice.Compute(inv)

	assert.Equal(t, 200.0, got.Subtotal)
	assert.Equal(t, 18.0, got.CGST)
	assert.Equal(t, 18.0, got.SGST)
	assert.Equal(t, 0.0, got.IGST)
	assert.Equal(t, 236.0, got.Total)
}

func TestCompute_EmptyItemsNegativeTotal(t *testing.T) {
	inv := invoice.Invoice{Tax: invoice.Flat{Rate: 10}, Discount: 5}

	got := invoice.Compute(inv)

	assert.Equal(t, 0.0, got.Subtotal)
	assert.Equal(t, 0.0, got.TaxAmount)
	assert.Equal(t, -5.0, got.Total)
}

func TestCompute_InterState(t *testing.T) {
	inv := invoice.Invoice{
		Items: items(3, 19.99, 1, 250),
		Tax:   invoice.SplitGST{Rate: 12, Type: invoice.GSTInterState},
	}
	got := invoice.Compute(inv)

	assert.Equal(t, got.Subtotal*12/100, got.IGST)
	assert.Zero(t, got.CGST)
	assert.Zero(t, got.SGST)
}

func TestCompute_SplitHalvesAreEqual(t *testing.T) {
	for _, rate := range []float64{0, 0.25, 5, 12, 18, 28, 99.9, 150, -3} {
		inv := invoice.Invoice{
			Items: items(7, 13.37, 2.5, 4.2, 1, 0.01),
			Tax:   invoice.SplitGST{Rate: rate, Type: invoice.GSTIntraState},
		}
		got := invoice.Compute(inv)
		gross := got.Subtotal * rate / 100

		assert.Equal(t, got.CGST, got.SGST, "rate %v", rate)
		assert.InDelta(t, gross, got.CGST+got.SGST, 1e-9, "rate %v", rate)
	}
}

func TestCompute_TotalIdentity(t *testing.T) {
	cases := []invoice.Invoice{
		{Items: items(1, 10), Tax: invoice.Flat{Rate: 5}, Discount: 2},
		{Items: items(1, 10), Tax: invoice.Flat{Rate: 5}, Discount: 1000},
		{Items: items(4, 0.1, 3, 0.2), Tax: invoice.SplitGST{Rate: 18, Type: invoice.GSTIntraState}, Discount: 0.3},
		{Items: items(-2, 10), Tax: invoice.SplitGST{Rate: 18, Type: invoice.GSTInterState}},
	}
	for _, inv := range cases {
		got := invoice.Compute(inv)
		assert.Equal(t, got.Subtotal+got.TaxAmount-inv.Discount, got.Total)
	}
}

func TestCompute_OrderIndependentSubtotal(t *testing.T) {
	fwd := items(1, 0.1, 2, 0.2, 3, 0.3, 4, 12.5)
	rev := make([]invoice.Item, len(fwd))
	for i := range fwd {
		rev[len(fwd)-1-i] = fwd[i]
	}

	a := invoice.Compute(invoice.Invoice{Items: fwd})
	b := invoice.Compute(invoice.Invoice{Items: rev})

	assert.InDelta(t, a.Subtotal, b.Subtotal, 1e-9)
}

func TestCompute_Idempotent(t *testing.T) {
	inv := invoice.Invoice{
		Items:    items(3, 33.33, 1, 0.07),
		Tax:      invoice.SplitGST{Rate: 18, Type: invoice.GSTIntraState},
		Discount: 1.5,
	}
	assert.Equal(t, invoice.Compute(inv), invoice.Compute(inv))
}

func TestCompute_NilPolicyIsFlatZero(t *testing.T) {
	got := invoice.Compute(invoice.Invoice{Items: items(2, 50)})
	assert.Equal(t, 100.0, got.Total)
}

func TestCompute_OutOfRangeRateIsLiteral(t *testing.T) {
	got := invoice.Compute(invoice.Invoice{Items: items(1, 100), Tax: invoice.Flat{Rate: 250}})
	assert.Equal(t, 250.0, got.TaxAmount)
	assert.False(t, math.IsNaN(got.Total))
}

func TestTaxLines(t *testing.T) {
	base := invoice.Invoice{Items: items(1, 100)}

	intra := base.WithTax(invoice.SplitGST{Rate: 5, Type: invoice.GSTIntraState})
	lines := invoice.Compute(intra).TaxLines(intra)
	require.Len(t, lines, 2)
	assert.Equal(t, "CGST (2.5%)", lines[0].Label)
	assert.Equal(t, "SGST (2.5%)", lines[1].Label)
	assert.Equal(t, 2.5, lines[0].Amount)

	inter := base.WithTax(invoice.SplitGST{Rate: 18, Type: invoice.GSTInterState})
	lines = invoice.Compute(inter).TaxLines(inter)
	require.Len(t, lines, 1)
	assert.Equal(t, "IGST (18%)", lines[0].Label)

	supply := base.WithTax(invoice.SplitGST{Rate: 0, Type: invoice.GSTIntraState})
	assert.Empty(t, invoice.Compute(supply).TaxLines(supply))

	flat := base.WithTax(invoice.Flat{Rate: 0})
	lines = invoice.Compute(flat).TaxLines(flat)
	require.Len(t, lines, 1)
	assert.Equal(t, "Tax (0%)", lines[0].Label)
}

func TestDocumentTitle(t *testing.T) {
	assert.Equal(t, invoice.TitleBillOfSupply, invoice.DocumentTitle(invoice.Invoice{Tax: invoice.SplitGST{Type: invoice.GSTIntraState}}))
	assert.Equal(t, invoice.TitleTaxInvoice, invoice.DocumentTitle(invoice.Invoice{Tax: invoice.SplitGST{Rate: 18, Type: invoice.GSTInterState}}))
	assert.Equal(t, invoice.TitleInvoice, invoice.DocumentTitle(invoice.Invoice{Tax: invoice.Flat{Rate: 0}}))
	assert.True(t, invoice.IsBillOfSupply(invoice.Invoice{Tax: invoice.SplitGST{Type: invoice.GSTIntraState}}))
	assert.False(t, invoice.IsBillOfSupply(invoice.Invoice{Tax: invoice.Flat{}}))
}

func TestTotals_OverflowEncodesAsNull(t *testing.T) {
	inv := invoice.Invoice{
		Items: items(1e200, 1e200),
		Tax:   invoice.SplitGST{Rate: 18, Type: invoice.GSTInterState},
	}
	got := invoice.Compute(inv)
	require.True(t, math.IsInf(got.Total, 1))

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"subtotal":null,"taxAmount":null,"cgst":0,"sgst":0,"igst":null,"discount":0,"total":null}`, string(raw))

	raw, err = json.Marshal(got.TaxLines(inv))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"label":"IGST (18%)","rate":18,"amount":null}]`, string(raw))
}
