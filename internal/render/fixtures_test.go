package render_test

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"invoicegen/internal/invoice"

	"github.com/stretchr/testify/require"
)

func gstInvoice() invoice.Invoice {
	return invoice.Invoice{
		InvoiceNumber: "INV-2026-0001",
		InvoiceDate:   "2026-10-19",
		YourCompany: invoice.Company{
			Name:    "Acme Traders",
			Address: "12 MG Road, Bengaluru",
			GSTIN:   "29ABCDE1234F1Z5",
			Phone:   "+91 80 1234 5678",
		},
		Client: invoice.Company{Name: "Globex", Address: "Pune", Email: "ap@globex.example"},
		Items: []invoice.Item{
			{ID: "a", Description: "Widget", Quantity: 2, Price: 100, HSN: "8471"},
		},
		Tax:           invoice.SplitGST{Rate: 18, Type: invoice.GSTIntraState},
		PaymentMethod: "Bank Transfer",
		Currency:      "INR",
	}
}

// pngDataURL builds a w×h opaque PNG as a data URL.
func pngDataURL(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}
