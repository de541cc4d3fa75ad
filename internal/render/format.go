// Package render turns an invoice.Invoice into its three artifacts: the
// interactive preview model, the HTML string and the PDF print document.
// Every renderer calls invoice.Compute itself and formats numbers through
// Amount so the outputs agree digit for digit.
package render

import (
	"math"
	"strings"
	"unicode"

	"invoicegen/internal/invoice"

	"github.com/shopspring/decimal"
)

// Amount formats v with exactly two decimals. Rounding is half away from zero
// on the shortest decimal representation of the float, so 1.005 -> "1.01"
// and 2.675 -> "2.68". Overflowed sums print as "Infinity", "-Infinity" or
// "NaN" instead of failing.
func Amount(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Money prefixes Amount with the currency symbol. Negative values keep the
// sign after the symbol ("₹-5.00").
func Money(symbol string, v float64) string {
	return symbol + Amount(v)
}

// Deduction renders a subtracted amount, e.g. the discount row ("-₹5.00").
func Deduction(symbol string, v float64) string {
	return "-" + symbol + Amount(v)
}

// Quantity prints a quantity the way it was entered: 2, 1.5, 0.25.
func Quantity(q float64) string {
	return invoice.FormatRate(q)
}

// CurrencySymbol maps the display label to the prefix printed before
// amounts. The label never triggers conversion.
func CurrencySymbol(code string) string {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "", "INR":
		return "₹"
	case "USD":
		return "$"
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	default:
		return strings.ToUpper(strings.TrimSpace(code)) + " "
	}
}

const (
	ThankYouNote       = "Thank you for your business!"
	SignatoryLabel     = "Authorized Signatory"
	missingHSN         = "N/A"
	signatureURLPrefix = "data:image/"
)

// signatureFallback is shown in place of a missing signature image.
func signatureFallback(c invoice.Company) string {
	if strings.TrimSpace(c.Name) == "" {
		return ""
	}
	return "(" + c.Name + ")"
}

// hasSignature is true only for an embedded image data URL, the one payload
// every renderer can draw.
func hasSignature(inv invoice.Invoice) bool {
	return strings.HasPrefix(inv.Signature, signatureURLPrefix)
}

func hsnOrNA(h string) string {
	if strings.TrimSpace(h) == "" {
		return missingHSN
	}
	return h
}

// PDFFilename is the download and attachment name for an invoice number.
// Quotes, backslashes and control characters are dropped so the name is safe
// inside a quoted Content-Disposition parameter.
func PDFFilename(invoiceNumber string) string {
	clean := strings.Map(func(r rune) rune {
		if r == '"' || r == '\\' || unicode.IsControl(r) {
			return -1
		}
		return r
	}, invoiceNumber)
	return "invoice-" + clean + ".pdf"
}
