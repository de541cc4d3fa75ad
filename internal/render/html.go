package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"invoicegen/internal/invoice"
)

//go:embed templates/invoice.html.tmpl
var invoiceHTML string

var htmlTmpl = template.Must(template.New("invoice").Parse(invoiceHTML))

// htmlView wraps the preview model with the signature pre-cleared as a URL.
// html/template rewrites data: URLs to "#ZgotmplZ" unless typed.
type htmlView struct {
	PreviewView
	SignatureURL template.URL
}

// HTML renders the invoice as a standalone markup snapshot (for emailing or
// embedding). It carries the same visual contract as the live preview; user
// text is escaped.
func HTML(inv invoice.Invoice) (string, error) {
	v := htmlView{PreviewView: Preview(inv)}
	if v.Signature.Image != "" {
		v.SignatureURL = template.URL(v.Signature.Image)
	}

	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render: html: %w", err)
	}
	return buf.String(), nil
}
