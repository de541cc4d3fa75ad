package render

// document.go: A4 print document built with go-pdf/fpdf.
// Layout, top to bottom:
//   - title ("Tax Invoice" / "Bill of Supply" / "INVOICE") and number, biller block
//   - bill-to block and dates
//   - item table (HSN/SAC column only for GST invoices)
//   - summary box: subtotal, tax rows, discount, total
//   - thank-you note, payment method, signature
//   - non-GST disclaimer pinned to the foot of every page for a bill of supply

import (
	"bytes"
	"fmt"
	"strings"

	"invoicegen/internal/invoice"

	"github.com/go-pdf/fpdf"
)

const (
	marginMM      = 15.0
	bottomMM      = 20.0
	lineH         = 5.0
	fontFamilyTTF = "NotoSans"
	fontFamilyStd = "Helvetica"
)

// Document renders the paginated print document.
type Document struct {
	// FontPath points at a UTF-8 TrueType font. When empty the core Helvetica
	// font is used and characters outside cp1252 (the rupee sign) degrade.
	FontPath string
	Compress bool
}

// pdfWriter bundles the fpdf handle with the font and text conversion in use.
type pdfWriter struct {
	pdf      *fpdf.Fpdf
	family   string
	utf8     bool
	tr       func(string) string
	contentW float64
	pageH    float64
}

func (w *pdfWriter) text(s string) string {
	if w.utf8 {
		return s
	}
	return w.tr(strings.ReplaceAll(s, "₹", "Rs."))
}

func (w *pdfWriter) font(style string, size float64) {
	if w.utf8 && style == "I" {
		style = ""
	}
	w.pdf.SetFont(w.family, style, size)
}

func (w *pdfWriter) gray()  { w.pdf.SetTextColor(85, 85, 85) }
func (w *pdfWriter) black() { w.pdf.SetTextColor(0, 0, 0) }

// wrap splits already-converted text into lines no wider than width.
// A single word wider than the column is left to overflow.
func (w *pdfWriter) wrap(s string, width float64) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := words[0]
		for _, word := range words[1:] {
			if w.pdf.GetStringWidth(cur+" "+word) > width {
				lines = append(lines, cur)
				cur = word
				continue
			}
			cur += " " + word
		}
		lines = append(lines, cur)
	}
	return lines
}

// ensure starts a new page when fewer than h millimetres remain.
func (w *pdfWriter) ensure(h float64) bool {
	if w.pdf.GetY()+h > w.pageH-bottomMM {
		w.pdf.AddPage()
		return true
	}
	return false
}

// Render produces the PDF bytes for inv.
func (d Document) Render(inv invoice.Invoice) ([]byte, error) {
	totals := invoice.Compute(inv)
	sym := CurrencySymbol(inv.Currency)
	gst := inv.IsGSTAware()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(d.Compress)
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(true, bottomMM)
	pdf.SetTitle("Invoice "+inv.InvoiceNumber, true)
	pdf.SetCreator("invoicegen", true)

	pageW, pageH := pdf.GetPageSize()
	w := &pdfWriter{pdf: pdf, family: fontFamilyStd, contentW: pageW - 2*marginMM, pageH: pageH}
	if d.FontPath != "" {
		pdf.AddUTF8Font(fontFamilyTTF, "", d.FontPath)
		pdf.AddUTF8Font(fontFamilyTTF, "B", d.FontPath)
		w.family = fontFamilyTTF
		w.utf8 = true
	} else {
		w.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}

	if invoice.IsBillOfSupply(inv) {
		pdf.SetFooterFunc(func() {
			pdf.SetY(-12)
			w.font("", 8)
			pdf.SetTextColor(128, 128, 128)
			pdf.CellFormat(0, 4, w.text(invoice.NonGSTDisclaimer), "", 0, "C", false, 0, "")
		})
	}

	var sigPNG []byte
	if hasSignature(inv) {
		png, err := normalizeSignature(inv.Signature)
		if err != nil {
			return nil, err
		}
		sigPNG = png
	}

	pdf.AddPage()
	w.header(inv)
	w.billTo(inv)
	w.table(inv, sym, gst)
	w.summary(inv, totals, sym)
	w.footer(inv, sigPNG)

	if pdf.Err() {
		return nil, fmt.Errorf("render: pdf: %w", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render: pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

// ── Sections ─────────────────────────────────────────────────────────────────

func (w *pdfWriter) header(inv invoice.Invoice) {
	pdf := w.pdf
	half := w.contentW / 2
	x0, y0 := pdf.GetXY()

	w.black()
	w.font("B", 20)
	pdf.CellFormat(half, 10, w.text(invoice.DocumentTitle(inv)), "", 2, "L", false, 0, "")
	w.font("", 11)
	pdf.CellFormat(half, 6, w.text("Invoice #: "+inv.InvoiceNumber), "", 2, "L", false, 0, "")
	leftY := pdf.GetY()

	pdf.SetXY(x0+half, y0)
	c := inv.YourCompany
	w.font("B", 16)
	pdf.CellFormat(half, 8, w.text(c.Name), "", 2, "R", false, 0, "")
	w.font("", 9)
	w.gray()
	for _, line := range w.wrap(w.text(c.Address), half) {
		pdf.CellFormat(half, 4.5, line, "", 2, "R", false, 0, "")
	}
	for _, line := range partyView(c).Lines {
		pdf.CellFormat(half, 4.5, w.text(line), "", 2, "R", false, 0, "")
	}
	rightY := pdf.GetY()

	pdf.SetXY(x0, max(leftY, rightY)+2)
	pdf.SetDrawColor(221, 221, 221)
	pdf.SetLineWidth(0.6)
	pdf.Line(x0, pdf.GetY(), x0+w.contentW, pdf.GetY())
	pdf.Ln(6)
	w.black()
}

func (w *pdfWriter) billTo(inv invoice.Invoice) {
	pdf := w.pdf
	half := w.contentW / 2
	x0, y0 := pdf.GetXY()
	c := inv.Client

	w.font("", 10)
	pdf.CellFormat(half, lineH, "BILL TO", "", 2, "L", false, 0, "")
	w.font("B", 10)
	pdf.CellFormat(half, lineH, w.text(c.Name), "", 2, "L", false, 0, "")
	w.font("", 10)
	for _, line := range w.wrap(w.text(c.Address), half) {
		pdf.CellFormat(half, lineH, line, "", 2, "L", false, 0, "")
	}
	w.font("", 9)
	w.gray()
	for _, line := range partyView(c).Lines {
		pdf.CellFormat(half, 4.5, w.text(line), "", 2, "L", false, 0, "")
	}
	w.black()
	leftY := pdf.GetY()

	pdf.SetXY(x0+half, y0)
	w.font("", 10)
	pdf.CellFormat(half, lineH, w.text("Date: "+inv.InvoiceDate), "", 2, "R", false, 0, "")
	if inv.DueDate != "" {
		pdf.CellFormat(half, lineH, w.text("Due Date: "+inv.DueDate), "", 2, "R", false, 0, "")
	}
	if inv.Currency != "" {
		pdf.CellFormat(half, lineH, w.text("Currency: "+inv.Currency), "", 2, "R", false, 0, "")
	}
	rightY := pdf.GetY()

	pdf.SetXY(x0, max(leftY, rightY)+8)
}

type column struct {
	title string
	width float64
	align string
}

func (w *pdfWriter) columns(gst bool) []column {
	cw := w.contentW
	if gst {
		return []column{
			{"Description", cw * 0.45, "L"},
			{"HSN/SAC", cw * 0.15, "C"},
			{"Qty", cw * 0.10, "C"},
			{"Unit Price", cw * 0.15, "R"},
			{"Amount", cw * 0.15, "R"},
		}
	}
	return []column{
		{"Description", cw * 0.60, "L"},
		{"Qty", cw * 0.10, "C"},
		{"Unit Price", cw * 0.15, "R"},
		{"Amount", cw * 0.15, "R"},
	}
}

func (w *pdfWriter) tableHeader(cols []column) {
	pdf := w.pdf
	pdf.SetFillColor(243, 244, 246)
	w.font("B", 10)
	for i, col := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		pdf.CellFormat(col.width, 7, col.title, "", ln, col.align, true, 0, "")
	}
	w.font("", 10)
}

func (w *pdfWriter) table(inv invoice.Invoice, sym string, gst bool) {
	pdf := w.pdf
	cols := w.columns(gst)
	w.tableHeader(cols)
	pdf.SetDrawColor(238, 238, 238)
	pdf.SetLineWidth(0.3)

	for _, it := range inv.Items {
		desc := w.wrap(w.text(it.Description), cols[0].width-2)
		h := float64(len(desc))*lineH + 2
		if w.ensure(h) {
			w.tableHeader(cols)
		}

		cells := []string{}
		if gst {
			cells = append(cells, w.text(hsnOrNA(it.HSN)))
		}
		cells = append(cells,
			w.text(Quantity(it.Quantity)),
			w.text(Money(sym, it.Price)),
			w.text(Money(sym, invoice.LineAmount(it))),
		)

		x0, y0 := pdf.GetXY()
		for i, line := range desc {
			pdf.SetXY(x0+1, y0+1+float64(i)*lineH)
			pdf.CellFormat(cols[0].width-2, lineH, line, "", 0, "L", false, 0, "")
		}
		x := x0 + cols[0].width
		for i, cell := range cells {
			col := cols[i+1]
			pdf.SetXY(x, y0)
			pdf.CellFormat(col.width, h, cell, "", 0, col.align, false, 0, "")
			x += col.width
		}
		pdf.Line(x0, y0+h, x0+w.contentW, y0+h)
		pdf.SetXY(x0, y0+h)
	}
	pdf.Ln(8)
}

func (w *pdfWriter) summary(inv invoice.Invoice, totals invoice.Totals, sym string) {
	pdf := w.pdf
	rows := [][2]string{{"Subtotal", Money(sym, totals.Subtotal)}}
	for _, tl := range totals.TaxLines(inv) {
		rows = append(rows, [2]string{tl.Label, Money(sym, tl.Amount)})
	}
	if inv.Discount > 0 {
		rows = append(rows, [2]string{"Discount", Deduction(sym, inv.Discount)})
	}
	w.ensure(float64(len(rows))*6 + 12)

	boxW := w.contentW * 0.4
	boxX := marginMM + w.contentW - boxW
	w.font("", 10)
	for _, r := range rows {
		pdf.SetX(boxX)
		pdf.CellFormat(boxW/2, 6, w.text(r[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(boxW/2, 6, w.text(r[1]), "", 1, "R", false, 0, "")
	}
	pdf.SetDrawColor(221, 221, 221)
	pdf.SetLineWidth(0.6)
	pdf.Line(boxX, pdf.GetY()+1, boxX+boxW, pdf.GetY()+1)
	pdf.Ln(2)
	pdf.SetX(boxX)
	w.font("B", 14)
	pdf.CellFormat(boxW/2, 8, "Total", "", 0, "L", false, 0, "")
	pdf.CellFormat(boxW/2, 8, w.text(Money(sym, totals.Total)), "", 1, "R", false, 0, "")
}

func (w *pdfWriter) footer(inv invoice.Invoice, sigPNG []byte) {
	pdf := w.pdf
	const sigH = 14.0
	w.ensure(sigH + 30)
	pdf.Ln(12)

	pdf.SetDrawColor(221, 221, 221)
	pdf.SetLineWidth(0.6)
	pdf.Line(marginMM, pdf.GetY(), marginMM+w.contentW, pdf.GetY())
	pdf.Ln(4)

	x0, y0 := pdf.GetXY()
	half := w.contentW / 2
	sigW := w.contentW * 0.3
	sigX := x0 + w.contentW - sigW

	// signature block, right-aligned
	if len(sigPNG) > 0 {
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		info := pdf.RegisterImageOptionsReader("signature", opts, bytes.NewReader(sigPNG))
		imgW := sigH
		if info != nil && info.Height() > 0 {
			imgW = sigH * info.Width() / info.Height()
		}
		imgW = min(imgW, sigW)
		pdf.ImageOptions("signature", sigX+(sigW-imgW)/2, y0, imgW, 0, false, opts, 0, "")
	} else {
		pdf.SetXY(sigX, y0+sigH/2-lineH/2)
		w.font("", 10)
		w.gray()
		pdf.CellFormat(sigW, lineH, w.text(signatureFallback(inv.YourCompany)), "", 0, "C", false, 0, "")
	}
	pdf.SetDrawColor(85, 85, 85)
	pdf.SetLineWidth(0.3)
	pdf.Line(sigX, y0+sigH+2, sigX+sigW, y0+sigH+2)
	pdf.SetXY(sigX, y0+sigH+3)
	w.black()
	w.font("", 10)
	pdf.CellFormat(sigW, lineH, SignatoryLabel, "", 0, "C", false, 0, "")

	// thank-you note and payment method, bottom-left
	pdf.SetXY(x0, y0+sigH-2)
	w.font("I", 9)
	w.gray()
	pdf.CellFormat(half, 4.5, ThankYouNote, "", 2, "L", false, 0, "")
	if inv.PaymentMethod != "" {
		w.font("", 9)
		pdf.CellFormat(half, 4.5, w.text("Payment Method: "+inv.PaymentMethod), "", 2, "L", false, 0, "")
	}
	w.black()
}
