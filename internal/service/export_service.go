package service

import (
	"context"
	"errors"
	"fmt"

	"invoicegen/internal/dto"
	"invoicegen/internal/invoice"
	"invoicegen/internal/render"

	"github.com/rs/zerolog/log"
)

// ErrRenderFailed wraps any renderer failure, panics included.
var ErrRenderFailed = errors.New("render failed")

// ExportService turns an invoice into its artifacts. It holds no state; every
// call renders from scratch.
type ExportService interface {
	RenderPDF(ctx context.Context, inv invoice.Invoice) (pdf []byte, filename string, err error)
	RenderHTML(ctx context.Context, inv invoice.Invoice) (string, error)
	Preview(inv invoice.Invoice) render.PreviewView
	Totals(inv invoice.Invoice) dto.TotalsResponse
}

type exportService struct {
	doc render.Document
}

func NewExportService(doc render.Document) ExportService {
	return &exportService{doc: doc}
}

func (s *exportService) RenderPDF(_ context.Context, inv invoice.Invoice) (pdf []byte, filename string, err error) {
	defer recoverRender(&err)
	out, err := s.doc.Render(inv)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	return out, render.PDFFilename(inv.InvoiceNumber), nil
}

func (s *exportService) RenderHTML(_ context.Context, inv invoice.Invoice) (html string, err error) {
	defer recoverRender(&err)
	out, err := render.HTML(inv)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	return out, nil
}

func (s *exportService) Preview(inv invoice.Invoice) render.PreviewView {
	return render.Preview(inv)
}

func (s *exportService) Totals(inv invoice.Invoice) dto.TotalsResponse {
	t := invoice.Compute(inv)
	sym := render.CurrencySymbol(inv.Currency)
	lines := t.TaxLines(inv)

	resp := dto.TotalsResponse{
		Title:    invoice.DocumentTitle(inv),
		Totals:   t,
		TaxLines: lines,
		Formatted: dto.FormattedTotals{
			Subtotal: render.Money(sym, t.Subtotal),
			TaxLines: make(map[string]string, len(lines)),
			Total:    render.Money(sym, t.Total),
		},
	}
	if resp.TaxLines == nil {
		resp.TaxLines = []invoice.TaxLine{}
	}
	for _, tl := range lines {
		resp.Formatted.TaxLines[tl.Label] = render.Money(sym, tl.Amount)
	}
	if inv.Discount > 0 {
		resp.Formatted.Discount = render.Deduction(sym, inv.Discount)
	}
	return resp
}

// recoverRender converts a renderer panic into ErrRenderFailed.
func recoverRender(err *error) {
	if r := recover(); r != nil {
		log.Error().Interface("panic", r).Msg("renderer panicked")
		*err = fmt.Errorf("%w: panic: %v", ErrRenderFailed, r)
	}
}
