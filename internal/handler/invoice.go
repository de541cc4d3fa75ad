package handler

import (
	"fmt"
	"net/http"

	"invoicegen/internal/apierror"
	"invoicegen/internal/dto"
	"invoicegen/internal/invoice"
	"invoicegen/internal/middleware"
	"invoicegen/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// InvoiceHandler serves the stateless render endpoints. The payload is taken
// as-is: no field is required and numbers are not range-checked.
type InvoiceHandler struct{ svc service.ExportService }

func NewInvoiceHandler(svc service.ExportService) *InvoiceHandler {
	return &InvoiceHandler{svc: svc}
}

// bindInvoice decodes the body into the domain invoice. Writes the 400/413
// response and returns false on failure.
func bindInvoice(c *gin.Context) (invoice.Invoice, bool) {
	var p dto.InvoicePayload
	if !bindJSON(c, &p) {
		return invoice.Invoice{}, false
	}
	inv, err := p.ToInvoice()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return invoice.Invoice{}, false
	}
	return inv, true
}

// GeneratePDF godoc
// @Summary Render the invoice as a downloadable PDF
// @Tags invoices
// @Accept json
// @Produce application/pdf
// @Param body body dto.InvoicePayload true "Invoice"
// @Success 200 {file} binary
// @Failure 400 {object} apierror.APIError
// @Failure 413 {object} apierror.APIError
// @Failure 500 {object} apierror.APIError
// @Router /v1/generate-pdf [post]
func (h *InvoiceHandler) GeneratePDF(c *gin.Context) {
	inv, ok := bindInvoice(c)
	if !ok {
		return
	}

	pdf, filename, err := h.svc.RenderPDF(c.Request.Context(), inv)
	if err != nil {
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("invoice", inv.InvoiceNumber).
			Msg("pdf generation failed")
		c.JSON(http.StatusInternalServerError, apierror.New(apierror.MsgPDFFailed))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Preview godoc
// @Summary Display model for the live preview
// @Tags invoices
// @Accept json
// @Produce json
// @Param body body dto.InvoicePayload true "Invoice"
// @Success 200 {object} render.PreviewView
// @Failure 400 {object} apierror.APIError
// @Router /v1/invoices/preview [post]
func (h *InvoiceHandler) Preview(c *gin.Context) {
	inv, ok := bindInvoice(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.svc.Preview(inv))
}

// HTML godoc
// @Summary Render the invoice as an HTML snapshot
// @Tags invoices
// @Accept json
// @Produce html
// @Param body body dto.InvoicePayload true "Invoice"
// @Success 200 {string} string
// @Failure 400 {object} apierror.APIError
// @Router /v1/invoices/html [post]
func (h *InvoiceHandler) HTML(c *gin.Context) {
	inv, ok := bindInvoice(c)
	if !ok {
		return
	}
	out, err := h.svc.RenderHTML(c.Request.Context(), inv)
	if err != nil {
		internalError(c, err, "html rendering failed")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out))
}

// Totals godoc
// @Summary Computed totals, raw and formatted
// @Tags invoices
// @Accept json
// @Produce json
// @Param body body dto.InvoicePayload true "Invoice"
// @Success 200 {object} dto.TotalsResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/invoices/totals [post]
func (h *InvoiceHandler) Totals(c *gin.Context) {
	inv, ok := bindInvoice(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.svc.Totals(inv))
}
