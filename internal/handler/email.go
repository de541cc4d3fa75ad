package handler

import (
	"errors"
	"net/http"

	"invoicegen/internal/apierror"
	"invoicegen/internal/dto"
	"invoicegen/internal/service"

	"github.com/gin-gonic/gin"
)

type EmailHandler struct{ svc service.EmailService }

func NewEmailHandler(svc service.EmailService) *EmailHandler { return &EmailHandler{svc: svc} }

// Send godoc
// @Summary Queue the invoice for delivery (HTML body, PDF attachment)
// @Tags invoices
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.EmailInvoiceRequest true "Recipient and invoice"
// @Success 202 {object} dto.EmailQueuedResponse
// @Failure 400 {object} apierror.APIError
// @Failure 503 {object} apierror.APIError
// @Router /v1/invoices/email [post]
func (h *EmailHandler) Send(c *gin.Context) {
	var req dto.EmailInvoiceRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Enqueue(c.Request.Context(), req)
	switch {
	case errors.Is(err, service.ErrQueueUnavailable):
		c.JSON(http.StatusServiceUnavailable, apierror.New(err.Error()))
	case errors.Is(err, dto.ErrUnknownGSTType):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case err != nil:
		internalError(c, err, "enqueue email failed")
	default:
		c.JSON(http.StatusAccepted, resp)
	}
}
