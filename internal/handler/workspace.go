package handler

import (
	"net/http"

	"invoicegen/internal/dto"
	"invoicegen/internal/middleware"
	"invoicegen/internal/service"

	"github.com/gin-gonic/gin"
)

// WorkspaceHandler exposes the per-account counter and biller profile.
// Every route sits behind JWTAuth; the account id scopes the stored keys.
type WorkspaceHandler struct{ svc service.WorkspaceService }

func NewWorkspaceHandler(svc service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{svc: svc}
}

// Draft godoc
// @Summary Invoice shown on load (current number, not consumed)
// @Tags workspace
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.WorkspaceResponse
// @Router /v1/workspace/draft [get]
func (h *WorkspaceHandler) Draft(c *gin.Context) {
	resp, err := h.svc.Draft(c.Request.Context(), middleware.GetClaims(c).UserID)
	if err != nil {
		internalError(c, err, "workspace draft failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// NewInvoice godoc
// @Summary Start a new invoice (advances the counter, keeps the biller)
// @Tags workspace
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.WorkspaceResponse
// @Router /v1/workspace/new [post]
func (h *WorkspaceHandler) NewInvoice(c *gin.Context) {
	resp, err := h.svc.NewInvoice(c.Request.Context(), middleware.GetClaims(c).UserID)
	if err != nil {
		internalError(c, err, "workspace new invoice failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetBiller godoc
// @Summary Saved biller profile
// @Tags workspace
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.BillerResponse
// @Router /v1/workspace/biller [get]
func (h *WorkspaceHandler) GetBiller(c *gin.Context) {
	biller, err := h.svc.GetBiller(c.Request.Context(), middleware.GetClaims(c).UserID)
	if err != nil {
		internalError(c, err, "load biller failed")
		return
	}
	c.JSON(http.StatusOK, dto.BillerResponse{Biller: dto.FromCompany(biller)})
}

// SaveBiller godoc
// @Summary Save the biller profile (ignored when the name is empty)
// @Tags workspace
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.CompanyPayload true "Biller"
// @Success 200 {object} dto.SaveBillerResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/workspace/biller [put]
func (h *WorkspaceHandler) SaveBiller(c *gin.Context) {
	var req dto.CompanyPayload
	if !bindJSON(c, &req) {
		return
	}
	saved, err := h.svc.SaveBiller(c.Request.Context(), middleware.GetClaims(c).UserID, req.ToCompany())
	if err != nil {
		internalError(c, err, "save biller failed")
		return
	}
	c.JSON(http.StatusOK, dto.SaveBillerResponse{Saved: saved, Biller: req})
}
