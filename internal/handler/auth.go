package handler

import (
	"errors"
	"net/http"

	"invoicegen/internal/apierror"
	"invoicegen/internal/dto"
	"invoicegen/internal/middleware"
	"invoicegen/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} apierror.ValidationError
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, apierror.New(apierror.MsgInvalidCredentials))
		return
	}
	if err != nil {
		internalError(c, err, "login failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Signup godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.SignupRequest true "New account"
// @Success 201 {object} dto.SignupResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if !bindAndValidate(c, &req) {
		return
	}

	acc, err := h.svc.Signup(c.Request.Context(), req)
	if errors.Is(err, service.ErrAccountExists) {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if err != nil {
		internalError(c, err, "signup failed")
		return
	}
	c.JSON(http.StatusCreated, dto.SignupResponse{Message: "account created", Account: *acc})
}

// Refresh godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if errors.Is(err, service.ErrInvalidToken) {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	if err != nil {
		internalError(c, err, "refresh failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// internalError logs err with the request id and answers a generic 500.
func internalError(c *gin.Context, err error, msg string) {
	log.Error().
		Err(err).
		Str("request_id", c.GetString(middleware.RequestIDKey)).
		Str("path", c.Request.URL.Path).
		Msg(msg)
	c.JSON(http.StatusInternalServerError, apierror.New(apierror.MsgInternal))
}
