package router_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"invoicegen/internal/config"
	"invoicegen/internal/infra"
	"invoicegen/internal/numbering"
	"invoicegen/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testEngine(env string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Env:                 env,
		JWTSecret:           "s",
		MaxBodyBytes:        5 << 20,
		InvoiceNumberPrefix: "INV",
		DefaultCurrency:     "INR",
	}
	return router.New(cfg, router.Deps{
		Store:  numbering.NewMemoryStore(),
		SMTPCB: infra.NewCircuitBreaker(infra.SMTPBreakerConfig()),
	})
}

func send(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_PublicRenderRoutes(t *testing.T) {
	r := testEngine("development")

	for _, path := range []string{"/v1/generate-pdf", "/api/generate-pdf"} {
		w := send(r, http.MethodPost, path, `{"invoiceNumber":"7"}`)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"), path)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"), path)
	}
	assert.Equal(t, http.StatusOK, send(r, http.MethodPost, "/v1/invoices/totals", `{}`).Code)
}

func TestRouter_ProtectedRoutesNeedToken(t *testing.T) {
	r := testEngine("development")

	assert.Equal(t, http.StatusUnauthorized, send(r, http.MethodGet, "/v1/workspace/draft", "").Code)
	assert.Equal(t, http.StatusUnauthorized, send(r, http.MethodPost, "/v1/workspace/new", "").Code)
	assert.Equal(t, http.StatusUnauthorized, send(r, http.MethodPut, "/v1/workspace/biller", "{}").Code)
	assert.Equal(t, http.StatusUnauthorized, send(r, http.MethodPost, "/v1/invoices/email", "{}").Code)
}

func TestRouter_SwaggerHiddenInProduction(t *testing.T) {
	r := testEngine("production")
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodGet, "/swagger/index.html", "").Code)
}
