package router

import (
	"context"

	"invoicegen/internal/config"
	"invoicegen/internal/handler"
	"invoicegen/internal/infra"
	"invoicegen/internal/middleware"
	"invoicegen/internal/numbering"
	"invoicegen/internal/render"
	"invoicegen/internal/repository"
	"invoicegen/internal/service"
	"invoicegen/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the infrastructure handles built by the composition root.
// Redis is optional: without it numbering lives in Store (memory) and email
// delivery answers 503. Ctx bounds background loops such as the rate limiter
// purge; nil skips them.
type Deps struct {
	Ctx      context.Context
	DB       *gorm.DB
	Redis    *redis.Client
	Store    numbering.Store
	SMTPCB   *infra.CircuitBreaker
	Renderer render.Document
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, d Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	// ── Repositories ─────────────────────────────────────────────────────────
	accountRepo := repository.NewAccountRepository(d.DB)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(accountRepo, cfg)
	exportSvc := service.NewExportService(d.Renderer)
	workspaceSvc := service.NewWorkspaceService(d.Store, cfg.InvoiceNumberPrefix, cfg.DefaultCurrency)

	// Worker dispatcher, only when there is a queue to push to
	var queue service.EmailQueue
	if d.Redis != nil {
		queue = worker.NewDispatcher(d.Redis)
	}
	emailSvc := service.NewEmailService(queue)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	invoiceH := handler.NewInvoiceHandler(exportSvc)
	workspaceH := handler.NewWorkspaceHandler(workspaceSvc)
	emailH := handler.NewEmailHandler(emailSvc)

	// ── Rate limiters ────────────────────────────────────────────────────────
	loginLimit := middleware.NewRateLimiter("login", cfg.AuthRateLimit, cfg.RateLimitWindow, "too many login attempts, try again later")
	signupLimit := middleware.NewRateLimiter("signup", cfg.AuthRateLimit, cfg.RateLimitWindow, "too many signup attempts, try again later")
	renderLimiter := middleware.NewRateLimiter("render", cfg.RenderRateLimit, cfg.RateLimitWindow, "too many requests, slow down")
	if d.Ctx != nil {
		for _, l := range []*middleware.RateLimiter{loginLimit, signupLimit, renderLimiter} {
			go l.Run(d.Ctx)
		}
	}

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(d.DB, d.Redis, d.SMTPCB))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", loginLimit.Handler(), authH.Login)
		auth.POST("/signup", signupLimit.Handler(), authH.Signup)
		auth.POST("/refresh", authH.Refresh)
	}

	// Rendering is stateless and public
	renderLimit := renderLimiter.Handler()
	r.POST("/v1/generate-pdf", renderLimit, invoiceH.GeneratePDF)
	r.POST("/api/generate-pdf", renderLimit, invoiceH.GeneratePDF)
	invoices := r.Group("/v1/invoices", renderLimit)
	{
		invoices.POST("/preview", invoiceH.Preview)
		invoices.POST("/html", invoiceH.HTML)
		invoices.POST("/totals", invoiceH.Totals)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	r.POST("/v1/invoices/email", jwtMW, renderLimit, emailH.Send)

	ws := r.Group("/v1/workspace", jwtMW)
	{
		ws.GET("/draft", workspaceH.Draft)
		ws.POST("/new", workspaceH.NewInvoice)
		ws.GET("/biller", workspaceH.GetBiller)
		ws.PUT("/biller", workspaceH.SaveBiller)
	}

	// Swagger UI, only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
