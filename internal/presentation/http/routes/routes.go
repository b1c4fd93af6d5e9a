package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/cleanops-api/internal/config"
	domainRepo "github.com/sangkips/cleanops-api/internal/domain/repository"
	"github.com/sangkips/cleanops-api/internal/presentation/http/dto/request"
	"github.com/sangkips/cleanops-api/internal/presentation/http/handler"
	"github.com/sangkips/cleanops-api/internal/presentation/http/middleware"
	"github.com/sangkips/cleanops-api/pkg/utils"
)

// PublicPrefix is served to tenant websites without authentication
const PublicPrefix = "/api/v1/public"

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Tenant    *handler.TenantHandler
	Client    *handler.ClientHandler
	Lead      *handler.LeadHandler
	Estimate  *handler.EstimateHandler
	Job       *handler.JobHandler
	Invoice   *handler.InvoiceHandler
	Payment   *handler.PaymentHandler
	Dashboard *handler.DashboardHandler
	Admin     *handler.AdminHandler
	Intake    *handler.IntakeHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	TenantResolver  middleware.TenantResolver
	Metrics         *middleware.HTTPMetrics
	RateLimiter     *middleware.RateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	request.UseJSONFieldNames()

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
	}
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS, PublicPrefix))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	if deps.Metrics != nil {
		router.GET("/metrics", deps.Metrics.Handler())
	}

	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: deps.Cfg.RateLimit.RequestsPerSecond,
			BurstSize:         deps.Cfg.RateLimit.Burst,
		})
	}

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, h)
		registerPublicRoutes(v1, h, limiter)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		registerProfileRoutes(protected, h)
		registerAdminRoutes(protected, h)

		business := protected.Group("")
		business.Use(middleware.TenantMiddleware(deps.TenantResolver, deps.Cfg.App.BaseDomain))
		business.Use(limiter.Middleware())
		registerBusinessRoutes(business, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerPublicRoutes(v1 *gin.RouterGroup, h *Handlers, limiter *middleware.RateLimiter) {
	public := v1.Group("/public")
	public.Use(limiter.Middleware())
	{
		public.GET("/service-types", h.Intake.ListServiceTypes)
		public.POST("/forms/:tenant_slug", h.Intake.Submit)
	}
}

func registerProfileRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)
	protected.GET("/tenants", h.Tenant.ListMine)
}

func registerAdminRoutes(protected *gin.RouterGroup, h *Handlers) {
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireSuperAdmin())
	{
		admin.GET("/stats", h.Admin.Stats)
		admin.GET("/tenants", h.Admin.ListTenants)
		admin.PATCH("/tenants/:id/active", h.Admin.SetTenantActive)
		admin.POST("/memberships", h.Admin.AssignUser)
		admin.POST("/users/:id/super-admin", h.Admin.GrantSuperAdmin)
	}
}

// registerBusinessRoutes mounts everything that runs inside one tenant
func registerBusinessRoutes(business *gin.RouterGroup, h *Handlers, deps *Deps) {
	business.GET("/dashboard", h.Dashboard.GetStats)

	registerTeamRoutes(business, h)
	registerClientRoutes(business, h)
	registerLeadRoutes(business, h)
	registerEstimateRoutes(business, h)
	registerJobRoutes(business, h)
	registerInvoiceRoutes(business, h, deps)
	registerPaymentRoutes(business, h)
}

func registerTeamRoutes(business *gin.RouterGroup, h *Handlers) {
	business.GET("/tenant", h.Tenant.GetCurrent)
	business.PUT("/tenant", h.Tenant.Update)

	team := business.Group("/team")
	{
		team.GET("", h.Tenant.ListMembers)
		team.POST("", h.Tenant.InviteMember)
		team.PUT("/:user_id", h.Tenant.UpdateMemberRole)
		team.DELETE("/:user_id", h.Tenant.RemoveMember)
	}
}

func registerClientRoutes(business *gin.RouterGroup, h *Handlers) {
	clients := business.Group("/clients")
	{
		clients.GET("", h.Client.List)
		clients.POST("", h.Client.Create)
		clients.GET("/:id", h.Client.Get)
		clients.PUT("/:id", h.Client.Update)
		clients.DELETE("/:id", h.Client.Delete)
		clients.GET("/:id/properties", h.Client.ListProperties)
		clients.POST("/:id/properties", h.Client.AddProperty)
	}

	properties := business.Group("/properties")
	{
		properties.GET("/:id", h.Client.GetProperty)
		properties.PUT("/:id", h.Client.UpdateProperty)
		properties.DELETE("/:id", h.Client.DeleteProperty)
	}
}

func registerLeadRoutes(business *gin.RouterGroup, h *Handlers) {
	leads := business.Group("/leads")
	{
		leads.GET("", h.Lead.List)
		leads.POST("", h.Lead.Create)
		leads.GET("/:id", h.Lead.Get)
		leads.PUT("/:id", h.Lead.Update)
		leads.PATCH("/:id/status", h.Lead.UpdateStatus)
		leads.POST("/:id/convert", h.Lead.Convert)
		leads.DELETE("/:id", h.Lead.Delete)
	}
}

func registerEstimateRoutes(business *gin.RouterGroup, h *Handlers) {
	estimates := business.Group("/estimates")
	{
		estimates.GET("", h.Estimate.List)
		estimates.POST("", h.Estimate.Create)
		estimates.GET("/:id", h.Estimate.Get)
		estimates.PUT("/:id", h.Estimate.Update)
		estimates.PATCH("/:id/status", h.Estimate.UpdateStatus)
		estimates.POST("/:id/convert", h.Estimate.Convert)
		estimates.DELETE("/:id", h.Estimate.Delete)
	}
}

func registerJobRoutes(business *gin.RouterGroup, h *Handlers) {
	jobs := business.Group("/jobs")
	{
		jobs.GET("", h.Job.List)
		jobs.POST("", h.Job.Create)
		jobs.GET("/:id", h.Job.Get)
		jobs.PUT("/:id", h.Job.Update)
		jobs.PATCH("/:id/status", h.Job.UpdateStatus)
		jobs.DELETE("/:id", h.Job.Delete)
		jobs.POST("/:id/visits", h.Job.AddVisit)
		jobs.POST("/:id/visits/:visit_id/complete", h.Job.CompleteVisit)
		jobs.POST("/:id/invoice", h.Job.CreateInvoice)
	}

	business.GET("/visits", h.Job.Calendar)
}

func registerInvoiceRoutes(business *gin.RouterGroup, h *Handlers, deps *Deps) {
	// retried payment posts replay the first response instead of paying twice
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo})

	invoices := business.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.POST("", h.Invoice.Create)
		invoices.POST("/preview", h.Invoice.Preview)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.PUT("/:id", h.Invoice.Update)
		invoices.PATCH("/:id/status", h.Invoice.UpdateStatus)
		invoices.DELETE("/:id", h.Invoice.Delete)
		invoices.GET("/:id/pdf", h.Invoice.PDF)
		invoices.POST("/:id/send", h.Invoice.Send)
		invoices.GET("/:id/payments", h.Payment.ListForInvoice)
		invoices.POST("/:id/payments", idempotent, h.Payment.Record)
	}
}

func registerPaymentRoutes(business *gin.RouterGroup, h *Handlers) {
	payments := business.Group("/payments")
	{
		payments.GET("", h.Payment.List)
		payments.DELETE("/:id", h.Payment.Delete)
	}
}
