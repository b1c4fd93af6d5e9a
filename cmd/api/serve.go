package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sangkips/cleanops-api/internal/application/service"
	"github.com/sangkips/cleanops-api/internal/config"
	"github.com/sangkips/cleanops-api/internal/infrastructure/repository"
	"github.com/sangkips/cleanops-api/internal/presentation/http/handler"
	"github.com/sangkips/cleanops-api/internal/presentation/http/middleware"
	"github.com/sangkips/cleanops-api/internal/presentation/http/routes"
	"github.com/sangkips/cleanops-api/pkg/email"
	"github.com/sangkips/cleanops-api/pkg/oauth"
	"github.com/sangkips/cleanops-api/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	shutdownTimeout     = 15 * time.Second
	idempotencyPurgeTTL = time.Hour
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, h := wire(cfg, db)
	defer deps.RateLimiter.Close()
	go middleware.PurgeIdempotencyKeys(ctx, deps.IdempotencyRepo, idempotencyPurgeTTL)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           routes.Setup(h, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server started",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("http server stopped")
	return nil
}

// wire builds repositories, services and handlers over one database
func wire(cfg *config.Config, db *gorm.DB) (*routes.Deps, *routes.Handlers) {
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	clientRepo := repository.NewClientRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	estimateRepo := repository.NewEstimateRepository(db)
	jobRepo := repository.NewJobRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	mailer := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		FrontendURL:  cfg.App.FrontendURL,
	})

	google := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	// Services
	authService := service.NewAuthService(userRepo, tenantRepo, repository.NewPasswordResetRepository(db), jwtManager, mailer, google)
	tenantService := service.NewTenantService(tenantRepo, userRepo)
	clientService := service.NewClientService(clientRepo, propertyRepo)
	leadService := service.NewLeadService(leadRepo)
	estimateService := service.NewEstimateService(estimateRepo, tenantRepo, clientRepo, propertyRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, tenantRepo, clientRepo, propertyRepo, jobRepo, mailer)
	jobService := service.NewJobService(jobRepo, tenantRepo, clientRepo, propertyRepo, invoiceService)
	paymentService := service.NewPaymentService(paymentRepo, invoiceService)
	dashboardService := service.NewDashboardService(invoiceRepo, analyticsRepo)
	adminService := service.NewAdminService(tenantRepo, userRepo, analyticsRepo)
	intakeService := service.NewIntakeService(tenantRepo, leadRepo, repository.NewServiceTypeRepository(db))

	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService, cfg.App.Env == "production"),
		Tenant:    handler.NewTenantHandler(tenantService),
		Client:    handler.NewClientHandler(clientService),
		Lead:      handler.NewLeadHandler(leadService),
		Estimate:  handler.NewEstimateHandler(estimateService),
		Job:       handler.NewJobHandler(jobService),
		Invoice:   handler.NewInvoiceHandler(invoiceService),
		Payment:   handler.NewPaymentHandler(paymentService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Admin:     handler.NewAdminHandler(adminService),
		Intake:    handler.NewIntakeHandler(intakeService),
	}

	deps := &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		TenantResolver:  tenantService,
		Metrics:         middleware.NewHTTPMetrics(),
		RateLimiter: middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.Burst,
		}),
	}
	return deps, handlers
}
