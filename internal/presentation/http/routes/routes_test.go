package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/application/service"
	"github.com/sangkips/cleanops-api/internal/config"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/internal/infrastructure/database"
	"github.com/sangkips/cleanops-api/internal/infrastructure/repository"
	"github.com/sangkips/cleanops-api/internal/presentation/http/handler"
	"github.com/sangkips/cleanops-api/internal/presentation/http/middleware"
	"github.com/sangkips/cleanops-api/pkg/email"
	"github.com/sangkips/cleanops-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	token  string
	slug   string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))
	types := entity.DefaultServiceTypes()
	require.NoError(t, db.Create(&types).Error)

	cfg := &config.Config{
		App:       config.AppConfig{Name: "cleanops-api", BaseDomain: "cleanops.app"},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
	}

	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	mailer := email.NewEmailService(email.EmailConfig{SMTPHost: "smtp.test", SMTPPort: 25, FromEmail: "billing@test"}).
		WithSender(func(string, smtp.Auth, string, []string, []byte) error { return nil })

	userRepo := repository.NewUserRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	clientRepo := repository.NewClientRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	tenantService := service.NewTenantService(tenantRepo, userRepo)
	jobRepo := repository.NewJobRepository(db)
	invoiceService := service.NewInvoiceService(invoiceRepo, tenantRepo, clientRepo, propertyRepo, jobRepo, mailer)
	jobService := service.NewJobService(jobRepo, tenantRepo, clientRepo, propertyRepo, invoiceService)

	h := &Handlers{
		Auth:      handler.NewAuthHandler(service.NewAuthService(userRepo, tenantRepo, repository.NewPasswordResetRepository(db), jwtManager, mailer, nil), false),
		Tenant:    handler.NewTenantHandler(tenantService),
		Client:    handler.NewClientHandler(service.NewClientService(clientRepo, propertyRepo)),
		Lead:      handler.NewLeadHandler(service.NewLeadService(leadRepo)),
		Estimate:  handler.NewEstimateHandler(service.NewEstimateService(repository.NewEstimateRepository(db), tenantRepo, clientRepo, propertyRepo)),
		Job:       handler.NewJobHandler(jobService),
		Invoice:   handler.NewInvoiceHandler(invoiceService),
		Payment:   handler.NewPaymentHandler(service.NewPaymentService(repository.NewPaymentRepository(db), invoiceService)),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(invoiceRepo, analyticsRepo)),
		Admin:     handler.NewAdminHandler(service.NewAdminService(tenantRepo, userRepo, analyticsRepo)),
		Intake:    handler.NewIntakeHandler(service.NewIntakeService(tenantRepo, leadRepo, repository.NewServiceTypeRepository(db))),
	}

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{RequestsPerSecond: 100, BurstSize: 100})
	t.Cleanup(limiter.Close)

	router := Setup(h, &Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: repository.NewIdempotencyRepository(db),
		TenantResolver:  tenantService,
		Metrics:         middleware.NewHTTPMetrics(),
		RateLimiter:     limiter,
	})
	return &testAPI{t: t, router: router}
}

func (a *testAPI) do(method, path string, body interface{}, headers ...string) (*httptest.ResponseRecorder, *envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	if a.slug != "" {
		req.Header.Set(middleware.TenantHeader, a.slug)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "application/pdf" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, &env
}

func decode(t *testing.T, env *envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

// register signs up an owner and acts as them inside their new business
func (a *testAPI) register() (intakeToken string) {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"first_name":       "Olive",
		"last_name":        "Owner",
		"email":            "olive@sparkle.test",
		"password":         "a-long-password",
		"password_confirm": "a-long-password",
		"business_name":    "Sparkle Cleaning",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var auth struct {
		AccessToken string `json:"access_token"`
		Tenants     []struct {
			Slug     string `json:"slug"`
			Settings struct {
				IntakeFormToken string `json:"intake_form_token"`
			} `json:"settings"`
		} `json:"tenants"`
	}
	decode(a.t, env, &auth)
	require.Len(a.t, auth.Tenants, 1)
	a.token = auth.AccessToken
	a.slug = auth.Tenants[0].Slug
	return auth.Tenants[0].Settings.IntakeFormToken
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)

	w, _ := api.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = api.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `route="/health"`)
}

func TestRegisterValidation(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"first_name":       "Olive",
		"email":            "not-an-email",
		"password":         "a-long-password",
		"password_confirm": "different",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	fields := make([]string, len(env.Errors))
	for i, fe := range env.Errors {
		fields[i] = fe.Field
	}
	assert.ElementsMatch(t, []string{"email", "password_confirm"}, fields)
}

func TestTenantRoutesRequireAuthAndTenant(t *testing.T) {
	api := newTestAPI(t)

	w, _ := api.do(http.MethodGet, "/api/v1/clients", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	api.register()
	slug := api.slug

	api.slug = ""
	w, _ = api.do(http.MethodGet, "/api/v1/clients", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	api.slug = "someone-else"
	w, _ = api.do(http.MethodGet, "/api/v1/clients", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	api.slug = slug
	w, _ = api.do(http.MethodGet, "/api/v1/clients", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = api.do(http.MethodGet, "/api/v1/admin/stats", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestInvoicePaymentFlow(t *testing.T) {
	api := newTestAPI(t)
	api.register()

	w, env := api.do(http.MethodPost, "/api/v1/clients", map[string]interface{}{
		"name":   "Jane Doe",
		"emails": []map[string]string{{"label": "primary", "address": "jane@example.com"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var client struct {
		ID uuid.UUID `json:"id"`
	}
	decode(t, env, &client)

	w, env = api.do(http.MethodPost, "/api/v1/invoices", map[string]interface{}{
		"client_id": client.ID,
		"line_items": []map[string]string{
			{"description": "Standard clean", "quantity": "2", "unit_price": "50"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	type invoiceBody struct {
		ID      uuid.UUID `json:"id"`
		Status  string    `json:"status"`
		Pricing struct {
			Subtotal  string `json:"subtotal"`
			TaxAmount string `json:"tax_amount"`
			Total     string `json:"total"`
		} `json:"pricing"`
		Payments struct {
			AmountPaid string `json:"amount_paid"`
			BalanceDue string `json:"balance_due"`
		} `json:"payments"`
		PaymentState string `json:"payment_state"`
	}
	var invoice invoiceBody
	decode(t, env, &invoice)
	assert.Equal(t, "100.00", invoice.Pricing.Subtotal)
	assert.Equal(t, "13.00", invoice.Pricing.TaxAmount)
	assert.Equal(t, "113.00", invoice.Pricing.Total)
	assert.Equal(t, "unpaid", invoice.PaymentState)

	paymentPath := "/api/v1/invoices/" + invoice.ID.String() + "/payments"
	payment := map[string]string{"amount": "50", "method": "cash"}

	// drafts cannot be paid
	w, _ = api.do(http.MethodPost, paymentPath, payment)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = api.do(http.MethodPatch, "/api/v1/invoices/"+invoice.ID.String()+"/status", map[string]string{"status": "sent"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = api.do(http.MethodPost, paymentPath, map[string]string{"amount": "50", "method": "barter"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	first, env := api.do(http.MethodPost, paymentPath, payment, middleware.IdempotencyKeyHeader, "pay-1")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	var recorded struct {
		Invoice     invoiceBody `json:"invoice"`
		Overpayment bool        `json:"overpayment"`
	}
	decode(t, env, &recorded)
	assert.Equal(t, "63.00", recorded.Invoice.Payments.BalanceDue)
	assert.Equal(t, "partial", recorded.Invoice.PaymentState)
	assert.False(t, recorded.Overpayment)

	replay, _ := api.do(http.MethodPost, paymentPath, payment, middleware.IdempotencyKeyHeader, "pay-1")
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("X-Idempotency-Replayed"))

	w, env = api.do(http.MethodGet, paymentPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var payments []json.RawMessage
	decode(t, env, &payments)
	assert.Len(t, payments, 1)

	w, env = api.do(http.MethodPost, paymentPath, map[string]string{"amount": "100", "method": "e_transfer"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decode(t, env, &recorded)
	assert.True(t, recorded.Overpayment)
	assert.Equal(t, "-37.00", recorded.Invoice.Payments.BalanceDue)
	assert.Equal(t, "overpaid", recorded.Invoice.PaymentState)

	w, env = api.do(http.MethodGet, "/api/v1/payments?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var page struct {
		Items      []json.RawMessage `json:"items"`
		Collected  string            `json:"collected"`
		Pagination struct {
			HasNext bool `json:"has_next"`
		} `json:"pagination"`
	}
	decode(t, env, &page)
	assert.Len(t, page.Items, 1)
	assert.True(t, page.Pagination.HasNext)
	assert.Equal(t, "150.00", page.Collected)

	w, _ = api.do(http.MethodGet, "/api/v1/payments?cursor=not*valid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodGet, "/api/v1/dashboard", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInvoicePreviewToleratesBadInput(t *testing.T) {
	api := newTestAPI(t)
	api.register()

	w, env := api.do(http.MethodPost, "/api/v1/invoices/preview", map[string]interface{}{
		"line_items": []map[string]interface{}{
			{"quantity": "2", "unit_price": 49.995},
			{"quantity": "abc", "unit_price": "10"},
			{"quantity": nil, "unit_price": true},
			{"quantity": "1e99999999", "unit_price": "1"},
		},
		"tax_rate": "13",
		"payments": []interface{}{"20", "oops", 5, "-1e-99999999"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var summary struct {
		Pricing struct {
			Subtotal string `json:"subtotal"`
			Total    string `json:"total"`
		} `json:"pricing"`
		Payments struct {
			AmountPaid string `json:"amount_paid"`
		} `json:"payments"`
	}
	decode(t, env, &summary)
	assert.Equal(t, "99.99", summary.Pricing.Subtotal)
	assert.Equal(t, "25.00", summary.Payments.AmountPaid)
}

func TestPublicIntakeForm(t *testing.T) {
	api := newTestAPI(t)
	token := api.register()
	require.NotEmpty(t, token)
	slug := api.slug
	ownerToken := api.token

	// the form is posted anonymously from the business website
	api.token, api.slug = "", ""

	w, env := api.do(http.MethodGet, "/api/v1/public/service-types", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var types []entity.ServiceType
	decode(t, env, &types)
	assert.NotEmpty(t, types)

	form := map[string]interface{}{
		"name":     "Robin Hill",
		"email":    "robin@example.com",
		"services": []string{"Deep Clean"},
	}

	w, _ = api.do(http.MethodPost, "/api/v1/public/forms/"+slug, form)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = api.do(http.MethodPost, "/api/v1/public/forms/"+slug, form, handler.FormTokenHeader, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var received struct {
		Received bool       `json:"received"`
		LeadID   *uuid.UUID `json:"lead_id"`
	}
	decode(t, env, &received)
	assert.True(t, received.Received)
	require.NotNil(t, received.LeadID)

	form["token"] = token
	form["website"] = "http://spam.test"
	w, _ = api.do(http.MethodPost, "/api/v1/public/forms/"+slug, form)
	assert.Equal(t, http.StatusAccepted, w.Code)

	api.token, api.slug = ownerToken, slug
	w, env = api.do(http.MethodGet, "/api/v1/leads/"+received.LeadID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var lead struct {
		Source       string   `json:"source"`
		ServiceTypes []string `json:"service_types"`
	}
	decode(t, env, &lead)
	assert.Equal(t, entity.LeadSourceWebsite, lead.Source)
	assert.Equal(t, []string{"deep-clean"}, lead.ServiceTypes)
}
