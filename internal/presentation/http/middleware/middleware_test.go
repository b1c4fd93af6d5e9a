package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/application/service"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/internal/domain/tenancy"
	"github.com/sangkips/cleanops-api/pkg/apperror"
	"github.com/sangkips/cleanops-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestExtractTenantFromHost(t *testing.T) {
	tests := []struct {
		host    string
		want    string
		wantErr bool
	}{
		{host: "sparkle.cleanops.app", want: "sparkle"},
		{host: "Sparkle.CleanOps.app:8443", want: "sparkle"},
		{host: "cleanops.app", wantErr: true},
		{host: "www.cleanops.app", wantErr: true},
		{host: "api.cleanops.app", wantErr: true},
		{host: "a.b.cleanops.app", wantErr: true},
		{host: "sparkle.example.com", wantErr: true},
		{host: "localhost:8080", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			got, err := ExtractTenantFromHost(tt.host, "cleanops.app")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	userID := uuid.New()
	token, err := jwtManager.GenerateAccessToken(userID, "kim@example.com", []string{"user"}, false)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/me", AuthMiddleware(jwtManager), func(c *gin.Context) {
		c.String(http.StatusOK, GetUserID(c).String())
	})
	router.GET("/admin", AuthMiddleware(jwtManager), RequireSuperAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{name: "missing header", path: "/me", want: http.StatusUnauthorized},
		{name: "wrong scheme", path: "/me", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "garbage token", path: "/me", header: "Bearer abc", want: http.StatusUnauthorized},
		{name: "valid token", path: "/me", header: "Bearer " + token, want: http.StatusOK},
		{name: "not a super admin", path: "/admin", header: "Bearer " + token, want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK && tt.path == "/me" {
				assert.Equal(t, userID.String(), w.Body.String())
			}
		})
	}
}

type fakeResolver struct {
	tenant *entity.Tenant
	slugs  []string
}

func (f *fakeResolver) Resolve(_ context.Context, slug string, userID uuid.UUID, superAdmin bool) (*service.Access, error) {
	f.slugs = append(f.slugs, slug)
	if slug != f.tenant.Slug {
		return nil, apperror.NewNotFoundError("Tenant")
	}
	return &service.Access{
		Tenant: f.tenant,
		Scope:  tenancy.Scope{TenantID: f.tenant.ID, UserID: userID, SuperAdmin: superAdmin},
	}, nil
}

func TestTenantMiddleware(t *testing.T) {
	resolver := &fakeResolver{tenant: &entity.Tenant{ID: uuid.New(), Slug: "sparkle"}}
	userID := uuid.New()

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(ContextUserID, userID)
		c.Next()
	})
	router.Use(TenantMiddleware(resolver, "cleanops.app"))
	router.GET("/scope", func(c *gin.Context) {
		scope := GetScope(c)
		assert.Equal(t, userID, scope.UserID)
		c.String(http.StatusOK, scope.TenantID.String())
	})

	serve := func(host, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/scope", nil)
		req.Host = host
		if header != "" {
			req.Header.Set(TenantHeader, header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := serve("sparkle.cleanops.app", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, resolver.tenant.ID.String(), w.Body.String())

	// the header wins over the subdomain
	w = serve("other.cleanops.app", "sparkle")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve("api.cleanops.app", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve("missing.cleanops.app", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, []string{"sparkle", "sparkle", "missing"}, resolver.slugs)
}

func TestRateLimiterPerTenant(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	defer rl.Close()

	tenantA := tenancy.ForTenant(uuid.New(), uuid.New())
	tenantB := tenancy.ForTenant(uuid.New(), uuid.New())

	router := gin.New()
	router.GET("/ping", func(c *gin.Context) {
		switch c.Query("tenant") {
		case "a":
			c.Set(ContextScope, tenantA)
		case "b":
			c.Set(ContextScope, tenantB)
		}
		c.Next()
	}, rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	hit := func(tenant string) int {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping?tenant="+tenant, nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit("a"))
	assert.Equal(t, http.StatusOK, hit("a"))
	assert.Equal(t, http.StatusTooManyRequests, hit("a"))
	assert.Equal(t, http.StatusOK, hit("b"))
	assert.Equal(t, http.StatusOK, hit(""))
	assert.Equal(t, 3, rl.ActiveKeys())

	rl.cleanup(time.Now().Add(time.Hour))
	assert.Equal(t, 0, rl.ActiveKeys())
}

type memoryIdempotencyRepo struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func (r *memoryIdempotencyRepo) GetByKey(_ context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.keys[userID.String()+key], nil
}

func (r *memoryIdempotencyRepo) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[ikey.UserID.String()+ikey.Key] = ikey
	return nil
}

func (r *memoryIdempotencyRepo) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}

func TestIdempotencyReplay(t *testing.T) {
	repo := &memoryIdempotencyRepo{keys: map[string]*entity.IdempotencyKey{}}
	userID := uuid.New()
	calls := 0

	router := gin.New()
	router.POST("/invoices/:id/payments", func(c *gin.Context) {
		c.Set(ContextUserID, userID)
		c.Next()
	}, Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})

	post := func(key, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/invoices/1/payments", strings.NewReader(body))
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := post("pay-1", `{"amount":"50"}`)
	assert.Equal(t, http.StatusCreated, first.Code)

	replay := post("pay-1", `{"amount":"50"}`)
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), replay.Body.String())
	assert.Equal(t, 1, calls)

	conflict := post("pay-1", `{"amount":"75"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, conflict.Code)

	post("", `{"amount":"50"}`)
	post("", `{"amount":"50"}`)
	assert.Equal(t, 3, calls)
}

func TestMetricsEndpoint(t *testing.T) {
	metrics := NewHTTPMetrics()
	router := gin.New()
	router.Use(metrics.Middleware())
	router.GET("/metrics", metrics.Handler())
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `cleanops_http_requests_total{method="GET",route="/health",status="200"} 1`)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestLogger())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}
