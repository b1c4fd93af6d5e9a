package middleware

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/application/service"
	"github.com/sangkips/cleanops-api/internal/domain/tenancy"
	"github.com/sangkips/cleanops-api/internal/presentation/http/dto/response"
	"github.com/sangkips/cleanops-api/pkg/apperror"
	"github.com/sangkips/cleanops-api/pkg/logger"
)

// TenantHeader names the tenant when the request does not arrive on a
// tenant subdomain
const TenantHeader = "X-Tenant-Slug"

var errNoSubdomain = errors.New("no tenant subdomain")

var reservedSubdomains = map[string]bool{"www": true, "api": true, "app": true, "admin": true}

// TenantResolver checks that a user may act inside a tenant
type TenantResolver interface {
	Resolve(ctx context.Context, slug string, userID uuid.UUID, superAdmin bool) (*service.Access, error)
}

// ExtractTenantFromHost extracts the tenant slug from a subdomain of
// baseDomain, e.g. "sparkle.cleanops.app" -> "sparkle"
func ExtractTenantFromHost(host, baseDomain string) (string, error) {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)
	baseDomain = strings.ToLower(strings.TrimPrefix(baseDomain, "."))

	if baseDomain == "" || !strings.HasSuffix(host, "."+baseDomain) {
		return "", errNoSubdomain
	}
	sub := strings.TrimSuffix(host, "."+baseDomain)
	if sub == "" || strings.Contains(sub, ".") || reservedSubdomains[sub] {
		return "", errNoSubdomain
	}
	return sub, nil
}

// TenantMiddleware resolves the tenant from the X-Tenant-Slug header or the
// subdomain and stores the request's tenancy.Scope. It must run after
// AuthMiddleware.
func TenantMiddleware(resolver TenantResolver, baseDomain string) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := strings.TrimSpace(c.GetHeader(TenantHeader))
		if slug == "" {
			var err error
			if slug, err = ExtractTenantFromHost(c.Request.Host, baseDomain); err != nil {
				response.Error(c, apperror.ErrTenantRequired)
				c.Abort()
				return
			}
		}

		access, err := resolver.Resolve(c.Request.Context(), slug, GetUserID(c), IsSuperAdmin(c))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextScope, access.Scope)
		c.Set(ContextTenant, access.Tenant)
		if access.Membership != nil {
			c.Set(ContextMembership, access.Membership)
		}

		ctx := logger.WithActor(c.Request.Context(), access.Scope.TenantID.String(), access.Scope.UserID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetScope returns the scope stored by TenantMiddleware. Handlers outside a
// tenant group get an empty scope, which every tenant-owned query rejects.
func GetScope(c *gin.Context) tenancy.Scope {
	v, _ := c.Get(ContextScope)
	scope, _ := v.(tenancy.Scope)
	return scope
}

// GetTenantID retrieves the tenant ID from the request scope
func GetTenantID(c *gin.Context) uuid.UUID {
	return GetScope(c).TenantID
}
