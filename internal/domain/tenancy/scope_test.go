package tenancy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
)

func TestRequire(t *testing.T) {
	tenantID := uuid.New()

	got, err := ForTenant(tenantID, uuid.New()).Require()
	assert.NoError(t, err)
	assert.Equal(t, tenantID, got)

	_, err = Scope{}.Require()
	assert.ErrorIs(t, err, apperror.ErrTenantRequired)

	_, err = Platform(uuid.New()).Require()
	assert.ErrorIs(t, err, apperror.ErrTenantRequired)
}

func TestOwns(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	assert.True(t, ForTenant(a, uuid.New()).Owns(a))
	assert.False(t, ForTenant(a, uuid.New()).Owns(b))
	assert.False(t, Scope{}.Owns(a))
	assert.True(t, Platform(uuid.New()).Owns(b))

	impersonating := Platform(uuid.New())
	impersonating.TenantID = a
	assert.False(t, impersonating.Owns(b))
}
