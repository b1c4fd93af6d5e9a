package repository

import (
	"errors"
	"strings"

	"github.com/sangkips/cleanops-api/internal/domain/tenancy"
	"gorm.io/gorm"
)

// TenantScope returns a GORM scope that filters by the caller's tenant.
// A super admin without a selected tenant sees every row; a scope without a
// tenant returns no rows at all.
func TenantScope(scope tenancy.Scope) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if scope.HasTenant() {
			return db.Where("tenant_id = ?", scope.TenantID)
		}
		if scope.SuperAdmin {
			return db
		}
		return db.Where("1 = 0")
	}
}

// Search matches term case-insensitively against any of the columns. LOWER
// and LIKE keep it portable between Postgres and SQLite.
func Search(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(strings.ToLower(term))
		if term == "" || len(columns) == 0 {
			return db
		}
		like := "%" + term + "%"
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = like
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// notFound maps gorm's missing-record error onto the (nil, nil) convention
func notFound[T any](v *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
