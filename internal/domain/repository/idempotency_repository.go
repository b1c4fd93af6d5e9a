package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey returns the stored response for the user's key, or nil, nil
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes expired keys and reports how many were removed
	DeleteExpired(ctx context.Context) (int64, error)
}
