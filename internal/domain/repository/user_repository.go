package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error

	// GetByID loads the user with roles and permissions
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByProvider(ctx context.Context, provider, providerID string) (*entity.User, error)

	Update(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error
	TouchLastLogin(ctx context.Context, id uuid.UUID) error

	// AssignRole attaches a platform role by name
	AssignRole(ctx context.Context, userID uuid.UUID, roleName string) error
}

// PasswordResetRepository stores one-time reset tokens
type PasswordResetRepository interface {
	Create(ctx context.Context, token *entity.PasswordResetToken) error
	GetByHash(ctx context.Context, tokenHash string) (*entity.PasswordResetToken, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
	DeleteForUser(ctx context.Context, userID uuid.UUID) error
}

// ServiceTypeRepository reads the service lookup table
type ServiceTypeRepository interface {
	ListActive(ctx context.Context) ([]entity.ServiceType, error)
}
