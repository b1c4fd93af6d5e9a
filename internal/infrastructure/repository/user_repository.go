package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	domainRepo "github.com/sangkips/cleanops-api/internal/domain/repository"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domainRepo.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Roles").Create(user).Error; err != nil {
			return err
		}
		return assignRole(tx, user.ID, entity.RoleUser)
	})
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Preload("Roles.Permissions").First(&user, "id = ?", id).Error
	return notFound(&user, err)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Preload("Roles.Permissions").
		First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	return notFound(&user, err)
}

func (r *userRepository) GetByProvider(ctx context.Context, provider, providerID string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Preload("Roles.Permissions").
		First(&user, "provider = ? AND provider_id = ?", provider, providerID).Error
	return notFound(&user, err)
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Omit("Roles").Save(user).Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	return r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Update("password", hashedPassword).Error
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Update("last_login_at", time.Now().UTC()).Error
}

func (r *userRepository) AssignRole(ctx context.Context, userID uuid.UUID, roleName string) error {
	return assignRole(r.db.WithContext(ctx), userID, roleName)
}

type passwordResetRepository struct {
	db *gorm.DB
}

// NewPasswordResetRepository creates a new password reset token repository
func NewPasswordResetRepository(db *gorm.DB) domainRepo.PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, token *entity.PasswordResetToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *passwordResetRepository) GetByHash(ctx context.Context, tokenHash string) (*entity.PasswordResetToken, error) {
	var token entity.PasswordResetToken
	return notFound(&token, r.db.WithContext(ctx).First(&token, "token_hash = ?", tokenHash).Error)
}

func (r *passwordResetRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.PasswordResetToken{}).Where("id = ?", id).Update("used_at", time.Now().UTC()).Error
}

func (r *passwordResetRepository) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.PasswordResetToken{}).Error
}

type serviceTypeRepository struct {
	db *gorm.DB
}

// NewServiceTypeRepository creates a new service type repository
func NewServiceTypeRepository(db *gorm.DB) domainRepo.ServiceTypeRepository {
	return &serviceTypeRepository{db: db}
}

func (r *serviceTypeRepository) ListActive(ctx context.Context) ([]entity.ServiceType, error) {
	var types []entity.ServiceType
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("name ASC").Find(&types).Error
	return types, err
}
