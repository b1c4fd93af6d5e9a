package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/internal/domain/repository"
	"github.com/sangkips/cleanops-api/pkg/apperror"
	"github.com/sangkips/cleanops-api/pkg/email"
	"github.com/sangkips/cleanops-api/pkg/logger"
	"github.com/sangkips/cleanops-api/pkg/oauth"
	"github.com/sangkips/cleanops-api/pkg/utils"
	"go.uber.org/zap"
)

const (
	providerLocal  = "local"
	providerGoogle = "google"

	resetTokenTTL = time.Hour
)

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo          repository.UserRepository
	tenantRepo        repository.TenantRepository
	passwordResetRepo repository.PasswordResetRepository
	jwtManager        *utils.JWTManager
	emailService      *email.EmailService
	google            *oauth.GoogleOAuthService
	now               func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	tenantRepo repository.TenantRepository,
	passwordResetRepo repository.PasswordResetRepository,
	jwtManager *utils.JWTManager,
	emailService *email.EmailService,
	google *oauth.GoogleOAuthService,
) *AuthService {
	return &AuthService{
		userRepo:          userRepo,
		tenantRepo:        tenantRepo,
		passwordResetRepo: passwordResetRepo,
		jwtManager:        jwtManager,
		emailService:      emailService,
		google:            google,
		now:               time.Now,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	Tenants      []entity.Tenant
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Password == "" {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPassword(user.Password, input.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// RegisterInput represents the registration input. A new account always
// comes with its own business.
type RegisterInput struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	BusinessName string
}

// Register creates the user, their business and the owner membership
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*LoginOutput, error) {
	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     input.Email,
		Password:  hashedPassword,
		Provider:  providerLocal,
	}

	businessName := strings.TrimSpace(input.BusinessName)
	if businessName == "" {
		businessName = user.FullName() + "'s Cleaning"
	}
	tenant, err := s.newTenant(ctx, businessName)
	if err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Register(ctx, user, tenant); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("account registered",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_slug", tenant.Slug),
	)

	fresh, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return s.issueTokens(ctx, fresh)
}

// newTenant picks a free slug for the business name
func (s *AuthService) newTenant(ctx context.Context, name string) (*entity.Tenant, error) {
	slug := utils.Slugify(name)
	if slug == "" {
		slug = utils.UniqueSlug(name)
	}
	for attempt := 0; ; attempt++ {
		taken, err := s.tenantRepo.SlugExists(ctx, slug)
		if err != nil {
			return nil, err
		}
		if !taken {
			break
		}
		if attempt >= 5 {
			return nil, apperror.NewConflictError("Could not allocate a business slug")
		}
		slug = utils.UniqueSlug(name)
	}

	settings := entity.DefaultTenantSettings()
	settings.IntakeFormToken = randomToken()

	return &entity.Tenant{
		Name:     name,
		Slug:     slug,
		Active:   true,
		Settings: settings,
	}, nil
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidToken
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) issueTokens(ctx context.Context, user *entity.User) (*LoginOutput, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.RoleNames(), user.IsSuperAdmin())
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	tenants, err := s.tenantRepo.GetUserTenants(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		logger.FromContext(ctx).Warn("failed to record last login", zap.Error(err))
	}

	return &LoginOutput{
		User:         user,
		Tenants:      tenants,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.AccessTokenExpiry().Seconds()),
	}, nil
}

// ProfileOutput is the signed-in user with the businesses they belong to
type ProfileOutput struct {
	User    *entity.User
	Tenants []entity.Tenant
}

// GetProfile returns the current user by ID
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileOutput, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	tenants, err := s.tenantRepo.GetUserTenants(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{User: user, Tenants: tenants}, nil
}

// UpdateProfileInput represents the update profile input
type UpdateProfileInput struct {
	UserID    uuid.UUID
	FirstName string
	LastName  string
	Phone     *string
}

// UpdateProfile updates the user's profile
func (s *AuthService) UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	if input.FirstName != "" {
		user.FirstName = strings.TrimSpace(input.FirstName)
	}
	if input.LastName != "" {
		user.LastName = strings.TrimSpace(input.LastName)
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ChangePassword changes the user's password. Accounts created through
// Google have no password and may set one without the current value.
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NewNotFoundError("User")
	}

	if user.Password != "" && !utils.CheckPassword(user.Password, input.CurrentPassword) {
		return apperror.Invalid("current_password", "is incorrect")
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword)
}

// ForgotPassword emails a reset link when the address belongs to an
// account. It reports success either way so callers cannot probe for users.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	log := logger.FromContext(ctx)

	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		log.Error("password reset lookup failed", zap.Error(err))
		return nil
	}
	if user == nil {
		return nil
	}

	if err := s.passwordResetRepo.DeleteForUser(ctx, user.ID); err != nil {
		log.Warn("failed to clear old reset tokens", zap.Error(err))
	}

	token := randomToken()
	resetToken := &entity.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: entity.HashResetToken(token),
		ExpiresAt: s.now().Add(resetTokenTTL),
	}
	if err := s.passwordResetRepo.Create(ctx, resetToken); err != nil {
		return err
	}

	if err := s.emailService.SendPasswordResetEmail(user.Email, token); err != nil {
		log.Error("failed to send password reset email", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	return nil
}

// ResetPasswordInput represents the reset password input
type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

// ResetPassword sets a new password using a valid one-time token
func (s *AuthService) ResetPassword(ctx context.Context, input *ResetPasswordInput) error {
	invalid := apperror.NewBadRequestError("Invalid or expired reset token")

	resetToken, err := s.passwordResetRepo.GetByHash(ctx, entity.HashResetToken(input.Token))
	if err != nil {
		return err
	}
	if resetToken == nil || !resetToken.IsUsable(s.now()) {
		return invalid
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, resetToken.UserID, hashedPassword); err != nil {
		return err
	}

	if err := s.passwordResetRepo.MarkUsed(ctx, resetToken.ID); err != nil {
		logger.FromContext(ctx).Warn("failed to mark reset token used", zap.Error(err))
	}
	return nil
}

// GoogleAuthURL starts the Google sign-in flow
func (s *AuthService) GoogleAuthURL(state string) (string, error) {
	if s.google == nil || !s.google.IsConfigured() {
		return "", apperror.NewAppError(http.StatusServiceUnavailable, oauth.ErrOAuthNotConfigured.Error())
	}
	return s.google.GetAuthURL(state), nil
}

// GoogleCallback exchanges the authorization code and signs the user in
func (s *AuthService) GoogleCallback(ctx context.Context, code string) (*LoginOutput, error) {
	if s.google == nil || !s.google.IsConfigured() {
		return nil, apperror.NewAppError(http.StatusServiceUnavailable, oauth.ErrOAuthNotConfigured.Error())
	}

	info, err := s.google.Authenticate(ctx, code)
	if err != nil {
		return nil, apperror.NewAppError(http.StatusUnauthorized, err.Error())
	}
	return s.LoginWithGoogle(ctx, info)
}

// LoginWithGoogle signs in a verified Google identity. An existing account
// with the same email is linked; otherwise a new account and business are
// created.
func (s *AuthService) LoginWithGoogle(ctx context.Context, info *oauth.GoogleUserInfo) (*LoginOutput, error) {
	if !info.VerifiedEmail {
		return nil, apperror.NewAppError(http.StatusUnauthorized, oauth.ErrEmailNotVerified.Error())
	}

	user, err := s.userRepo.GetByProvider(ctx, providerGoogle, info.ID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return s.issueTokens(ctx, user)
	}

	user, err = s.userRepo.GetByEmail(ctx, info.Email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		providerID := info.ID
		user.ProviderID = &providerID
		if user.Provider == "" {
			user.Provider = providerGoogle
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
		return s.issueTokens(ctx, user)
	}

	providerID := info.ID
	user = &entity.User{
		FirstName:  info.GivenName,
		LastName:   info.FamilyName,
		Email:      info.Email,
		Provider:   providerGoogle,
		ProviderID: &providerID,
	}
	if user.FirstName == "" {
		user.FirstName = info.Name
	}

	tenant, err := s.newTenant(ctx, user.FullName()+"'s Cleaning")
	if err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Register(ctx, user, tenant); err != nil {
		return nil, err
	}

	fresh, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return s.issueTokens(ctx, fresh)
}

// GoogleRedirects returns the frontend pages the callback redirects to
func (s *AuthService) GoogleRedirects() (success, failure string) {
	if s.google == nil {
		return "", ""
	}
	return s.google.GetFrontendSuccessURL(), s.google.GetFrontendErrorURL()
}

func randomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return uuid.NewString()
	}
	return hex.EncodeToString(b)
}
