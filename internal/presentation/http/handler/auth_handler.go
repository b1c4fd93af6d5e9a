package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/cleanops-api/internal/application/service"
	"github.com/sangkips/cleanops-api/internal/presentation/http/dto/request"
	"github.com/sangkips/cleanops-api/internal/presentation/http/dto/response"
	"github.com/sangkips/cleanops-api/internal/presentation/http/middleware"
	"github.com/sangkips/cleanops-api/pkg/logger"
	"github.com/sangkips/cleanops-api/pkg/oauth"
	"go.uber.org/zap"
)

const oauthStateCookie = "cleanops_oauth_state"

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService  *service.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new auth handler. secureCookie marks the OAuth
// state cookie Secure and should be true outside local development.
func NewAuthHandler(authService *service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

// Login handles user login
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", response.NewAuthResponse(output))
}

// Register creates an owner account and their business
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.RegisterRequest true "Registration data"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	output, err := h.authService.Register(c.Request.Context(), &service.RegisterInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Password:     req.Password,
		BusinessName: req.BusinessName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Registration successful", response.NewAuthResponse(output))
}

// RefreshToken exchanges a refresh token for a new token pair
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req request.RefreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	output, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Token refreshed", response.NewAuthResponse(output))
}

// ForgotPassword emails a reset link. The answer is the same whether or not
// the address has an account.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req request.ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "If the email exists, a password reset link has been sent", nil)
}

// ResetPassword sets a new password using a reset token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req request.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.authService.ResetPassword(c.Request.Context(), &service.ResetPasswordInput{
		Token:       req.Token,
		NewPassword: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Password has been reset", nil)
}

// GoogleAuth redirects to Google with a state value pinned in a cookie
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	state, err := oauth.NewState()
	if err != nil {
		response.Error(c, err)
		return
	}

	authURL, err := h.authService.GoogleAuthURL(state)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GoogleCallback completes Google sign-in and redirects to the frontend
// with the tokens in the URL fragment
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	successURL, failureURL := h.authService.GoogleRedirects()

	expected, _ := c.Cookie(oauthStateCookie)
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.secureCookie, true)
	if expected == "" || c.Query("state") != expected {
		h.oauthFailure(c, failureURL, "invalid_state")
		return
	}
	if errParam := c.Query("error"); errParam != "" {
		h.oauthFailure(c, failureURL, errParam)
		return
	}

	output, err := h.authService.GoogleCallback(c.Request.Context(), c.Query("code"))
	if err != nil {
		logger.FromContext(c.Request.Context()).Warn("google sign-in failed", zap.Error(err))
		h.oauthFailure(c, failureURL, "authentication_failed")
		return
	}

	if successURL == "" {
		response.OK(c, "Login successful", response.NewAuthResponse(output))
		return
	}
	fragment := url.Values{}
	fragment.Set("access_token", output.AccessToken)
	fragment.Set("refresh_token", output.RefreshToken)
	c.Redirect(http.StatusTemporaryRedirect, successURL+"#"+fragment.Encode())
}

func (h *AuthHandler) oauthFailure(c *gin.Context, failureURL, reason string) {
	if failureURL == "" {
		response.Unauthorized(c, "Google sign-in failed")
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, failureURL+"?error="+url.QueryEscape(reason))
}

// Logout is a no-op for stateless tokens; clients drop their tokens
func (h *AuthHandler) Logout(c *gin.Context) {
	response.OK(c, "Logged out", nil)
}

// GetProfile returns the current user and their businesses
func (h *AuthHandler) GetProfile(c *gin.Context) {
	profile, err := h.authService.GetProfile(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profile retrieved", response.ProfileResponse{User: profile.User, Tenants: profile.Tenants})
}

// UpdateProfile updates the current user's name and phone
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req request.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), &service.UpdateProfileInput{
		UserID:    middleware.GetUserID(c),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profile updated", user)
}

// ChangePassword changes the current user's password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req request.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), &service.ChangePasswordInput{
		UserID:          middleware.GetUserID(c),
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Password changed", nil)
}
