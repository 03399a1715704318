package handlers

import (
	"errors"
	"strings"
	"time"

	"admingate/internal/adapters/http/middleware"
	"admingate/internal/config"
	"admingate/internal/core/domain"
	"admingate/internal/core/services"
	"admingate/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService   *services.AuthService
	accessService *services.AccessService
	resetService  *services.PasswordResetService
	cfg           *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	authService *services.AuthService,
	accessService *services.AccessService,
	resetService *services.PasswordResetService,
	cfg *config.Config,
) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		accessService: accessService,
		resetService:  resetService,
		cfg:           cfg,
	}
}

// RegisterRequest represents registration request body
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest represents an explicit refresh request body; the
// cookie wins when both are present.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ForgotPasswordRequest represents forgot password request body
type ForgotPasswordRequest struct {
	Target string `json:"target"`
}

// ResetPasswordRequest represents reset password request body
type ResetPasswordRequest struct {
	Target      string `json:"target"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// Register handles user registration
// @Summary Register new user
// @Description Register a new user; the default role is attached automatically
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate required fields
	if req.Username == "" {
		return response.BadRequest(c, "Username is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}
	if len(req.Password) < 6 {
		return response.BadRequest(c, "Password must be at least 6 characters")
	}

	input := &services.RegisterInput{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		input.Email = &email
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		input.Phone = &phone
	}

	result, err := h.authService.Register(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			return response.Conflict(c, "Username already exists")
		case errors.Is(err, domain.ErrEmailTaken):
			return response.Conflict(c, "Email already registered")
		case errors.Is(err, domain.ErrPhoneTaken):
			return response.Conflict(c, "Phone number already registered")
		default:
			return response.InternalServerError(c, "Failed to register user")
		}
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Created(c, "User registered successfully", fiber.Map{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"user":          result.User,
	})
}

// Login handles user login
// @Summary Login user
// @Description Authenticate user and return tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Username == "" {
		return response.BadRequest(c, "Username is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	input := &services.LoginInput{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
	}

	result, err := h.authService.Login(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid username or password")
		case errors.Is(err, domain.ErrUserDisabled):
			return response.Forbidden(c, "Account is disabled")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Success(c, "Login successful", fiber.Map{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"user":          result.User,
	})
}

// RefreshToken handles token refresh
// @Summary Refresh access token
// @Description Rotate the token pair using the refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" {
		var req RefreshRequest
		if err := c.BodyParser(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}
	if refreshToken == "" {
		return response.Unauthorized(c, "Refresh token not found")
	}

	result, err := h.authService.RefreshToken(c.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenExpired):
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Refresh token expired, please login again")
		case errors.Is(err, domain.ErrTokenRevoked):
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Refresh token revoked, please login again")
		case errors.Is(err, domain.ErrTokenInvalid):
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Invalid refresh token")
		case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrUserDisabled):
			h.clearAuthCookies(c)
			return response.Forbidden(c, "Account is disabled")
		default:
			return response.InternalServerError(c, "Failed to refresh token")
		}
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Success(c, "Token refreshed successfully", fiber.Map{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"user":          result.User,
	})
}

// Logout handles user logout
// @Summary Logout user
// @Description Revoke the refresh token and clear cookies; always succeeds
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken != "" {
		// Cookies are cleared whether or not revocation finds the token.
		_ = h.authService.Logout(c.Context(), refreshToken)
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Logged out successfully", nil)
}

// LogoutAll handles logout from all devices
// @Summary Logout from all devices
// @Description Revoke all refresh tokens for the user
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		return response.Unauthorized(c, "Authorization information not provided")
	}

	if err := h.authService.LogoutAll(c.Context(), identity.UserID); err != nil {
		return response.InternalServerError(c, "Failed to logout from all devices")
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Logged out from all devices", nil)
}

// Profile returns the session bootstrap payload
// @Summary Get session profile
// @Description Current user, visible menu tree and permission codes in one call
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/profile [get]
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		return response.Unauthorized(c, "Authorization information not provided")
	}

	profile, err := h.accessService.SessionProfile(c.Context(), identity)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to load profile")
	}

	return response.Success(c, "Profile retrieved successfully", profile)
}

// Permissions returns the route permission map
// @Summary Get route permission map
// @Description Role requirements per menu path, derived from menu grants
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/permissions [get]
func (h *AuthHandler) Permissions(c *fiber.Ctx) error {
	m, err := h.accessService.RoutePermissionMap(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load permissions")
	}

	return response.Success(c, "Permissions retrieved successfully", fiber.Map{
		"permissions": m,
	})
}

// ForgotPassword sends a password reset code
// @Summary Request password reset code
// @Description Send a verification code over the given channel (email or phone)
// @Tags Auth
// @Accept json
// @Produce json
// @Param channel path string true "Delivery channel" Enums(email, phone)
// @Param body body ForgotPasswordRequest true "Reset target"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /auth/forgot-password/{channel} [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	channel := c.Params("channel")

	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	target := strings.TrimSpace(req.Target)
	if target == "" {
		return response.BadRequest(c, "Target is required")
	}

	retryAfter, err := h.resetService.RequestCode(c.Context(), channel, target)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCodeCooldown):
			return response.RateLimited(c, "Code already sent, please wait before retrying", retryAfter)
		case errors.Is(err, domain.ErrUserNotFound):
			return response.BadRequest(c, "No account found for this target")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Unsupported channel")
		default:
			return response.InternalServerError(c, "Failed to send verification code")
		}
	}

	return response.Success(c, "Verification code sent", nil)
}

// ResetPassword resets the password using a verification code
// @Summary Reset password
// @Description Consume a verification code and set a new password
// @Tags Auth
// @Accept json
// @Produce json
// @Param channel path string true "Delivery channel" Enums(email, phone)
// @Param body body ResetPasswordRequest true "Reset data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/reset-password/{channel} [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	channel := c.Params("channel")

	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Target == "" || req.Code == "" {
		return response.BadRequest(c, "Target and code are required")
	}
	if len(req.NewPassword) < 6 {
		return response.BadRequest(c, "Password must be at least 6 characters")
	}

	err := h.resetService.ResetPassword(c.Context(), &services.ResetPasswordInput{
		Channel:     channel,
		Target:      strings.TrimSpace(req.Target),
		Code:        req.Code,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCodeInvalid):
			return response.BadRequest(c, "Invalid or expired verification code")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.BadRequest(c, "No account found for this target")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid reset request")
		default:
			return response.InternalServerError(c, "Failed to reset password")
		}
	}

	return response.Success(c, "Password reset successfully", nil)
}

// setAuthCookies sets access and refresh token cookies
func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    accessToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.AccessTokenMins * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.RefreshTokenDays * 24 * 60 * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}

// clearAuthCookies clears auth cookies
func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for _, name := range []string{"token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Now().Add(-1 * time.Hour),
			Secure:   h.cfg.Cookie.Secure,
			HTTPOnly: true,
			SameSite: h.cfg.Cookie.SameSite,
			Domain:   h.cfg.Cookie.Domain,
		})
	}
}
