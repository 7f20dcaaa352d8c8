package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	appidentity "github.com/facturator/backend/internal/application/identity"
	"github.com/facturator/backend/internal/domain/shared"
	"github.com/facturator/backend/internal/infrastructure/config"
	"github.com/facturator/backend/internal/interfaces/http/dto"
	"github.com/facturator/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AccountService manages accounts and sessions
type AccountService interface {
	Signup(ctx context.Context, input appidentity.SignupInput) (*appidentity.UserInfo, error)
	Login(ctx context.Context, input appidentity.LoginInput) (*appidentity.LoginResult, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandler serves /auth
type AuthHandler struct {
	BaseHandler
	accounts AccountService
	cookie   config.CookieConfig
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(accounts AccountService, cookie config.CookieConfig) *AuthHandler {
	return &AuthHandler{accounts: accounts, cookie: cookie}
}

// Signup godoc
// @Summary      Sign up
// @Description  Create an account. Usernames are unique.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body dto.SignupRequest true "Account"
// @Success      201 {object} SignupResponse
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	user, err := h.accounts.Signup(c.Request.Context(), appidentity.SignupInput{
		Username: req.Username,
		Password: req.Password,
		NIF:      req.NIF,
		Address:  req.Address,
		ZipCode:  req.ZipCode,
		City:     req.City,
		Province: req.Province,
		Email:    req.Email,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.SignupResponse{Message: "registered successfully", User: toUserResponse(user)})
}

// Login godoc
// @Summary      Log in
// @Description  Verify the credentials and set the httponly session cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "Credentials"
// @Success      201 {object} LoginResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.accounts.Login(c.Request.Context(), appidentity.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setCookie(c, result.Token, int(time.Until(result.ExpiresAt).Seconds()))
	h.Created(c, dto.LoginResponse{
		Message:   "Login successful",
		ExpiresAt: result.ExpiresAt.Unix(),
		User:      toUserResponse(&result.User),
	})
}

// Logout godoc
// @Summary      Log out
// @Description  Revoke the session token and clear the cookie
// @Tags         auth
// @Produce      json
// @Success      200 {object} MessageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cookie.Name); err == nil {
		if err := h.accounts.Logout(c.Request.Context(), token); err != nil {
			h.HandleError(c, err)
			return
		}
	}
	h.setCookie(c, "", -1)
	h.Success(c, dto.MessageData{Message: "Logged out successfully"})
}

// Protected godoc
// @Summary      Session check
// @Description  Greet the user owning the session cookie
// @Tags         auth
// @Produce      json
// @Success      200 {object} MessageResponse
// @Failure      401 {object} ErrorResponse
// @Router       /auth/protected [get]
func (h *AuthHandler) Protected(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		h.Error(c, http.StatusUnauthorized, shared.CodeUnauthorized, "Authentication required")
		return
	}
	h.Success(c, dto.MessageData{Message: "Hello " + user.Username})
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(sameSiteMode(h.cookie.SameSite))
	c.SetCookie(h.cookie.Name, value, maxAge, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}

func sameSiteMode(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}

func toUserResponse(u *appidentity.UserInfo) dto.UserResponse {
	return dto.UserResponse{
		PublicID: u.PublicID.String(),
		Username: u.Username,
		NIF:      u.NIF,
		Email:    u.Email,
	}
}
