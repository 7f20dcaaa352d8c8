package middleware

import (
	"context"
	"errors"
	"net/http"

	appidentity "github.com/facturator/backend/internal/application/identity"
	"github.com/facturator/backend/internal/domain/shared"
	"github.com/facturator/backend/internal/infrastructure/logger"
	"github.com/facturator/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CurrentUserKey is the gin context key of the authenticated user
const CurrentUserKey = "current_user"

// Authenticator resolves a session token to its user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*appidentity.UserInfo, error)
}

// CookieAuth requires a valid session token in the named cookie.
// Requests without one are rejected with 401; store failures give 503.
func CookieAuth(authenticator Authenticator, cookieName string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(cookieName)

		user, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			requestID := GetRequestID(c)
			if errors.Is(err, shared.ErrUnauthorized) {
				var domainErr *shared.DomainError
				message := "Unauthorized"
				if errors.As(err, &domainErr) {
					message = domainErr.Message
				}
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					dto.NewErrorResponseWithRequestID(shared.CodeUnauthorized, message, requestID))
				return
			}
			logger.Enrich(c.Request.Context(), log).Error("Session lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				dto.NewErrorResponseWithRequestID(dto.CodeUnavailable, "Session store unavailable", requestID))
			return
		}

		c.Set(CurrentUserKey, user)
		c.Request = c.Request.WithContext(logger.WithUsername(c.Request.Context(), user.Username))
		c.Next()
	}
}

// GetCurrentUser returns the user set by CookieAuth, or nil
func GetCurrentUser(c *gin.Context) *appidentity.UserInfo {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*appidentity.UserInfo)
	return user
}
