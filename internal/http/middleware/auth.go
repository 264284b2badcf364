package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/craftconnect/authsvc/domain"
	"github.com/craftconnect/authsvc/internal/http/api"
)

// AuthMW wraps the token service and session repository for the
// authentication stage.
type AuthMW struct {
	tokenSvc    domain.TokenService
	sessionRepo domain.SessionRepository
}

// NewAuthMW creates new auth middleware wrapper.
func NewAuthMW(tokenSvc domain.TokenService, sessionRepo domain.SessionRepository) *AuthMW {
	return &AuthMW{
		tokenSvc:    tokenSvc,
		sessionRepo: sessionRepo,
	}
}

// Authenticate extracts and validates the bearer token and confirms the
// backing session is still live, then attaches caller identity to the
// request context.
func (mw *AuthMW) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			api.Abort(c, domain.ErrUnauthenticated)
			return
		}

		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			api.Abort(c, domain.ErrUnauthenticated)
			return
		}

		claims, err := mw.tokenSvc.ValidateAccessToken(tokenParts[1])
		if err != nil {
			api.Abort(c, domain.ErrUnauthenticated)
			return
		}

		// A signed token is not enough: logout and logout-all revoke the
		// session server-side.
		if claims.SessionID != "" {
			session, err := mw.sessionRepo.FindByID(c.Request.Context(), claims.SessionID)
			if err != nil || session == nil || session.UserID != claims.UserID {
				api.Abort(c, domain.ErrUnauthenticated)
				return
			}
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserRole, claims.Role)
		if claims.SessionID != "" {
			c.Set(ctxSessionID, claims.SessionID)
		}
		c.Next()
	}
}
