package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/craftconnect/authsvc/domain"
	"github.com/craftconnect/authsvc/internal/http/api"
)

// RequireIdentityVerified blocks operations that demand a completed
// Aadhaar verification. The flag is read from the database rather than
// the token so a just-completed verification takes effect immediately.
func RequireIdentityVerified(userRepo domain.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			api.Abort(c, domain.ErrUnauthenticated)
			return
		}
		if IsAdmin(c) {
			c.Next()
			return
		}

		user, err := userRepo.FindByID(c.Request.Context(), userID)
		if err != nil {
			api.Abort(c, err)
			return
		}
		if !user.IsIdentityVerified {
			api.Abort(c, domain.ErrIdentityRequired)
			return
		}
		c.Next()
	}
}
