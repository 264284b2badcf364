package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"

	"github.com/craftconnect/authsvc/domain"
	"github.com/craftconnect/authsvc/internal/http/api"
)

// RequireRoles gates an operation to an allowed-role set. Admin passes
// everywhere unless explicitly excluded with ExcludeAdmin.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return requireRoles(true, roles...)
}

// ExcludeAdmin gates an operation to exactly the given roles, with no
// implicit admin bypass.
func ExcludeAdmin(roles ...domain.Role) gin.HandlerFunc {
	return requireRoles(false, roles...)
}

func requireRoles(adminImplicit bool, roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]bool, len(roles))
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		allowed[role] = true
		names = append(names, string(role))
	}

	return func(c *gin.Context) {
		role, ok := CurrentRole(c)
		if !ok {
			api.Abort(c, domain.ErrUnauthenticated)
			return
		}
		if allowed[role] || (adminImplicit && role == domain.RoleAdmin) {
			c.Next()
			return
		}
		api.FailStatus(c, http.StatusForbidden, domain.CodeForbiddenRole,
			fmt.Sprintf("access denied. Required roles: %s", strings.Join(names, ", ")))
		c.Abort()
	}
}

// CasbinMW is the fine-grained permission gate: action x resource
// policies enforced against the persisted Casbin table.
type CasbinMW struct {
	enforcer *casbin.Enforcer
}

// NewCasbinMW creates the permission middleware.
func NewCasbinMW(enforcer *casbin.Enforcer) *CasbinMW {
	return &CasbinMW{enforcer: enforcer}
}

// Enforce checks the caller's role against the policy table using the
// parameterized route path. Admin policies are seeded with a wildcard so
// no separate bypass exists here.
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := CurrentRole(c)
		if !ok {
			api.Abort(c, domain.ErrUnauthenticated)
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		allowed, err := mw.enforcer.Enforce("role_"+string(role), path, c.Request.Method)
		if err != nil {
			api.FailStatus(c, http.StatusInternalServerError, domain.CodeInternal, "authorization check failed")
			c.Abort()
			return
		}
		if !allowed {
			api.Abort(c, domain.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}
