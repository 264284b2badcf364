package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftconnect/authsvc/domain"
)

// setRole impersonates an authenticated caller for gates downstream of
// the authentication stage.
func setRole(userID uint, role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxUserID, userID)
		c.Set(ctxUserRole, role)
		c.Next()
	}
}

func decodeCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return body.Code
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name       string
		gate       gin.HandlerFunc
		role       domain.Role
		wantStatus int
		wantCode   string
	}{
		{
			name:       "allowed role passes",
			gate:       RequireRoles(domain.RoleArtisan, domain.RoleDistributor),
			role:       domain.RoleArtisan,
			wantStatus: http.StatusOK,
		},
		{
			name:       "second allowed role passes",
			gate:       RequireRoles(domain.RoleArtisan, domain.RoleDistributor),
			role:       domain.RoleDistributor,
			wantStatus: http.StatusOK,
		},
		{
			name:       "other role denied",
			gate:       RequireRoles(domain.RoleArtisan),
			role:       domain.RoleCustomer,
			wantStatus: http.StatusForbidden,
			wantCode:   domain.CodeForbiddenRole,
		},
		{
			name:       "admin passes implicitly",
			gate:       RequireRoles(domain.RoleArtisan),
			role:       domain.RoleAdmin,
			wantStatus: http.StatusOK,
		},
		{
			name:       "admin denied when excluded",
			gate:       ExcludeAdmin(domain.RoleCustomer),
			role:       domain.RoleAdmin,
			wantStatus: http.StatusForbidden,
			wantCode:   domain.CodeForbiddenRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/guarded", setRole(1, tt.role), tt.gate, func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeCode(t, w))
			}
		})
	}
}

func TestRequireRoles_NoIdentityInContext(t *testing.T) {
	r := gin.New()
	r.GET("/guarded", RequireRoles(domain.RoleCustomer), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, domain.CodeUnauthenticated, decodeCode(t, w))
}

const testModelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

func newTestEnforcer(t *testing.T) *casbin.Enforcer {
	t.Helper()

	m, err := model.NewModelFromString(testModelText)
	require.NoError(t, err)
	e, err := casbin.NewEnforcer(m)
	require.NoError(t, err)
	return e
}

func TestCasbinMW_Enforce(t *testing.T) {
	e := newTestEnforcer(t)
	_, err := e.AddPolicy("role_customer", "/api/auth/addresses/:id", "(GET|PUT|DELETE)")
	require.NoError(t, err)
	_, err = e.AddPolicy("role_admin", "/*", "(GET|POST|PUT|DELETE|PATCH)")
	require.NoError(t, err)

	buildRouter := func(role domain.Role) *gin.Engine {
		r := gin.New()
		mw := NewCasbinMW(e)
		handle := func(c *gin.Context) { c.Status(http.StatusOK) }
		r.GET("/api/auth/addresses/:id", setRole(7, role), mw.Enforce(), handle)
		r.POST("/api/auth/addresses/:id", setRole(7, role), mw.Enforce(), handle)
		r.GET("/api/admin/policies", setRole(7, role), mw.Enforce(), handle)
		return r
	}

	tests := []struct {
		name       string
		role       domain.Role
		method     string
		target     string
		wantStatus int
	}{
		{"policy allows matching route and method", domain.RoleCustomer, http.MethodGet, "/api/auth/addresses/5", http.StatusOK},
		{"method outside policy regex denied", domain.RoleCustomer, http.MethodPost, "/api/auth/addresses/5", http.StatusForbidden},
		{"route without policy denied", domain.RoleCustomer, http.MethodGet, "/api/admin/policies", http.StatusForbidden},
		{"admin wildcard covers everything", domain.RoleAdmin, http.MethodGet, "/api/admin/policies", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := buildRouter(tt.role)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.target, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.Equal(t, domain.CodeInsufficientPermissions, decodeCode(t, w))
			}
		})
	}
}
