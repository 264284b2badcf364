package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftconnect/authsvc/domain"
	"github.com/craftconnect/authsvc/internal/http/handlers"
	"github.com/craftconnect/authsvc/internal/http/middleware"
)

// RouterDeps carries everything BuildRouter wires together.
type RouterDeps struct {
	Auth         *handlers.AuthHandlers
	Addresses    *handlers.AddressHandlers
	Verification *handlers.VerificationHandlers
	Artisans     *handlers.ArtisanHandlers
	Users        *handlers.UserHandlers
	Policies     *handlers.PolicyHandlers

	AuthMW    *middleware.AuthMW
	CasbinMW  *middleware.CasbinMW
	Ownership *middleware.OwnershipMW
	UserRepo  domain.UserRepository
	Audit     domain.AuditLogger
}

// BuildRouter assembles the HTTP surface. Protected groups run the full
// security pipeline in order: authenticate, malicious-input detection,
// role gate, ownership, permission check, identity gate where required,
// with the audit stage wrapped around all of them.
func BuildRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public endpoints still get input screening and audit.
	public := r.Group("/api/auth")
	public.Use(middleware.Audit(d.Audit), middleware.DetectMalicious())
	public.POST("/register", d.Auth.Register)
	public.POST("/login", d.Auth.Login)
	public.POST("/send-otp", d.Auth.SendOTP)
	public.POST("/verify-otp", d.Auth.VerifyOTP)
	public.POST("/refresh-token", d.Auth.Refresh)
	public.POST("/google", handlers.Gone)

	// roleGate runs before ownership; post stages run after the casbin
	// check so ownership and permission denials take precedence.
	pipeline := func(roleGate gin.HandlerFunc, post ...gin.HandlerFunc) []gin.HandlerFunc {
		chain := []gin.HandlerFunc{
			middleware.Audit(d.Audit),
			d.AuthMW.Authenticate(),
			middleware.DetectMalicious(),
		}
		if roleGate != nil {
			chain = append(chain, roleGate)
		}
		chain = append(chain, d.Ownership.Enforce(), d.CasbinMW.Enforce())
		chain = append(chain, post...)
		return chain
	}

	authed := r.Group("/api/auth")
	authed.Use(pipeline(nil)...)
	authed.POST("/logout", d.Auth.Logout)
	authed.POST("/logout-all", d.Auth.LogoutAll)
	authed.GET("/profile", d.Auth.Profile)
	authed.POST("/change-password", d.Auth.ChangePassword)

	addresses := r.Group("/api/auth/addresses")
	addresses.Use(pipeline(nil)...)
	addresses.GET("", d.Addresses.List)
	addresses.POST("", d.Addresses.Create)
	addresses.GET("/default", d.Addresses.GetDefault)
	addresses.PUT("/:id", d.Addresses.Update)
	addresses.DELETE("/:id", d.Addresses.Delete)
	addresses.PATCH("/:id/set-default", d.Addresses.SetDefault)

	verification := r.Group("/api/auth/verification")
	verification.Use(pipeline(middleware.RequireRoles(domain.RoleArtisan, domain.RoleDistributor))...)
	verification.POST("/aadhaar/initiate", d.Verification.Initiate)
	verification.POST("/aadhaar/verify", d.Verification.Verify)
	verification.GET("/status", d.Verification.Status)

	adminVerifications := r.Group("/api/auth/admin/verifications")
	adminVerifications.Use(pipeline(middleware.RequireRoles(domain.RoleAdmin))...)
	adminVerifications.GET("/pending", d.Verification.ListPending)
	adminVerifications.PATCH("/:userId/manual-verify", d.Verification.ManualVerify)

	users := r.Group("/api/users")
	users.Use(pipeline(nil)...)
	users.GET("/:id", d.Users.Get)

	artisans := r.Group("/api/artisans")
	artisans.Use(pipeline(
		middleware.RequireRoles(domain.RoleArtisan),
		middleware.RequireIdentityVerified(d.UserRepo),
	)...)
	artisans.POST("", d.Artisans.Create)
	artisans.PUT("/:id", d.Artisans.Update)
	artisansRead := r.Group("/api/artisans")
	artisansRead.Use(pipeline(nil)...)
	artisansRead.GET("/me", d.Artisans.Mine)
	artisansRead.GET("/:id", d.Artisans.Get)

	adminPolicies := r.Group("/api/admin/policies")
	adminPolicies.Use(pipeline(middleware.RequireRoles(domain.RoleAdmin))...)
	adminPolicies.GET("", d.Policies.List)
	adminPolicies.POST("", d.Policies.Add)
	adminPolicies.DELETE("", d.Policies.Remove)

	return r
}
