package app

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftconnect/authsvc/internal/config"
	httpx "github.com/craftconnect/authsvc/internal/http"
	"github.com/craftconnect/authsvc/internal/http/handlers"
	"github.com/craftconnect/authsvc/internal/http/middleware"
	"github.com/craftconnect/authsvc/internal/jobs"
)

// Run wires the service and serves until the listener fails.
func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	seedDefaultPolicies(c)

	sweeper := jobs.NewSessionSweeper(c.SessionRepo, cfg.SweepSchedule)
	if err := sweeper.Start(); err != nil {
		return err
	}
	defer sweeper.Stop()

	r := httpx.BuildRouter(httpx.RouterDeps{
		Auth:         handlers.NewAuthHandlers(c.AuthSvc),
		Addresses:    handlers.NewAddressHandlers(c.AddressRepo),
		Verification: handlers.NewVerificationHandlers(c.VerificationSvc),
		Artisans:     handlers.NewArtisanHandlers(c.ArtisanRepo),
		Users:        handlers.NewUserHandlers(c.UserRepo),
		Policies:     handlers.NewPolicyHandlers(c.PolicySvc),

		AuthMW:    middleware.NewAuthMW(c.TokenSvc, c.SessionRepo),
		CasbinMW:  middleware.NewCasbinMW(c.Casbin.E),
		Ownership: middleware.NewOwnershipMW(cfg.AccessRules, c.AddressRepo, c.ArtisanRepo),
		UserRepo:  c.UserRepo,
		Audit:     c.AuditLogger,
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}

// seedDefaultPolicies installs the baseline policy table on first boot.
// Admin gets a wildcard; the self-service surface is granted to every
// marketplace role. Ownership and identity gates still apply on top.
func seedDefaultPolicies(c *Container) {
	policies, err := c.Casbin.E.GetPolicy()
	if err != nil || len(policies) > 0 {
		return
	}

	selfService := [][2]string{
		{"/api/auth/logout", "POST"},
		{"/api/auth/logout-all", "POST"},
		{"/api/auth/profile", "GET"},
		{"/api/auth/change-password", "POST"},
		{"/api/auth/addresses", "(GET|POST)"},
		{"/api/auth/addresses/*", "(GET|PUT|DELETE|PATCH)"},
		{"/api/users/*", "GET"},
		{"/api/artisans/*", "GET"},
	}

	c.Casbin.E.AddPolicy("role_admin", "/*", "(GET|POST|PUT|DELETE|PATCH)")
	for _, role := range []string{"role_customer", "role_artisan", "role_distributor"} {
		for _, p := range selfService {
			c.Casbin.E.AddPolicy(role, p[0], p[1])
		}
	}
	for _, role := range []string{"role_artisan", "role_distributor"} {
		c.Casbin.E.AddPolicy(role, "/api/auth/verification/*", "(GET|POST)")
	}
	c.Casbin.E.AddPolicy("role_artisan", "/api/artisans", "POST")
	c.Casbin.E.AddPolicy("role_artisan", "/api/artisans/*", "PUT")

	_ = c.Casbin.E.SavePolicy()
	log.Println("casbin: seeded default policies")
}
