package app

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/craftconnect/authsvc/domain"
	"github.com/craftconnect/authsvc/internal/config"
	"github.com/craftconnect/authsvc/internal/infrastructure/auth"
	"github.com/craftconnect/authsvc/internal/infrastructure/database"
	"github.com/craftconnect/authsvc/internal/infrastructure/notifications"
	"github.com/craftconnect/authsvc/internal/infrastructure/repositories"
	"github.com/craftconnect/authsvc/internal/services"
)

// Container holds all wired dependencies.
type Container struct {
	Config *config.Config

	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService

	UserRepo    domain.UserRepository
	AddressRepo domain.AddressRepository
	ArtisanRepo domain.ArtisanProfileRepository
	SessionRepo domain.SessionRepository

	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	OTPSvc          domain.OTPService
	AuthSvc         domain.AuthService
	VerificationSvc domain.VerificationService
	PolicySvc       domain.PolicyService
	AuditLogger     domain.AuditLogger
}

// NewContainer creates and initializes all dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	if err := c.initRedis(); err != nil {
		return nil, err
	}
	c.initRepositories()
	c.initServices()

	return c, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	cas, err := auth.NewCasbinService(db, c.Config.CasbinModelPath)
	if err != nil {
		return err
	}

	c.DB = db
	c.Casbin = cas
	return nil
}

func (c *Container) initRedis() error {
	c.RedisClient = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB).Client
	return c.RedisClient.Ping(context.Background()).Err()
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.AddressRepo = repositories.NewAddressRepository(c.DB)
	c.ArtisanRepo = repositories.NewArtisanProfileRepository(c.DB)
	c.SessionRepo = repositories.NewSessionRepository(c.RedisClient, c.Config.RefreshTTL)
}

func (c *Container) initServices() {
	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = auth.NewJWTService(c.Config.JWTSecret, c.Config.JWTIssuer, c.Config.AccessTTL, c.Config.RefreshTTL)
	c.NotificationSvc = notifications.NewTwilioService(
		c.Config.TwilioSID,
		c.Config.TwilioToken,
		c.Config.TwilioFrom,
		c.Config.ProviderTimeout,
	)
	c.AuditLogger = services.NewAuditLogger()

	c.OTPSvc = services.NewOTPService(c.NotificationSvc, c.UserRepo, c.RedisClient, services.OTPConfig{
		Length:       c.Config.OTP_Length,
		TTL:          c.Config.OTP_TTL,
		MaxAttempts:  c.Config.OTP_MaxAttempts,
		RateLimit:    c.Config.OTP_RateLimit,
		RateWindow:   c.Config.OTP_RateWindow,
		DevMode:      c.Config.OTP_DevMode,
		DevCode:      c.Config.OTP_DevCode,
		RetryBackoff: c.Config.ProviderBackoff,
	})
	c.AuthSvc = services.NewAuthService(c.UserRepo, c.SessionRepo, c.PasswordSvc, c.TokenSvc, c.OTPSvc)
	c.VerificationSvc = services.NewVerificationService(c.UserRepo, c.OTPSvc, c.AuditLogger)
	c.PolicySvc = services.NewPolicyService(c.Casbin.E)
}

// Close closes all connections.
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
