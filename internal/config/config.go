package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	Issuer     string `yaml:"issuer"`
	AccessTTL  string `yaml:"access_ttl"`
	RefreshTTL string `yaml:"refresh_ttl"`
}

type OTPConfig struct {
	TTL             string `yaml:"ttl"`
	Length          int    `yaml:"length"`
	MaxAttempts     int    `yaml:"max_attempts"`
	RateLimit       int    `yaml:"rate_limit"`
	RateWindow      string `yaml:"rate_window"`
	DevMode         bool   `yaml:"dev_mode"`
	DevCode         string `yaml:"dev_code"`
	ProviderWait    string `yaml:"provider_timeout"`
	ProviderBackoff string `yaml:"provider_backoff"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type SweeperConfig struct {
	Schedule string `yaml:"schedule"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	OTP      OTPConfig      `yaml:"otp"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	Casbin   CasbinConfig   `yaml:"casbin"`
	Sweeper  SweeperConfig  `yaml:"sweeper"`
}

type Config struct {
	Port            string
	GinMode         string
	DSN             string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	JWTSecret       string
	JWTIssuer       string
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	OTP_TTL         time.Duration
	OTP_Length      int
	OTP_MaxAttempts int
	OTP_RateLimit   int
	OTP_RateWindow  time.Duration
	OTP_DevMode     bool
	OTP_DevCode     string
	ProviderTimeout time.Duration
	ProviderBackoff time.Duration
	TwilioSID       string
	TwilioToken     string
	TwilioFrom      string
	CasbinModelPath string
	SweepSchedule   string
	AccessRules     []AccessRule
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	configFile, err := loadConfigFile(env("CONFIG_PATH", "config/config.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accTTL, err := time.ParseDuration(configFile.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}
	refTTL, err := time.ParseDuration(configFile.JWT.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT refresh TTL: %w", err)
	}
	otpTTL, err := time.ParseDuration(configFile.OTP.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}
	rateWnd, err := time.ParseDuration(configFile.OTP.RateWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP rate window: %w", err)
	}
	provTimeout, err := time.ParseDuration(configFile.OTP.ProviderWait)
	if err != nil {
		return nil, fmt.Errorf("invalid provider timeout: %w", err)
	}
	provBackoff, err := time.ParseDuration(configFile.OTP.ProviderBackoff)
	if err != nil {
		return nil, fmt.Errorf("invalid provider backoff: %w", err)
	}

	accessRules, err := LoadAccessRules(env("ACCESS_RULES_PATH", "config/access_rules.yml"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:            fmt.Sprintf("%d", configFile.App.Port),
		GinMode:         configFile.App.GinMode,
		DSN:             env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:       env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:   env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:         configFile.Redis.DB,
		JWTSecret:       env("JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer:       configFile.JWT.Issuer,
		AccessTTL:       accTTL,
		RefreshTTL:      refTTL,
		OTP_TTL:         otpTTL,
		OTP_Length:      configFile.OTP.Length,
		OTP_MaxAttempts: configFile.OTP.MaxAttempts,
		OTP_RateLimit:   configFile.OTP.RateLimit,
		OTP_RateWindow:  rateWnd,
		OTP_DevMode:     configFile.OTP.DevMode || env("OTP_DEV_MODE", "") == "true",
		OTP_DevCode:     configFile.OTP.DevCode,
		ProviderTimeout: provTimeout,
		ProviderBackoff: provBackoff,
		TwilioSID:       env("TWILIO_ACCOUNT_SID", configFile.Twilio.AccountSID),
		TwilioToken:     env("TWILIO_AUTH_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:      env("TWILIO_FROM_NUMBER", configFile.Twilio.FromNumber),
		CasbinModelPath: configFile.Casbin.ModelPath,
		SweepSchedule:   configFile.Sweeper.Schedule,
		AccessRules:     accessRules,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}
	return &config, nil
}
