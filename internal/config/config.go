// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address of the GraphQL/HTTP listener (e.g. :3000).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// GRPCAddr is the address of the gRPC health listener; empty disables it.
	GRPCAddr string `mapstructure:"GRPC_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	JWTAccessSecret  string `mapstructure:"JWT_ACCESS_TOKEN_SECRET"`
	JWTRefreshSecret string `mapstructure:"JWT_REFRESH_TOKEN_SECRET"`
	// JWTIssuer is written to and required on every token; empty skips the check.
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAccessTTL is the access token lifetime (e.g. "15m").
	JWTAccessTTL string `mapstructure:"JWT_ACCESS_TTL"`
	// JWTRefreshTTL is the refresh token and refresh record lifetime (e.g. "24h").
	JWTRefreshTTL string `mapstructure:"JWT_REFRESH_TTL"`

	// PasswordHashAlgo selects the hash for new passwords: argon2id or bcrypt.
	PasswordHashAlgo string `mapstructure:"PASSWORD_HASH_ALGO"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`

	// OTLPEndpoint enables OTel export when set (e.g. localhost:4317).
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure bool   `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`

	// KafkaBrokers is a comma-separated broker list; when set, auth events are also written to Kafka.
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// AuthEventsTopic is the Kafka topic for auth events.
	AuthEventsTopic string `mapstructure:"AUTH_EVENTS_KAFKA_TOPIC"`

	// AutoMigrate applies embedded migrations on server start.
	AutoMigrate bool `mapstructure:"AUTO_MIGRATE"`
	// ShutdownTimeout bounds graceful shutdown (e.g. "15s").
	ShutdownTimeout string `mapstructure:"SHUTDOWN_TIMEOUT"`

	// RateLimitRPS is the per-client-IP request rate on /graphql; 0 disables limiting.
	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`
	// TrustedProxies is a comma-separated list of proxy IPs or CIDRs whose
	// X-Forwarded-For / X-Real-IP headers are honored. Empty trusts no proxy.
	TrustedProxies string `mapstructure:"TRUSTED_PROXIES"`

	// SeedPassword is the password given to seeded accounts (cmd/seed only).
	SeedPassword string `mapstructure:"SEED_PASSWORD"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env.
func Load() (*Config, error) {
	return load(true)
}

// LoadForTooling is Load without the JWT secret checks, for cmd/migrate and cmd/seed.
func LoadForTooling() (*Config, error) {
	return load(false)
}

func load(requireSecrets bool) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":3000")
	v.SetDefault("GRPC_ADDR", "")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_ACCESS_TOKEN_SECRET", "")
	v.SetDefault("JWT_REFRESH_TOKEN_SECRET", "")
	v.SetDefault("JWT_ISSUER", "rbac-auth")
	v.SetDefault("JWT_ACCESS_TTL", "15m")
	v.SetDefault("JWT_REFRESH_TTL", "24h")
	v.SetDefault("PASSWORD_HASH_ALGO", "argon2id")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", true)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("AUTH_EVENTS_KAFKA_TOPIC", "rbac-auth-events")
	v.SetDefault("AUTO_MIGRATE", false)
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("TRUSTED_PROXIES", "")
	v.SetDefault("SEED_PASSWORD", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if requireSecrets {
		if cfg.JWTAccessSecret == "" || cfg.JWTRefreshSecret == "" {
			return nil, errors.New("config: JWT_ACCESS_TOKEN_SECRET and JWT_REFRESH_TOKEN_SECRET must be set")
		}
		if cfg.JWTAccessSecret == cfg.JWTRefreshSecret {
			return nil, errors.New("config: JWT_ACCESS_TOKEN_SECRET and JWT_REFRESH_TOKEN_SECRET must differ")
		}
	}
	switch cfg.PasswordHashAlgo {
	case "argon2id", "bcrypt":
	default:
		return nil, errors.New("config: PASSWORD_HASH_ALGO must be argon2id or bcrypt")
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}
	if cfg.RateLimitRPS < 0 || cfg.RateLimitBurst < 0 {
		return nil, errors.New("config: RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative")
	}

	return &cfg, nil
}

// AccessTTL parses JWTAccessTTL as a time.Duration. Returns 15m if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	return parseDuration(c.JWTAccessTTL, 15*time.Minute)
}

// RefreshTTL parses JWTRefreshTTL as a time.Duration. Returns 24h if unset or invalid.
func (c *Config) RefreshTTL() time.Duration {
	return parseDuration(c.JWTRefreshTTL, 24*time.Hour)
}

// ShutdownGrace parses ShutdownTimeout. Returns 15s if unset or invalid.
func (c *Config) ShutdownGrace() time.Duration {
	return parseDuration(c.ShutdownTimeout, 15*time.Second)
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// KafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// An empty list means auth events are not sent to Kafka.
func (c *Config) KafkaBrokersList() []string {
	if c == nil {
		return nil
	}
	return splitList(c.KafkaBrokers)
}

// TrustedProxyList returns the TRUSTED_PROXIES entries.
func (c *Config) TrustedProxyList() []string {
	if c == nil {
		return nil
	}
	return splitList(c.TrustedProxies)
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
