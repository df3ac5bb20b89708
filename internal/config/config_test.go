package config

import (
	"os"
	"slices"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	os.Clearenv()
	os.Setenv("JWT_ACCESS_TOKEN_SECRET", "access-secret")
	os.Setenv("JWT_REFRESH_TOKEN_SECRET", "refresh-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":3000" {
		t.Errorf("HTTPAddr = %q, want :3000", cfg.HTTPAddr)
	}
	if cfg.GRPCAddr != "" {
		t.Errorf("GRPCAddr = %q, want empty", cfg.GRPCAddr)
	}
	if cfg.AccessTTL() != 15*time.Minute {
		t.Errorf("AccessTTL = %v, want 15m", cfg.AccessTTL())
	}
	if cfg.RefreshTTL() != 24*time.Hour {
		t.Errorf("RefreshTTL = %v, want 24h", cfg.RefreshTTL())
	}
	if cfg.PasswordHashAlgo != "argon2id" {
		t.Errorf("PasswordHashAlgo = %q, want argon2id", cfg.PasswordHashAlgo)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.AuthEventsTopic != "rbac-auth-events" {
		t.Errorf("AuthEventsTopic = %q", cfg.AuthEventsTopic)
	}
	if cfg.RateLimitRPS != 20 || cfg.RateLimitBurst != 40 {
		t.Errorf("rate limit = %v/%d, want 20/40", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.ShutdownGrace() != 15*time.Second {
		t.Errorf("ShutdownGrace = %v, want 15s", cfg.ShutdownGrace())
	}
	if cfg.AutoMigrate {
		t.Error("AutoMigrate should default to false")
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	setRequired(t)
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("PASSWORD_HASH_ALGO", "bcrypt")
	os.Setenv("BCRYPT_COST", "14")
	os.Setenv("JWT_REFRESH_TTL", "48h")
	os.Setenv("AUTO_MIGRATE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want :9090", cfg.HTTPAddr)
	}
	if cfg.PasswordHashAlgo != "bcrypt" || cfg.BcryptCost != 14 {
		t.Errorf("hash config = %q/%d", cfg.PasswordHashAlgo, cfg.BcryptCost)
	}
	if cfg.RefreshTTL() != 48*time.Hour {
		t.Errorf("RefreshTTL = %v, want 48h", cfg.RefreshTTL())
	}
	if !cfg.AutoMigrate {
		t.Error("AutoMigrate should be true")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing access secret", map[string]string{"JWT_ACCESS_TOKEN_SECRET": ""}},
		{"missing refresh secret", map[string]string{"JWT_REFRESH_TOKEN_SECRET": ""}},
		{"equal secrets", map[string]string{"JWT_REFRESH_TOKEN_SECRET": "access-secret"}},
		{"bad hash algo", map[string]string{"PASSWORD_HASH_ALGO": "md5"}},
		{"bcrypt cost too low", map[string]string{"BCRYPT_COST": "3"}},
		{"bcrypt cost too high", map[string]string{"BCRYPT_COST": "32"}},
		{"negative rate", map[string]string{"RATE_LIMIT_RPS": "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				os.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("Load should fail")
			}
		})
	}
}

func TestDurations_Fallbacks(t *testing.T) {
	for _, s := range []string{"", "invalid", "0s", "-5m"} {
		c := &Config{JWTAccessTTL: s, JWTRefreshTTL: s, ShutdownTimeout: s}
		if c.AccessTTL() != 15*time.Minute {
			t.Errorf("AccessTTL(%q) = %v, want 15m", s, c.AccessTTL())
		}
		if c.RefreshTTL() != 24*time.Hour {
			t.Errorf("RefreshTTL(%q) = %v, want 24h", s, c.RefreshTTL())
		}
		if c.ShutdownGrace() != 15*time.Second {
			t.Errorf("ShutdownGrace(%q) = %v, want 15s", s, c.ShutdownGrace())
		}
	}
	c := &Config{JWTAccessTTL: "30m"}
	if c.AccessTTL() != 30*time.Minute {
		t.Errorf("AccessTTL = %v, want 30m", c.AccessTTL())
	}
}

func TestKafkaBrokersList(t *testing.T) {
	c := &Config{KafkaBrokers: " a:9092, ,b:9092 "}
	if got := c.KafkaBrokersList(); !slices.Equal(got, []string{"a:9092", "b:9092"}) {
		t.Errorf("KafkaBrokersList = %v", got)
	}
	if (&Config{}).KafkaBrokersList() != nil {
		t.Error("empty brokers should yield nil")
	}
	var nilCfg *Config
	if nilCfg.KafkaBrokersList() != nil {
		t.Error("nil config should yield nil")
	}
}

func TestTrustedProxyList(t *testing.T) {
	c := &Config{TrustedProxies: "10.0.0.0/8, 127.0.0.1"}
	if got := c.TrustedProxyList(); !slices.Equal(got, []string{"10.0.0.0/8", "127.0.0.1"}) {
		t.Errorf("TrustedProxyList = %v", got)
	}
	if (&Config{}).TrustedProxyList() != nil {
		t.Error("unset TRUSTED_PROXIES should trust no proxy")
	}
}

func TestIsProduction(t *testing.T) {
	if !(&Config{Env: "Production"}).IsProduction() {
		t.Error("Production should be production")
	}
	if (&Config{Env: "development"}).IsProduction() {
		t.Error("development is not production")
	}
}

func TestLoadForTooling_SkipsSecrets(t *testing.T) {
	os.Clearenv()
	os.Setenv("DATABASE_URL", "postgres://localhost/rbac")
	os.Setenv("SEED_PASSWORD", "seed-pass")

	if _, err := Load(); err == nil {
		t.Fatal("Load without secrets should fail")
	}
	cfg, err := LoadForTooling()
	if err != nil {
		t.Fatalf("LoadForTooling: %v", err)
	}
	if cfg.DatabaseURL != "postgres://localhost/rbac" || cfg.SeedPassword != "seed-pass" {
		t.Errorf("cfg = %+v", cfg)
	}
}
