package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/bracketview/brackets"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the server.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	RedisURL       string
	LayoutCacheTTL time.Duration

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string

	CORSAllowedOrigins []string
	PreviewRateLimit   float64

	Layout brackets.LayoutConfig
}

// R2Enabled reports whether snapshot publishing is configured.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != ""
}

// Load reads configuration from the environment. A .env file, if present,
// is loaded first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	cfg := &Config{
		DatabaseURL:       dbURL,
		JWTSecretKey:      jwtKey,
		ServerPort:        port,
		RedisURL:          os.Getenv("REDIS_URL"),
		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	if cfg.LayoutCacheTTL, err = durationEnv("LAYOUT_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if err := cfg.validateR2(); err != nil {
		return nil, err
	}

	cfg.CORSAllowedOrigins = []string{"*"}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSAllowedOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	if cfg.PreviewRateLimit, err = floatEnv("PREVIEW_RATE_LIMIT", 10); err != nil {
		return nil, err
	}
	if cfg.PreviewRateLimit <= 0 {
		return nil, fmt.Errorf("PREVIEW_RATE_LIMIT must be positive, got %v", cfg.PreviewRateLimit)
	}

	cfg.Layout = brackets.DefaultLayoutConfig()
	if cfg.Layout.MatchHeight, err = floatEnv("LAYOUT_MATCH_HEIGHT", brackets.DefaultMatchHeight); err != nil {
		return nil, err
	}
	if cfg.Layout.MatchPadding, err = floatEnv("LAYOUT_MATCH_PADDING", brackets.DefaultMatchPadding); err != nil {
		return nil, err
	}
	if cfg.Layout.BaseSpacerHeight, err = floatEnv("LAYOUT_BASE_SPACER", brackets.DefaultBaseSpacerHeight); err != nil {
		return nil, err
	}
	if cfg.Layout.MatchHeight <= 0 || cfg.Layout.BaseSpacerHeight <= 0 || cfg.Layout.MatchPadding < 0 {
		return nil, fmt.Errorf("layout dimensions must be positive")
	}

	return cfg, nil
}

func (c *Config) validateR2() error {
	set := map[string]string{
		"R2_ACCOUNT_ID":        c.R2AccountID,
		"R2_ACCESS_KEY_ID":     c.R2AccessKeyID,
		"R2_SECRET_ACCESS_KEY": c.R2SecretAccessKey,
		"R2_BUCKET_NAME":       c.R2BucketName,
		"R2_PUBLIC_BASE_URL":   c.R2PublicBaseURL,
	}
	var missing []string
	for name, v := range set {
		if v == "" {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	if len(missing) > 0 && len(missing) < len(set) {
		return fmt.Errorf("R2 storage is partially configured, missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func intEnv(name string, def int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	return v, nil
}

func floatEnv(name string, def float64) (float64, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	return v, nil
}

func durationEnv(name string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	return v, nil
}
