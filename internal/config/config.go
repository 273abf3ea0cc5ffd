package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultDatabaseDSN = "host=localhost user=postgres password=postgres dbname=backoffice port=5432 sslmode=disable"

type Config struct {
	HTTPPort    string
	CORSOrigins string

	DatabaseDriver string // postgres | sqlite
	DatabaseDSN    string

	JWTSecret    string
	TokenSealKey [32]byte // upstream token'larını şifrelemek için
	SessionTTL   time.Duration

	APIBaseURL string // upstream REST API
	APITimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	UnitsCacheTTL time.Duration

	BoardCacheTTL  time.Duration
	SearchDebounce time.Duration

	LogLevel  string
	LogFormat string
	LogOutput string
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		CORSOrigins:    getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		DatabaseDriver: strings.ToLower(getEnv("DATABASE_DRIVER", "postgres")),
		DatabaseDSN:    getEnv("DATABASE_DSN", defaultDatabaseDSN),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		APIBaseURL:     strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8000/api/v1"), "/"),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "console"),
		LogOutput:      getEnv("LOG_OUTPUT", "stdout"),
	}

	var err error
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.APITimeout, err = getDuration("API_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.UnitsCacheTTL, err = getDuration("UNITS_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.BoardCacheTTL, err = getDuration("BOARD_CACHE_TTL", 2*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SearchDebounce, err = getDuration("SEARCH_DEBOUNCE", 500*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("REDIS_DB geçersiz: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config doğrulanamadı: %w", err)
	}

	key, err := loadSealKey(getEnv("TOKEN_SEAL_KEY", ""), cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	cfg.TokenSealKey = key

	if cfg.DatabaseDriver == "postgres" && cfg.DatabaseDSN == defaultDatabaseDSN {
		log.Warn().Msg("DATABASE_DSN varsayılan değer kullanılıyor, production için kendi Postgres bağlantını tanımla")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Warn().Msg("CORS_ALLOWED_ORIGINS varsayılan değer kullanılıyor")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET tanımlanmamış")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET en az 32 karakter olmalı")
	}
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DATABASE_DRIVER desteklenmiyor: %q", c.DatabaseDriver)
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL zorunlu")
	}
	return nil
}

// CORSOriginList virgülle ayrılmış origin listesini temizler.
func (c *Config) CORSOriginList() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// TOKEN_SEAL_KEY hex (64 karakter) olmalı; yoksa JWT secret'tan türetilir.
func loadSealKey(raw, jwtSecret string) ([32]byte, error) {
	var key [32]byte
	if raw == "" {
		log.Warn().Msg("TOKEN_SEAL_KEY tanımlanmamış, JWT_SECRET'tan türetiliyor")
		return sha256.Sum256([]byte("token-seal:" + jwtSecret)), nil
	}
	b, err := hex.DecodeString(raw)
	if err != nil || len(b) != len(key) {
		return key, fmt.Errorf("TOKEN_SEAL_KEY 32 byte hex olmalı")
	}
	copy(key[:], b)
	return key, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s geçersiz süre: %w", key, err)
	}
	return d, nil
}

// Upstream CLI gibi sadece upstream'e konuşan araçlar için yeterli ayarlar.
type Upstream struct {
	BaseURL string
	Timeout time.Duration
	Token   string
}

func LoadUpstream() (*Upstream, error) {
	u := &Upstream{
		BaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8000/api/v1"), "/"),
		Token:   getEnv("API_TOKEN", ""),
	}
	var err error
	if u.Timeout, err = getDuration("API_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	return u, nil
}
