// Package config loads application settings from a .env file and environment
// variables. Environment variables always take precedence over .env values.
package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ligavoley/voleyapi/rating"
)

// Config holds all application configuration.
type Config struct {
	// PostgreSQL – either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// JWT signing secret (required in production).
	JWTSecret string

	// Server
	Debug      bool
	Port       string
	TLSDomains []string

	// Rating model
	RosterSize     int
	RatingFormula  string
	RatingDivisor  float64
	MarginK        float64
	MarginExponent float64
	GapKMin        float64
	GapKBase       float64
	GapKMax        float64
	GapDecay       float64
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	v := newViper()

	// Defaults. The RATING_* parameters default to 0, meaning "use the
	// selected formula's historical constants".
	v.SetDefault("DB_USER", "voley")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "ligavoley")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("PORT", ":5000")
	v.SetDefault("TLS_DOMAINS", "ligavoley.app,www.ligavoley.app")
	v.SetDefault("DEBUG", false)
	v.SetDefault("ROSTER_SIZE", 6)
	v.SetDefault("RATING_FORMULA", string(rating.KMargin))

	cfg := &Config{
		DatabaseURL:    v.GetString("DATABASE_URL"),
		DBUser:         v.GetString("DB_USER"),
		DBPass:         v.GetString("DB_PASS"),
		DBHost:         v.GetString("DB_HOST"),
		DBPort:         v.GetString("DB_PORT"),
		DBName:         v.GetString("DB_NAME"),
		DBSSLMode:      v.GetString("DB_SSLMODE"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		Debug:          v.GetBool("DEBUG"),
		Port:           v.GetString("PORT"),
		TLSDomains:     splitTrimmed(v.GetString("TLS_DOMAINS")),
		RosterSize:     v.GetInt("ROSTER_SIZE"),
		RatingFormula:  v.GetString("RATING_FORMULA"),
		RatingDivisor:  v.GetFloat64("RATING_DIVISOR"),
		MarginK:        v.GetFloat64("RATING_MARGIN_K"),
		MarginExponent: v.GetFloat64("RATING_MARGIN_EXP"),
		GapKMin:        v.GetFloat64("RATING_GAP_K_MIN"),
		GapKBase:       v.GetFloat64("RATING_GAP_K_BASE"),
		GapKMax:        v.GetFloat64("RATING_GAP_K_MAX"),
		GapDecay:       v.GetFloat64("RATING_GAP_DECAY"),
	}

	cfg.validate()
	return cfg
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// JWTKey returns the JWT signing key as a byte slice.
func (c *Config) JWTKey() []byte {
	return []byte(c.JWTSecret)
}

// Formula builds the rating formula from configuration: the named strategy
// supplies its historical constants, and any RATING_* value that is set
// overrides the corresponding parameter.
func (c *Config) Formula() (rating.FormulaConfig, error) {
	var f rating.FormulaConfig
	switch rating.KStrategy(c.RatingFormula) {
	case rating.KMargin:
		f = rating.MarginFormula()
	case rating.KRatingGap:
		f = rating.RatingGapFormula()
	default:
		return f, fmt.Errorf("unknown RATING_FORMULA %q (want %q or %q)",
			c.RatingFormula, rating.KMargin, rating.KRatingGap)
	}

	if c.RatingDivisor > 0 {
		f.Divisor = c.RatingDivisor
	}
	if c.MarginK > 0 {
		f.MarginK = c.MarginK
	}
	if c.MarginExponent > 0 {
		f.MarginExponent = c.MarginExponent
	}
	if c.GapKMin > 0 {
		f.GapKMin = c.GapKMin
	}
	if c.GapKBase > 0 {
		f.GapKBase = c.GapKBase
	}
	if c.GapKMax > 0 {
		f.GapKMax = c.GapKMax
	}
	if c.GapDecay > 0 {
		f.GapDecay = c.GapDecay
	}

	if err := f.Validate(); err != nil {
		return f, err
	}
	return f, nil
}

func (c *Config) validate() {
	if c.DatabaseURL == "" && c.DBPass == "" {
		log.Fatal("config: DATABASE_URL or DB_PASS must be set")
	}
	if c.JWTSecret == "" {
		log.Fatal("config: JWT_SECRET must be set")
	}
	if c.RosterSize <= 0 {
		log.Fatal("config: ROSTER_SIZE must be positive")
	}
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
