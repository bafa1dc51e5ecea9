package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Addr           string
	TLSCert        string
	TLSKey         string
	TokenKey       string
	DatabaseDriver string
	DatabaseURL    string
	TablesPath     string
	StaticDir      string
	LogLevel       string
	RateLimit      float64
	RateBurst      int
	CookieSecure   bool
}

// Load reads the given env files (".env" when none) into the environment and
// builds a Config from it. Missing env files are not an error.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, pkgerrors.Wrap(err, "failed to load env file")
	}

	c := &Config{
		Addr:           getenv("ADDR", ":8080"),
		TLSCert:        os.Getenv("TLS_CERT"),
		TLSKey:         os.Getenv("TLS_KEY"),
		TokenKey:       os.Getenv("TOKEN_KEY"),
		DatabaseDriver: getenv("DATABASE_DRIVER", "postgres"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		TablesPath:     os.Getenv("PHLAB_TABLES"),
		StaticDir:      getenv("STATIC_DIR", "./static/main"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
	}

	var err error
	if c.RateLimit, err = strconv.ParseFloat(getenv("RATE_LIMIT", "1"), 64); err != nil {
		return nil, pkgerrors.Wrap(err, "invalid RATE_LIMIT")
	}
	if c.RateBurst, err = strconv.Atoi(getenv("RATE_BURST", "3")); err != nil {
		return nil, pkgerrors.Wrap(err, "invalid RATE_BURST")
	}
	if c.CookieSecure, err = strconv.ParseBool(getenv("COOKIE_SECURE", "true")); err != nil {
		return nil, pkgerrors.Wrap(err, "invalid COOKIE_SECURE")
	}
	return c, nil
}

// Validate checks what the HTTP server needs to start.
func (c *Config) Validate() error {
	if c.TokenKey == "" {
		return pkgerrors.New("TOKEN_KEY environment variable is not set")
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return pkgerrors.New("TLS_CERT and TLS_KEY must be set together")
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return pkgerrors.New("RATE_LIMIT and RATE_BURST must be positive")
	}
	return nil
}

func (c *Config) TLS() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}

func (c *Config) LogrusFields() logrus.Fields {
	return logrus.Fields{
		"addr":           c.Addr,
		"tls":            c.TLS(),
		"databaseDriver": c.DatabaseDriver,
		"tables":         c.TablesPath,
		"staticDir":      c.StaticDir,
		"rateLimit":      c.RateLimit,
		"rateBurst":      c.RateBurst,
	}
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
