package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"ADDR", "TOKEN_KEY", "DATABASE_DRIVER", "RATE_LIMIT", "RATE_BURST", "COOKIE_SECURE", "TLS_CERT", "TLS_KEY"} {
		t.Setenv(k, "")
	}
	c, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Addr != ":8080" || c.DatabaseDriver != "postgres" || c.RateLimit != 1 || c.RateBurst != 3 || !c.CookieSecure {
		t.Errorf("unexpected defaults %+v", c)
	}
	if err := c.Validate(); err == nil {
		t.Error("missing TOKEN_KEY accepted")
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("TOKEN_KEY", "")
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("RATE_BURST", "")
	os.Unsetenv("TOKEN_KEY")
	os.Unsetenv("DATABASE_DRIVER")
	os.Unsetenv("RATE_BURST")

	path := filepath.Join(t.TempDir(), ".env")
	content := "TOKEN_KEY=abc\nDATABASE_DRIVER=sqlite\nRATE_BURST=10\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.TokenKey != "abc" || c.DatabaseDriver != "sqlite" || c.RateBurst != 10 {
		t.Errorf("env file not applied: %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("RATE_LIMIT", "fast")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("expected error for bad RATE_LIMIT")
	}
}

func TestValidateTLSPair(t *testing.T) {
	c := &Config{TokenKey: "k", TLSCert: "server.crt", RateLimit: 1, RateBurst: 1}
	if err := c.Validate(); err == nil {
		t.Error("cert without key accepted")
	}
	c.TLSKey = "server.key"
	if err := c.Validate(); err != nil || !c.TLS() {
		t.Errorf("Validate() = %v, TLS() = %v", err, c.TLS())
	}
}
