package env_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/turbekoff/amountpad/pkg/env"
)

type Inner struct {
	Locale language.Tag `env:"ENVTEST_LOCALE" env-default:"en"`
}

type config struct {
	Inner
	Token   string          `env:"ENVTEST_TOKEN,required"`
	Offset  int             `env:"ENVTEST_OFFSET" env-default:"20"`
	Debug   bool            `env:"ENVTEST_DEBUG"`
	TTL     time.Duration   `env:"ENVTEST_TTL" env-default:"20m"`
	Max     decimal.Decimal `env:"ENVTEST_MAX" env-default:"9999999999999.99"`
	ignored string
}

func TestRead_Defaults(t *testing.T) {
	t.Setenv("ENVTEST_TOKEN", "secret")

	var cfg config
	if err := env.Read(&cfg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if cfg.Token != "secret" || cfg.Offset != 20 || cfg.Debug {
		t.Fatalf("unexpected scalars: %+v", cfg)
	}
	if cfg.TTL != 20*time.Minute {
		t.Fatalf("ttl: got %v", cfg.TTL)
	}
	if !cfg.Max.Equal(decimal.RequireFromString("9999999999999.99")) {
		t.Fatalf("max: got %v", cfg.Max)
	}
	if cfg.Locale.String() != "en" {
		t.Fatalf("locale: got %v", cfg.Locale)
	}
}

func TestRead_Overrides(t *testing.T) {
	t.Setenv("ENVTEST_TOKEN", "secret")
	t.Setenv("ENVTEST_LOCALE", "de")
	t.Setenv("ENVTEST_DEBUG", "true")
	t.Setenv("ENVTEST_MAX", "100.5")

	var cfg config
	if err := env.Read(&cfg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if cfg.Locale.String() != "de" || !cfg.Debug || cfg.Max.String() != "100.5" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestRead_Required(t *testing.T) {
	os.Unsetenv("ENVTEST_TOKEN")

	var cfg config
	err := env.Read(&cfg)
	if err == nil || !strings.Contains(err.Error(), "ENVTEST_TOKEN") {
		t.Fatalf("expected missing token error, got %v", err)
	}
}

func TestRead_Invalid(t *testing.T) {
	t.Setenv("ENVTEST_TOKEN", "secret")
	t.Setenv("ENVTEST_MAX", "lots")

	var cfg config
	if err := env.Read(&cfg); err == nil {
		t.Fatal("expected parse error for ENVTEST_MAX")
	}
}

func TestLoad_DotenvFile(t *testing.T) {
	t.Setenv("ENVTEST_OFFSET", "7")
	t.Setenv("ENVTEST_TOKEN", "")
	os.Unsetenv("ENVTEST_TOKEN")

	file := filepath.Join(t.TempDir(), ".env")
	body := "ENVTEST_TOKEN=from-file\nENVTEST_OFFSET=99\n"
	if err := os.WriteFile(file, []byte(body), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	missing := filepath.Join(t.TempDir(), "missing.env")
	if err := env.Load(missing, file); err != nil {
		t.Fatalf("load: %v", err)
	}

	var cfg config
	if err := env.Read(&cfg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if cfg.Token != "from-file" {
		t.Fatalf("token from file: got %q", cfg.Token)
	}
	if cfg.Offset != 7 {
		t.Fatalf("environment must win over the file: got %d", cfg.Offset)
	}
}
