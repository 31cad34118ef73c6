package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfig writes a config file to a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

const validConfig = `
server:
  port: 9090
database:
  path: /tmp/test-inkwell.db
security:
  jwt:
    secret: "0123456789abcdef0123456789abcdef"
admin:
  username: admin
  password: hunter22
`

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, validConfig)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/test-inkwell.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	// Defaults survive partial files
	if cfg.Security.JWT.SessionTokenTTL != 600 {
		t.Errorf("SessionTokenTTL = %d, want default 600", cfg.Security.JWT.SessionTokenTTL)
	}
	if cfg.Security.JWT.RefreshTokenTTL != 7*24*3600 {
		t.Errorf("RefreshTokenTTL = %d, want default one week", cfg.Security.JWT.RefreshTokenTTL)
	}
	if cfg.Security.JWT.RefreshTokenSize != 64 {
		t.Errorf("RefreshTokenSize = %d, want default 64", cfg.Security.JWT.RefreshTokenSize)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/test.db
admin:
  username: admin
  password: hunter22
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() should fail without a JWT secret")
	}
	if !strings.Contains(err.Error(), "security.jwt.secret") {
		t.Errorf("error should mention security.jwt.secret, got: %v", err)
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	path := writeConfig(t, `
security:
  jwt:
    secret: "tooshort"
admin:
  username: admin
  password: hunter22
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() should reject a short JWT secret")
	}
}

func TestLoad_MissingAdminCredentials(t *testing.T) {
	path := writeConfig(t, `
security:
  jwt:
    secret: "0123456789abcdef0123456789abcdef"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() should fail without admin credentials")
	}
	if !strings.Contains(err.Error(), "admin.username") {
		t.Errorf("error should mention admin credentials, got: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, validConfig)

	t.Setenv("INKWELL_JWT_SECRET", "fedcba9876543210fedcba9876543210")
	t.Setenv("INKWELL_ADMIN_USER", "root")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Security.JWT.Secret != "fedcba9876543210fedcba9876543210" {
		t.Error("INKWELL_JWT_SECRET should override the file value")
	}
	if cfg.Admin.Username != "root" {
		t.Error("INKWELL_ADMIN_USER should override the file value")
	}
}

func TestDurationHelpers(t *testing.T) {
	path := writeConfig(t, validConfig)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.SessionTokenTTL(); got != 600*time.Second {
		t.Errorf("SessionTokenTTL() = %v, want 600s", got)
	}
	if got := cfg.RefreshTokenTTL(); got != 7*24*time.Hour {
		t.Errorf("RefreshTokenTTL() = %v, want 168h", got)
	}
	if got := cfg.ReadTimeout(); got != 30*time.Second {
		t.Errorf("ReadTimeout() = %v, want 30s", got)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("Load() should fail for a missing file")
	}
}
