package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hopla/hopla-ssl/internal/certs"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "Hopla SSL Local CA", cfg.Organization)
	assert.Equal(t, "FR", cfg.CountryCode)
	assert.Equal(t, "Local Development", cfg.State)
	assert.Equal(t, "Development Environment", cfg.Locality)
	assert.Equal(t, 365, cfg.ValidityDays)
	assert.Equal(t, "localhost", cfg.Domain)
	assert.Equal(t, "./ssl", cfg.OutputDir)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Certificate)
	}{
		{name: "bad country", modify: func(c *Certificate) { c.CountryCode = "FRA" }},
		{name: "zero validity", modify: func(c *Certificate) { c.ValidityDays = 0 }},
		{name: "negative validity", modify: func(c *Certificate) { c.ValidityDays = -5 }},
		{name: "empty domain", modify: func(c *Certificate) { c.Domain = "" }},
		{name: "invalid domain", modify: func(c *Certificate) { c.Domain = "bad domain" }},
		{name: "empty output", modify: func(c *Certificate) { c.OutputDir = " " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			assert.ErrorIs(t, cfg.Validate(), certs.ErrIdentityValidation)
		})
	}
}

func TestLoad_Layering(t *testing.T) {
	dir := t.TempDir()

	yamlData := "organization: Acme Dev\ndomain: acme.test\nvalidityDays: 30\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(yamlData), 0644))

	envData := "HOPLA_SSL_DOMAIN=env.test\nHOPLA_SSL_COUNTRY=DE\nUNRELATED=1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(envData), 0644))

	t.Setenv("HOPLA_SSL_COUNTRY", "JP")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "Acme Dev", cfg.Organization)
	assert.Equal(t, 30, cfg.ValidityDays)
	assert.Equal(t, "env.test", cfg.Domain)
	assert.Equal(t, "JP", cfg.CountryCode)
	assert.Equal(t, DefaultState, cfg.State)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
}

func TestLoad_NoFiles(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("domain: [unterminated"), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoadEnv_InvalidValidity(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HOPLA_SSL_VALIDITY_DAYS=soon\n"), 0644))

	_, err := LoadEnv(dir)
	assert.ErrorContains(t, err, "HOPLA_SSL_VALIDITY_DAYS")
}

func TestLoadEnv_LogLevel(t *testing.T) {
	t.Setenv("HOPLA_SSL_LOG_LEVEL", "DEBUG")

	env, err := LoadEnv(t.TempDir())
	require.NoError(t, err)
	assert.True(t, env.Debug())
}

func TestSaveAndLoadFile(t *testing.T) {
	dir := t.TempDir()
	cfg := Defaults()
	cfg.Domain = "saved.test"

	require.NoError(t, cfg.Save(dir))

	loaded, err := LoadFile(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestResolveOutputDir(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, filepath.Join("/project", "ssl"), cfg.ResolveOutputDir("/project"))

	abs := filepath.Join(t.TempDir(), "certs")
	cfg.OutputDir = abs
	assert.Equal(t, abs, cfg.ResolveOutputDir("/project"))
}
