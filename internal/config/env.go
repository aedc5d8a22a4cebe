package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const EnvPrefix = "HOPLA_SSL_"

type EnvConfig struct {
	Certificate Certificate
	LogLevel    string
}

// LoadEnv は .env と HOPLA_SSL_* 環境変数を読み込む。
// プロセスの環境変数が .env より優先される
func LoadEnv(projectDir string) (*EnvConfig, error) {
	values := map[string]string{}

	envPath := filepath.Join(projectDir, ".env")
	fileValues, err := godotenv.Read(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", envPath, err)
	}
	for k, v := range fileValues {
		values[k] = v
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, EnvPrefix) {
			values[k] = v
		}
	}

	get := func(name string) string {
		return strings.TrimSpace(values[EnvPrefix+name])
	}

	cfg := &EnvConfig{
		Certificate: Certificate{
			Organization: get("ORGANIZATION"),
			CountryCode:  get("COUNTRY"),
			State:        get("STATE"),
			Locality:     get("LOCALITY"),
			Domain:       get("DOMAIN"),
			OutputDir:    get("OUTPUT_DIR"),
		},
		LogLevel: get("LOG_LEVEL"),
	}

	if v := get("VALIDITY_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%sVALIDITY_DAYS: %w", EnvPrefix, err)
		}
		cfg.Certificate.ValidityDays = days
	}

	return cfg, nil
}

func (c *EnvConfig) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}
