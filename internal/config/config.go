package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	"github.com/hopla/hopla-ssl/internal/certs"
)

const ConfigFile = ".hopla-ssl.yaml"

// 既定値
const (
	DefaultOrganization = "Hopla SSL Local CA"
	DefaultCountryCode  = "FR"
	DefaultState        = "Local Development"
	DefaultLocality     = "Development Environment"
	DefaultValidityDays = 365
	DefaultDomain       = "localhost"
	DefaultOutputDir    = "./ssl"
)

// Certificate は証明書発行の設定
type Certificate struct {
	Organization string `yaml:"organization,omitempty"`
	CountryCode  string `yaml:"countryCode,omitempty"`
	State        string `yaml:"state,omitempty"`
	Locality     string `yaml:"locality,omitempty"`
	ValidityDays int    `yaml:"validityDays,omitempty"`
	Domain       string `yaml:"domain,omitempty"`
	OutputDir    string `yaml:"outputDir,omitempty"`
}

func Defaults() Certificate {
	return Certificate{
		Organization: DefaultOrganization,
		CountryCode:  DefaultCountryCode,
		State:        DefaultState,
		Locality:     DefaultLocality,
		ValidityDays: DefaultValidityDays,
		Domain:       DefaultDomain,
		OutputDir:    DefaultOutputDir,
	}
}

// Identity は CA の識別情報を返す
func (c Certificate) Identity() certs.Identity {
	return certs.Identity{
		Organization: c.Organization,
		CountryCode:  c.CountryCode,
		State:        c.State,
		Locality:     c.Locality,
	}
}

// Validate は鍵生成前にまとめて入力を検証する
func (c Certificate) Validate() error {
	if err := c.Identity().Validate(); err != nil {
		return err
	}
	if c.ValidityDays <= 0 {
		return fmt.Errorf("%w: validity must be a positive number of days, got %d", certs.ErrIdentityValidation, c.ValidityDays)
	}
	if _, err := certs.NormalizeDomain(c.Domain); err != nil {
		return err
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("%w: output directory is required", certs.ErrIdentityValidation)
	}
	return nil
}

// Merge は other の空でない値で上書きする
func (c *Certificate) Merge(other Certificate) {
	if other.Organization != "" {
		c.Organization = other.Organization
	}
	if other.CountryCode != "" {
		c.CountryCode = other.CountryCode
	}
	if other.State != "" {
		c.State = other.State
	}
	if other.Locality != "" {
		c.Locality = other.Locality
	}
	if other.ValidityDays != 0 {
		c.ValidityDays = other.ValidityDays
	}
	if other.Domain != "" {
		c.Domain = other.Domain
	}
	if other.OutputDir != "" {
		c.OutputDir = other.OutputDir
	}
}

// LoadFile はプロジェクトの .hopla-ssl.yaml を読み込む。
// ファイルがなければ空の設定を返す
func LoadFile(projectDir string) (Certificate, error) {
	var cfg Certificate

	data, err := os.ReadFile(filepath.Join(projectDir, ConfigFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", ConfigFile, err)
	}
	return cfg, nil
}

// Save は設定を .hopla-ssl.yaml に書き出す
func (c Certificate) Save(projectDir string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return renameio.WriteFile(filepath.Join(projectDir, ConfigFile), data, 0644)
}

// Load は既定値 < .hopla-ssl.yaml < .env / 環境変数 の順に重ねた設定を返す。
// CLI フラグは呼び出し側で最後に Merge する
func Load(projectDir string) (Certificate, error) {
	cfg := Defaults()

	fileCfg, err := LoadFile(projectDir)
	if err != nil {
		return cfg, err
	}
	cfg.Merge(fileCfg)

	env, err := LoadEnv(projectDir)
	if err != nil {
		return cfg, err
	}
	cfg.Merge(env.Certificate)

	return cfg, nil
}

// ResolveOutputDir は相対パスの出力先をプロジェクト基準に解決する
func (c Certificate) ResolveOutputDir(projectDir string) string {
	if filepath.IsAbs(c.OutputDir) {
		return c.OutputDir
	}
	return filepath.Join(projectDir, c.OutputDir)
}
