package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hopla/hopla-ssl/internal/config"
)

// certFlags は generate / setup 共通の証明書フラグ
type certFlags struct {
	domain   string
	org      string
	country  string
	state    string
	locality string
	validity int
}

func (f *certFlags) register(cmd *cobra.Command) {
	defaults := config.Defaults()
	cmd.Flags().StringVarP(&f.domain, "domain", "d", defaults.Domain, "Domain for the certificate")
	cmd.Flags().StringVar(&f.org, "org", defaults.Organization, "Organization for the certificate")
	cmd.Flags().StringVar(&f.country, "country", defaults.CountryCode, "Country code for the certificate (2 letters)")
	cmd.Flags().StringVar(&f.state, "state", defaults.State, "State or province for the certificate")
	cmd.Flags().StringVar(&f.locality, "locality", defaults.Locality, "Locality for the certificate")
	cmd.Flags().IntVar(&f.validity, "validity", defaults.ValidityDays, "Certificate validity in days")
}

// apply は明示的に指定されたフラグだけを cfg に反映する
func (f *certFlags) apply(cmd *cobra.Command, cfg *config.Certificate) {
	changed := cmd.Flags().Changed
	if changed("domain") {
		cfg.Domain = f.domain
	}
	if changed("org") {
		cfg.Organization = f.org
	}
	if changed("country") {
		cfg.CountryCode = f.country
	}
	if changed("state") {
		cfg.State = f.state
	}
	if changed("locality") {
		cfg.Locality = f.locality
	}
	if changed("validity") {
		cfg.ValidityDays = f.validity
	}
}

// resolveProject は --path をディレクトリの絶対パスに変換する
func resolveProject(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("project path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project path %s is not a directory", abs)
	}
	return abs, nil
}

// resolveCertDir は証明書ディレクトリを決める。
// 相対パスの --directory はプロジェクト基準で解決する
func resolveCertDir(projectDir string, cfg config.Certificate, dir string) string {
	if dir == "" {
		return cfg.ResolveOutputDir(projectDir)
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(projectDir, dir)
}

// loadConfig は既定値・設定ファイル・環境変数・フラグを重ねて検証する
func loadConfig(cmd *cobra.Command, projectDir string, flags *certFlags) (config.Certificate, error) {
	cfg, err := config.Load(projectDir)
	if err != nil {
		return cfg, err
	}
	if flags != nil {
		flags.apply(cmd, &cfg)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
