package cmd

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hopla/hopla-ssl/internal/bundle"
	"github.com/hopla/hopla-ssl/internal/prompt"
	"github.com/hopla/hopla-ssl/internal/trust"
	"github.com/hopla/hopla-ssl/internal/ui"
)

var trustCmd = &cobra.Command{
	Use:   "trust",
	Short: "Install the CA into the system trust store",
	Long: `Installs ca.pem from the certificate directory into the trust store of the
operating system (and the NSS database used by browsers on Linux).
Administrator privileges may be requested.`,
	Args: cobra.NoArgs,
	RunE: runTrust,
}

var (
	trustPath string
	trustDir  string
	trustYes  bool
)

func init() {
	trustCmd.Flags().StringVarP(&trustPath, "path", "p", ".", "Project directory")
	trustCmd.Flags().StringVarP(&trustDir, "directory", "d", "", "Certificate directory, relative to --path (default: outputDir of the project config, ./ssl)")
	trustCmd.Flags().BoolVarP(&trustYes, "yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(trustCmd)
}

func runTrust(cmd *cobra.Command, args []string) error {
	caPath, err := trustCAPath(cmd, trustPath, trustDir)
	if err != nil {
		return err
	}
	return offerTrust(caPath, trustYes)
}

// trustCAPath はプロジェクトと --directory から ca.pem のパスを求め、存在を確認する
func trustCAPath(cmd *cobra.Command, path, dir string) (string, error) {
	projectDir, err := resolveProject(path)
	if err != nil {
		return "", err
	}
	cfg, err := loadConfig(cmd, projectDir, nil)
	if err != nil {
		return "", err
	}

	caPath := bundle.Paths(resolveCertDir(projectDir, cfg, dir)).CAPath
	if _, err := os.Stat(caPath); err != nil {
		return "", fmt.Errorf("CA certificate not found at %s, run \"hopla-ssl generate\" first", caPath)
	}
	return caPath, nil
}

// offerTrust は確認のうえ CA をインストールする。非対話環境では案内のみ
func offerTrust(caPath string, yes bool) error {
	if caPath == "" {
		return nil
	}
	if !yes {
		if !prompt.Interactive() {
			ui.Info("Run \"hopla-ssl trust\" to trust the CA in your browsers")
			return nil
		}
		ok, err := prompt.ConfirmTrust()
		if err != nil {
			return err
		}
		if !ok {
			ui.Info("Skipped. Run \"hopla-ssl trust\" later to trust the CA")
			return nil
		}
	}
	return installTrust(trust.New(), runtime.GOOS, caPath)
}

func installTrust(inst *trust.Installer, goos, caPath string) error {
	res, err := inst.Install(caPath)
	if err != nil {
		if errors.Is(err, trust.ErrUnsupported) {
			ui.Warn(err.Error())
		} else {
			ui.Error(fmt.Sprintf("Failed to install the CA: %v", err))
		}
		ui.Info("Install it manually:")
		ui.List(trust.ManualInstructions(goos, caPath))
		return err
	}

	ui.Success(fmt.Sprintf("CA installed (%s)", strings.Join(res.Methods, ", ")))
	ui.Info("Restart your browser to pick up the new CA")
	return nil
}
