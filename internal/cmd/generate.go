package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hopla/hopla-ssl/internal/bundle"
	"github.com/hopla/hopla-ssl/internal/certs"
	"github.com/hopla/hopla-ssl/internal/generator"
	"github.com/hopla/hopla-ssl/internal/ui"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Create a CA and a certificate for a domain",
	Long: `Creates a local certificate authority and a certificate for the given domain.
The certificate also covers *.domain, localhost, 127.0.0.1 and ::1.

Files written to the output directory:
  key.pem   private key of the certificate
  cert.pem  certificate
  ca.pem    CA certificate to install with "hopla-ssl trust"`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

var (
	generateCert      certFlags
	generatePath      string
	generateOutput    string
	generateCACert    string
	generateCAKey     string
	generateSaveCAKey bool
	generatePKCS12    bool
	generateP12Pass   string
)

func init() {
	generateCert.register(generateCmd)
	generateCmd.Flags().StringVarP(&generatePath, "path", "p", ".", "Project directory")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output directory (default: outputDir of the project config, ./ssl)")
	generateCmd.Flags().StringVar(&generateCACert, "ca-cert", "", "Reuse an existing CA certificate")
	generateCmd.Flags().StringVar(&generateCAKey, "ca-key", "", "Private key of the CA given with --ca-cert")
	generateCmd.Flags().BoolVar(&generateSaveCAKey, "save-ca-key", false, "Also write the CA private key (ca-key.pem)")
	generateCmd.Flags().BoolVar(&generatePKCS12, "pkcs12", false, "Also write a PKCS#12 bundle (cert.p12)")
	generateCmd.Flags().StringVar(&generateP12Pass, "pkcs12-password", certs.DefaultPKCS12Password, "Password of the PKCS#12 bundle")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	projectDir, err := resolveProject(generatePath)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, projectDir, &generateCert)
	if err != nil {
		return err
	}

	if (generateCACert == "") != (generateCAKey == "") {
		return errors.New("--ca-cert and --ca-key must be used together")
	}

	outDir := cfg.ResolveOutputDir(projectDir)
	if generateOutput != "" {
		if outDir, err = filepath.Abs(generateOutput); err != nil {
			return err
		}
	}

	if bundle.Exists(outDir) {
		ui.Warn(fmt.Sprintf("Replacing the existing certificates in %s", outDir))
	}

	var res *bundle.Result
	err = ui.WithInterruptHandler(func() error {
		return ui.RunWithSpinner("Generating certificates...", func() error {
			var genErr error
			res, genErr = generator.GenerateCertificate(generator.CertificateRequest{
				Config:         cfg,
				OutputDir:      outDir,
				CACertPath:     generateCACert,
				CAKeyPath:      generateCAKey,
				SaveCAKey:      generateSaveCAKey,
				PKCS12:         generatePKCS12,
				PKCS12Password: generateP12Pass,
				Logger:         log,
			})
			return genErr
		})
	}, func() {
		ui.Warn("Interrupted")
	})
	if err != nil {
		return err
	}

	ui.Success(fmt.Sprintf("Certificate generated for %s", cfg.Domain))
	printBundle(res)
	if res.CAPath != "" {
		fmt.Println()
		ui.Info("Run \"hopla-ssl trust\" to trust the CA in your browsers")
	}
	return nil
}

// printBundle は書き出したファイルのパスを表示する
func printBundle(res *bundle.Result) {
	ui.Detail("Private key", res.KeyPath)
	ui.Detail("Certificate", res.CertPath)
	if res.CAPath != "" {
		ui.Detail("CA certificate", res.CAPath)
	}
	if res.CAKeyPath != "" {
		ui.Detail("CA private key", res.CAKeyPath)
	}
	if res.PKCS12Path != "" {
		ui.Detail("PKCS#12", res.PKCS12Path)
	}
}
