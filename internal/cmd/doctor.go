package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hopla/hopla-ssl/internal/bundle"
	"github.com/hopla/hopla-ssl/internal/certs"
	"github.com/hopla/hopla-ssl/internal/config"
	"github.com/hopla/hopla-ssl/internal/trust"
	"github.com/hopla/hopla-ssl/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the certificates of a project",
	Long:  `Checks the Node.js toolchain, the project config and the generated certificates, and reports problems.`,
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

var (
	doctorPath string
	doctorDir  string
)

// 残り日数がこれを下回ると警告する
const expiryWarnDays = 30

func init() {
	doctorCmd.Flags().StringVarP(&doctorPath, "path", "p", ".", "Project directory")
	doctorCmd.Flags().StringVar(&doctorDir, "directory", "", "Certificate directory, relative to --path (default: outputDir of the project config, ./ssl)")
	rootCmd.AddCommand(doctorCmd)
}

const (
	statusOK    = ui.LevelOK
	statusWarn  = ui.LevelWarn
	statusError = ui.LevelError
)

type checkResult struct {
	name    string
	status  ui.Level
	message string
}

func runDoctor(cmd *cobra.Command, args []string) error {
	projectDir, err := resolveProject(doctorPath)
	if err != nil {
		return err
	}

	fmt.Println()
	ui.Title("hopla-ssl doctor")
	fmt.Println()

	results := []checkResult{
		checkNodeVersion(),
		checkPackageManager(projectDir),
	}

	cfg, cfgResult := checkConfig(projectDir)
	results = append(results, cfgResult)
	results = append(results, checkCertificates(resolveCertDir(projectDir, cfg, doctorDir), trust.New())...)

	hasError := false
	hasWarn := false
	for _, r := range results {
		ui.Check(r.status, r.name, r.message)
		switch r.status {
		case statusWarn:
			hasWarn = true
		case statusError:
			hasError = true
		}
	}

	fmt.Println()

	if hasError {
		ui.Error("Problems found. Check the results above.")
	} else if hasWarn {
		ui.Warn("Some checks produced warnings.")
	} else {
		ui.Success("All checks passed!")
	}

	return nil
}

func checkNodeVersion() checkResult {
	version, err := ui.CommandOutput("node", "--version")
	if err != nil {
		return checkResult{name: "Node.js", status: statusWarn, message: "not installed"}
	}

	major, err := strconv.Atoi(strings.SplitN(strings.TrimPrefix(version, "v"), ".", 2)[0])
	if err != nil || major < 18 {
		return checkResult{name: "Node.js", status: statusWarn, message: fmt.Sprintf("%s (v18 or later recommended)", version)}
	}
	return checkResult{name: "Node.js", status: statusOK, message: version}
}

// lockfile からパッケージマネージャーを判定する
var lockfiles = []struct {
	file string
	pm   string
}{
	{"pnpm-lock.yaml", "pnpm"},
	{"yarn.lock", "yarn"},
	{"bun.lockb", "bun"},
	{"bun.lock", "bun"},
	{"package-lock.json", "npm"},
}

func detectPackageManager(projectDir string) string {
	for _, l := range lockfiles {
		if fileExists(filepath.Join(projectDir, l.file)) {
			return l.pm
		}
	}
	return "npm"
}

func checkPackageManager(projectDir string) checkResult {
	pm := detectPackageManager(projectDir)
	version, err := ui.CommandOutput(pm, "--version")
	if err != nil {
		return checkResult{name: "Package manager", status: statusWarn, message: fmt.Sprintf("%s is not installed", pm)}
	}
	return checkResult{name: "Package manager", status: statusOK, message: fmt.Sprintf("%s %s", pm, version)}
}

// checkConfig は設定を読み込む。失敗時は既定値を返す
func checkConfig(projectDir string) (config.Certificate, checkResult) {
	name := config.ConfigFile
	cfg, err := config.Load(projectDir)
	if err != nil {
		return config.Defaults(), checkResult{name: name, status: statusError, message: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, checkResult{name: name, status: statusError, message: err.Error()}
	}
	if !fileExists(filepath.Join(projectDir, config.ConfigFile)) {
		return cfg, checkResult{name: name, status: statusOK, message: "not present, using defaults"}
	}
	return cfg, checkResult{name: name, status: statusOK, message: "valid"}
}

// checkCertificates は dir の証明書一式を検査する
func checkCertificates(dir string, inst *trust.Installer) []checkResult {
	paths := bundle.Paths(dir)

	keyPEM, keyErr := bundle.ReadFile(paths.KeyPath)
	certPEM, certErr := bundle.ReadFile(paths.CertPath)
	if keyErr != nil && certErr != nil {
		return []checkResult{{
			name:    "Certificate",
			status:  statusWarn,
			message: fmt.Sprintf("not generated in %s (run \"hopla-ssl generate\")", dir),
		}}
	}
	if keyErr != nil || certErr != nil {
		return []checkResult{{name: "Certificate", status: statusError, message: "key.pem or cert.pem is missing"}}
	}
	defer clear(keyPEM)

	results := []checkResult{}

	info, err := certs.Inspect(certPEM)
	if err != nil {
		return append(results, checkResult{name: "Certificate", status: statusError, message: err.Error()})
	}
	results = append(results, checkExpiry(info))

	if ok, err := certs.KeyMatchesCertificate(keyPEM, certPEM); err != nil {
		results = append(results, checkResult{name: "Private key", status: statusError, message: err.Error()})
	} else if !ok {
		results = append(results, checkResult{name: "Private key", status: statusError, message: "does not match cert.pem"})
	} else {
		results = append(results, checkResult{name: "Private key", status: statusOK, message: "matches cert.pem"})
	}

	caPEM, err := bundle.ReadFile(paths.CAPath)
	if err != nil {
		return append(results, checkResult{name: "CA", status: statusWarn, message: "ca.pem not found, chain not checked"})
	}

	host := "localhost"
	if len(info.DNSNames) > 0 {
		host = info.DNSNames[0]
	}
	if err := certs.VerifyLeaf(certPEM, caPEM, host); err != nil {
		results = append(results, checkResult{name: "Chain", status: statusError, message: err.Error()})
	} else {
		results = append(results, checkResult{name: "Chain", status: statusOK, message: fmt.Sprintf("valid for %s", host)})
	}

	trusted, err := inst.Trusted(paths.CAPath)
	switch {
	case err != nil:
		results = append(results, checkResult{name: "Trust store", status: statusWarn, message: err.Error()})
	case trusted:
		results = append(results, checkResult{name: "Trust store", status: statusOK, message: "CA is trusted"})
	default:
		results = append(results, checkResult{name: "Trust store", status: statusWarn, message: "CA is not trusted (run \"hopla-ssl trust\")"})
	}

	return results
}

func checkExpiry(info *certs.Info) checkResult {
	switch {
	case info.Status == certs.StatusExpired:
		return checkResult{name: "Certificate", status: statusError, message: fmt.Sprintf("expired on %s", info.NotAfter.Format("2006-01-02"))}
	case info.Status == certs.StatusNotYetValid:
		return checkResult{name: "Certificate", status: statusError, message: fmt.Sprintf("not valid before %s", info.NotBefore.Format("2006-01-02"))}
	case info.DaysRemaining < expiryWarnDays:
		return checkResult{name: "Certificate", status: statusWarn, message: fmt.Sprintf("expires in %d days", info.DaysRemaining)}
	}
	return checkResult{name: "Certificate", status: statusOK, message: fmt.Sprintf("%s, %d days remaining", strings.Join(info.DNSNames, ", "), info.DaysRemaining)}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
