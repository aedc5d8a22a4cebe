package trust

import (
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/hopla/hopla-ssl/internal/certs"
)

// ErrUnsupported は自動インストールに対応していない環境
var ErrUnsupported = errors.New("automatic trust store installation is not supported on this platform")

const (
	// LinuxAnchorPath は update-ca-certificates が読み込む配置先
	LinuxAnchorPath = "/usr/local/share/ca-certificates/hopla-ssl-ca.crt"
	// NSSNickname は NSS データベースに登録する名前
	NSSNickname = "Hopla SSL Local CA"
)

// Installer は OS のツールを使って CA を信頼ストアに登録する
type Installer struct {
	Runner   Runner
	GOOS     string
	LookPath func(file string) (string, error)
	HomeDir  string

	// SystemRoots はテストで差し替える
	SystemRoots func() (*x509.CertPool, error)
}

func New() *Installer {
	home, _ := os.UserHomeDir()
	return &Installer{
		Runner:      ExecRunner{},
		GOOS:        runtime.GOOS,
		LookPath:    exec.LookPath,
		HomeDir:     home,
		SystemRoots: x509.SystemCertPool,
	}
}

// Result は実行したインストール方法
type Result struct {
	Methods []string
}

// Install は caPath の CA 証明書を信頼ストアに登録する
func (i *Installer) Install(caPath string) (*Result, error) {
	if _, err := readCA(caPath); err != nil {
		return nil, err
	}

	switch i.GOOS {
	case "darwin":
		return i.run("macOS system keychain",
			command{"sudo", []string{"security", "add-trusted-cert", "-d", "-r", "trustRoot", "-k", "/Library/Keychains/System.keychain", caPath}},
		)
	case "windows":
		return i.run("Windows ROOT store",
			command{"certutil", []string{"-addstore", "-f", "ROOT", caPath}},
		)
	case "linux":
		return i.installLinux(caPath)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, i.GOOS)
	}
}

func (i *Installer) installLinux(caPath string) (*Result, error) {
	var res *Result
	var err error

	switch {
	case i.has("update-ca-certificates"):
		res, err = i.run("update-ca-certificates",
			command{"sudo", []string{"cp", caPath, LinuxAnchorPath}},
			command{"sudo", []string{"update-ca-certificates"}},
		)
	case i.has("trust"):
		res, err = i.run("p11-kit trust anchor",
			command{"sudo", []string{"trust", "anchor", "--store", caPath}},
		)
	case i.has("certutil"):
		return i.run("NSS database", i.nssCommand(caPath))
	default:
		return nil, fmt.Errorf("%w: no update-ca-certificates, trust or certutil found", ErrUnsupported)
	}
	if err != nil {
		return nil, err
	}

	// ブラウザ（Chrome / Firefox）はユーザーの NSS データベースを参照する
	if i.has("certutil") && i.nssDBExists() {
		nss, err := i.run("NSS database", i.nssCommand(caPath))
		if err != nil {
			return nil, err
		}
		res.Methods = append(res.Methods, nss.Methods...)
	}
	return res, nil
}

func (i *Installer) nssCommand(caPath string) command {
	db := "sql:" + filepath.Join(i.HomeDir, ".pki", "nssdb")
	return command{"certutil", []string{"-d", db, "-A", "-t", "C,,", "-n", NSSNickname, "-i", caPath}}
}

func (i *Installer) nssDBExists() bool {
	if i.HomeDir == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(i.HomeDir, ".pki", "nssdb"))
	return err == nil
}

func (i *Installer) has(name string) bool {
	if i.LookPath == nil {
		return false
	}
	_, err := i.LookPath(name)
	return err == nil
}

type command struct {
	name string
	args []string
}

func (i *Installer) run(method string, cmds ...command) (*Result, error) {
	for _, c := range cmds {
		if err := i.Runner.Run(c.name, c.args...); err != nil {
			return nil, fmt.Errorf("%s: %s: %w", method, c.name, err)
		}
	}
	return &Result{Methods: []string{method}}, nil
}

// Trusted は CA がシステムの信頼ストアで検証できるか確認する
func (i *Installer) Trusted(caPath string) (bool, error) {
	ca, err := readCA(caPath)
	if err != nil {
		return false, err
	}
	if i.SystemRoots == nil {
		return false, nil
	}
	roots, err := i.SystemRoots()
	if err != nil {
		return false, err
	}
	_, err = ca.Verify(x509.VerifyOptions{Roots: roots})
	return err == nil, nil
}

func readCA(caPath string) (*x509.Certificate, error) {
	data, err := os.ReadFile(caPath)
	if err != nil {
		return nil, fmt.Errorf("read CA certificate: %w", err)
	}
	cert, err := certs.ParseCertificatePEM(data)
	if err != nil {
		return nil, err
	}
	if !cert.IsCA {
		return nil, fmt.Errorf("%s is not a CA certificate", caPath)
	}
	return cert, nil
}

// ManualInstructions は自動インストールに失敗したときの手順
func ManualInstructions(goos, caPath string) []string {
	switch goos {
	case "darwin":
		return []string{
			fmt.Sprintf("Open the certificate in Keychain Access: open %q", caPath),
			"Double-click the certificate and expand the \"Trust\" section",
			"Set \"When using this certificate\" to \"Always Trust\"",
			"Close the window and enter your administrator password",
		}
	case "windows":
		return []string{
			fmt.Sprintf("Run in an administrator prompt: certutil -addstore -f ROOT %q", caPath),
			"Or double-click the certificate, choose \"Install Certificate\" and place it in \"Trusted Root Certification Authorities\"",
		}
	case "linux":
		return []string{
			fmt.Sprintf("Debian/Ubuntu: sudo cp %q %s && sudo update-ca-certificates", caPath, LinuxAnchorPath),
			fmt.Sprintf("Fedora/RHEL: sudo trust anchor --store %q", caPath),
			fmt.Sprintf("Browsers (NSS): certutil -d sql:$HOME/.pki/nssdb -A -t \"C,,\" -n %q -i %q", NSSNickname, caPath),
		}
	default:
		return []string{
			fmt.Sprintf("Import %s into your system or browser trust store as a trusted root", caPath),
		}
	}
}
