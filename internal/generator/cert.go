package generator

import (
	"github.com/rs/zerolog"

	"github.com/hopla/hopla-ssl/internal/bundle"
	"github.com/hopla/hopla-ssl/internal/certs"
	"github.com/hopla/hopla-ssl/internal/config"
)

// CertificateRequest は証明書一式の発行条件
type CertificateRequest struct {
	Config config.Certificate
	// OutputDir が空の場合は Config.OutputDir を使う
	OutputDir string

	// 既存 CA を再利用する場合に指定する
	CACertPath string
	CAKeyPath  string

	SaveCAKey      bool
	PKCS12         bool
	PKCS12Password string

	Logger zerolog.Logger
}

// GenerateCertificate は CA とリーフ証明書を発行してディスクに書き出す
func GenerateCertificate(req CertificateRequest) (*bundle.Result, error) {
	cfg := req.Config
	log := req.Logger

	// 鍵生成の前に入力をすべて検証する
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	outDir := req.OutputDir
	if outDir == "" {
		outDir = cfg.OutputDir
	}

	freshCA := req.CACertPath == ""
	var ca *certs.CertificateAuthority
	var err error
	if freshCA {
		ca, err = certs.CreateCA(cfg.Identity(), cfg.ValidityDays)
	} else {
		ca, err = bundle.LoadCA(req.CACertPath, req.CAKeyPath)
	}
	if err != nil {
		return nil, err
	}
	defer ca.Destroy()

	log.Debug().
		Bool("fresh", freshCA).
		Str("subject", ca.Cert.Subject.String()).
		Str("serial", ca.Cert.SerialNumber.Text(16)).
		Str("fingerprint", certs.Fingerprint(ca.Cert)).
		Msg("certificate authority ready")

	leaf, err := ca.SignLeaf(cfg.Domain, cfg.ValidityDays)
	if err != nil {
		return nil, err
	}
	defer leaf.Destroy()

	if leaf.NotAfter.After(ca.NotAfter) {
		log.Warn().
			Time("leaf_not_after", leaf.NotAfter).
			Time("ca_not_after", ca.NotAfter).
			Msg("leaf certificate outlives its CA")
	}

	keyPEM, err := leaf.KeyPEM()
	if err != nil {
		return nil, err
	}
	defer clear(keyPEM)

	m := bundle.Materials{
		KeyPEM:  keyPEM,
		CertPEM: leaf.CertPEM,
	}
	if freshCA {
		m.CACertPEM = ca.CertPEM
	}
	if req.SaveCAKey {
		m.CAKeyPEM, err = ca.KeyPEM()
		if err != nil {
			return nil, err
		}
		defer clear(m.CAKeyPEM)
	}
	if req.PKCS12 {
		password := req.PKCS12Password
		if password == "" {
			password = certs.DefaultPKCS12Password
		}
		m.PKCS12, err = leaf.PKCS12(password)
		if err != nil {
			return nil, err
		}
	}

	res, err := bundle.Write(outDir, m, bundle.WriteOptions{SaveCAKey: req.SaveCAKey})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("domain", leaf.Domain).
		Strs("dns_names", leaf.DNSNames).
		Str("serial", leaf.Cert.SerialNumber.Text(16)).
		Str("fingerprint", certs.Fingerprint(leaf.Cert)).
		Time("not_after", leaf.NotAfter).
		Str("dir", res.Dir).
		Msg("certificate issued")

	return res, nil
}
