package certs

import (
	"crypto/sha1"
	"crypto/x509"
	"fmt"
	"time"
)

// 現在時刻。テストで固定する
var now = time.Now

// CertificateAuthority は自己署名のルート CA
type CertificateAuthority struct {
	Identity  Identity
	Cert      *x509.Certificate
	CertPEM   []byte
	NotBefore time.Time
	NotAfter  time.Time

	key *KeyPair
}

// CreateCA は新しい鍵ペアで自己署名 CA を作成する。
// 入力検証は鍵生成より前に行う
func CreateCA(identity Identity, validityDays int) (*CertificateAuthority, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	if err := validateValidity(validityDays); err != nil {
		return nil, err
	}

	key, err := GenerateKeyPair()
	if err != nil {
		return nil, err
	}

	serial, err := serials.next()
	if err != nil {
		key.Destroy()
		return nil, err
	}

	notBefore, notAfter := validityWindow(validityDays)
	ski, err := subjectKeyID(key)
	if err != nil {
		key.Destroy()
		return nil, err
	}

	template := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               identity.name(),
		NotBefore:             notBefore,
		NotAfter:              notAfter,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
		MaxPathLen:            0,
		MaxPathLenZero:        true,
		SubjectKeyId:          ski,
	}

	der, err := x509.CreateCertificate(randReader, template, template, key.Public(), key.Signer())
	if err != nil {
		key.Destroy()
		return nil, fmt.Errorf("%w: self-sign CA certificate: %w", ErrSigning, err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		key.Destroy()
		return nil, fmt.Errorf("%w: parse CA certificate: %w", ErrSigning, err)
	}

	return &CertificateAuthority{
		Identity:  identity,
		Cert:      cert,
		CertPEM:   EncodeCertificatePEM(der),
		NotBefore: cert.NotBefore,
		NotAfter:  cert.NotAfter,
		key:       key,
	}, nil
}

// LoadCA は既存の CA 証明書と秘密鍵を読み込む。
// keyPEM が nil の場合は署名できない CA になる
func LoadCA(certPEM, keyPEM []byte) (*CertificateAuthority, error) {
	cert, err := ParseCertificatePEM(certPEM)
	if err != nil {
		return nil, fmt.Errorf("%w: load CA certificate: %w", ErrIdentityValidation, err)
	}
	if !cert.IsCA {
		return nil, fmt.Errorf("%w: certificate %q is not a CA certificate", ErrIdentityValidation, cert.Subject.CommonName)
	}

	ca := &CertificateAuthority{
		Identity:  identityFromName(cert),
		Cert:      cert,
		CertPEM:   EncodeCertificatePEM(cert.Raw),
		NotBefore: cert.NotBefore,
		NotAfter:  cert.NotAfter,
	}
	if len(keyPEM) == 0 {
		return ca, nil
	}

	key, err := ParsePrivateKeyPEM(keyPEM)
	if err != nil {
		return nil, fmt.Errorf("%w: load CA key: %w", ErrSigning, err)
	}
	if !key.matches(cert.PublicKey) {
		key.Destroy()
		return nil, fmt.Errorf("%w: CA key does not match CA certificate", ErrSigning)
	}
	ca.key = key
	return ca, nil
}

// CanSign は秘密鍵を保持しているか
func (ca *CertificateAuthority) CanSign() bool {
	return ca != nil && ca.key != nil && ca.key.Signer() != nil
}

// KeyPEM は CA 秘密鍵の PEM を返す（--save-ca-key 用）
func (ca *CertificateAuthority) KeyPEM() ([]byte, error) {
	if ca == nil {
		return nil, fmt.Errorf("%w: CA is nil", ErrSigning)
	}
	return ca.key.PrivateKeyPEM()
}

// Destroy は CA 秘密鍵をゼロ埋めする
func (ca *CertificateAuthority) Destroy() {
	if ca == nil {
		return
	}
	ca.key.Destroy()
	ca.key = nil
}

func identityFromName(cert *x509.Certificate) Identity {
	first := func(v []string) string {
		if len(v) == 0 {
			return ""
		}
		return v[0]
	}
	org := first(cert.Subject.Organization)
	if org == "" {
		org = cert.Subject.CommonName
	}
	return Identity{
		Organization: org,
		CountryCode:  first(cert.Subject.Country),
		State:        first(cert.Subject.Province),
		Locality:     first(cert.Subject.Locality),
	}
}

func validityWindow(days int) (time.Time, time.Time) {
	notBefore := now().UTC().Truncate(time.Second)
	return notBefore, notBefore.Add(time.Duration(days) * 24 * time.Hour)
}

// subjectKeyID は公開鍵 (SPKI) の SHA-1 ハッシュ
func subjectKeyID(key *KeyPair) ([]byte, error) {
	spki, err := x509.MarshalPKIXPublicKey(key.Public())
	if err != nil {
		return nil, fmt.Errorf("%w: marshal public key: %w", ErrKeyGeneration, err)
	}
	sum := sha1.Sum(spki)
	return sum[:], nil
}
