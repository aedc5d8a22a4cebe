package certs

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"net"
	"time"
)

// Status は証明書の有効期間に対する状態
type Status string

const (
	StatusActive      Status = "active"
	StatusExpired     Status = "expired"
	StatusNotYetValid Status = "not-yet-valid"
)

// Info は doctor で表示する証明書の概要
type Info struct {
	Subject       string
	Issuer        string
	Serial        string
	Fingerprint   string
	NotBefore     time.Time
	NotAfter      time.Time
	DNSNames      []string
	IPAddresses   []net.IP
	IsCA          bool
	Status        Status
	DaysRemaining int
}

// VerifyLeaf は leafPEM が caPEM を唯一のルートとして検証できるか確認する
func VerifyLeaf(leafPEM, caPEM []byte, dnsName string) error {
	leaf, err := ParseCertificatePEM(leafPEM)
	if err != nil {
		return fmt.Errorf("leaf: %w", err)
	}
	ca, err := ParseCertificatePEM(caPEM)
	if err != nil {
		return fmt.Errorf("ca: %w", err)
	}

	roots := x509.NewCertPool()
	roots.AddCert(ca)

	opts := x509.VerifyOptions{
		Roots:       roots,
		DNSName:     dnsName,
		KeyUsages:   []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		CurrentTime: now(),
	}
	if _, err := leaf.Verify(opts); err != nil {
		return fmt.Errorf("verify chain for %s: %w", leaf.Subject.CommonName, err)
	}
	return nil
}

// Inspect は PEM 証明書の情報と有効期限の状態を返す
func Inspect(certPEM []byte) (*Info, error) {
	cert, err := ParseCertificatePEM(certPEM)
	if err != nil {
		return nil, err
	}

	current := now()
	info := &Info{
		Subject:       cert.Subject.String(),
		Issuer:        cert.Issuer.String(),
		Serial:        cert.SerialNumber.Text(16),
		Fingerprint:   Fingerprint(cert),
		NotBefore:     cert.NotBefore,
		NotAfter:      cert.NotAfter,
		DNSNames:      cert.DNSNames,
		IPAddresses:   cert.IPAddresses,
		IsCA:          cert.IsCA,
		Status:        StatusActive,
		DaysRemaining: int(cert.NotAfter.Sub(current).Hours() / 24),
	}
	switch {
	case current.After(cert.NotAfter):
		info.Status = StatusExpired
		info.DaysRemaining = 0
	case current.Before(cert.NotBefore):
		info.Status = StatusNotYetValid
	}
	return info, nil
}

// Fingerprint は DER の SHA-256 を "sha256:<hex>" 形式で返す
func Fingerprint(cert *x509.Certificate) string {
	sum := sha256.Sum256(cert.Raw)
	return "sha256:" + hex.EncodeToString(sum[:])
}

// KeyMatchesCertificate は秘密鍵 PEM が証明書の公開鍵と対応するか確認する
func KeyMatchesCertificate(keyPEM, certPEM []byte) (bool, error) {
	cert, err := ParseCertificatePEM(certPEM)
	if err != nil {
		return false, err
	}
	key, err := ParsePrivateKeyPEM(keyPEM)
	if err != nil {
		return false, err
	}
	defer key.Destroy()
	return key.matches(cert.PublicKey), nil
}
