package certs

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"net"
	"time"
)

// ローカル開発で常に含める別名
var localAliases = []string{"localhost", "127.0.0.1", "::1"}

// LeafCertificate は CA が署名したサーバー証明書
type LeafCertificate struct {
	Domain      string
	DNSNames    []string
	IPAddresses []net.IP
	Cert        *x509.Certificate
	CertPEM     []byte
	NotBefore   time.Time
	NotAfter    time.Time
	Issuer      *CertificateAuthority

	key *KeyPair
}

// SubjectAltNames はドメイン・ワイルドカード・ローカル別名を重複なく DNS 名と IP に振り分ける
func SubjectAltNames(domain string) ([]string, []net.IP) {
	names := []string{domain}
	if net.ParseIP(domain) == nil {
		names = append(names, "*."+domain)
	}
	names = append(names, localAliases...)

	var dnsNames []string
	var ips []net.IP
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if ip := net.ParseIP(name); ip != nil {
			key := ip.String()
			if seen[key] {
				continue
			}
			seen[key] = true
			ips = append(ips, ip)
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		dnsNames = append(dnsNames, name)
	}
	return dnsNames, ips
}

// SignLeaf は domain 用のリーフ証明書を新しい鍵で発行する
func (ca *CertificateAuthority) SignLeaf(domain string, validityDays int) (*LeafCertificate, error) {
	normalized, err := NormalizeDomain(domain)
	if err != nil {
		return nil, err
	}
	if err := validateValidity(validityDays); err != nil {
		return nil, err
	}
	if !ca.CanSign() {
		return nil, fmt.Errorf("%w: CA private key is not available", ErrSigning)
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

	dnsNames, ips := SubjectAltNames(normalized)
	notBefore, notAfter := validityWindow(validityDays)

	template := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: normalized},
		NotBefore:             notBefore,
		NotAfter:              notAfter,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  false,
		DNSNames:              dnsNames,
		IPAddresses:           ips,
		AuthorityKeyId:        ca.Cert.SubjectKeyId,
	}

	der, err := x509.CreateCertificate(randReader, template, ca.Cert, key.Public(), ca.key.Signer())
	if err != nil {
		key.Destroy()
		return nil, fmt.Errorf("%w: sign leaf certificate for %s: %w", ErrSigning, normalized, err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		key.Destroy()
		return nil, fmt.Errorf("%w: parse leaf certificate: %w", ErrSigning, err)
	}

	return &LeafCertificate{
		Domain:      normalized,
		DNSNames:    dnsNames,
		IPAddresses: ips,
		Cert:        cert,
		CertPEM:     EncodeCertificatePEM(der),
		NotBefore:   cert.NotBefore,
		NotAfter:    cert.NotAfter,
		Issuer:      ca,
		key:         key,
	}, nil
}

// KeyPEM はリーフ秘密鍵の PEM を返す
func (l *LeafCertificate) KeyPEM() ([]byte, error) {
	if l == nil {
		return nil, fmt.Errorf("%w: leaf is nil", ErrSigning)
	}
	return l.key.PrivateKeyPEM()
}

// Destroy はリーフ秘密鍵をゼロ埋めする
func (l *LeafCertificate) Destroy() {
	if l == nil {
		return
	}
	l.key.Destroy()
	l.key = nil
}
