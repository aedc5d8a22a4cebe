package certs

import (
	"crypto/x509"
	"fmt"

	"software.sslmate.com/src/go-pkcs12"
)

// DefaultPKCS12Password は mkcert と同じ既定パスワード
const DefaultPKCS12Password = "changeit"

// PKCS12 は鍵・リーフ・CA をまとめた .p12 を返す
func (l *LeafCertificate) PKCS12(password string) ([]byte, error) {
	if l == nil || l.key == nil {
		return nil, fmt.Errorf("%w: leaf private key is not available", ErrSigning)
	}
	var chain []*x509.Certificate
	if l.Issuer != nil && l.Issuer.Cert != nil {
		chain = append(chain, l.Issuer.Cert)
	}
	data, err := pkcs12.Modern.Encode(l.key.Signer(), l.Cert, chain, password)
	if err != nil {
		return nil, fmt.Errorf("%w: encode PKCS#12: %w", ErrSigning, err)
	}
	return data, nil
}
