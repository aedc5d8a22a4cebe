package certs

import (
	"crypto/x509/pkix"
	"fmt"
	"net"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

// Identity は CA の識別名（DN）に載る組織情報
type Identity struct {
	Organization string
	CountryCode  string
	State        string
	Locality     string
}

// Validate は鍵生成の前に呼ばれる入力チェック
func (id Identity) Validate() error {
	if len(id.CountryCode) != 2 || !isASCIILetter(id.CountryCode[0]) || !isASCIILetter(id.CountryCode[1]) {
		return fmt.Errorf("%w: country code %q must be exactly 2 letters", ErrIdentityValidation, id.CountryCode)
	}
	if strings.TrimSpace(id.Organization) == "" {
		return fmt.Errorf("%w: organization is required", ErrIdentityValidation)
	}
	return nil
}

func (id Identity) name() pkix.Name {
	n := pkix.Name{
		CommonName:   id.Organization,
		Organization: []string{id.Organization},
		Country:      []string{strings.ToUpper(id.CountryCode)},
	}
	if id.State != "" {
		n.Province = []string{id.State}
	}
	if id.Locality != "" {
		n.Locality = []string{id.Locality}
	}
	return n
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

var hostnameRegexp = regexp.MustCompile(`^[0-9a-z_-]([0-9a-z._-]*[0-9a-z_-])?$`)

// NormalizeDomain はドメインを検証し、IDN を punycode に変換して返す。
// IP リテラルはそのまま受け付ける
func NormalizeDomain(domain string) (string, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return "", fmt.Errorf("%w: domain is empty", ErrIdentityValidation)
	}
	if ip := net.ParseIP(domain); ip != nil {
		return ip.String(), nil
	}

	ascii, err := idna.ToASCII(domain)
	if err != nil {
		return "", fmt.Errorf("%w: domain %q is not a valid hostname: %w", ErrIdentityValidation, domain, err)
	}
	ascii = strings.ToLower(strings.TrimSuffix(ascii, "."))

	if len(ascii) > 253 || strings.Contains(ascii, "..") || !hostnameRegexp.MatchString(ascii) {
		return "", fmt.Errorf("%w: domain %q contains characters invalid for a DNS name", ErrIdentityValidation, domain)
	}
	for _, label := range strings.Split(ascii, ".") {
		if len(label) > 63 {
			return "", fmt.Errorf("%w: label %q of domain %q is longer than 63 characters", ErrIdentityValidation, label, domain)
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return "", fmt.Errorf("%w: label %q of domain %q must not start or end with a hyphen", ErrIdentityValidation, label, domain)
		}
	}
	return ascii, nil
}

func validateValidity(days int) error {
	if days <= 0 {
		return fmt.Errorf("%w: validity must be a positive number of days, got %d", ErrIdentityValidation, days)
	}
	return nil
}
