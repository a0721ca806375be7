package validators

import (
	"net"
	"net/mail"
	"strings"
)

// NormalizeEmail trims and lower-cases an address; clients are unique by
// the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsEmailSyntaxValid accepts a bare address only (no display name).
func IsEmailSyntaxValid(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}

func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}

// EmailChecker applies the syntax check and, when CheckDomain is set, the
// DNS lookup.
type EmailChecker struct {
	CheckDomain bool
}

func (c EmailChecker) Valid(email string) bool {
	if !IsEmailSyntaxValid(email) {
		return false
	}
	if c.CheckDomain {
		return IsEmailDomainValid(email)
	}
	return true
}
