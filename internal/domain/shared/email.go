package shared

import (
	"net/mail"
	"strings"
)

// NormalizeEmail trims, lowercases and validates an email address
func NormalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(normalized) > 255 {
		return "", NewDomainError("INVALID_EMAIL", "Email cannot exceed 255 characters")
	}
	addr, err := mail.ParseAddress(normalized)
	if err != nil || addr.Address != normalized {
		return "", NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	return normalized, nil
}
