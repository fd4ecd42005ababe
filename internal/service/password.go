package service

import (
	"strings"

	"smart-erp/pkg/apierror"
)

const passwordSymbols = "@$!%*?&"

const weakPasswordMessage = "Password must be at least 8 characters long and include uppercase, lowercase, number, and special character."

// validatePasswordStrength enforces the registration strength policy:
// at least 8 characters drawn only from letters, digits, and the fixed
// symbol set, with at least one of each class present.
func validatePasswordStrength(password string) error {
	if len(password) < 8 {
		return apierror.BadRequest(weakPasswordMessage, "")
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		default:
			return apierror.BadRequest(weakPasswordMessage, "")
		}
	}

	if !hasLower || !hasUpper || !hasDigit || !hasSymbol {
		return apierror.BadRequest(weakPasswordMessage, "")
	}

	return nil
}
