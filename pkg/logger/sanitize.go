package logger

import (
	"strings"
)

// SanitizedToken masks a bearer token for logging, keeping only a short prefix
// so related log lines can still be correlated (e.g. "hJx3****").
func SanitizedToken(token string) string {
	if len(token) < 8 {
		return "[redacted]"
	}
	return token[:4] + strings.Repeat("*", 4)
}

// SanitizeQueryString checks if a query string contains sensitive parameters
// and returns true if the entire query string should be redacted
func SanitizeQueryString(rawQuery string) bool {
	sensitiveParams := []string{
		"password",
		"token",
		"secret",
		"private_key",
		"auth",
	}

	query := strings.ToLower(rawQuery)
	for _, param := range sensitiveParams {
		if strings.Contains(query, param) {
			return true
		}
	}
	return false
}
