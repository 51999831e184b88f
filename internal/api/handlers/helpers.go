package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// normalizePhone normalizes phone number to international format (no leading '+')
// Returns digits like: 256700123456
func normalizePhone(phone string) string {
	var digits strings.Builder
	for _, char := range phone {
		if char >= '0' && char <= '9' {
			digits.WriteRune(char)
		}
	}
	d := digits.String()

	// Uganda numbers: 9 local digits, 0-prefixed, or already 256-prefixed
	switch {
	case len(d) == 9 && (d[0] == '7' || d[0] == '3'):
		return "256" + d
	case len(d) == 10 && d[0] == '0':
		return "256" + d[1:]
	case len(d) == 12 && d[:3] == "256":
		return d
	}
	return ""
}

// isDigits checks if a string contains only digits
func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

// playerIDFrom returns the authenticated player, or 0.
func playerIDFrom(c *gin.Context) int {
	return c.GetInt("player_id")
}
