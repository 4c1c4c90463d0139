package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// GenerateConfirmationCode returns an uppercase hex code handed to a
// musician when the poster books them onto a role.
func GenerateConfirmationCode(n int) (string, error) {
	byt := make([]byte, n)
	if _, err := rand.Read(byt); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(byt)), nil
}
