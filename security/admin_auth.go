package security

import (
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"golang.org/x/crypto/bcrypt"
)

// RequireAdminKey guards administrative override endpoints. The key is
// never stored in clear; the config carries only its bcrypt hash.
func RequireAdminKey(keyHash string) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if keyHash == "" {
			return apis.NewForbiddenError("Administrative access disabled", nil)
		}
		provided := e.Request.Header.Get("X-Admin-Key")
		if provided == "" {
			return apis.NewUnauthorizedError("Admin key required", nil)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(provided)); err != nil {
			return apis.NewForbiddenError("Invalid admin key", nil)
		}
		return e.Next()
	}
}
