package security

import (
	"golang.org/x/crypto/bcrypt"
)

// VerifyAdminKey checks a presented admin key against the configured bcrypt
// hash. An empty hash means no admin key is configured and every check fails.
func VerifyAdminKey(keyHash, presented string) bool {
	if keyHash == "" || presented == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(presented)) == nil
}

// HashAdminKey produces a bcrypt hash suitable for the ADMIN_KEY_HASH
// environment variable
func HashAdminKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
