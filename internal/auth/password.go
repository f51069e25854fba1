// Package auth provides password hashing and bearer-token issuing.
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a raw password with bcrypt. The cost factor embeds a
// per-hash random salt, so identical passwords produce distinct hashes.
func HashPassword(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a raw password against a stored bcrypt hash.
// bcrypt's comparison is constant time.
func CheckPassword(raw, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(raw)) == nil
}
