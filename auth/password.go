package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type (
	PlainText []byte
)

func (p PlainText) Zero() {
	for i := range p {
		p[i] = 0
	}
}

// HashPassword derives a salted one-way hash from passwd. Hashing the
// same password twice produces different hashes.
func HashPassword(passwd PlainText) (string, error) {
	buf, err := bcrypt.GenerateFromPassword(passwd, bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("unable to hash password, cause %w", err)
	}
	return string(buf), nil
}

// VerifyPassword reports whether passwd re-hashes to hash.
func VerifyPassword(passwd PlainText, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), passwd) == nil
}
