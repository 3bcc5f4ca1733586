package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"groupgetaway/internal/domain"
)

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a PasswordHasher that bcrypts a SHA256 digest of
// salt+password, keeping the bcrypt input under its 72-byte limit.
func NewBcryptHasher(cost int) domain.PasswordHasher {
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) GenerateSalt() (string, error) {
	saltBytes := make([]byte, 32)
	if _, err := rand.Read(saltBytes); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(saltBytes), nil
}

func (h *bcryptHasher) Hash(salt, password string) (string, error) {
	sum := sha256.Sum256([]byte(salt + password))
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(sum[:])), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (h *bcryptHasher) Compare(hash, salt, password string) error {
	sum := sha256.Sum256([]byte(salt + password))
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(hex.EncodeToString(sum[:])))
}
