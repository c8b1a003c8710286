package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores everything past 72 bytes of input, and newer versions reject
// longer passwords outright, so all hashing and verification goes through
// NormalizePassword first.
const maxPasswordBytes = 72

// NormalizePassword truncates the password to the first 72 bytes and drops any
// bytes that no longer form valid UTF-8, so a multi-byte character cut at the
// boundary is discarded rather than repaired. Normalization never fails and is
// idempotent for input that is already within the limit.
func NormalizePassword(password string) string {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return strings.ToValidUTF8(string(b), "")
}

type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher with the given bcrypt cost. Costs outside
// bcrypt's supported range fall back to the default interactive-login cost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(NormalizePassword(password)), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether password matches digest. A malformed digest verifies
// as false, never as an error.
func (h *PasswordHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(NormalizePassword(password))) == nil
}
