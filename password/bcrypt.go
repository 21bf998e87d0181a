package password

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	minCost     = 10
	maxCost     = 14
	defaultCost = 12
)

// Config holds the bcrypt work factor.
type Config struct {
	Cost int
}

// Hasher hashes and verifies credentials. Instances are immutable after
// construction and safe for concurrent use.
type Hasher struct {
	cost int
}

// NewHasher validates the work factor and returns a Hasher. A zero cost
// selects the default; costs below 10 are rejected rather than silently
// weakened.
func NewHasher(cfg Config) (*Hasher, error) {
	cost := cfg.Cost
	if cost == 0 {
		cost = defaultCost
	}
	if cost < minCost || cost > maxCost {
		return nil, errors.New("password cost must be between 10 and 14")
	}
	return &Hasher{cost: cost}, nil
}

// Hash produces a salted digest of password. Callers must only invoke Hash
// when the password is newly set or changed; a digest passed back in would
// be double-hashed and unverifiable.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether password matches digest. Malformed digests are
// treated as non-matching, never as an error: a corrupt stored hash must
// fail authentication, not crash it.
func (h *Hasher) Verify(password, digest string) bool {
	if password == "" || digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// IsDigest reports whether v already looks like a bcrypt digest. Used by
// seeding paths that accept either a plaintext or pre-hashed credential.
func IsDigest(v string) bool {
	return strings.HasPrefix(v, "$2a$") || strings.HasPrefix(v, "$2b$") || strings.HasPrefix(v, "$2y$")
}
