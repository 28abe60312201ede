package auth

import (
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost is the bcrypt work factor used when none is
// configured. Hashing at this cost is deliberately slow; do not tune it
// down outside of tests.
const DefaultPasswordCost = 12

// Hasher is a bcrypt-backed PasswordHasher with a cost fixed at
// construction. bcrypt embeds a random per-hash salt and compares in
// constant time, which covers the salting and timing requirements.
type Hasher struct {
	cost int
}

var _ PasswordHasher = Hasher{}

// NewHasher creates a Hasher. Costs outside bcrypt's supported range
// fall back to DefaultPasswordCost.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultPasswordCost
	}
	return Hasher{cost: cost}
}

// HashPassword will generate a password hash
func (h Hasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}
	return string(hash), nil
}

// ComparePasswordAndHash will validate the given cleartext password
// matches the hashed password
func (h Hasher) ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrMismatchedHashAndPassword
	}
	return nil
}

// HashPassword hashes with the default cost.
func HashPassword(password string) (string, error) {
	return NewHasher(DefaultPasswordCost).HashPassword(password)
}

// ComparePasswordAndHash verifies with the default hasher.
func ComparePasswordAndHash(password, hash string) error {
	return NewHasher(DefaultPasswordCost).ComparePasswordAndHash(password, hash)
}

// RandomPasswordHash is a placeholder credential for accounts that have
// no local password (e.g. federated AAI identities).
func RandomPasswordHash() string {
	pwd := uuid.New()

	h, err := HashPassword(pwd.String())
	if err != nil {
		return RandomPasswordHash()
	}

	return h
}
