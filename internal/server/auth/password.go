package auth

import (
	"errors"

	"github.com/dmitrijs2005/credgate/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes passwords and checks candidates against stored hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Verify returns false on mismatch and on a malformed stored hash.
	Verify(password, hash string) bool
}

// BcryptHasher is the PasswordHasher backed by bcrypt.
type BcryptHasher struct {
	cost  int
	decoy []byte
}

// NewBcryptHasher returns a hasher using cost, or bcrypt.DefaultCost when
// cost is outside bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	h := &BcryptHasher{cost: cost}
	h.decoy = h.mustDecoy()
	return h
}

func (h *BcryptHasher) Cost() int {
	return h.cost
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true
	}

	if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		// corrupt record: spend the same work a real comparison would
		_ = bcrypt.CompareHashAndPassword(h.decoy, []byte(password))
	}
	return false
}

// mustDecoy hashes a random value at the configured cost. It is compared
// against whenever no usable stored hash exists. Records hashed at another
// cost take a different time to compare than the decoy.
func (h *BcryptHasher) mustDecoy() []byte {
	seed, err := shared.MakeRandHexString(24)
	if err != nil {
		panic(err)
	}
	decoy, err := bcrypt.GenerateFromPassword([]byte(seed), h.cost)
	if err != nil {
		panic(err)
	}
	return decoy
}
