package impl

import (
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 8

// PasswordServiceImpl stores passwords as bcrypt hashes; the salt lives inside
// the hash string.
type PasswordServiceImpl struct {
	cost int
}

// NewPasswordServiceBcrypt clamps cost into bcrypt's accepted range. Zero or
// negative selects bcrypt.DefaultCost.
func NewPasswordServiceBcrypt(cost int) *PasswordServiceImpl {
	switch {
	case cost <= 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &PasswordServiceImpl{cost: cost}
}

func (p *PasswordServiceImpl) Cost() int { return p.cost }

func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether password matches storedHash. Any mismatch or a
// malformed hash yields false.
func (p *PasswordServiceImpl) Verify(password, storedHash string) bool {
	if storedHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
}
