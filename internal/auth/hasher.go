package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/clay099/work-order-backend/pkg/querybuilder"
)

// PasswordHasher is the one-way credential transform.
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(hash, pw string) bool
}

// BcryptHasher implementation.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b BcryptHasher) Verify(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// SecureFields prepares account fields for storage: email is checked with
// checkEmail and password is replaced by its hash. Fields are changed in place.
func SecureFields(h PasswordHasher, checkEmail func(string) error, fields []querybuilder.Field) error {
	for i, f := range fields {
		switch f.Column {
		case "email":
			email, _ := f.Value.(string)
			if err := checkEmail(email); err != nil {
				return err
			}
		case "password":
			pw, _ := f.Value.(string)
			hash, err := h.Hash(pw)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			fields[i].Value = hash
		}
	}
	return nil
}

// Login is the body returned by the login routes.
type Login struct {
	Token    string `json:"token"`
	UserType Role   `json:"user_type"`
	Email    string `json:"email"`
	ID       int64  `json:"id"`
}
