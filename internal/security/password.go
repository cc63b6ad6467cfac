package security

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// HashCost matches the salt rounds the storefront has always used.
const HashCost = 10

var ErrInvalidPassword = errors.New("invalid password")

var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("storefront-dummy-password"), HashCost)
	if err != nil {
		return nil
	}
	return hash
})

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrInvalidPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}

// BurnPasswordCheck spends one bcrypt comparison so unknown accounts take as long
// to reject as wrong passwords.
func BurnPasswordCheck(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
}
