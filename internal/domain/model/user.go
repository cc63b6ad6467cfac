package model

import (
	"strings"
	"time"

	"github.com/krjofficial/mern-ecomm/internal/domain/enums"
)

type User struct {
	ID           string     `json:"_id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	Role         enums.Role `json:"role"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// NewUser carries the plaintext password only until the repository hashes it.
type NewUser struct {
	Email    string
	Password string
	Name     string
	Role     enums.Role
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
