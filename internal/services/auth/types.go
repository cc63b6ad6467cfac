package auth

import (
	"errors"
	"time"

	"github.com/krjofficial/mern-ecomm/internal/domain/model"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAlreadyExists      = errors.New("user already exists")
	ErrMissingToken       = errors.New("token is missing")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token expired")
	ErrStaleToken         = errors.New("refresh token superseded")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrPrincipalNotFound  = errors.New("user not found")
	ErrForbidden          = errors.New("forbidden")
	ErrStoreUnavailable   = errors.New("credential store unavailable")
	ErrRefreshNotFound    = errors.New("refresh token not found")
)

type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}

type SignupInput struct {
	Email    string
	Password string
	Name     string
}

type AuthResult struct {
	User   model.User
	Tokens TokenPair
}
