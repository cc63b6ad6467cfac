package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/krjofficial/mern-ecomm/internal/domain/enums"
	"github.com/krjofficial/mern-ecomm/internal/domain/model"
	"github.com/krjofficial/mern-ecomm/internal/pkg/validate"
	"github.com/krjofficial/mern-ecomm/internal/security"
)

const (
	MinPasswordLength = 6
	// MaxPasswordBytes is the most bcrypt will hash.
	MaxPasswordBytes = 72
)

// CredentialStore keeps at most one refresh token per principal.
// Put must replace atomically and be visible to the next Get.
type CredentialStore interface {
	Put(ctx context.Context, principalID, refreshToken string, ttl time.Duration) error
	Get(ctx context.Context, principalID string) (string, error)
	Delete(ctx context.Context, principalID string) error
}

// PrincipalStore hashes the password on Create; callers never hash.
type PrincipalStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	Create(ctx context.Context, user model.NewUser) (model.User, error)
	Save(ctx context.Context, user model.User) (model.User, error)
}

type Service struct {
	codec       *TokenCodec
	principals  PrincipalStore
	credentials CredentialStore
}

func NewService(codec *TokenCodec, principals PrincipalStore, credentials CredentialStore) *Service {
	return &Service{
		codec:       codec,
		principals:  principals,
		credentials: credentials,
	}
}

func (s *Service) Codec() *TokenCodec {
	return s.codec
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (AuthResult, error) {
	in.Email = model.NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validateSignup(in); err != nil {
		return AuthResult{}, err
	}

	_, err := s.principals.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return AuthResult{}, ErrAlreadyExists
	case !errors.Is(err, ErrPrincipalNotFound):
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}

	user, err := s.principals.Create(ctx, model.NewUser{
		Email:    in.Email,
		Password: in.Password,
		Name:     in.Name,
		Role:     enums.RoleCustomer,
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return AuthResult{}, ErrAlreadyExists
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}

	return s.issueForUser(ctx, user)
}

func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	user, err := s.principals.FindByEmail(ctx, model.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			security.BurnPasswordCheck(password)
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := security.CheckPassword(user.PasswordHash, password); err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	return s.issueForUser(ctx, user)
}

// Rotate exchanges a live refresh token for a new access token. The refresh
// token itself is left in place.
func (s *Service) Rotate(ctx context.Context, refreshToken string) (IssuedToken, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return IssuedToken{}, ErrMissingToken
	}

	principalID, err := s.codec.Verify(refreshToken, KindRefresh)
	if err != nil {
		return IssuedToken{}, ErrInvalidToken
	}

	stored, err := s.credentials.Get(ctx, principalID)
	if err != nil {
		if errors.Is(err, ErrRefreshNotFound) {
			return IssuedToken{}, ErrStaleToken
		}
		return IssuedToken{}, fmt.Errorf("load refresh token: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(refreshToken)) != 1 {
		return IssuedToken{}, ErrStaleToken
	}

	access, err := s.codec.IssueAccessToken(principalID)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("generate access token: %w", err)
	}

	return access, nil
}

// Logout revokes the stored refresh token of whoever the token names. Missing or
// unverifiable tokens are ignored; only store failures are reported.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}

	principalID, err := s.codec.VerifyIgnoringExpiry(refreshToken, KindRefresh)
	if err != nil {
		return nil
	}

	if err := s.credentials.Delete(ctx, principalID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

func (s *Service) Authenticate(ctx context.Context, accessToken string) (model.User, error) {
	if strings.TrimSpace(accessToken) == "" {
		return model.User{}, ErrUnauthenticated
	}

	principalID, err := s.codec.Verify(accessToken, KindAccess)
	if err != nil {
		if errors.Is(err, ErrExpiredToken) {
			return model.User{}, ErrExpiredToken
		}
		return model.User{}, ErrInvalidToken
	}

	user, err := s.principals.FindByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return model.User{}, ErrPrincipalNotFound
		}
		return model.User{}, fmt.Errorf("load user: %w", err)
	}

	return user, nil
}

// RequireRole is the authorization step stacked after Authenticate.
func RequireRole(user model.User, allowed ...enums.Role) error {
	for _, role := range allowed {
		if user.Role == role {
			return nil
		}
	}
	return ErrForbidden
}

func (s *Service) UpdateProfile(ctx context.Context, user model.User, name string) (model.User, error) {
	name = strings.TrimSpace(name)
	if !validate.Required(name) {
		return model.User{}, fmt.Errorf("name is required: %w", ErrInvalidInput)
	}

	user.Name = name
	saved, err := s.principals.Save(ctx, user)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return model.User{}, ErrPrincipalNotFound
		}
		return model.User{}, fmt.Errorf("save user: %w", err)
	}
	return saved, nil
}

func (s *Service) issueForUser(ctx context.Context, user model.User) (AuthResult, error) {
	pair, err := s.codec.IssuePair(user.ID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate token pair: %w", err)
	}

	if err := s.credentials.Put(ctx, user.ID, pair.Refresh.Value, s.codec.RefreshTTL()); err != nil {
		return AuthResult{}, fmt.Errorf("store refresh token: %w", err)
	}

	return AuthResult{User: user, Tokens: pair}, nil
}

func validateSignup(in SignupInput) error {
	if !validate.Email(in.Email) {
		return fmt.Errorf("email is invalid: %w", ErrInvalidInput)
	}
	if !validate.MinLength(in.Password, MinPasswordLength) {
		return fmt.Errorf("password must be at least %d characters: %w", MinPasswordLength, ErrInvalidInput)
	}
	if len(in.Password) > MaxPasswordBytes {
		return fmt.Errorf("password must be at most %d bytes: %w", MaxPasswordBytes, ErrInvalidInput)
	}
	if !validate.Required(in.Name) {
		return fmt.Errorf("name is required: %w", ErrInvalidInput)
	}
	return nil
}
