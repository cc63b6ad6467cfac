package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// CodecConfig holds the two independent signing secrets and lifetimes.
// Now defaults to time.Now.
type CodecConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Now           func() time.Time
}

// TokenCodec signs and verifies HS256 tokens. Verification never touches the
// credential store.
type TokenCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

type tokenClaims struct {
	UserID string    `json:"userId"`
	Kind   TokenKind `json:"typ"`
	jwt.RegisteredClaims
}

func NewTokenCodec(cfg CodecConfig) *TokenCodec {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &TokenCodec{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           cfg.Now,
	}
}

func (c *TokenCodec) AccessTTL() time.Duration {
	return c.accessTTL
}

func (c *TokenCodec) RefreshTTL() time.Duration {
	return c.refreshTTL
}

func (c *TokenCodec) IssueAccessToken(principalID string) (IssuedToken, error) {
	return c.issue(principalID, KindAccess)
}

func (c *TokenCodec) IssueRefreshToken(principalID string) (IssuedToken, error) {
	return c.issue(principalID, KindRefresh)
}

func (c *TokenCodec) IssuePair(principalID string) (TokenPair, error) {
	access, err := c.IssueAccessToken(principalID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := c.IssueRefreshToken(principalID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Verify checks signature, kind and expiry and returns the principal id.
// An authentic token past its expiry fails with ErrExpiredToken; everything
// else that does not verify fails with ErrInvalidToken.
func (c *TokenCodec) Verify(raw string, kind TokenKind) (string, error) {
	return c.verify(raw, kind, false)
}

// VerifyIgnoringExpiry checks signature and kind only. Used where an expired
// but authentic token is still good enough to identify the principal.
func (c *TokenCodec) VerifyIgnoringExpiry(raw string, kind TokenKind) (string, error) {
	return c.verify(raw, kind, true)
}

func (c *TokenCodec) issue(principalID string, kind TokenKind) (IssuedToken, error) {
	secret, ttl, err := c.paramsFor(kind)
	if err != nil {
		return IssuedToken{}, err
	}
	if len(secret) == 0 {
		return IssuedToken{}, fmt.Errorf("%s token secret is empty", kind)
	}
	if strings.TrimSpace(principalID) == "" {
		return IssuedToken{}, fmt.Errorf("invalid %s token payload", kind)
	}

	now := c.now().UTC()
	expiresAt := now.Add(ttl)
	claims := tokenClaims{
		UserID: principalID,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   principalID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign %s token: %w", kind, err)
	}

	return IssuedToken{Value: signed, ExpiresAt: expiresAt}, nil
}

func (c *TokenCodec) verify(raw string, kind TokenKind, allowExpired bool) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrMissingToken
	}

	secret, _, err := c.paramsFor(kind)
	if err != nil {
		return "", err
	}
	if len(secret) == 0 {
		return "", ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(c.now),
	}
	if allowExpired {
		opts = append(opts, jwt.WithoutClaimsValidation())
	} else {
		opts = append(opts, jwt.WithExpirationRequired())
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(_ *jwt.Token) (interface{}, error) {
		return secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}
	if token == nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Kind != kind || strings.TrimSpace(claims.UserID) == "" {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}

func (c *TokenCodec) paramsFor(kind TokenKind) ([]byte, time.Duration, error) {
	switch kind {
	case KindAccess:
		return c.accessSecret, c.accessTTL, nil
	case KindRefresh:
		return c.refreshSecret, c.refreshTTL, nil
	default:
		return nil, 0, fmt.Errorf("unknown token kind %q", kind)
	}
}
