package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yukikurage/org-management-api/internal/config"
)

const issuer = "org-management-api"

// TokenType distinguishes access tokens from refresh tokens.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

var ErrInvalidToken = errors.New("token is invalid or expired")

type claims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"token_type"`
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	Access    string
	Refresh   string
	AccessTTL time.Duration
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(cfg config.AuthConfig) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
}

// Issue returns a fresh access and refresh token for the user.
func (i *TokenIssuer) Issue(userID uint64) (*TokenPair, error) {
	access, err := i.sign(userID, AccessToken, i.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := i.sign(userID, RefreshToken, i.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		Access:    access,
		Refresh:   refresh,
		AccessTTL: i.accessTTL,
	}, nil
}

func (i *TokenIssuer) sign(userID uint64, typ TokenType, ttl time.Duration) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			Issuer:    issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: typ,
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", typ, err)
	}
	return signed, nil
}

// Parse verifies a token of the wanted type and returns the user ID it was
// issued for.
func (i *TokenIssuer) Parse(raw string, want TokenType) (uint64, error) {
	var parsed claims
	_, err := jwt.ParseWithClaims(raw, &parsed, func(token *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if parsed.TokenType != want {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(parsed.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
