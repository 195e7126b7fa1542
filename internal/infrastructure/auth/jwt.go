package auth

import (
	"errors"
	"time"

	"github.com/cashdesk/backend/internal/domain/identity"
	"github.com/cashdesk/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingSubject   = errors.New("missing sub in claims")
	ErrSessionRevoked   = errors.New("session has been revoked")
)

// Claims represents the access token claims.
// Tokens issued before organization claims existed carry only sub and sid.
type Claims struct {
	jwt.RegisteredClaims
	SessionID      string `json:"sid,omitempty"`
	OrganizationID string `json:"organizationId,omitempty"`
	BranchID       string `json:"branchId,omitempty"`
}

// Identity converts the verified claims to identity claims
func (c *Claims) Identity() identity.TokenClaims {
	return identity.TokenClaims{
		Subject:        c.Subject,
		SessionID:      c.SessionID,
		OrganizationID: c.OrganizationID,
		BranchID:       c.BranchID,
	}
}

// RemainingTTL returns how long the token stays valid after now
func (c *Claims) RemainingTTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if ttl := c.ExpiresAt.Sub(now); ttl > 0 {
		return ttl
	}
	return 0
}

// AccessToken is a signed token with its metadata
type AccessToken struct {
	Token     string
	SessionID string
	ExpiresAt time.Time
}

// GenerateTokenInput contains input for token generation
type GenerateTokenInput struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	BranchID       *uuid.UUID
}

// JWTService handles JWT token operations
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	now        func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.AccessTokenExpiration,
		issuer:     cfg.Issuer,
		now:        time.Now,
	}
}

// GenerateAccessToken issues an HS256 access token with a fresh session id
func (s *JWTService) GenerateAccessToken(input GenerateTokenInput) (*AccessToken, error) {
	now := s.now()
	sid := uuid.New().String()
	expiresAt := now.Add(s.expiration)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   input.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		SessionID:      sid,
		OrganizationID: input.OrganizationID.String(),
	}
	if input.BranchID != nil {
		claims.BranchID = input.BranchID.String()
	}

	token, err := s.sign(claims)
	if err != nil {
		return nil, err
	}
	return &AccessToken{Token: token, SessionID: sid, ExpiresAt: expiresAt}, nil
}

func (s *JWTService) sign(claims *Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateAccessToken validates an access token and returns its claims
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}
