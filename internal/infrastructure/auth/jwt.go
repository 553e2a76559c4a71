package auth

import (
	"crypto/rand"
	"errors"
	"time"

	"github.com/aishop/storefront/internal/domain/shared"
	"github.com/aishop/storefront/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
)

// AdminSubject is the subject of every admin session token. There is a
// single admin identity; the token only proves the password was presented.
const AdminSubject = "admin"

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
)

// Claims are the admin session claims
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Session is an issued admin token
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// JWTService issues and validates admin session tokens
type JWTService struct {
	secret     []byte
	ephemeral  bool
	expiration time.Duration
	issuer     string
	now        func() time.Time
}

// ephemeralSecretSize is the length of a generated signing key
const ephemeralSecretSize = 32

// NewJWTService creates a new JWT service. An empty secret is replaced by
// a random per-process key, so sessions do not survive a restart.
func NewJWTService(cfg config.JWTConfig) *JWTService {
	s := &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.Expiration,
		issuer:     cfg.Issuer,
		now:        time.Now,
	}
	if len(s.secret) == 0 {
		s.secret = make([]byte, ephemeralSecretSize)
		// crypto/rand.Read never returns an error
		_, _ = rand.Read(s.secret)
		s.ephemeral = true
	}
	return s
}

// Ephemeral reports whether the signing key was generated at startup
func (s *JWTService) Ephemeral() bool {
	return s.ephemeral
}

// Issue signs a new admin session token
func (s *JWTService) Issue() (*Session, error) {
	now := s.now()
	expiresAt := now.Add(s.expiration)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        shared.NewID(),
			Issuer:    s.issuer,
			Subject:   AdminSubject,
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role: AdminSubject,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expiresAt.UTC()}, nil
}

// Validate parses tokenString and returns its claims
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
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
	if claims.Subject != AdminSubject || claims.Role != AdminSubject {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}
