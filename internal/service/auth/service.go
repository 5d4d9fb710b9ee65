package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clinicnexus/clinic-api/internal/config"
	"github.com/clinicnexus/clinic-api/pkg/security"
)

type Claims struct {
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}

// Service issues and validates the API's bearer tokens. Clients are
// configured out of band with bcrypt-hashed secrets.
type Service struct {
	cfg    config.JWTConfig
	hasher security.SecretHasher
}

func NewService(cfg config.JWTConfig, hasher security.SecretHasher) *Service {
	return &Service{cfg: cfg, hasher: hasher}
}

// IssueToken authenticates a client and returns a signed JWT.
func (s *Service) IssueToken(clientID, clientSecret string) (string, time.Time, error) {
	hash, ok := s.cfg.Clients[clientID]
	if !ok {
		return "", time.Time{}, fmt.Errorf("unknown client")
	}
	if err := s.hasher.Compare(hash, clientSecret); err != nil {
		return "", time.Time{}, fmt.Errorf("invalid credentials")
	}

	expiresAt := time.Now().Add(time.Duration(s.cfg.ExpiryHours) * time.Hour)
	claims := Claims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   clientID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken parses a bearer token and returns its claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
