package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role distinguishes the two session kinds.
type Role string

// Session roles.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Claims is the payload of a session token.
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role"`
	jwt.RegisteredClaims
}

// SubjectID parses the subject of the claims.
func (c *Claims) SubjectID() (uuid.UUID, error) {
	return uuid.Parse(c.ID)
}

// TokenService signs and checks session tokens. User and admin tokens are
// signed with separate secrets, so one kind never validates as the other.
type TokenService struct {
	userSecret  []byte
	adminSecret []byte
	userTTL     time.Duration
	adminTTL    time.Duration
}

// NewTokenService constructs a TokenService.
func NewTokenService(userSecret, adminSecret string, userTTL, adminTTL time.Duration) *TokenService {
	return &TokenService{
		userSecret:  []byte(userSecret),
		adminSecret: []byte(adminSecret),
		userTTL:     userTTL,
		adminTTL:    adminTTL,
	}
}

// TTL returns the session lifetime for role.
func (s *TokenService) TTL(role Role) time.Duration {
	if role == RoleAdmin {
		return s.adminTTL
	}
	return s.userTTL
}

func (s *TokenService) secret(role Role) []byte {
	if role == RoleAdmin {
		return s.adminSecret
	}
	return s.userSecret
}

// Issue creates a signed token for the given subject.
func (s *TokenService) Issue(role Role, id uuid.UUID, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		ID:    id.String(),
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL(role))),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret(role))
}

// Verify checks signature, expiry and role. It never returns an error: ok is
// false for every kind of invalid token.
func (s *TokenService) Verify(role Role, tokenString string) (*Claims, bool) {
	if tokenString == "" {
		return nil, false
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret(role), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, false
	}

	if claims.Role != role || claims.ID == "" {
		return nil, false
	}
	return claims, true
}
