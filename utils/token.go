package authUtils

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"report2resolve-be/models"
)

// Claims is what a session token carries. The principal is trusted for the
// lifetime of the token; role changes require a new token.
type Claims struct {
	UserID       string      `json:"user_id"`
	Role         models.Role `json:"role"`
	DepartmentID string      `json:"department_id,omitempty"`
	Name         string      `json:"name"`
	jwt.StandardClaims
}

// Principal returns the principal encoded in the claims.
func (c *Claims) Principal() models.Principal {
	return models.Principal{ID: c.UserID, Role: c.Role, DepartmentID: c.DepartmentID, Name: c.Name}
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateToken generates a JWT token for a given principal
func (t *TokenIssuer) GenerateToken(p models.Principal) (string, *Claims, error) {
	if len(t.secret) == 0 {
		return "", nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	now := t.now()
	claims := &Claims{
		UserID:       p.ID,
		Role:         p.Role,
		DepartmentID: p.DepartmentID,
		Name:         p.Name,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(t.ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(t.secret)
	if err != nil {
		return "", nil, err
	}

	return tokenString, claims, nil
}

// ParseToken verifies tokenString and returns its claims.
func (t *TokenIssuer) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// TTL is how long issued tokens stay valid.
func (t *TokenIssuer) TTL() time.Duration { return t.ttl }
