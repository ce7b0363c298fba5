// internal/auth/auth.go

package auth

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// Audience distinguishes participant tokens from back-office tokens.
const (
	AudienceUser  = "user"
	AudienceAdmin = "admin"
)

// JWTSecret holds the signing key (set by Init).
var JWTSecret []byte

// Init caches the JWT secret read from the environment.
func Init(secret string) {
	JWTSecret = []byte(secret)
}

// Claims defines the JWT payload for users and admins alike.
type Claims struct {
	SubjectID string `json:"subject_id"`
	Name      string `json:"name"`
	Audience  string `json:"aud_kind"`
	Role      string `json:"role,omitempty"`
	jwt.StandardClaims
}

// GenerateJWT creates a signed token valid for 24h.
func GenerateJWT(subjectID, name, audience, role string) (string, error) {
	ttl := 24 * time.Hour
	now := time.Now()
	claims := Claims{
		SubjectID: subjectID,
		Name:      name,
		Audience:  audience,
		Role:      role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret)
}

// ParseAndVerify validates the token string and returns its claims.
func ParseAndVerify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// ensure HS256
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return JWTSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
