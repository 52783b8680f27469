// utils/auth.go
package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"math/big"
	"strings"
	"time"

	"chiludos-backend/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is lowered by tests only.
var PasswordCost = bcrypt.DefaultCost

// Generate JWT secret key (run once initially)
func GenerateJWTSecret() string {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("failed to generate JWT secret")
	}
	return base64.StdEncoding.EncodeToString(key)
}

const randomAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

// GenerateRandomString returns n characters drawn from an unambiguous alphabet.
func GenerateRandomString(n int) string {
	var sb strings.Builder
	sb.Grow(n)
	max := big.NewInt(int64(len(randomAlphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("failed to read random bytes")
		}
		sb.WriteByte(randomAlphabet[idx.Int64()])
	}
	return sb.String()
}

// Hash password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Claims is what the access-control gate exposes to handlers.
type Claims struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserID is the account id carried in the subject claim.
func (c *Claims) UserID() string {
	return c.Subject
}

// TokenManager signs and verifies bearer credentials. It holds no mutable
// state and is safe for concurrent use.
type TokenManager struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, expiry time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), expiry: expiry, now: time.Now}
}

// Expiry is how long issued tokens stay valid.
func (tm *TokenManager) Expiry() time.Duration {
	return tm.expiry
}

// Generate JWT token
func (tm *TokenManager) Generate(user *models.User) (string, error) {
	if len(tm.secret) == 0 {
		return "", errors.New("JWT secret not set")
	}
	now := tm.now()
	claims := Claims{
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Parse verifies a raw token. Failures are always an AuthError.
func (tm *TokenManager) Parse(raw string) (*Claims, error) {
	if raw == "" {
		return nil, AuthError("Authentication token not provided")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.now))

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, AuthError("Token expired, please log in again")
	case err != nil || !token.Valid:
		return nil, AuthError("Invalid token")
	case claims.Subject == "" || !claims.Role.Valid():
		return nil, AuthError("Invalid token claims")
	}
	return claims, nil
}

// BearerToken extracts the credential from an Authorization header value.
func BearerToken(header string) (string, bool) {
	if len(header) > 7 && strings.EqualFold(header[0:7], "Bearer ") {
		return strings.TrimSpace(header[7:]), true
	}
	return "", false
}
