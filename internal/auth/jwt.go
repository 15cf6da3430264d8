package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	SessionCookie = "bidnest-token"
	AdminCookie   = "bidnest-admin-session"

	SessionDuration = 7 * 24 * time.Hour
	AdminDuration   = 4 * time.Hour
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
	ErrRevokedToken = errors.New("token has been revoked")
)

// Claims represents the custom JWT claims for a user session.
type Claims struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	IsActive bool   `json:"is_active"`
	jwt.RegisteredClaims
}

// AdminClaims is the payload of the back-office session.
type AdminClaims struct {
	IsAdmin bool `json:"isAdmin"`
	jwt.RegisteredClaims
}

// JWTManager handles JWT token generation and validation.
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
}

// NewJWTManager creates a new JWT manager with the given secret and token duration.
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
	}
}

// Duration is how long issued tokens stay valid.
func (m *JWTManager) Duration() time.Duration {
	return m.tokenDuration
}

func (m *JWTManager) registered() jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
}

// Generate creates a session token for the given user.
func (m *JWTManager) Generate(userID uint, username string, isActive bool) (string, error) {
	claims := &Claims{
		UserID:           userID,
		Username:         username,
		IsActive:         isActive,
		RegisteredClaims: m.registered(),
	}
	return m.sign(claims)
}

// GenerateAdmin creates a back-office token.
func (m *JWTManager) GenerateAdmin() (string, error) {
	return m.sign(&AdminClaims{IsAdmin: true, RegisteredClaims: m.registered()})
}

func (m *JWTManager) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Validate parses and validates a session token, returning the claims if valid.
func (m *JWTManager) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if err := m.parse(tokenString, claims); err != nil {
		return nil, err
	}
	// admin tokens carry no user
	if claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateAdmin accepts only tokens minted by GenerateAdmin.
func (m *JWTManager) ValidateAdmin(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	if err := m.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if !claims.IsAdmin {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *JWTManager) parse(tokenString string, claims jwt.Claims) error {
	if tokenString == "" {
		return ErrMissingToken
	}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
