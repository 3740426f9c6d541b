package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/customerly-inc/customerly/internal/shared/authorization"
	"github.com/customerly-inc/customerly/internal/shared/biztime"
)

type TokenType string

const (
	TokenTypeAccess TokenType = "access"
	// TokenTypeBlob authorizes a single download of one storage path.
	TokenTypeBlob TokenType = "blob"
)

type Claims struct {
	UserID    string                 `json:"uid,omitempty"`
	Role      authorization.UserRole `json:"role,omitempty"`
	Path      string                 `json:"path,omitempty"`
	TokenType TokenType              `json:"token_type"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secret           []byte
	accessExpMinutes int
}

func NewJWTService(secret string, accessExpMinutes int) *JWTService {
	if accessExpMinutes <= 0 {
		accessExpMinutes = 60
	}
	return &JWTService{
		secret:           []byte(secret),
		accessExpMinutes: accessExpMinutes,
	}
}

// Generate issues an API bearer token. A zero ttl uses the configured
// access lifetime.
func (s *JWTService) Generate(userID string, role authorization.UserRole, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = time.Duration(s.accessExpMinutes) * time.Minute
	}
	now := biztime.NowUTC()
	exp := now.Add(ttl)
	claims := &Claims{
		UserID:    userID,
		Role:      role,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token, err := s.sign(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, exp, nil
}

// GenerateBlob issues a short-lived token naming one storage path.
func (s *JWTService) GenerateBlob(storagePath string, ttl time.Duration) (string, time.Time, error) {
	now := biztime.NowUTC()
	exp := now.Add(ttl)
	claims := &Claims{
		Path:      storagePath,
		TokenType: TokenTypeBlob,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := s.sign(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign blob token: %w", err)
	}
	return token, exp, nil
}

func (s *JWTService) sign(claims *Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// VerifyAccess accepts only API bearer tokens.
func (s *JWTService) VerifyAccess(tokenString string) (*Claims, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess || claims.UserID == "" {
		return nil, fmt.Errorf("token is not an access token")
	}
	return claims, nil
}

// VerifyBlob returns the storage path a download token grants.
func (s *JWTService) VerifyBlob(tokenString string) (string, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return "", err
	}
	if claims.TokenType != TokenTypeBlob || claims.Path == "" {
		return "", fmt.Errorf("token is not a download token")
	}
	return claims.Path, nil
}

// AccessExpMinutes returns the access token expiration time in minutes
func (s *JWTService) AccessExpMinutes() int {
	return s.accessExpMinutes
}
