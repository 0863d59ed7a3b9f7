// File: internal/services/user_services/auth_service.go
package user_services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/neochat/neochat/internal/domain"
)

// AuthService issues and validates the JWT the HTTP layer uses to map a
// request back to a directory user. Credential checking itself lives in the
// directory; this service only wraps it with token handling.
type AuthService struct {
	directory    *DirectoryService
	jwtSecretKey string
	logger       Logger
}

func NewAuthService(directory *DirectoryService, jwtSecretKey string, logger Logger) *AuthService {
	return &AuthService{
		directory:    directory,
		jwtSecretKey: jwtSecretKey,
		logger:       logger,
	}
}

// Login authenticates a user and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	if username == "" || password == "" {
		return nil, "", errors.New("username and password are required")
	}

	u, err := s.directory.Authenticate(ctx, username, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.generateToken(u)
	if err != nil {
		s.logger.Error("token generation failed", "user_id", u.ID, "error", err)
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return u, token, nil
}

// TokenFor issues a session token for an already-authenticated user (used
// right after registration, which auto-logs the new account in).
func (s *AuthService) TokenFor(u *domain.User) (string, error) {
	return s.generateToken(u)
}

// ValidateToken checks a session token and returns the username it carries.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", errors.New("empty token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecretKey), nil
	})
	if err != nil {
		s.logger.Warn("token validation failed", "error", err)
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return "", errors.New("invalid token claims")
	}
	return username, nil
}

func (s *AuthService) generateToken(u *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      u.ID,
		"username": u.Username,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(7 * 24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecretKey))
}
