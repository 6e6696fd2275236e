package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	OperatorSubject = "operator"
	RoleOperator    = "operator"
)

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*TokenResult, error)
	ParseToken(tokenString string) (*OperatorClaims, error)
}

type LoginInput struct {
	Password string `json:"password"`
}

type TokenResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// OperatorClaims are the claims carried by operator tokens.
type OperatorClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	passwordHash []byte
	jwtSecret    []byte
	tokenTTL     time.Duration
	now          func() time.Time
}

// NewAuthService checks logins against a bcrypt hash of the single operator password.
func NewAuthService(passwordHash, jwtSecret string, tokenTTL time.Duration) AuthService {
	return &authService{
		passwordHash: []byte(passwordHash),
		jwtSecret:    []byte(jwtSecret),
		tokenTTL:     tokenTTL,
		now:          time.Now,
	}
}

func (s *authService) Login(_ context.Context, input LoginInput) (*TokenResult, error) {
	if input.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidationFailed)
	}
	err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(input.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := OperatorClaims{
		Role: RoleOperator,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   OperatorSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &TokenResult{Token: tokenString, ExpiresAt: expiresAt}, nil
}

func (s *authService) ParseToken(tokenString string) (*OperatorClaims, error) {
	claims := &OperatorClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	if claims.Role != RoleOperator {
		return nil, fmt.Errorf("%w: role %q is not allowed", ErrAuthenticationFailed, claims.Role)
	}
	return claims, nil
}
