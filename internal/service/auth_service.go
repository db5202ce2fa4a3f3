package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/fitlab/internal/apperror"
	"alcyxob/fitlab/internal/domain"
	"alcyxob/fitlab/internal/gateway"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidToken         = errors.New("invalid or expired token")
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, member domain.Member, err error)
	ParseToken(token string) (*Claims, error)
	GetJWTSecret() string
}

type authService struct {
	gw            gateway.Gateway
	jwtSecret     string
	jwtExpiration time.Duration
	now           func() time.Time
}

// NewAuthService creates a new instance of authService.
func NewAuthService(gw gateway.Gateway, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour * 1
	}
	return &authService{
		gw:            gw,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		now:           time.Now,
	}
}

// Login checks the credentials against the stored bcrypt hash and issues a JWT.
func (s *authService) Login(ctx context.Context, email, password string) (string, domain.Member, error) {
	if email == "" || password == "" {
		return "", domain.Member{}, apperror.NewValidationError("credentials", "email and password cannot be empty")
	}

	member, err := s.gw.FindMemberByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if apperror.IsNotFound(err) {
			return "", domain.Member{}, ErrAuthenticationFailed
		}
		return "", domain.Member{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		return "", domain.Member{}, ErrAuthenticationFailed
	}

	token, err := s.generateJWT(member)
	if err != nil {
		return "", domain.Member{}, ErrTokenGeneration
	}
	return token, member, nil
}

// --- JWT Helper ---

// Claims is the JWT payload.
type Claims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(member domain.Member) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: member.ID,
		Role:   member.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   member.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "fitlab",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// ParseToken validates a bearer token and returns its claims.
func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
