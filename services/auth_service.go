package services

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"AVRentals/config"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService authenticates the admin account for the review surface.
// There is one operator identity, configured through the environment; the
// catalogue site itself never authenticates visitors.
type AuthService struct {
	username     string
	passwordHash []byte
	secret       []byte
	tokenTTL     time.Duration
}

func NewAuthService() *AuthService {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}

	hash := []byte(os.Getenv("ADMIN_PASSWORD_HASH"))
	if len(hash) == 0 {
		if plain := os.Getenv("ADMIN_PASSWORD"); plain != "" {
			hash, _ = bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
		}
	}

	return &AuthService{
		username:     username,
		passwordHash: hash,
		secret:       config.JWTSecret(),
		tokenTTL:     24 * time.Hour,
	}
}

// Login verifies the admin credentials and returns a signed token.
func (s *AuthService) Login(username, password string) (string, error) {
	if username != s.username || len(s.passwordHash) == 0 {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := &Claims{
		Username: username,
		Role:     "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyToken parses and validates a token from the Authorization header.
func (s *AuthService) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}
