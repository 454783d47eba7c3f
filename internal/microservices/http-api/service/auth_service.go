package service

import (
	"context"
	"errors"
	"time"

	"apero/internal/config"
	"apero/internal/microservices/http-api/models"
	"apero/internal/microservices/http-api/repository"
	"apero/internal/middleware/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrNameInUse          = errors.New("username already in use")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Claims are the JWT claims carried by an access token.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, username, password, email string) (*models.User, error)
	Login(ctx context.Context, username, password string) (accessToken string, user *models.User, err error)
	ValidateToken(tokenString string) (*Claims, error)
	TokenTTL() time.Duration
}

type authService struct {
	userRepo       repository.UserRepository
	jwtSecret      string
	accessTokenTTL time.Duration
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo:       userRepo,
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrNameInUse
	}
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Username: username,
		Email:    email,
		Password: hashed,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		// Dummy compare so a missing user takes as long as a bad password.
		auth.VerifyPassword("$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e", password)
		return "", nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) TokenTTL() time.Duration {
	return s.accessTokenTTL
}
