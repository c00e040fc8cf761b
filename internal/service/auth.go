package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BuzzLyutic/todo-api/internal/auth"
	"github.com/BuzzLyutic/todo-api/internal/model"
	"github.com/BuzzLyutic/todo-api/internal/repo"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthResult struct {
	Token     string     `json:"token"`
	User      model.User `json:"user"`
	ExpiresAt time.Time  `json:"expires_at"`
}

type AuthService struct {
	users repo.UserRepository
	jwt   *auth.JWTManager
}

func NewAuthService(users repo.UserRepository, jwt *auth.JWTManager) *AuthService {
	return &AuthService{
		users: users,
		jwt:   jwt,
	}
}

func (s *AuthService) Signup(ctx context.Context, email, password, username string) (AuthResult, error) {
	if err := validateCredentials(email, password); err != nil {
		return AuthResult{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return AuthResult{}, err
	}

	user, err := s.users.CreateUser(ctx, model.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		return AuthResult{}, err // повторный email отдаст repo.ErrorConflict
	}

	return s.issueToken(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	if err := validateCredentials(email, password); err != nil {
		return AuthResult{}, err
	}

	user, err := s.users.GetUser(ctx, email)
	if errors.Is(err, repo.ErrorNotFound) {
		// Неизвестный email и неверный пароль не различаем
		return AuthResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return AuthResult{}, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return AuthResult{}, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s *AuthService) issueToken(user model.User) (AuthResult, error) {
	token, expiresAt, err := s.jwt.Generate(user.Email)
	if err != nil {
		return AuthResult{}, err
	}
	user.PasswordHash = ""
	return AuthResult{
		Token:     token,
		User:      user,
		ExpiresAt: expiresAt,
	}, nil
}

func validateCredentials(email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", model.ErrValidation)
	}
	return nil
}
