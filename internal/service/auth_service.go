package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"mydiary/internal/apperr"
	"mydiary/internal/models"
	"mydiary/internal/repository"
)

// ErrInvalidCredentials is returned by Login for every failure so callers
// cannot tell an unknown email from a wrong password.
var ErrInvalidCredentials = apperr.Unauthorized("неверный email или пароль")

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error)
	Logout(ctx context.Context) error
}

type authService struct {
	userRepo repository.UserRepository
	tx       repository.TxManager
	tokens   TokenService
}

func NewAuthService(userRepo repository.UserRepository, tx repository.TxManager, tokens TokenService) AuthService {
	return &authService{
		userRepo: userRepo,
		tx:       tx,
		tokens:   tokens,
	}
}

func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Conflict("пользователь с таким email уже существует")
		}

		exists, err = s.userRepo.ExistsByUsername(ctx, req.Username)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Conflict("пользователь с таким именем уже существует")
		}

		return s.userRepo.CreateUser(ctx, user, req.Password)
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.IssueForUser(user)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации access token: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  user.UserID,
		"username": user.Username,
	}).Info("Пользователь зарегистрирован")

	return &models.AuthResult{User: user, Token: token}, nil
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error) {
	user, err := s.userRepo.VerifyPassword(ctx, req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, repository.ErrInvalidPassword) && !errors.Is(err, apperr.ErrNotFound) {
			logrus.WithError(err).Warn("Ошибка при входе пользователя")
		}
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.IssueForUser(user)
	if err != nil {
		logrus.WithError(err).Error("Не удалось выпустить токен")
		return nil, ErrInvalidCredentials
	}

	return &models.AuthResult{User: user, Token: token}, nil
}

// Logout is a no-op: tokens are stateless and expire on their own.
func (s *authService) Logout(context.Context) error {
	return nil
}
