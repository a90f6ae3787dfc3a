package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"mydiary/internal/models"
	"mydiary/internal/repository"
)

type UserService interface {
	ResolvePrincipal(ctx context.Context, claims *TokenClaims) (models.Principal, error)
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateSettings(ctx context.Context, userID string, req models.UpdateSettingsRequest) (*models.User, error)
	DeleteAccount(ctx context.Context, userID string) error
}

type userService struct {
	repo   *repository.Repository
	images ImageService
}

func NewUserService(repo *repository.Repository, images ImageService) UserService {
	return &userService{
		repo:   repo,
		images: images,
	}
}

// ResolvePrincipal turns validated token claims into the request principal.
// The uid claim is trusted as is; older tokens carrying only the email are
// resolved through the users table.
func (s *userService) ResolvePrincipal(ctx context.Context, claims *TokenClaims) (models.Principal, error) {
	if claims.UserID != "" {
		return models.Principal{UserID: claims.UserID, Email: claims.Subject}, nil
	}

	user, err := s.repo.User.GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		return models.Principal{}, err
	}

	return models.Principal{UserID: user.UserID, Email: user.Email}, nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.repo.User.GetUserByID(ctx, userID)
}

func (s *userService) UpdateSettings(ctx context.Context, userID string, req models.UpdateSettingsRequest) (*models.User, error) {
	// get user by id
	user, err := s.repo.User.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Theme = req.Theme
	user.ReminderTime = nil
	if req.ReminderTime != "" {
		reminder := req.ReminderTime
		user.ReminderTime = &reminder
	}

	if err := s.repo.User.UpdateSettings(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteAccount removes the user together with every diary entry. Stored
// image objects are cleaned up after the transaction commits.
func (s *userService) DeleteAccount(ctx context.Context, userID string) error {
	var images []models.Image

	err := s.repo.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		images, err = s.repo.Image.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}

		return s.repo.User.DeleteUser(ctx, userID)
	})
	if err != nil {
		return err
	}

	s.images.DiscardImages(ctx, images)

	logrus.WithField("user_id", userID).Info("Аккаунт пользователя удален")

	return nil
}
