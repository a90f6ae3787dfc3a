package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"mydiary/internal/apperr"
	"mydiary/internal/models"
)

const defaultTheme = "light"

var ErrInvalidPassword = errors.New("неверный пароль")

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	// create password hash
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return apperr.Validation("пароль слишком длинный", map[string]string{
			"password": "максимальная длина 72 байта",
		})
	}
	if err != nil {
		return fmt.Errorf("ошибка при хешировании пароля: %w", err)
	}

	user.UserID = uuid.New().String()
	user.PasswordHash = string(hashedPassword)
	if user.Theme == "" {
		user.Theme = defaultTheme
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (user_id, username, email, password_hash, theme, reminder_time, created_at, updated_at)
		VALUES (:user_id, :username, :email, :password_hash, :theme, :reminder_time, :created_at, :updated_at)
	`

	_, err = conn(ctx, r.db).NamedExecContext(ctx, query, user)
	if err != nil {
		if pqErr, ok := isUniqueViolation(err); ok {
			if strings.Contains(pqErr.Constraint, "username") {
				return apperr.Conflict("пользователь с таким именем уже существует")
			}
			return apperr.Conflict("пользователь с таким email уже существует")
		}
		return fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User

	query := `SELECT * FROM users WHERE user_id = $1`

	err := conn(ctx, r.db).GetContext(ctx, &user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(fmt.Sprintf("пользователь с ID %s не найден", userID))
		}
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	query := `SELECT * FROM users WHERE email = $1`

	err := conn(ctx, r.db).GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(fmt.Sprintf("пользователь с email %s не найден", email))
		}
		return nil, fmt.Errorf("ошибка при получении пользователя по email: %w", err)
	}

	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	if err := conn(ctx, r.db).GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("ошибка при проверке email: %w", err)
	}

	return exists, nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`

	if err := conn(ctx, r.db).GetContext(ctx, &exists, query, username); err != nil {
		return false, fmt.Errorf("ошибка при проверке имени пользователя: %w", err)
	}

	return exists, nil
}

func (r *userRepository) VerifyPassword(ctx context.Context, email, password string) (*models.User, error) {
	user, err := r.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	// checking that the password hash is the same
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, ErrInvalidPassword
	}

	return user, nil
}

func (r *userRepository) UpdateSettings(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET theme = :theme, reminder_time = :reminder_time, updated_at = :updated_at
		WHERE user_id = :user_id
	`

	user.UpdatedAt = time.Now()

	result, err := conn(ctx, r.db).NamedExecContext(ctx, query, user)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении пользователя: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return apperr.NotFound(fmt.Sprintf("пользователь с ID %s не найден", user.UserID))
	}

	return nil
}

// DeleteUser removes the user; diaries, their images and tag links go with
// it through ON DELETE CASCADE.
func (r *userRepository) DeleteUser(ctx context.Context, userID string) error {
	query := `DELETE FROM users WHERE user_id = $1`

	result, err := conn(ctx, r.db).ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении пользователя: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return apperr.NotFound(fmt.Sprintf("пользователь с ID %s не найден", userID))
	}

	return nil
}
