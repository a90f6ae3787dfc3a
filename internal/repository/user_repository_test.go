package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"mydiary/internal/apperr"
	"mydiary/internal/models"
)

var userColumns = []string{
	"user_id", "username", "email", "password_hash", "theme",
	"reminder_time", "created_at", "updated_at",
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestUserRepository_CreateUser(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewUserRepository(sqlxDB)

	ctx := context.Background()
	insertQuery := `
		INSERT INTO users (user_id, username, email, password_hash, theme, reminder_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	t.Run("Успешное создание пользователя", func(t *testing.T) {
		user := &models.User{Username: "alice", Email: "alice@example.com"}

		mock.ExpectExec(insertQuery).
			WithArgs(
				sqlmock.AnyArg(), // user_id будет сгенерирован в репозитории
				"alice",
				"alice@example.com",
				sqlmock.AnyArg(), // password_hash
				"light",
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
			).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.CreateUser(ctx, user, "password123")

		require.NoError(t, err)
		assert.NotEmpty(t, user.UserID)
		assert.Equal(t, "light", user.Theme)
		assert.NotEqual(t, "password123", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
		assert.Equal(t, user.CreatedAt, user.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Пароль длиннее 72 байт", func(t *testing.T) {
		user := &models.User{Username: "alice", Email: "alice@example.com"}

		// 49 characters, 91 bytes
		err := repo.CreateUser(ctx, user, strings.Repeat("пароль1", 7))

		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrValidation)

		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Contains(t, appErr.Fields, "password")
		assert.Empty(t, user.UserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Нарушение уникальности email", func(t *testing.T) {
		user := &models.User{Username: "alice2", Email: "alice@example.com"}

		mock.ExpectExec(insertQuery).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

		err := repo.CreateUser(ctx, user, "password123")

		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrConflict)
		assert.Contains(t, err.Error(), "email")
	})

	t.Run("Нарушение уникальности имени", func(t *testing.T) {
		user := &models.User{Username: "alice", Email: "other@example.com"}

		mock.ExpectExec(insertQuery).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

		err := repo.CreateUser(ctx, user, "password123")

		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrConflict)
		assert.Contains(t, err.Error(), "именем")
	})

	t.Run("Ошибка базы данных", func(t *testing.T) {
		user := &models.User{Username: "bob", Email: "bob@example.com"}

		mock.ExpectExec(insertQuery).
			WillReturnError(errors.New("connection failed"))

		err := repo.CreateUser(ctx, user, "password123")

		require.Error(t, err)
		assert.NotErrorIs(t, err, apperr.ErrConflict)
		assert.Contains(t, err.Error(), "ошибка при создании пользователя")
	})
}

func TestUserRepository_GetUserByID(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewUserRepository(sqlxDB)

	ctx := context.Background()
	userID := uuid.New().String()
	now := time.Now()

	t.Run("Успешное получение пользователя по ID", func(t *testing.T) {
		rows := sqlmock.NewRows(userColumns).
			AddRow(userID, "alice", "alice@example.com", "hash", "dark", "21:30", now, now)

		mock.ExpectQuery(`SELECT * FROM users WHERE user_id = $1`).
			WithArgs(userID).
			WillReturnRows(rows)

		user, err := repo.GetUserByID(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, userID, user.UserID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "dark", user.Theme)
		require.NotNil(t, user.ReminderTime)
		assert.Equal(t, "21:30", *user.ReminderTime)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Пользователь не найден", func(t *testing.T) {
		mock.ExpectQuery(`SELECT * FROM users WHERE user_id = $1`).
			WithArgs(userID).
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetUserByID(ctx, userID)

		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("Ошибка базы данных", func(t *testing.T) {
		mock.ExpectQuery(`SELECT * FROM users WHERE user_id = $1`).
			WithArgs(userID).
			WillReturnError(errors.New("connection failed"))

		user, err := repo.GetUserByID(ctx, userID)

		assert.Nil(t, user)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ошибка при получении пользователя")
	})
}

func TestUserRepository_Exists(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewUserRepository(sqlxDB)

	ctx := context.Background()

	mock.ExpectQuery(`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery(`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.ExistsByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_VerifyPassword(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewUserRepository(sqlxDB)

	ctx := context.Background()
	email := "test@example.com"
	password := "correct_password1"

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	userRow := func() *sqlmock.Rows {
		return sqlmock.NewRows(userColumns).
			AddRow(uuid.New().String(), "tester", email, string(hashedPassword), "light", nil, time.Now(), time.Now())
	}

	t.Run("Успешная проверка пароля", func(t *testing.T) {
		mock.ExpectQuery(`SELECT * FROM users WHERE email = $1`).
			WithArgs(email).
			WillReturnRows(userRow())

		user, err := repo.VerifyPassword(ctx, email, password)

		require.NoError(t, err)
		assert.Equal(t, email, user.Email)
		assert.Nil(t, user.ReminderTime)
	})

	t.Run("Неверный пароль", func(t *testing.T) {
		mock.ExpectQuery(`SELECT * FROM users WHERE email = $1`).
			WithArgs(email).
			WillReturnRows(userRow())

		user, err := repo.VerifyPassword(ctx, email, "wrong_password1")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("Пользователь не найден", func(t *testing.T) {
		mock.ExpectQuery(`SELECT * FROM users WHERE email = $1`).
			WithArgs(email).
			WillReturnError(sql.ErrNoRows)

		user, err := repo.VerifyPassword(ctx, email, password)

		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestUserRepository_UpdateSettings(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewUserRepository(sqlxDB)

	ctx := context.Background()
	reminder := "08:15"
	user := &models.User{UserID: uuid.New().String(), Theme: "dark", ReminderTime: &reminder}
	query := `UPDATE users SET theme = ?, reminder_time = ?, updated_at = ? WHERE user_id = ?`

	t.Run("Успешное обновление настроек", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("dark", "08:15", sqlmock.AnyArg(), user.UserID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateSettings(ctx, user))
		assert.False(t, user.UpdatedAt.IsZero())
	})

	t.Run("Пользователь не найден при обновлении", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("dark", "08:15", sqlmock.AnyArg(), user.UserID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateSettings(ctx, user)

		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestUserRepository_DeleteUser(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewUserRepository(sqlxDB)

	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("Успешное удаление пользователя", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM users WHERE user_id = $1`).
			WithArgs(userID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.DeleteUser(ctx, userID))
	})

	t.Run("Пользователь не найден при удалении", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM users WHERE user_id = $1`).
			WithArgs(userID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteUser(ctx, userID)

		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

//go test ./internal/repository/... -v
