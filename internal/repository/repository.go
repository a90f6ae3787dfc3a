package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"mydiary/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	VerifyPassword(ctx context.Context, email, password string) (*models.User, error)
	UpdateSettings(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, userID string) error
}

type DiaryRepository interface {
	Create(ctx context.Context, diary *models.Diary) error
	GetByIDAndUserID(ctx context.Context, diaryID, userID string) (*models.Diary, error)
	List(ctx context.Context, filter models.DiaryFilter, limit, offset int) ([]models.Diary, int, error)
	Update(ctx context.Context, diary *models.Diary) error
	Delete(ctx context.Context, diaryID, userID string) error
	ReplaceTags(ctx context.Context, diaryID string, tagIDs []int64) error
	GetTagNames(ctx context.Context, diaryIDs []string) (map[string][]string, error)
}

type TagRepository interface {
	GetByName(ctx context.Context, name string) (*models.Tag, error)
	Upsert(ctx context.Context, name string) (*models.Tag, error)
	ListByUserID(ctx context.Context, userID string) ([]models.Tag, error)
}

type ImageRepository interface {
	Create(ctx context.Context, image *models.Image) error
	GetByDiaryID(ctx context.Context, diaryID string) ([]models.Image, error)
	GetByUserID(ctx context.Context, userID string) ([]models.Image, error)
	DeleteByDiaryID(ctx context.Context, diaryID string) error
}

// TxManager runs fn inside one database transaction. Repositories pick the
// transaction up from the context passed to fn.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Repository struct {
	User   UserRepository
	Diary  DiaryRepository
	Tag    TagRepository
	Image  ImageRepository
	Tables TablesRepository
	Tx     TxManager
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:   NewUserRepository(db),
		Diary:  NewDiaryRepository(db),
		Tag:    NewTagRepository(db),
		Image:  NewImageRepository(db),
		Tables: NewTablesRepository(db),
		Tx:     NewTxManager(db),
	}
}

// Querier is the subset of sqlx shared by *sqlx.DB and *sqlx.Tx.
type Querier interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

type txKey struct{}

// conn returns the transaction stored in ctx, or db when there is none.
func conn(ctx context.Context, db *sqlx.DB) Querier {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return db
}

type txManager struct {
	db *sqlx.DB
}

func NewTxManager(db *sqlx.DB) TxManager {
	return &txManager{db: db}
}

func (m *txManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка при открытии транзакции: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logrus.WithError(rbErr).Warn("Не удалось откатить транзакцию")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	return nil
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return pqErr, true
	}
	return nil, false
}
