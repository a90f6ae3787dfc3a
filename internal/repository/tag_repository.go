package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"mydiary/internal/apperr"
	"mydiary/internal/models"
)

type tagRepository struct {
	db *sqlx.DB
}

func NewTagRepository(db *sqlx.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	query := `SELECT tag_id, name FROM tags WHERE name = $1`

	var tag models.Tag
	err := conn(ctx, r.db).GetContext(ctx, &tag, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(fmt.Sprintf("тег %s не найден", name))
		}
		return nil, fmt.Errorf("ошибка при получении тега: %w", err)
	}

	return &tag, nil
}

// Upsert inserts the tag or returns the existing row. The no-op update makes
// RETURNING yield the row even when another transaction created it first.
func (r *tagRepository) Upsert(ctx context.Context, name string) (*models.Tag, error) {
	query := `
		INSERT INTO tags (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING tag_id, name
	`

	var tag models.Tag
	if err := conn(ctx, r.db).GetContext(ctx, &tag, query, name); err != nil {
		return nil, fmt.Errorf("ошибка при создании тега: %w", err)
	}

	return &tag, nil
}

func (r *tagRepository) ListByUserID(ctx context.Context, userID string) ([]models.Tag, error) {
	query := `
		SELECT DISTINCT t.tag_id, t.name
		FROM tags t
		JOIN diary_tags dt ON dt.tag_id = t.tag_id
		JOIN diaries d ON d.diary_id = dt.diary_id
		WHERE d.user_id = $1
		ORDER BY t.name
	`

	tags := []models.Tag{}
	if err := conn(ctx, r.db).SelectContext(ctx, &tags, query, userID); err != nil {
		return nil, fmt.Errorf("ошибка при получении тегов пользователя: %w", err)
	}

	return tags, nil
}
