package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"mydiary/internal/models"
)

type imageRepository struct {
	db *sqlx.DB
}

func NewImageRepository(db *sqlx.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(ctx context.Context, image *models.Image) error {
	query := `
		INSERT INTO images (image_id, diary_id, url, filename, created_at)
		VALUES (:image_id, :diary_id, :url, :filename, :created_at)
	`

	if image.ImageID == "" {
		image.ImageID = uuid.New().String()
	}

	if image.CreatedAt.IsZero() {
		image.CreatedAt = time.Now()
	}

	if _, err := conn(ctx, r.db).NamedExecContext(ctx, query, image); err != nil {
		return fmt.Errorf("ошибка при создании изображения: %w", err)
	}

	return nil
}

func (r *imageRepository) GetByDiaryID(ctx context.Context, diaryID string) ([]models.Image, error) {
	query := `SELECT * FROM images WHERE diary_id = $1 ORDER BY created_at`

	images := []models.Image{}
	if err := conn(ctx, r.db).SelectContext(ctx, &images, query, diaryID); err != nil {
		return nil, fmt.Errorf("ошибка при получении изображений: %w", err)
	}

	return images, nil
}

func (r *imageRepository) GetByUserID(ctx context.Context, userID string) ([]models.Image, error) {
	query := `
		SELECT i.* FROM images i
		JOIN diaries d ON d.diary_id = i.diary_id
		WHERE d.user_id = $1
	`

	images := []models.Image{}
	if err := conn(ctx, r.db).SelectContext(ctx, &images, query, userID); err != nil {
		return nil, fmt.Errorf("ошибка при получении изображений пользователя: %w", err)
	}

	return images, nil
}

func (r *imageRepository) DeleteByDiaryID(ctx context.Context, diaryID string) error {
	query := `DELETE FROM images WHERE diary_id = $1`

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, diaryID); err != nil {
		return fmt.Errorf("ошибка при удалении изображений записи: %w", err)
	}

	return nil
}
