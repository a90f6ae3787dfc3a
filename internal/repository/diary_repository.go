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
	"github.com/lib/pq"

	"mydiary/internal/apperr"
	"mydiary/internal/models"
)

const diaryColumns = `d.diary_id, d.user_id, d.title, d.content, d.emotion, d.created_at, d.updated_at`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type diaryRepository struct {
	db *sqlx.DB
}

func NewDiaryRepository(db *sqlx.DB) DiaryRepository {
	return &diaryRepository{db: db}
}

func (r *diaryRepository) Create(ctx context.Context, diary *models.Diary) error {
	query := `
		INSERT INTO diaries (diary_id, user_id, title, content, emotion, created_at, updated_at)
		VALUES (:diary_id, :user_id, :title, :content, :emotion, :created_at, :updated_at)
	`

	if diary.DiaryID == "" {
		diary.DiaryID = uuid.New().String()
	}

	now := time.Now()
	diary.CreatedAt = now
	diary.UpdatedAt = now

	if _, err := conn(ctx, r.db).NamedExecContext(ctx, query, diary); err != nil {
		return fmt.Errorf("ошибка при создании записи дневника: %w", err)
	}

	return nil
}

func (r *diaryRepository) GetByIDAndUserID(ctx context.Context, diaryID, userID string) (*models.Diary, error) {
	query := `SELECT ` + diaryColumns + ` FROM diaries d WHERE d.diary_id = $1 AND d.user_id = $2`

	var diary models.Diary
	err := conn(ctx, r.db).GetContext(ctx, &diary, query, diaryID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("запись дневника не найдена")
		}
		return nil, fmt.Errorf("ошибка при получении записи дневника: %w", err)
	}

	return &diary, nil
}

// List returns one page of the user's diaries, newest first, together with
// the total number of rows matching the filter.
func (r *diaryRepository) List(ctx context.Context, filter models.DiaryFilter, limit, offset int) ([]models.Diary, int, error) {
	from := `FROM diaries d`
	where := []string{`d.user_id = $1`}
	args := []interface{}{filter.UserID}

	switch {
	case filter.Keyword != "":
		args = append(args, "%"+likeEscaper.Replace(filter.Keyword)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(`(d.title LIKE $%d OR d.content LIKE $%d)`, n, n))
	case filter.TagName != "":
		from += ` JOIN diary_tags dt ON dt.diary_id = d.diary_id JOIN tags t ON t.tag_id = dt.tag_id`
		args = append(args, filter.TagName)
		where = append(where, fmt.Sprintf(`t.name = $%d`, len(args)))
	case filter.From != nil && filter.To != nil:
		args = append(args, *filter.From, *filter.To)
		where = append(where, fmt.Sprintf(`d.created_at >= $%d AND d.created_at < $%d`, len(args)-1, len(args)))
	}

	condition := from + ` WHERE ` + strings.Join(where, ` AND `)

	q := conn(ctx, r.db)

	var total int
	if err := q.GetContext(ctx, &total, `SELECT COUNT(*) `+condition, args...); err != nil {
		return nil, 0, fmt.Errorf("ошибка при подсчете записей дневника: %w", err)
	}

	pageArgs := append(append([]interface{}{}, args...), limit, offset)
	query := fmt.Sprintf(`SELECT %s %s ORDER BY d.created_at DESC LIMIT $%d OFFSET $%d`,
		diaryColumns, condition, len(pageArgs)-1, len(pageArgs))

	diaries := []models.Diary{}
	if err := q.SelectContext(ctx, &diaries, query, pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("ошибка при получении записей дневника: %w", err)
	}

	return diaries, total, nil
}

func (r *diaryRepository) Update(ctx context.Context, diary *models.Diary) error {
	query := `
		UPDATE diaries SET
			title = :title,
			content = :content,
			emotion = :emotion,
			updated_at = :updated_at
		WHERE diary_id = :diary_id AND user_id = :user_id
	`

	diary.UpdatedAt = time.Now()

	result, err := conn(ctx, r.db).NamedExecContext(ctx, query, diary)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении записи дневника: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return apperr.NotFound("запись дневника не найдена")
	}

	return nil
}

// Delete removes the diary; images and tag links cascade, tags stay.
func (r *diaryRepository) Delete(ctx context.Context, diaryID, userID string) error {
	query := `DELETE FROM diaries WHERE diary_id = $1 AND user_id = $2`

	result, err := conn(ctx, r.db).ExecContext(ctx, query, diaryID, userID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении записи дневника: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return apperr.NotFound("запись дневника не найдена")
	}

	return nil
}

func (r *diaryRepository) ReplaceTags(ctx context.Context, diaryID string, tagIDs []int64) error {
	q := conn(ctx, r.db)

	if _, err := q.ExecContext(ctx, `DELETE FROM diary_tags WHERE diary_id = $1`, diaryID); err != nil {
		return fmt.Errorf("ошибка при удалении тегов записи: %w", err)
	}

	for _, tagID := range tagIDs {
		_, err := q.ExecContext(ctx,
			`INSERT INTO diary_tags (diary_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			diaryID, tagID)
		if err != nil {
			return fmt.Errorf("ошибка при привязке тега к записи: %w", err)
		}
	}

	return nil
}

// GetTagNames returns tag names per diary id, sorted by name.
func (r *diaryRepository) GetTagNames(ctx context.Context, diaryIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(diaryIDs))
	if len(diaryIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT dt.diary_id, t.name
		FROM diary_tags dt
		JOIN tags t ON t.tag_id = dt.tag_id
		WHERE dt.diary_id = ANY($1)
		ORDER BY t.name
	`

	var rows []struct {
		DiaryID string `db:"diary_id"`
		Name    string `db:"name"`
	}
	if err := conn(ctx, r.db).SelectContext(ctx, &rows, query, pq.Array(diaryIDs)); err != nil {
		return nil, fmt.Errorf("ошибка при получении тегов записей: %w", err)
	}

	for _, row := range rows {
		result[row.DiaryID] = append(result[row.DiaryID], row.Name)
	}

	return result, nil
}
