package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"mydiary/internal/apperr"
	"mydiary/internal/config"
	"mydiary/internal/models"
	"mydiary/internal/repository"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
	monthLayout  = "2006-01"
)

type DiaryService interface {
	List(ctx context.Context, userID string, query models.DiaryQuery) (*models.DiaryPage, error)
	Create(ctx context.Context, userID string, req models.DiaryRequest) (*models.Diary, error)
	Get(ctx context.Context, userID, diaryID string) (*models.Diary, error)
	Update(ctx context.Context, userID, diaryID string, req models.DiaryRequest) (*models.Diary, error)
	Delete(ctx context.Context, userID, diaryID string) error
}

type diaryService struct {
	repo     *repository.Repository
	tags     TagService
	images   ImageService
	location *time.Location
}

func NewDiaryService(repo *repository.Repository, tags TagService, images ImageService, cfg *config.Config) DiaryService {
	location := cfg.Location
	if location == nil {
		location = time.UTC
	}

	return &diaryService{
		repo:     repo,
		tags:     tags,
		images:   images,
		location: location,
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	return page, limit
}

func totalPages(total, limit int) int {
	return (total + limit - 1) / limit
}

// buildFilter applies the precedence keyword, tag, month; only the first
// supplied filter is used. Blank values count as absent, but a supplied value
// is used as is.
func (s *diaryService) buildFilter(userID string, query models.DiaryQuery) (models.DiaryFilter, error) {
	filter := models.DiaryFilter{UserID: userID}

	if strings.TrimSpace(query.Keyword) != "" {
		filter.Keyword = query.Keyword
		return filter, nil
	}

	if strings.TrimSpace(query.Tag) != "" {
		filter.TagName = query.Tag
		return filter, nil
	}

	if strings.TrimSpace(query.Month) != "" {
		from, err := time.ParseInLocation(monthLayout, query.Month, s.location)
		if err != nil {
			return filter, apperr.Validation("некорректный формат месяца", map[string]string{
				"month": "ожидается формат YYYY-MM",
			})
		}
		to := from.AddDate(0, 1, 0)
		filter.From = &from
		filter.To = &to
	}

	return filter, nil
}

func (s *diaryService) List(ctx context.Context, userID string, query models.DiaryQuery) (*models.DiaryPage, error) {
	filter, err := s.buildFilter(userID, query)
	if err != nil {
		return nil, err
	}

	page, limit := normalizePage(query.Page, query.Limit)

	diaries, total, err := s.repo.Diary.List(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(diaries))
	for i := range diaries {
		ids[i] = diaries[i].DiaryID
	}

	tagNames, err := s.repo.Diary.GetTagNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range diaries {
		diaries[i].Tags = tagNames[diaries[i].DiaryID]
		if diaries[i].Tags == nil {
			diaries[i].Tags = []string{}
		}
	}

	return &models.DiaryPage{
		Diaries: diaries,
		Pagination: models.Pagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages(total, limit),
		},
	}, nil
}

func (s *diaryService) Create(ctx context.Context, userID string, req models.DiaryRequest) (*models.Diary, error) {
	diary := &models.Diary{
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
		Emotion: req.Emotion,
	}

	var uploaded []models.Image

	err := s.repo.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.User.GetUserByID(ctx, userID); err != nil {
			return err
		}

		if err := s.repo.Diary.Create(ctx, diary); err != nil {
			return err
		}

		if err := s.replaceTags(ctx, diary.DiaryID, req.Tags); err != nil {
			return err
		}

		var err error
		uploaded, err = s.saveImages(ctx, diary.DiaryID, req.Images)
		if err != nil {
			return err
		}

		return s.loadDetail(ctx, diary)
	})
	if err != nil {
		s.images.DiscardImages(ctx, uploaded)
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  userID,
		"diary_id": diary.DiaryID,
	}).Info("Запись дневника создана")

	return diary, nil
}

func (s *diaryService) Get(ctx context.Context, userID, diaryID string) (*models.Diary, error) {
	diary, err := s.repo.Diary.GetByIDAndUserID(ctx, diaryID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.loadDetail(ctx, diary); err != nil {
		return nil, err
	}

	return diary, nil
}

func (s *diaryService) Update(ctx context.Context, userID, diaryID string, req models.DiaryRequest) (*models.Diary, error) {
	var (
		diary     *models.Diary
		uploaded  []models.Image
		discarded []models.Image
	)

	err := s.repo.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		diary, err = s.repo.Diary.GetByIDAndUserID(ctx, diaryID, userID)
		if err != nil {
			return err
		}

		diary.Title = req.Title
		diary.Content = req.Content
		diary.Emotion = req.Emotion

		if err := s.repo.Diary.Update(ctx, diary); err != nil {
			return err
		}

		if req.Tags != nil {
			if err := s.replaceTags(ctx, diaryID, req.Tags); err != nil {
				return err
			}
		}

		if req.Images != nil {
			discarded, err = s.repo.Image.GetByDiaryID(ctx, diaryID)
			if err != nil {
				return err
			}

			if err := s.repo.Image.DeleteByDiaryID(ctx, diaryID); err != nil {
				return err
			}

			uploaded, err = s.saveImages(ctx, diaryID, req.Images)
			if err != nil {
				return err
			}
		}

		return s.loadDetail(ctx, diary)
	})
	if err != nil {
		s.images.DiscardImages(ctx, uploaded)
		return nil, err
	}

	s.images.DiscardImages(ctx, discarded)

	return diary, nil
}

func (s *diaryService) Delete(ctx context.Context, userID, diaryID string) error {
	var images []models.Image

	err := s.repo.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.Diary.GetByIDAndUserID(ctx, diaryID, userID); err != nil {
			return err
		}

		var err error
		images, err = s.repo.Image.GetByDiaryID(ctx, diaryID)
		if err != nil {
			return err
		}

		return s.repo.Diary.Delete(ctx, diaryID, userID)
	})
	if err != nil {
		return err
	}

	s.images.DiscardImages(ctx, images)

	logrus.WithFields(logrus.Fields{
		"user_id":  userID,
		"diary_id": diaryID,
	}).Info("Запись дневника удалена")

	return nil
}

func (s *diaryService) replaceTags(ctx context.Context, diaryID string, names []string) error {
	tags, err := s.tags.ResolveTags(ctx, names)
	if err != nil {
		return err
	}

	ids := make([]int64, len(tags))
	for i, tag := range tags {
		ids[i] = tag.TagID
	}

	return s.repo.Diary.ReplaceTags(ctx, diaryID, ids)
}

// saveImages returns the images stored so far even on error so the caller
// can clean them up.
func (s *diaryService) saveImages(ctx context.Context, diaryID string, requests []models.ImageRequest) ([]models.Image, error) {
	saved := make([]models.Image, 0, len(requests))

	for _, req := range requests {
		image, err := s.images.SaveImage(ctx, diaryID, req)
		if err != nil {
			return saved, err
		}
		saved = append(saved, *image)
	}

	return saved, nil
}

func (s *diaryService) loadDetail(ctx context.Context, diary *models.Diary) error {
	tagNames, err := s.repo.Diary.GetTagNames(ctx, []string{diary.DiaryID})
	if err != nil {
		return err
	}

	diary.Tags = tagNames[diary.DiaryID]
	if diary.Tags == nil {
		diary.Tags = []string{}
	}
	sort.Strings(diary.Tags)

	diary.Images, err = s.repo.Image.GetByDiaryID(ctx, diary.DiaryID)
	return err
}
