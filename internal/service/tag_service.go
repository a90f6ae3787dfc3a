package service

import (
	"context"
	"errors"

	"mydiary/internal/apperr"
	"mydiary/internal/models"
	"mydiary/internal/repository"
)

type TagService interface {
	FindOrCreate(ctx context.Context, name string) (*models.Tag, error)
	ResolveTags(ctx context.Context, names []string) ([]models.Tag, error)
	ListForUser(ctx context.Context, userID string) ([]models.Tag, error)
}

type tagService struct {
	tagRepo repository.TagRepository
}

func NewTagService(tagRepo repository.TagRepository) TagService {
	return &tagService{tagRepo: tagRepo}
}

// FindOrCreate returns the tag with exactly this name, creating it when it
// does not exist yet. Concurrent callers end up with the same row.
func (s *tagService) FindOrCreate(ctx context.Context, name string) (*models.Tag, error) {
	tag, err := s.tagRepo.GetByName(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	return s.tagRepo.Upsert(ctx, name)
}

// ResolveTags maps names to tags, dropping repeated names while keeping the
// order of first appearance. Names are matched exactly, whitespace included.
func (s *tagService) ResolveTags(ctx context.Context, names []string) ([]models.Tag, error) {
	seen := make(map[string]struct{}, len(names))
	tags := make([]models.Tag, 0, len(names))

	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		tag, err := s.FindOrCreate(ctx, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}

	return tags, nil
}

func (s *tagService) ListForUser(ctx context.Context, userID string) ([]models.Tag, error) {
	return s.tagRepo.ListByUserID(ctx, userID)
}
