package storage

import (
	"context"
	"fmt"

	"mydiary/internal/config"
)

// Storage keeps decoded image bytes and hands back the URL stored on the
// image row.
type Storage interface {
	UploadImage(ctx context.Context, diaryID string, fileName string, data []byte) (string, error)
	DeleteImage(ctx context.Context, imageURL string) error
}

const (
	DriverStub  = "stub"
	DriverMinIO = "minio"
)

// New returns the backend selected by cfg.Storage.Driver.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.Storage.Driver {
	case "", DriverStub:
		return NewStubStorage(cfg.Storage.PublicBaseURL), nil
	case DriverMinIO:
		return NewMinIOClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("неизвестный драйвер хранилища: %s", cfg.Storage.Driver)
	}
}

type stubStorage struct {
	baseURL string
}

// NewStubStorage returns a Storage that writes nothing and only builds URLs
// of the form <baseURL>/images/<fileName>.
func NewStubStorage(baseURL string) Storage {
	return &stubStorage{baseURL: baseURL}
}

func (s *stubStorage) UploadImage(_ context.Context, _ string, fileName string, _ []byte) (string, error) {
	return fmt.Sprintf("%s/images/%s", s.baseURL, fileName), nil
}

func (s *stubStorage) DeleteImage(context.Context, string) error {
	return nil
}
