package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"mydiary/internal/apperr"
	"mydiary/internal/config"
	"mydiary/internal/models"
	"mydiary/internal/repository"
	"mydiary/internal/storage"
)

const defaultImageMIME = "image/jpeg"

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type ImageService interface {
	SaveImage(ctx context.Context, diaryID string, req models.ImageRequest) (*models.Image, error)
	DiscardImages(ctx context.Context, images []models.Image)
}

type imageService struct {
	imageRepo repository.ImageRepository
	storage   storage.Storage
	maxSize   int64
}

func NewImageService(imageRepo repository.ImageRepository, storage storage.Storage, cfg *config.Config) ImageService {
	return &imageService{
		imageRepo: imageRepo,
		storage:   storage,
		maxSize:   cfg.Storage.MaxImageSize,
	}
}

// parseDataURL splits "data:<mime>;base64,<payload>". The header must not be
// empty; one without a recognisable MIME type falls back to image/jpeg.
func parseDataURL(dataURL string) (mimeType, payload string, err error) {
	comma := strings.IndexByte(dataURL, ',')
	if comma <= 0 {
		return "", "", apperr.InvalidImageData("некорректный формат data URL", nil)
	}

	header := dataURL[:comma]
	payload = dataURL[comma+1:]
	mimeType = defaultImageMIME

	if strings.HasPrefix(header, "data:") {
		if semi := strings.IndexByte(header, ';'); semi > len("data:") {
			mimeType = strings.ToLower(header[len("data:"):semi])
		}
	}

	return mimeType, payload, nil
}

func extensionFor(mimeType string) string {
	if ext, ok := imageExtensions[mimeType]; ok {
		return ext
	}
	return ".jpg"
}

// decodeImage validates the data URL and returns the decoded bytes with a
// freshly generated file name.
func (s *imageService) decodeImage(dataURL string) ([]byte, string, error) {
	mimeType, payload, err := parseDataURL(dataURL)
	if err != nil {
		return nil, "", err
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", apperr.InvalidImageData("некорректные данные base64", err)
	}

	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return nil, "", apperr.InvalidImageData(fmt.Sprintf("размер изображения %s превышает допустимые %s",
			humanize.Bytes(uint64(len(data))), humanize.Bytes(uint64(s.maxSize))), nil)
	}

	return data, uuid.New().String() + extensionFor(mimeType), nil
}

func (s *imageService) SaveImage(ctx context.Context, diaryID string, req models.ImageRequest) (*models.Image, error) {
	data, fileName, err := s.decodeImage(req.Data)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.UploadImage(ctx, diaryID, fileName, data)
	if err != nil {
		return nil, fmt.Errorf("ошибка сохранения изображения: %w", err)
	}

	image := &models.Image{
		DiaryID:  diaryID,
		URL:      url,
		Filename: req.Filename,
	}

	if err := s.imageRepo.Create(ctx, image); err != nil {
		s.DiscardImages(ctx, []models.Image{*image})
		return nil, err
	}

	return image, nil
}

// DiscardImages removes stored objects of images that are no longer
// referenced. Failures are logged and otherwise ignored.
func (s *imageService) DiscardImages(ctx context.Context, images []models.Image) {
	for _, image := range images {
		if err := s.storage.DeleteImage(ctx, image.URL); err != nil {
			logrus.WithError(err).WithField("url", image.URL).Warn("Не удалось удалить файл изображения")
		}
	}
}
