package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"

	"mydiary/internal/config"
)

type MinIOClient struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func NewMinIOClient(ctx context.Context, cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к MinIO: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinIO.BucketName)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки бакета %s: %w", cfg.MinIO.BucketName, err)
	}

	if !exists {
		err = client.MakeBucket(ctx, cfg.MinIO.BucketName, minio.MakeBucketOptions{Region: cfg.MinIO.Region})
		if err != nil {
			return nil, fmt.Errorf("ошибка создания бакета %s: %w", cfg.MinIO.BucketName, err)
		}
		logrus.WithField("bucket", cfg.MinIO.BucketName).Info("Бакет MinIO создан")
	}

	return &MinIOClient{
		client:  client,
		bucket:  cfg.MinIO.BucketName,
		baseURL: objectBaseURL(client.EndpointURL().String(), cfg.MinIO.BucketName),
	}, nil
}

func objectBaseURL(endpoint, bucket string) string {
	return strings.TrimSuffix(endpoint, "/") + "/" + bucket + "/"
}

func objectName(diaryID, fileName string, now time.Time) string {
	return fmt.Sprintf("diaries/%s/%d/%02d/%s", diaryID, now.Year(), now.Month(), fileName)
}

// objectNameFromURL reverses the URL built by UploadImage. URLs that do not
// point into the bucket yield "".
func objectNameFromURL(baseURL, imageURL string) string {
	if !strings.HasPrefix(imageURL, baseURL) {
		return ""
	}
	return strings.TrimPrefix(imageURL, baseURL)
}

func (m *MinIOClient) UploadImage(ctx context.Context, diaryID string, fileName string, data []byte) (string, error) {
	now := time.Now()
	name := objectName(diaryID, fileName, now)

	_, err := m.client.PutObject(ctx, m.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType: mimetype.Detect(data).String(),
			UserMetadata: map[string]string{
				"diary-id":    diaryID,
				"uploaded-at": now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки в MinIO: %w", err)
	}

	return m.baseURL + name, nil
}

func (m *MinIOClient) DeleteImage(ctx context.Context, imageURL string) error {
	name := objectNameFromURL(m.baseURL, imageURL)
	if name == "" {
		return nil
	}

	err := m.client.RemoveObject(ctx, m.bucket, name, minio.RemoveObjectOptions{GovernanceBypass: true})
	if err != nil {
		return fmt.Errorf("ошибка удаления из MinIO: %w", err)
	}
	return nil
}
