package app

import (
	"context"

	"github.com/sirupsen/logrus"

	"mydiary/internal/config"
	"mydiary/internal/database"
	"mydiary/internal/repository"
	"mydiary/internal/service"
	"mydiary/internal/storage"
)

func App(ctx context.Context, cfg *config.Config) (*database.DB, *repository.Repository, *service.Service) {
	// connection DB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		logrus.Fatalf("Не удалось подключиться к БД: %v", err)
	}

	// image storage: stub URLs or MinIO
	imageStorage, err := storage.New(ctx, cfg)
	if err != nil {
		db.CloseDB()
		logrus.Fatalf("Не удалось инициализировать хранилище изображений: %v", err)
	}

	// enabling dependencies
	repo := repository.NewRepository(db.DB)

	services := service.NewService(repo, cfg, imageStorage)

	return db, repo, services
}
