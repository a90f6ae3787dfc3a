package service

import (
	"mydiary/internal/config"
	"mydiary/internal/repository"
	"mydiary/internal/storage"
)

type Service struct {
	Token  TokenService
	Auth   AuthService
	User   UserService
	Diary  DiaryService
	Tag    TagService
	Image  ImageService
	Tables TablesService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage) *Service {
	tokens := NewTokenService(cfg)
	tags := NewTagService(rep.Tag)
	images := NewImageService(rep.Image, storage, cfg)

	return &Service{
		Token:  tokens,
		Auth:   NewAuthService(rep.User, rep.Tx, tokens),
		User:   NewUserService(rep, images),
		Diary:  NewDiaryService(rep, tags, images, cfg),
		Tag:    tags,
		Image:  images,
		Tables: NewTablesService(rep.Tables),
	}
}
