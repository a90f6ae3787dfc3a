package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mydiary/internal/models"
	"mydiary/internal/repository"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	args := m.Called(ctx, user, password)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) VerifyPassword(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateSettings(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockDiaryRepository struct {
	mock.Mock
}

func (m *MockDiaryRepository) Create(ctx context.Context, diary *models.Diary) error {
	args := m.Called(ctx, diary)
	if diary.DiaryID == "" {
		diary.DiaryID = "generated-diary"
	}
	return args.Error(0)
}

func (m *MockDiaryRepository) GetByIDAndUserID(ctx context.Context, diaryID, userID string) (*models.Diary, error) {
	args := m.Called(ctx, diaryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Diary), args.Error(1)
}

func (m *MockDiaryRepository) List(ctx context.Context, filter models.DiaryFilter, limit, offset int) ([]models.Diary, int, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Diary), args.Int(1), args.Error(2)
}

func (m *MockDiaryRepository) Update(ctx context.Context, diary *models.Diary) error {
	args := m.Called(ctx, diary)
	return args.Error(0)
}

func (m *MockDiaryRepository) Delete(ctx context.Context, diaryID, userID string) error {
	args := m.Called(ctx, diaryID, userID)
	return args.Error(0)
}

func (m *MockDiaryRepository) ReplaceTags(ctx context.Context, diaryID string, tagIDs []int64) error {
	args := m.Called(ctx, diaryID, tagIDs)
	return args.Error(0)
}

func (m *MockDiaryRepository) GetTagNames(ctx context.Context, diaryIDs []string) (map[string][]string, error) {
	args := m.Called(ctx, diaryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]string), args.Error(1)
}

type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockTagRepository) Upsert(ctx context.Context, name string) (*models.Tag, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockTagRepository) ListByUserID(ctx context.Context, userID string) ([]models.Tag, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tag), args.Error(1)
}

type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) Create(ctx context.Context, image *models.Image) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockImageRepository) GetByDiaryID(ctx context.Context, diaryID string) ([]models.Image, error) {
	args := m.Called(ctx, diaryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Image), args.Error(1)
}

func (m *MockImageRepository) GetByUserID(ctx context.Context, userID string) ([]models.Image, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Image), args.Error(1)
}

func (m *MockImageRepository) DeleteByDiaryID(ctx context.Context, diaryID string) error {
	args := m.Called(ctx, diaryID)
	return args.Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadImage(ctx context.Context, diaryID string, fileName string, data []byte) (string, error) {
	args := m.Called(ctx, diaryID, fileName, data)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) DeleteImage(ctx context.Context, imageURL string) error {
	args := m.Called(ctx, imageURL)
	return args.Error(0)
}

// fakeTx runs fn directly and records how many transactions were opened.
type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type testRepos struct {
	user  *MockUserRepository
	diary *MockDiaryRepository
	tag   *MockTagRepository
	image *MockImageRepository
	tx    *fakeTx
}

func newTestRepos() (*repository.Repository, *testRepos) {
	m := &testRepos{
		user:  new(MockUserRepository),
		diary: new(MockDiaryRepository),
		tag:   new(MockTagRepository),
		image: new(MockImageRepository),
		tx:    &fakeTx{},
	}

	return &repository.Repository{
		User:  m.user,
		Diary: m.diary,
		Tag:   m.tag,
		Image: m.image,
		Tx:    m.tx,
	}, m
}
