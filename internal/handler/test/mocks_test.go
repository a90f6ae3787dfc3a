package test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mydiary/internal/models"
	"mydiary/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) ResolvePrincipal(ctx context.Context, claims *service.TokenClaims) (models.Principal, error) {
	args := m.Called(ctx, claims)
	return args.Get(0).(models.Principal), args.Error(1)
}

func (m *MockUserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateSettings(ctx context.Context, userID string, req models.UpdateSettingsRequest) (*models.User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) DeleteAccount(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockDiaryService struct {
	mock.Mock
}

func (m *MockDiaryService) List(ctx context.Context, userID string, query models.DiaryQuery) (*models.DiaryPage, error) {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DiaryPage), args.Error(1)
}

func (m *MockDiaryService) Create(ctx context.Context, userID string, req models.DiaryRequest) (*models.Diary, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Diary), args.Error(1)
}

func (m *MockDiaryService) Get(ctx context.Context, userID, diaryID string) (*models.Diary, error) {
	args := m.Called(ctx, userID, diaryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Diary), args.Error(1)
}

func (m *MockDiaryService) Update(ctx context.Context, userID, diaryID string, req models.DiaryRequest) (*models.Diary, error) {
	args := m.Called(ctx, userID, diaryID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Diary), args.Error(1)
}

func (m *MockDiaryService) Delete(ctx context.Context, userID, diaryID string) error {
	args := m.Called(ctx, userID, diaryID)
	return args.Error(0)
}

type MockTagService struct {
	mock.Mock
}

func (m *MockTagService) FindOrCreate(ctx context.Context, name string) (*models.Tag, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockTagService) ResolveTags(ctx context.Context, names []string) ([]models.Tag, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockTagService) ListForUser(ctx context.Context, userID string) ([]models.Tag, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tag), args.Error(1)
}

type MockTablesService struct {
	mock.Mock
}

func (m *MockTablesService) CountTables(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
