package handler_test

import (
	"context"

	"moviehub/internal/microservices/http-api/models"
	"moviehub/internal/microservices/http-api/service"
	"moviehub/internal/shared"

	"github.com/stretchr/testify/mock"
)

// --- MOCK SERVICES ---

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*models.User), args.Error(2)
}

func (m *MockAuthService) IssueToken(user *models.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *MockAuthService) ResolveIdentity(ctx context.Context, tokenString string) (*shared.Identity, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Identity), args.Error(1)
}

type MockMovieService struct {
	mock.Mock
}

func (m *MockMovieService) List(ctx context.Context, page, limit int) ([]models.Movie, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Movie), args.Error(1)
}

func (m *MockMovieService) Get(ctx context.Context, id string) (*models.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movie), args.Error(1)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) CreateOrUpdateReview(ctx context.Context, userID, movieID, content string, isSpoiler *bool) (bool, error) {
	args := m.Called(ctx, userID, movieID, content, isSpoiler)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewService) ReviewsByMovie(ctx context.Context, movieID, cursor string, limit int) (*service.ReviewPage, error) {
	args := m.Called(ctx, movieID, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReviewPage), args.Error(1)
}

type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) RateMovie(ctx context.Context, userID, movieID string, value int) (bool, error) {
	args := m.Called(ctx, userID, movieID, value)
	return args.Bool(0), args.Error(1)
}

type MockWishlistService struct {
	mock.Mock
}

func (m *MockWishlistService) AddToWishlist(ctx context.Context, userID, movieID string) (bool, error) {
	args := m.Called(ctx, userID, movieID)
	return args.Bool(0), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) FindRole(ctx context.Context, name string) (*models.Role, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Role), args.Error(1)
}
