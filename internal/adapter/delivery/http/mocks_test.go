package http

import (
	"context"

	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/entity"
	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/usecase"
	"github.com/stretchr/testify/mock"
)

type MockLinkUseCase struct {
	mock.Mock
}

func (uc *MockLinkUseCase) Create(ctx context.Context, originalURL, ownerID, customAlias string) (*entity.Link, error) {
	args := uc.Called(ctx, originalURL, ownerID, customAlias)
	link, _ := args.Get(0).(*entity.Link)
	return link, args.Error(1)
}

func (uc *MockLinkUseCase) GetByCode(ctx context.Context, shortCode string) (*entity.Link, error) {
	args := uc.Called(ctx, shortCode)
	link, _ := args.Get(0).(*entity.Link)
	return link, args.Error(1)
}

func (uc *MockLinkUseCase) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Link, error) {
	args := uc.Called(ctx, ownerID)
	links, _ := args.Get(0).([]*entity.Link)
	return links, args.Error(1)
}

func (uc *MockLinkUseCase) Delete(ctx context.Context, linkID, requesterID string) error {
	args := uc.Called(ctx, linkID, requesterID)
	return args.Error(0)
}

func (uc *MockLinkUseCase) Watch(ctx context.Context, ownerID string, fn usecase.WatchFunc) (func(), error) {
	args := uc.Called(ctx, ownerID, fn)
	stop, _ := args.Get(0).(func())
	return stop, args.Error(1)
}

type MockClickUseCase struct {
	mock.Mock
}

func (uc *MockClickUseCase) Record(ctx context.Context, linkID string) error {
	args := uc.Called(ctx, linkID)
	return args.Error(0)
}

type MockAnalyticsUseCase struct {
	mock.Mock
}

func (uc *MockAnalyticsUseCase) GetAnalytics(ctx context.Context, linkID string) (*entity.Analytics, error) {
	args := uc.Called(ctx, linkID)
	analytics, _ := args.Get(0).(*entity.Analytics)
	return analytics, args.Error(1)
}
