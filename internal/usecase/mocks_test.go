package usecase

import (
	"context"

	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/entity"
	"github.com/stretchr/testify/mock"
)

type MockLinkRepository struct {
	mock.Mock
}

func (r *MockLinkRepository) Save(ctx context.Context, link *entity.Link) (*entity.Link, error) {
	args := r.Called(ctx, link)
	saved, _ := args.Get(0).(*entity.Link)
	return saved, args.Error(1)
}

func (r *MockLinkRepository) RetrieveByID(ctx context.Context, id string) (*entity.Link, error) {
	args := r.Called(ctx, id)
	link, _ := args.Get(0).(*entity.Link)
	return link, args.Error(1)
}

func (r *MockLinkRepository) RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.Link, error) {
	args := r.Called(ctx, shortCode)
	link, _ := args.Get(0).(*entity.Link)
	return link, args.Error(1)
}

func (r *MockLinkRepository) ExistsByShortCode(ctx context.Context, shortCode string) (bool, error) {
	args := r.Called(ctx, shortCode)
	return args.Bool(0), args.Error(1)
}

func (r *MockLinkRepository) ListByOwner(ctx context.Context, ownerID string, ordered bool) ([]*entity.Link, error) {
	args := r.Called(ctx, ownerID, ordered)
	links, _ := args.Get(0).([]*entity.Link)
	return links, args.Error(1)
}

func (r *MockLinkRepository) IncrementClickCount(ctx context.Context, id string, delta int64) error {
	args := r.Called(ctx, id, delta)
	return args.Error(0)
}

func (r *MockLinkRepository) Remove(ctx context.Context, id string) error {
	args := r.Called(ctx, id)
	return args.Error(0)
}

type MockClickRepository struct {
	mock.Mock
}

func (r *MockClickRepository) Save(ctx context.Context, click *entity.Click) (*entity.Click, error) {
	args := r.Called(ctx, click)
	saved, _ := args.Get(0).(*entity.Click)
	return saved, args.Error(1)
}

func (r *MockClickRepository) ListByLink(ctx context.Context, linkID string, ordered bool) ([]*entity.Click, error) {
	args := r.Called(ctx, linkID, ordered)
	clicks, _ := args.Get(0).([]*entity.Click)
	return clicks, args.Error(1)
}

func (r *MockClickRepository) Remove(ctx context.Context, id string) error {
	args := r.Called(ctx, id)
	return args.Error(0)
}

type MockCodeGenerator struct {
	mock.Mock
}

func (g *MockCodeGenerator) Generate() (string, error) {
	args := g.Called()
	return args.String(0), args.Error(1)
}

type MockLinkCache struct {
	mock.Mock
}

func (c *MockLinkCache) Get(ctx context.Context, shortCode string) (*entity.Link, bool) {
	args := c.Called(ctx, shortCode)
	link, _ := args.Get(0).(*entity.Link)
	return link, args.Bool(1)
}

func (c *MockLinkCache) Set(ctx context.Context, link *entity.Link) {
	c.Called(ctx, link)
}

func (c *MockLinkCache) Delete(ctx context.Context, shortCode string) {
	c.Called(ctx, shortCode)
}
