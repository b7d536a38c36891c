package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type AnalyticsUseCaseTestSuite struct {
	suite.Suite
	errUnknown    error
	linkRepoMock  *MockLinkRepository
	clickRepoMock *MockClickRepository
	uc            *AnalyticsUseCase
}

func (suite *AnalyticsUseCaseTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
}

func (suite *AnalyticsUseCaseTestSuite) SetupSubTest() {
	suite.linkRepoMock = new(MockLinkRepository)
	suite.clickRepoMock = new(MockClickRepository)
	suite.uc = NewAnalyticsUseCase(suite.linkRepoMock, suite.clickRepoMock)
}

func (suite *AnalyticsUseCaseTestSuite) TearDownSubTest() {
	suite.linkRepoMock.AssertExpectations(suite.T())
	suite.clickRepoMock.AssertExpectations(suite.T())
}

func (suite *AnalyticsUseCaseTestSuite) TestGetAnalytics() {
	link := &entity.Link{ID: "l1", ClickCount: 3}
	day1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	c1 := &entity.Click{ID: "c1", Timestamp: day1, Date: "2024-01-01"}
	c2 := &entity.Click{ID: "c2", Timestamp: day2, Date: "2024-01-02"}
	c3 := &entity.Click{ID: "c3", Timestamp: day2.Add(time.Hour), Date: "2024-01-02"}
	c4 := &entity.Click{ID: "c4", Date: "2024-01-01"}

	suite.Run("link not found", func() {
		suite.linkRepoMock.
			On("RetrieveByID", context.Background(), "l1").
			Once().
			Return(nil, entity.ErrLinkNotFound)

		analytics, err := suite.uc.GetAnalytics(context.Background(), "l1")

		suite.ErrorIs(err, entity.ErrLinkNotFound)
		suite.Nil(analytics)
	})

	suite.Run("ordered", func() {
		suite.linkRepoMock.
			On("RetrieveByID", context.Background(), "l1").
			Once().
			Return(link, nil)
		suite.clickRepoMock.
			On("ListByLink", context.Background(), "l1", true).
			Once().
			Return([]*entity.Click{c3, c2, c1}, nil)

		analytics, err := suite.uc.GetAnalytics(context.Background(), "l1")

		suite.NoError(err)
		suite.Equal(link, analytics.Link)
		suite.Equal([]*entity.Click{c3, c2, c1}, analytics.Clicks)
		suite.Equal([]entity.DailyClicks{
			{Date: "2024-01-02", Count: 2},
			{Date: "2024-01-01", Count: 1},
		}, analytics.Daily)
	})

	suite.Run("ordering unsupported", func() {
		suite.linkRepoMock.
			On("RetrieveByID", context.Background(), "l1").
			Once().
			Return(link, nil)
		suite.clickRepoMock.
			On("ListByLink", context.Background(), "l1", true).
			Once().
			Return(nil, errors.Join(entity.ErrStoreUnavailable, entity.ErrOrderingUnsupported))
		suite.clickRepoMock.
			On("ListByLink", context.Background(), "l1", false).
			Once().
			Return([]*entity.Click{c4, c1, c3, c2}, nil)

		analytics, err := suite.uc.GetAnalytics(context.Background(), "l1")

		suite.NoError(err)
		suite.Equal([]*entity.Click{c3, c2, c1, c4}, analytics.Clicks)
	})

	suite.Run("unknown error", func() {
		suite.linkRepoMock.
			On("RetrieveByID", context.Background(), "l1").
			Once().
			Return(link, nil)
		suite.clickRepoMock.
			On("ListByLink", context.Background(), "l1", true).
			Once().
			Return(nil, suite.errUnknown)

		analytics, err := suite.uc.GetAnalytics(context.Background(), "l1")

		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(analytics)
	})
}

func TestAnalyticsUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(AnalyticsUseCaseTestSuite))
}

func TestGroupByDay(t *testing.T) {
	tests := []struct {
		name   string
		clicks []*entity.Click
		want   []entity.DailyClicks
	}{
		{
			name: "no clicks",
			want: []entity.DailyClicks{},
		},
		{
			name: "counts per day, newest day first",
			clicks: []*entity.Click{
				{Date: "2024-01-02"},
				{Date: "2024-01-02"},
				{Date: "2024-01-01"},
			},
			want: []entity.DailyClicks{
				{Date: "2024-01-02", Count: 2},
				{Date: "2024-01-01", Count: 1},
			},
		},
		{
			name: "unsorted input",
			clicks: []*entity.Click{
				{Date: "2023-12-31"},
				{Date: "2024-02-01"},
				{Date: "2024-01-15"},
				{Date: "2024-02-01"},
			},
			want: []entity.DailyClicks{
				{Date: "2024-02-01", Count: 2},
				{Date: "2024-01-15", Count: 1},
				{Date: "2023-12-31", Count: 1},
			},
		},
		{
			name: "missing date falls back to timestamp",
			clicks: []*entity.Click{
				{Timestamp: time.Date(2024, 1, 1, 23, 0, 0, 0, time.FixedZone("UTC-2", -2*60*60))},
				{Date: "2024-01-02"},
				{},
			},
			want: []entity.DailyClicks{
				{Date: "2024-01-02", Count: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GroupByDay(tt.clicks)

			assert.Equal(t, tt.want, got)
		})
	}
}
