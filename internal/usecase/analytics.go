package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/entity"
)

// AnalyticsUseCase builds per-link click analytics.
type AnalyticsUseCase struct {
	links  LinkRepository
	clicks ClickRepository
}

func NewAnalyticsUseCase(links LinkRepository, clicks ClickRepository) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		links:  links,
		clicks: clicks,
	}
}

// GetAnalytics returns the link, its clicks newest first and their daily totals.
func (uc *AnalyticsUseCase) GetAnalytics(ctx context.Context, linkID string) (*entity.Analytics, error) {
	const op = "usecase.AnalyticsUseCase.GetAnalytics"

	link, err := uc.links.RetrieveByID(ctx, linkID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	clicks, err := queryWithFallback(ctx, func(ctx context.Context, ordered bool) ([]*entity.Click, error) {
		return uc.clicks.ListByLink(ctx, link.ID, ordered)
	}, newestClickFirst)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list clicks: %w", op, err)
	}

	return &entity.Analytics{
		Link:   link,
		Clicks: clicks,
		Daily:  GroupByDay(clicks),
	}, nil
}

// GroupByDay counts clicks per UTC calendar day, most recent day first.
// A click without a date is counted on the day of its timestamp; a click
// with neither is skipped.
func GroupByDay(clicks []*entity.Click) []entity.DailyClicks {
	counts := make(map[string]int)

	for _, click := range clicks {
		date := click.Date
		if date == "" && !click.Timestamp.IsZero() {
			date = click.Timestamp.UTC().Format(entity.DateLayout)
		}
		if date == "" {
			continue
		}
		counts[date]++
	}

	daily := make([]entity.DailyClicks, 0, len(counts))
	for date, count := range counts {
		daily = append(daily, entity.DailyClicks{Date: date, Count: count})
	}

	slices.SortFunc(daily, func(a, b entity.DailyClicks) int {
		return strings.Compare(b.Date, a.Date)
	})

	return daily
}
