package usecase

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/entity"
)

// queryWithFallback asks the store for ordered results first. When the store
// reports that ordering is unsupported it repeats the query once without ordering
// and sorts the result in memory with cmp. Any other failure is returned as is.
func queryWithFallback[T any](
	ctx context.Context,
	query func(ctx context.Context, ordered bool) ([]T, error),
	cmp func(a, b T) int,
) ([]T, error) {
	items, err := query(ctx, true)
	if err == nil {
		return items, nil
	}
	if !errors.Is(err, entity.ErrOrderingUnsupported) {
		return nil, err
	}

	items, err = query(ctx, false)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(items, cmp)

	return items, nil
}

// newerFirst orders instants descending. The zero time is the lowest value and sorts last.
func newerFirst(a, b time.Time) int {
	return b.Compare(a)
}

func newestLinkFirst(a, b *entity.Link) int {
	return newerFirst(a.CreatedAt, b.CreatedAt)
}

func newestClickFirst(a, b *entity.Click) int {
	return newerFirst(a.Timestamp, b.Timestamp)
}
