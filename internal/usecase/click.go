package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/entity"
)

// ClickUseCase records visits of links.
type ClickUseCase struct {
	links    LinkRepository
	clicks   ClickRepository
	now      func() time.Time
	notifier *Notifier
}

func NewClickUseCase(links LinkRepository, clicks ClickRepository, opts ...Option) *ClickUseCase {
	o := newOptions(opts)

	return &ClickUseCase{
		links:    links,
		clicks:   clicks,
		now:      o.now,
		notifier: o.notifier,
	}
}

// Record counts a visit of the link: it atomically increments the link's click
// count and then appends a click event. The two writes are not atomic together.
// If the append fails the counter stays incremented and the error is returned.
func (uc *ClickUseCase) Record(ctx context.Context, linkID string) error {
	const op = "usecase.ClickUseCase.Record"

	link, err := uc.links.RetrieveByID(ctx, linkID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := uc.links.IncrementClickCount(ctx, link.ID, 1); err != nil {
		return fmt.Errorf("%s: failed to increment click count: %w", op, err)
	}
	defer uc.notifier.Publish(link.OwnerID)

	now := uc.now().UTC()

	_, err = uc.clicks.Save(ctx, &entity.Click{
		LinkID:    link.ID,
		OwnerID:   link.OwnerID,
		Timestamp: now,
		Date:      now.Format(entity.DateLayout),
	})
	if err != nil {
		return fmt.Errorf("%s: click counted but event not saved: %w", op, err)
	}

	return nil
}
