package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/entity"
	"golang.org/x/sync/errgroup"
)

// LinkRepository stores links. Implementations live in adapter/repository.
type LinkRepository interface {
	Save(ctx context.Context, link *entity.Link) (*entity.Link, error)
	RetrieveByID(ctx context.Context, id string) (*entity.Link, error)
	RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.Link, error)
	ExistsByShortCode(ctx context.Context, shortCode string) (bool, error)
	ListByOwner(ctx context.Context, ownerID string, ordered bool) ([]*entity.Link, error)
	IncrementClickCount(ctx context.Context, id string, delta int64) error
	Remove(ctx context.Context, id string) error
}

// ClickRepository stores click events.
type ClickRepository interface {
	Save(ctx context.Context, click *entity.Click) (*entity.Click, error)
	ListByLink(ctx context.Context, linkID string, ordered bool) ([]*entity.Click, error)
	Remove(ctx context.Context, id string) error
}

// WatchFunc receives the full, newest first list of an owner's links,
// or the error that prevented loading it.
type WatchFunc func(links []*entity.Link, err error)

// LinkUseCase creates, looks up, lists and deletes links.
type LinkUseCase struct {
	links    LinkRepository
	clicks   ClickRepository
	resolver *CodeResolver
	cache    LinkCache
	notifier *Notifier
}

func NewLinkUseCase(links LinkRepository, clicks ClickRepository, resolver *CodeResolver, opts ...Option) *LinkUseCase {
	o := newOptions(opts)

	return &LinkUseCase{
		links:    links,
		clicks:   clicks,
		resolver: resolver,
		cache:    o.cache,
		notifier: o.notifier,
	}
}

// Create shortens originalURL for ownerID. A non-empty customAlias becomes the
// short code after normalization; otherwise a code is generated.
func (uc *LinkUseCase) Create(ctx context.Context, originalURL, ownerID, customAlias string) (*entity.Link, error) {
	const op = "usecase.LinkUseCase.Create"

	var (
		code  string
		alias string
		err   error
	)

	if customAlias != "" {
		code, err = uc.resolver.ResolveCustom(ctx, customAlias)
		alias = code
	} else {
		code, err = uc.resolver.ResolveGenerated(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	link, err := uc.links.Save(ctx, &entity.Link{
		ShortCode:   code,
		OriginalURL: originalURL,
		OwnerID:     ownerID,
		CustomAlias: alias,
	})
	if err != nil {
		if alias != "" && errors.Is(err, entity.ErrShortCodeExists) {
			return nil, fmt.Errorf("%s: %q: %w", op, alias, entity.ErrAliasTaken)
		}

		return nil, fmt.Errorf("%s: failed to save link: %w", op, err)
	}

	uc.notifier.Publish(ownerID)

	return link, nil
}

// GetByCode returns the link using shortCode, or nil if there is none.
func (uc *LinkUseCase) GetByCode(ctx context.Context, shortCode string) (*entity.Link, error) {
	const op = "usecase.LinkUseCase.GetByCode"

	if link, ok := uc.cache.Get(ctx, shortCode); ok {
		return link, nil
	}

	link, err := uc.links.RetrieveByShortCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, entity.ErrLinkNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: failed to get link: %w", op, err)
	}

	uc.cache.Set(ctx, link)

	return link, nil
}

// ListByOwner returns the links of ownerID, newest first.
func (uc *LinkUseCase) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Link, error) {
	const op = "usecase.LinkUseCase.ListByOwner"

	links, err := queryWithFallback(ctx, func(ctx context.Context, ordered bool) ([]*entity.Link, error) {
		return uc.links.ListByOwner(ctx, ownerID, ordered)
	}, newestLinkFirst)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list links: %w", op, err)
	}

	return links, nil
}

// Delete removes the link and then all of its clicks. Only the owner may delete a link.
// Click deletions run concurrently and all of them are attempted; if any fails the
// error is returned and the remaining clicks stay orphaned.
func (uc *LinkUseCase) Delete(ctx context.Context, linkID, requesterID string) error {
	const op = "usecase.LinkUseCase.Delete"

	link, err := uc.links.RetrieveByID(ctx, linkID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if link.OwnerID != requesterID {
		return fmt.Errorf("%s: %w", op, entity.ErrUnauthorized)
	}

	if err := uc.links.Remove(ctx, link.ID); err != nil {
		return fmt.Errorf("%s: failed to remove link: %w", op, err)
	}

	uc.cache.Delete(ctx, link.ShortCode)
	uc.notifier.Publish(link.OwnerID)

	clicks, err := uc.clicks.ListByLink(ctx, link.ID, false)
	if err != nil {
		return fmt.Errorf("%s: failed to list clicks: %w", op, err)
	}

	var g errgroup.Group
	for _, click := range clicks {
		g.Go(func() error {
			return uc.clicks.Remove(ctx, click.ID)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("%s: failed to remove clicks: %w", op, err)
	}

	return nil
}

// Watch calls fn with the current links of ownerID and again after every change
// to them until ctx is done or the returned function is called.
// Calls to fn are sequential.
func (uc *LinkUseCase) Watch(ctx context.Context, ownerID string, fn WatchFunc) (stop func(), err error) {
	const op = "usecase.LinkUseCase.Watch"

	changed := make(chan struct{}, 1)
	unsubscribe := uc.notifier.subscribe(ownerID, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	links, err := uc.ListByOwner(ctx, ownerID)
	if err != nil {
		unsubscribe()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	fn(links, nil)

	ctx, cancel := context.WithCancel(ctx)

	go func() {
		defer unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case <-changed:
				links, err := uc.ListByOwner(ctx, ownerID)
				if ctx.Err() != nil {
					return
				}
				fn(links, err)
			}
		}
	}()

	return cancel, nil
}
