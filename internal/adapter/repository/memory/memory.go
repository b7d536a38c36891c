// Package memory provides an in-process document store for links and clicks.
// It honours the same contract as the Postgres repositories: store-assigned ids
// and creation times, a unique short code index, atomic counter increments and
// idempotent deletes. It is meant for local runs and tests.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/entity"
)

type linkDoc struct {
	seq  uint64
	link entity.Link
}

type clickDoc struct {
	seq   uint64
	click entity.Click
}

// Store keeps both collections behind a single lock.
type Store struct {
	mu            sync.RWMutex
	seq           uint64
	links         map[string]*linkDoc
	codes         map[string]string
	clicks        map[string]*clickDoc
	now           func() time.Time
	orderingIndex bool
}

type Option func(*Store)

// WithClock sets the clock used for store-assigned timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithoutOrderingIndex makes ordered queries fail with entity.ErrOrderingUnsupported,
// like a document database whose composite index has not been built.
func WithoutOrderingIndex() Option {
	return func(s *Store) {
		s.orderingIndex = false
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		links:         make(map[string]*linkDoc),
		codes:         make(map[string]string),
		clicks:        make(map[string]*clickDoc),
		now:           time.Now,
		orderingIndex: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Links returns the repository of the links collection.
func (s *Store) Links() *LinkRepository {
	return &LinkRepository{s: s}
}

// Clicks returns the repository of the clicks collection.
func (s *Store) Clicks() *ClickRepository {
	return &ClickRepository{s: s}
}

func checkContext(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w: %w", op, entity.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) checkOrdering(op string, ordered bool) error {
	if ordered && !s.orderingIndex {
		return fmt.Errorf("%s: %w: %w", op, entity.ErrStoreUnavailable, entity.ErrOrderingUnsupported)
	}
	return nil
}

type LinkRepository struct {
	s *Store
}

func (r *LinkRepository) Save(ctx context.Context, link *entity.Link) (*entity.Link, error) {
	const op = "adapter.repository.memory.LinkRepository.Save"

	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.codes[link.ShortCode]; ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrShortCodeExists)
	}

	saved := *link
	saved.ID = uuid.NewString()
	saved.ClickCount = 0
	saved.CreatedAt = r.s.now().UTC()

	r.s.seq++
	r.s.links[saved.ID] = &linkDoc{seq: r.s.seq, link: saved}
	r.s.codes[saved.ShortCode] = saved.ID

	return &saved, nil
}

func (r *LinkRepository) RetrieveByID(ctx context.Context, id string) (*entity.Link, error) {
	const op = "adapter.repository.memory.LinkRepository.RetrieveByID"

	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	doc, ok := r.s.links[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	link := doc.link
	return &link, nil
}

func (r *LinkRepository) RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.Link, error) {
	const op = "adapter.repository.memory.LinkRepository.RetrieveByShortCode"

	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.codes[shortCode]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	link := r.s.links[id].link
	return &link, nil
}

func (r *LinkRepository) ExistsByShortCode(ctx context.Context, shortCode string) (bool, error) {
	const op = "adapter.repository.memory.LinkRepository.ExistsByShortCode"

	if err := checkContext(ctx, op); err != nil {
		return false, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.codes[shortCode]
	return ok, nil
}

func (r *LinkRepository) ListByOwner(ctx context.Context, ownerID string, ordered bool) ([]*entity.Link, error) {
	const op = "adapter.repository.memory.LinkRepository.ListByOwner"

	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}
	if err := r.s.checkOrdering(op, ordered); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	docs := make([]*linkDoc, 0)
	for _, doc := range r.s.links {
		if doc.link.OwnerID == ownerID {
			docs = append(docs, doc)
		}
	}
	r.s.mu.RUnlock()

	slices.SortFunc(docs, func(a, b *linkDoc) int {
		if ordered {
			if c := b.link.CreatedAt.Compare(a.link.CreatedAt); c != 0 {
				return c
			}
			return cmp.Compare(b.seq, a.seq)
		}
		return cmp.Compare(a.seq, b.seq)
	})

	links := make([]*entity.Link, 0, len(docs))
	for _, doc := range docs {
		link := doc.link
		links = append(links, &link)
	}

	return links, nil
}

func (r *LinkRepository) IncrementClickCount(ctx context.Context, id string, delta int64) error {
	const op = "adapter.repository.memory.LinkRepository.IncrementClickCount"

	if err := checkContext(ctx, op); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	doc, ok := r.s.links[id]
	if !ok {
		return fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}
	doc.link.ClickCount += delta

	return nil
}

func (r *LinkRepository) Remove(ctx context.Context, id string) error {
	const op = "adapter.repository.memory.LinkRepository.Remove"

	if err := checkContext(ctx, op); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if doc, ok := r.s.links[id]; ok {
		delete(r.s.codes, doc.link.ShortCode)
		delete(r.s.links, id)
	}

	return nil
}

type ClickRepository struct {
	s *Store
}

func (r *ClickRepository) Save(ctx context.Context, click *entity.Click) (*entity.Click, error) {
	const op = "adapter.repository.memory.ClickRepository.Save"

	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	saved := *click
	saved.ID = uuid.NewString()
	if saved.Timestamp.IsZero() {
		saved.Timestamp = r.s.now().UTC()
	}
	if saved.Date == "" {
		saved.Date = saved.Timestamp.UTC().Format(entity.DateLayout)
	}

	r.s.seq++
	r.s.clicks[saved.ID] = &clickDoc{seq: r.s.seq, click: saved}

	return &saved, nil
}

func (r *ClickRepository) ListByLink(ctx context.Context, linkID string, ordered bool) ([]*entity.Click, error) {
	const op = "adapter.repository.memory.ClickRepository.ListByLink"

	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}
	if err := r.s.checkOrdering(op, ordered); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	docs := make([]*clickDoc, 0)
	for _, doc := range r.s.clicks {
		if doc.click.LinkID == linkID {
			docs = append(docs, doc)
		}
	}
	r.s.mu.RUnlock()

	slices.SortFunc(docs, func(a, b *clickDoc) int {
		if ordered {
			if c := b.click.Timestamp.Compare(a.click.Timestamp); c != 0 {
				return c
			}
			return cmp.Compare(b.seq, a.seq)
		}
		return cmp.Compare(a.seq, b.seq)
	})

	clicks := make([]*entity.Click, 0, len(docs))
	for _, doc := range docs {
		click := doc.click
		clicks = append(clicks, &click)
	}

	return clicks, nil
}

func (r *ClickRepository) Remove(ctx context.Context, id string) error {
	const op = "adapter.repository.memory.ClickRepository.Remove"

	if err := checkContext(ctx, op); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.clicks, id)

	return nil
}
