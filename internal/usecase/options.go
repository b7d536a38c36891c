package usecase

import (
	"context"
	"time"

	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/entity"
)

// LinkCache is a read-through cache of links keyed by short code.
// Implementations swallow their own failures: a failed Get is a miss.
type LinkCache interface {
	Get(ctx context.Context, shortCode string) (*entity.Link, bool)
	Set(ctx context.Context, link *entity.Link)
	Delete(ctx context.Context, shortCode string)
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (*entity.Link, bool) { return nil, false }
func (noopCache) Set(context.Context, *entity.Link)                {}
func (noopCache) Delete(context.Context, string)                   {}

type options struct {
	now      func() time.Time
	cache    LinkCache
	notifier *Notifier
}

func newOptions(opts []Option) options {
	o := options{
		now:   time.Now,
		cache: noopCache{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.notifier == nil {
		o.notifier = NewNotifier()
	}
	return o
}

// Option configures a use case.
type Option func(*options)

// WithClock sets the function used to read the current time.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithCache enables a read-through cache for short code lookups.
func WithCache(c LinkCache) Option {
	return func(o *options) {
		if c != nil {
			o.cache = c
		}
	}
}

// WithNotifier shares a Notifier between use cases so that changes made by
// one of them reach watchers registered on another.
func WithNotifier(n *Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}
