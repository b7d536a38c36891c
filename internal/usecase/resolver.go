package usecase

import (
	"context"
	"fmt"

	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/entity"
	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/shortcode"
)

// MaxGenerateAttempts bounds the number of candidates checked by ResolveGenerated.
const MaxGenerateAttempts = 10

type codeGenerator interface {
	Generate() (string, error)
}

type shortCodeChecker interface {
	ExistsByShortCode(ctx context.Context, shortCode string) (bool, error)
}

// CodeResolver finds a short code that is not used by any link.
// Existence is always checked against the store, never a cache. A code found free
// may still be taken by a concurrent writer before it is saved; the store's unique
// index is the last line of defense.
type CodeResolver struct {
	gen   codeGenerator
	links shortCodeChecker
}

func NewCodeResolver(gen codeGenerator, links shortCodeChecker) *CodeResolver {
	return &CodeResolver{
		gen:   gen,
		links: links,
	}
}

// ResolveCustom normalizes alias and returns it if no link uses it yet.
func (r *CodeResolver) ResolveCustom(ctx context.Context, alias string) (string, error) {
	const op = "usecase.CodeResolver.ResolveCustom"

	code, err := shortcode.Normalize(alias)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	exists, err := r.links.ExistsByShortCode(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%s: failed to check alias: %w", op, err)
	}
	if exists {
		return "", fmt.Errorf("%s: %q: %w", op, code, entity.ErrAliasTaken)
	}

	return code, nil
}

// ResolveGenerated generates candidates until one is free, checking at most
// MaxGenerateAttempts of them.
func (r *CodeResolver) ResolveGenerated(ctx context.Context) (string, error) {
	const op = "usecase.CodeResolver.ResolveGenerated"

	for range MaxGenerateAttempts {
		code, err := r.gen.Generate()
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}

		exists, err := r.links.ExistsByShortCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("%s: failed to check short code: %w", op, err)
		}
		if !exists {
			return code, nil
		}
	}

	return "", fmt.Errorf("%s: %w", op, entity.ErrMaxAttemptsExceeded)
}
