// Package shortcode generates short code candidates and normalizes
// user supplied aliases into the same value space.
package shortcode

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/entity"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// DefaultAlphabet is the set of characters generated codes are drawn from.
	DefaultAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	// DefaultLength is the length of generated codes.
	DefaultLength = 6
	// AliasAlphabet is the set of characters allowed in a normalized custom alias.
	AliasAlphabet = DefaultAlphabet + "-_"
	// MaxAliasLength is the maximum length of a normalized custom alias.
	MaxAliasLength = 64
)

// Generator produces random short code candidates. It gives no uniqueness guarantee.
// Generator is safe for concurrent use.
type Generator struct {
	alphabet string
	length   int
}

// New creates a Generator drawing codes of the given length from alphabet.
func New(alphabet string, length int) (*Generator, error) {
	const op = "shortcode.New"

	if length <= 0 {
		return nil, fmt.Errorf("%s: length must be positive, got %d", op, length)
	}
	if alphabet == "" {
		return nil, fmt.Errorf("%s: alphabet must not be empty", op)
	}
	for _, r := range alphabet {
		if !strings.ContainsRune(AliasAlphabet, r) {
			return nil, fmt.Errorf("%s: alphabet character %q is not url safe", op, r)
		}
	}

	return &Generator{alphabet: alphabet, length: length}, nil
}

// Alphabet returns the characters codes are drawn from.
func (g *Generator) Alphabet() string {
	return g.alphabet
}

// Length returns the length of generated codes.
func (g *Generator) Length() int {
	return g.length
}

// Generate returns a new random candidate.
func (g *Generator) Generate() (string, error) {
	const op = "shortcode.Generator.Generate"

	code, err := gonanoid.Generate(g.alphabet, g.length)
	if err != nil {
		return "", fmt.Errorf("%s: failed to generate code: %w", op, err)
	}

	return code, nil
}

var errEmptyAlias = errors.New("alias is empty")

// Normalize trims and lower-cases alias and checks it against AliasAlphabet.
// Normalize is idempotent: a normalized alias normalizes to itself.
func Normalize(alias string) (string, error) {
	const op = "shortcode.Normalize"

	normalized := strings.ToLower(strings.TrimSpace(alias))

	switch {
	case normalized == "":
		return "", fmt.Errorf("%s: %w: %w", op, entity.ErrInvalidAlias, errEmptyAlias)
	case len(normalized) > MaxAliasLength:
		return "", fmt.Errorf("%s: %w: longer than %d characters", op, entity.ErrInvalidAlias, MaxAliasLength)
	}

	for _, r := range normalized {
		if !strings.ContainsRune(AliasAlphabet, r) {
			return "", fmt.Errorf("%s: %w: character %q is not allowed", op, entity.ErrInvalidAlias, r)
		}
	}

	return normalized, nil
}
