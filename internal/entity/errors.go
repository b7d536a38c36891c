package entity

import "errors"

var (
	// ErrLinkNotFound is returned when the referenced link does not exist.
	ErrLinkNotFound = errors.New("link not found")
	// ErrUnauthorized is returned when the requester does not own the link being changed.
	ErrUnauthorized = errors.New("requester does not own the link")
	// ErrAliasTaken is returned when a custom alias is already used as a short code.
	ErrAliasTaken = errors.New("alias already taken")
	// ErrInvalidAlias is returned when a custom alias is empty, too long or contains disallowed characters.
	ErrInvalidAlias = errors.New("invalid alias")
	// ErrMaxAttemptsExceeded is returned when no unique short code was generated within the attempt budget.
	ErrMaxAttemptsExceeded = errors.New("maximum attempts exceeded for generating short code")
	// ErrShortCodeExists is returned by a store when a write violates short code uniqueness.
	ErrShortCodeExists = errors.New("short code exists")
	// ErrStoreUnavailable wraps transport and backend failures of a store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrOrderingUnsupported is returned by a store that cannot serve an ordered query,
	// for example because the supporting index is missing. It always comes wrapped together
	// with ErrStoreUnavailable and the query may be retried without ordering.
	ErrOrderingUnsupported = errors.New("ordering unsupported")
)
