// Package entity defines the entities and errors used in the application.
// It includes the Link struct, which represents a shortened URL owned by a user,
// the Click events recorded for every visit, and the analytics built from them.
package entity

import "time"

// DateLayout is the calendar-day format of Click.Date.
const DateLayout = "2006-01-02"

// Link represents a shortened URL.
type Link struct {
	ID          string    // ID is the opaque identifier assigned by the store.
	ShortCode   string    // ShortCode is the unique code used to shorten the original URL.
	OriginalURL string    // OriginalURL is the full URL that the short code resolves to.
	OwnerID     string    // OwnerID identifies the user who created the link. It never changes.
	CustomAlias string    // CustomAlias is set only when the owner chose the short code.
	ClickCount  int64     // ClickCount is the denormalized number of recorded clicks.
	CreatedAt   time.Time // CreatedAt is assigned by the store. The zero value means unknown.
}

// Click is a single recorded visit of a Link.
type Click struct {
	ID        string    // ID is the opaque identifier assigned by the store.
	LinkID    string    // LinkID references the visited link.
	OwnerID   string    // OwnerID is copied from the link at record time.
	Timestamp time.Time // Timestamp is the instant the visit was recorded.
	Date      string    // Date is the UTC calendar day of Timestamp in DateLayout.
}

// DailyClicks is the number of clicks recorded on a single UTC calendar day.
type DailyClicks struct {
	Date  string
	Count int
}

// Analytics holds a link together with its clicks, newest first, and their daily totals.
type Analytics struct {
	Link   *Link
	Clicks []*Click
	Daily  []DailyClicks
}
