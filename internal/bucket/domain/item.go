package domain

import "time"

// Item is one bucket-list entry ("dream"). Items are created by the
// submission pipeline and only ever mutated by the completion transition;
// every other field is immutable after creation.
type Item struct {
	ID          string
	Text        string
	Description string

	// Image is the permanent retrieval URL returned by the media store, or
	// "" when the item was submitted without an image. Never a raw buffer.
	Image string

	// OwnerID references the owning user record. CreatedBy carries the
	// owner's display name, resolved at read time so renames can never
	// leave stale copies behind.
	OwnerID   string
	CreatedBy string

	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserItems is one group in the by-user listing: a user and everything they
// have posted. Users with no items appear with an empty slice.
type UserItems struct {
	User  User
	Items []Item
}
