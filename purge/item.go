package purge

// Item is the contract every purgable unit must satisfy. Implementations
// must be comparable so the selection set can key on the full value: two
// items are the same only when every compared field matches.
type Item interface {
	comparable

	// ID uniquely identifies the item within a collection.
	ID() string

	// Name is the display name of the item.
	Name() string

	// Size is the item's size in bytes. Sizes are trusted to be >= 0.
	Size() int64
}

// Category describes a group of purgable items.
type Category interface {
	ID() string
	Name() string
	Summary() string
	Detail() CategoryDetail
}

// CategoryDetail holds the descriptive text for a purge category.
type CategoryDetail struct {
	Title       string
	Description string
	Details     []string
	Guidance    []string
	Tips        []string
}
