package purge

import (
	"slices"
	"sync"
)

// Totals is a snapshot of the store's derived values.
type Totals struct {
	ItemCount     int
	SelectedCount int
	TotalSize     int64
	SelectedSize  int64
}

// Store tracks an ordered collection of purgable items together with a
// selection subset and keeps the derived totals consistent. Every mutation
// is a single atomic step: the collection and both totals are updated under
// the lock, and observers run after it is released. Operations referencing
// a missing item or id are silent no-ops; the store never returns an error.
type Store[T Item] struct {
	mu           sync.Mutex
	items        []T
	selected     map[T]struct{}
	totalSize    int64
	selectedSize int64
	observers    []func(Totals)
}

// NewStore creates a store with an optional initial list and selection.
func NewStore[T Item](items []T, selected []T) *Store[T] {
	s := &Store[T]{
		items:    append([]T(nil), items...),
		selected: make(map[T]struct{}, len(selected)),
	}
	for _, item := range selected {
		s.selected[item] = struct{}{}
	}
	s.recompute()
	return s
}

// Subscribe registers an observer that runs synchronously after every
// mutation, in subscription order.
func (s *Store[T]) Subscribe(fn func(Totals)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// Items returns the current list in display (insertion) order.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.items...)
}

// SelectedItems returns the selected items in display order. Selected items
// no longer present in the list are appended after it.
func (s *Store[T]) SelectedItems() []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]T, 0, len(s.selected))
	seen := make(map[T]struct{}, len(s.selected))
	for _, item := range s.items {
		if _, ok := s.selected[item]; ok {
			if _, dup := seen[item]; !dup {
				out = append(out, item)
				seen[item] = struct{}{}
			}
		}
	}
	for item := range s.selected {
		if _, ok := seen[item]; !ok {
			out = append(out, item)
		}
	}
	return out
}

// Totals returns the current derived values.
func (s *Store[T]) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals()
}

// IsSelected reports whether the item is in the selection set.
func (s *Store[T]) IsSelected(item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.selected[item]
	return ok
}

// Select adds the item to the selection set. No-op if already selected.
func (s *Store[T]) Select(item T) {
	s.mu.Lock()
	s.selected[item] = struct{}{}
	s.recompute()
	s.mu.Unlock()
	s.notify()
}

// Unselect removes the item from the selection set. No-op if not selected.
func (s *Store[T]) Unselect(item T) {
	s.mu.Lock()
	delete(s.selected, item)
	s.recompute()
	s.mu.Unlock()
	s.notify()
}

// Toggle selects the item if unselected and unselects it otherwise.
func (s *Store[T]) Toggle(item T) {
	s.mu.Lock()
	if _, ok := s.selected[item]; ok {
		delete(s.selected, item)
	} else {
		s.selected[item] = struct{}{}
	}
	s.recompute()
	s.mu.Unlock()
	s.notify()
}

// ToggleAll applies the group toggle policy: if none of the given items are
// selected, all of them become selected; if any of them are selected, all
// of them become unselected. Items outside the given group are untouched.
func (s *Store[T]) ToggleAll(items []T) {
	s.mu.Lock()
	anySelected := false
	for _, item := range items {
		if _, ok := s.selected[item]; ok {
			anySelected = true
			break
		}
	}
	for _, item := range items {
		if anySelected {
			delete(s.selected, item)
		} else {
			s.selected[item] = struct{}{}
		}
	}
	s.recompute()
	s.mu.Unlock()
	s.notify()
}

// RemoveItem removes the first item with the given id from the list and any
// item with that id from the selection set.
func (s *Store[T]) RemoveItem(id string) {
	s.mu.Lock()
	s.removeLocked(id)
	s.recompute()
	s.mu.Unlock()
	s.notify()
}

// RemoveItems applies RemoveItem for each id, in order. Missing ids never
// abort the rest.
func (s *Store[T]) RemoveItems(ids []string) {
	s.mu.Lock()
	for _, id := range ids {
		s.removeLocked(id)
	}
	s.recompute()
	s.mu.Unlock()
	s.notify()
}

// SelectedIDsExcluding returns the ids of all selected items whose id is
// not in the exclusion list. Result order is unspecified.
func (s *Store[T]) SelectedIDsExcluding(ids []string) []string {
	excluded := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		excluded[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.selected))
	for item := range s.selected {
		if _, ok := excluded[item.ID()]; !ok {
			out = append(out, item.ID())
		}
	}
	return out
}

// Reset removes every current item, clearing both the list and the
// selection set.
func (s *Store[T]) Reset() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.items))
	for _, item := range s.items {
		ids = append(ids, item.ID())
	}
	for _, id := range ids {
		s.removeLocked(id)
	}
	// Selected items that were never in the list survive removal by id;
	// a reset clears those too.
	s.selected = make(map[T]struct{})
	s.recompute()
	s.mu.Unlock()
	s.notify()
}

// SetItems replaces the list wholesale. The selection set is untouched, so
// items selected before the update stay selected if still present.
func (s *Store[T]) SetItems(items []T) {
	s.mu.Lock()
	s.items = append([]T(nil), items...)
	s.recompute()
	s.mu.Unlock()
	s.notify()
}

// Append adds an item to the end of the list. Duplicates by id are not
// deduplicated; that is the caller's responsibility.
func (s *Store[T]) Append(item T) {
	s.mu.Lock()
	s.items = append(s.items, item)
	s.recompute()
	s.mu.Unlock()
	s.notify()
}

func (s *Store[T]) removeLocked(id string) {
	for i, item := range s.items {
		if item.ID() == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	for item := range s.selected {
		if item.ID() == id {
			delete(s.selected, item)
		}
	}
}

func (s *Store[T]) recompute() {
	var total, selected int64
	for _, item := range s.items {
		total += item.Size()
	}
	for item := range s.selected {
		selected += item.Size()
	}
	s.totalSize = total
	s.selectedSize = selected
}

func (s *Store[T]) totals() Totals {
	return Totals{
		ItemCount:     len(s.items),
		SelectedCount: len(s.selected),
		TotalSize:     s.totalSize,
		SelectedSize:  s.selectedSize,
	}
}

func (s *Store[T]) notify() {
	s.mu.Lock()
	observers := slices.Clone(s.observers)
	totals := s.totals()
	s.mu.Unlock()
	for _, fn := range observers {
		fn(totals)
	}
}
