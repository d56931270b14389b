package purge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockItem struct {
	id    string
	name  string
	bytes int64
}

func (m mockItem) ID() string   { return m.id }
func (m mockItem) Name() string { return m.name }
func (m mockItem) Size() int64  { return m.bytes }

func makeItem(id string, size int64) mockItem {
	return mockItem{id: id, name: "item-" + id, bytes: size}
}

// checkInvariant asserts that both totals equal the sums over the current
// collections.
func checkInvariant(t *testing.T, s *Store[mockItem]) {
	t.Helper()

	var total, selected int64
	for _, item := range s.Items() {
		total += item.Size()
	}
	for _, item := range s.SelectedItems() {
		selected += item.Size()
	}
	totals := s.Totals()
	assert.Equal(t, total, totals.TotalSize, "total size out of sync")
	assert.Equal(t, selected, totals.SelectedSize, "selected size out of sync")
	assert.Equal(t, len(s.Items()), totals.ItemCount)
	assert.Equal(t, len(s.SelectedItems()), totals.SelectedCount)
}

func TestStoreStartsEmpty(t *testing.T) {
	s := NewStore[mockItem](nil, nil)

	totals := s.Totals()
	assert.Empty(t, s.Items())
	assert.Empty(t, s.SelectedItems())
	assert.Zero(t, totals.TotalSize)
	assert.Zero(t, totals.SelectedSize)
}

func TestStoreTotalSizeTracksItems(t *testing.T) {
	first := makeItem("0", 100)
	s := NewStore([]mockItem{first}, nil)
	assert.Equal(t, int64(100), s.Totals().TotalSize)

	second := makeItem("1", 250)
	s.Append(second)
	assert.Equal(t, int64(350), s.Totals().TotalSize)
	checkInvariant(t, s)

	s.SetItems(nil)
	assert.Zero(t, s.Totals().TotalSize)
	checkInvariant(t, s)
}

func TestStoreSelectedSizeTracksSelection(t *testing.T) {
	first := makeItem("0", 100)
	second := makeItem("1", 40)
	s := NewStore([]mockItem{first, second}, []mockItem{first})
	assert.Equal(t, int64(100), s.Totals().SelectedSize)

	s.Select(second)
	assert.Equal(t, int64(140), s.Totals().SelectedSize)
	checkInvariant(t, s)

	s.Unselect(first)
	s.Unselect(second)
	assert.Zero(t, s.Totals().SelectedSize)
	checkInvariant(t, s)
}

func TestStoreSelectionOps(t *testing.T) {
	item := makeItem("0", 10)

	t.Run("select is idempotent", func(t *testing.T) {
		s := NewStore([]mockItem{item}, nil)
		s.Select(item)
		s.Select(item)
		assert.True(t, s.IsSelected(item))
		assert.Equal(t, 1, s.Totals().SelectedCount)
	})

	t.Run("unselect tolerates absence", func(t *testing.T) {
		s := NewStore([]mockItem{item}, nil)
		s.Unselect(item)
		assert.False(t, s.IsSelected(item))
	})

	t.Run("toggle flips both ways", func(t *testing.T) {
		s := NewStore([]mockItem{item}, nil)
		s.Toggle(item)
		assert.True(t, s.IsSelected(item))
		s.Toggle(item)
		assert.False(t, s.IsSelected(item))
	})
}

func TestStoreToggleAll(t *testing.T) {
	a := makeItem("a", 1)
	b := makeItem("b", 2)
	c := makeItem("c", 4)

	t.Run("none selected selects all", func(t *testing.T) {
		s := NewStore([]mockItem{a, b}, nil)
		s.ToggleAll([]mockItem{a, b})
		assert.True(t, s.IsSelected(a))
		assert.True(t, s.IsSelected(b))
		checkInvariant(t, s)
	})

	t.Run("all selected unselects all", func(t *testing.T) {
		s := NewStore([]mockItem{a, b}, []mockItem{a, b})
		s.ToggleAll([]mockItem{a, b})
		assert.False(t, s.IsSelected(a))
		assert.False(t, s.IsSelected(b))
	})

	t.Run("partial selection collapses to none, then selects", func(t *testing.T) {
		// [a, b, c] with only b selected: the first toggle sees one
		// selected member and deselects the whole group; the second sees
		// none and selects it.
		s := NewStore([]mockItem{a, b, c}, []mockItem{b})

		s.ToggleAll([]mockItem{a, b})
		assert.Empty(t, s.SelectedItems())

		s.ToggleAll([]mockItem{a, b})
		assert.True(t, s.IsSelected(a))
		assert.True(t, s.IsSelected(b))
		assert.False(t, s.IsSelected(c))
		checkInvariant(t, s)
	})

	t.Run("empty group is a no-op", func(t *testing.T) {
		s := NewStore([]mockItem{a}, nil)
		s.ToggleAll(nil)
		assert.Empty(t, s.SelectedItems())
	})
}

func TestStoreRemoveItem(t *testing.T) {
	item := makeItem("0", 10)
	s := NewStore([]mockItem{item}, []mockItem{item})

	s.RemoveItem("0")

	assert.False(t, s.IsSelected(item))
	assert.Empty(t, s.Items())
	checkInvariant(t, s)

	// Absent id is silently tolerated.
	s.RemoveItem("missing")
	assert.Empty(t, s.Items())
}

func TestStoreRemoveItems(t *testing.T) {
	a := makeItem("a", 1)
	b := makeItem("b", 2)
	c := makeItem("c", 4)
	s := NewStore([]mockItem{a, b, c}, []mockItem{a, c})

	s.RemoveItems([]string{"a", "missing", "c"})

	require.Len(t, s.Items(), 1)
	assert.Equal(t, "b", s.Items()[0].ID())
	assert.Empty(t, s.SelectedItems())
	checkInvariant(t, s)
}

func TestStoreRemoveFirstMatchOnly(t *testing.T) {
	first := mockItem{id: "dup", name: "one", bytes: 5}
	second := mockItem{id: "dup", name: "two", bytes: 7}
	s := NewStore([]mockItem{first, second}, nil)

	s.RemoveItem("dup")

	require.Len(t, s.Items(), 1)
	assert.Equal(t, "two", s.Items()[0].Name())
	assert.Equal(t, int64(7), s.Totals().TotalSize)
}

func TestStoreSelectedIDsExcluding(t *testing.T) {
	a := makeItem("a", 1)
	b := makeItem("b", 2)
	c := makeItem("c", 4)
	s := NewStore([]mockItem{a, b, c}, []mockItem{a, b, c})

	ids := s.SelectedIDsExcluding([]string{"b"})

	assert.ElementsMatch(t, []string{"a", "c"}, ids)
}

func TestStoreReset(t *testing.T) {
	a := makeItem("a", 1)
	b := makeItem("b", 2)
	s := NewStore([]mockItem{a, b}, []mockItem{b})

	s.Reset()

	totals := s.Totals()
	assert.Empty(t, s.Items())
	assert.Empty(t, s.SelectedItems())
	assert.Zero(t, totals.TotalSize)
	assert.Zero(t, totals.SelectedSize)
}

func TestStoreSelectionSurvivesListUpdate(t *testing.T) {
	a := makeItem("a", 1)
	b := makeItem("b", 2)
	c := makeItem("c", 4)
	s := NewStore([]mockItem{a, b, c}, []mockItem{b})

	s.SetItems([]mockItem{a, b})

	assert.True(t, s.IsSelected(b))
}

func TestStoreObserversRunInOrderAfterEveryMutation(t *testing.T) {
	item := makeItem("0", 10)
	s := NewStore[mockItem](nil, nil)

	var order []string
	var seen []Totals
	s.Subscribe(func(totals Totals) {
		order = append(order, "first")
		seen = append(seen, totals)
	})
	s.Subscribe(func(Totals) {
		order = append(order, "second")
	})

	s.Append(item)
	s.Select(item)

	require.Equal(t, []string{"first", "second", "first", "second"}, order)
	// The totals handed to observers already reflect the mutation.
	assert.Equal(t, int64(10), seen[0].TotalSize)
	assert.Equal(t, int64(10), seen[1].SelectedSize)
}
