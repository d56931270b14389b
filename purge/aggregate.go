package purge

// Aggregator is the read-through layer view code binds to. It mirrors the
// store's derived values and selection toggles without exposing the list
// mutations, so a view can observe and toggle but never reshape the
// collection.
type Aggregator[T Item] struct {
	store *Store[T]
}

func NewAggregator[T Item](store *Store[T]) *Aggregator[T] {
	return &Aggregator[T]{store: store}
}

func (a *Aggregator[T]) Totals() Totals {
	return a.store.Totals()
}

func (a *Aggregator[T]) IsSelected(item T) bool {
	return a.store.IsSelected(item)
}

func (a *Aggregator[T]) Toggle(item T) {
	a.store.Toggle(item)
}

func (a *Aggregator[T]) ToggleAll(items []T) {
	a.store.ToggleAll(items)
}

// Subscribe forwards to the underlying store's observer list.
func (a *Aggregator[T]) Subscribe(fn func(Totals)) {
	a.store.Subscribe(fn)
}
