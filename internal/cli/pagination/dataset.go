package pagination

// Dataset holds the items of one loaded dataset.
// It replaces any shared or global item store: whoever loads the data creates the
// Dataset and hands it to the page handler, and a reload creates a new one.
type Dataset[T any] struct {
	items []T
}

// NewDataset wraps items. The slice is not copied.
func NewDataset[T any](items []T) *Dataset[T] {
	return &Dataset[T]{items: items}
}

// Len returns the number of items.
func (d *Dataset[T]) Len() int {
	if d == nil {
		return 0
	}
	return len(d.items)
}

// Items returns every item in load order.
func (d *Dataset[T]) Items() []T {
	if d == nil {
		return nil
	}
	return d.items
}

// Slice returns items[start:end] with both bounds clamped to the dataset.
// An empty slice is returned when the range holds no items.
func (d *Dataset[T]) Slice(start, end int) []T {
	if d == nil {
		return nil
	}
	n := len(d.items)
	start = min(max(start, 0), n)
	end = min(max(end, start), n)
	return d.items[start:end:end]
}

// Page returns the items of a 1-based page of PageSize items.
func (d *Dataset[T]) Page(page int) []T {
	start := (page - 1) * PageSize
	return d.Slice(start, start+PageSize)
}
