package helpdesk

// Keyed is a record with a stable identifier.
type Keyed interface {
	Key() string
}

// Merge returns items with item applied: an entry with the same key is
// replaced in place, otherwise item is prepended. Ordering is by arrival;
// no timestamp or version is compared. The input slice is not modified.
func Merge[T Keyed](items []T, item T) []T {
	key := item.Key()
	for i := range items {
		if items[i].Key() == key {
			out := make([]T, len(items))
			copy(out, items)
			out[i] = item
			return out
		}
	}

	out := make([]T, 0, len(items)+1)
	out = append(out, item)
	return append(out, items...)
}

// LiveList is an ordered collection kept current from feed events. It is
// not safe for concurrent use.
type LiveList[T Keyed] struct {
	items []T
}

// NewLiveList seeds the list in the given order.
func NewLiveList[T Keyed](items []T) *LiveList[T] {
	return &LiveList[T]{items: append([]T(nil), items...)}
}

// Merge applies a created or updated record.
func (l *LiveList[T]) Merge(item T) {
	l.items = Merge(l.items, item)
}

// Remove drops the entry with key and reports whether it was present.
func (l *LiveList[T]) Remove(key string) bool {
	for i := range l.items {
		if l.items[i].Key() == key {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Reset replaces the contents, e.g. after a refetch.
func (l *LiveList[T]) Reset(items []T) {
	l.items = append([]T(nil), items...)
}

func (l *LiveList[T]) Get(key string) (T, bool) {
	for _, it := range l.items {
		if it.Key() == key {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Items returns a copy of the current contents.
func (l *LiveList[T]) Items() []T {
	return append([]T(nil), l.items...)
}

func (l *LiveList[T]) Len() int {
	return len(l.items)
}
