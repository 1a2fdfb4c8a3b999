package ingest

// orderedMap is a map that remembers the order keys were first inserted.
// Overwriting a key keeps its original position.
type orderedMap[K comparable, V any] struct {
	index map[K]V
	keys  []K
}

func newOrderedMap[K comparable, V any]() *orderedMap[K, V] {
	return &orderedMap[K, V]{index: make(map[K]V)}
}

func (m *orderedMap[K, V]) Get(k K) (V, bool) {
	v, ok := m.index[k]
	return v, ok
}

func (m *orderedMap[K, V]) Set(k K, v V) {
	if _, ok := m.index[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.index[k] = v
}

// SetIfAbsent stores v only when k is new and reports whether it did.
func (m *orderedMap[K, V]) SetIfAbsent(k K, v V) bool {
	if _, ok := m.index[k]; ok {
		return false
	}
	m.keys = append(m.keys, k)
	m.index[k] = v
	return true
}

func (m *orderedMap[K, V]) Len() int {
	return len(m.keys)
}

// Keys returns keys in insertion order. The slice must not be modified.
func (m *orderedMap[K, V]) Keys() []K {
	return m.keys
}

// Values returns values in key insertion order.
func (m *orderedMap[K, V]) Values() []V {
	out := make([]V, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.index[k])
	}
	return out
}
