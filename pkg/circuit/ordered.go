package circuit

import "iter"

// orderedMap is a string-keyed map that iterates in insertion order.
// Overwriting a key keeps its original position.
type orderedMap[V any] struct {
	keys  []string
	index map[string]int
	vals  []V
}

func newOrderedMap[V any]() *orderedMap[V] {
	return &orderedMap[V]{index: make(map[string]int)}
}

func (m *orderedMap[V]) Set(key string, v V) {
	if i, ok := m.index[key]; ok {
		m.vals[i] = v
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, v)
}

func (m *orderedMap[V]) Get(key string) (V, bool) {
	i, ok := m.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return m.vals[i], true
}

func (m *orderedMap[V]) Has(key string) bool {
	_, ok := m.index[key]
	return ok
}

func (m *orderedMap[V]) Len() int { return len(m.keys) }

func (m *orderedMap[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for i, k := range m.keys {
			if !yield(k, m.vals[i]) {
				return
			}
		}
	}
}

func (m *orderedMap[V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range m.vals {
			if !yield(v) {
				return
			}
		}
	}
}
