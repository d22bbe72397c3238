package pipeline

// Accumulator is an ordered, append-only key/value collection threaded
// between stages. Every mutating method returns a new Accumulator and leaves
// the receiver untouched, so the input handed to a stage can be recorded and
// replayed on its own.
type Accumulator struct {
	keys   []string
	values map[string]any
}

// NewAccumulator seeds an accumulator from m. Keys of m are added in the
// order produced by sortedKeys so the result is deterministic.
func NewAccumulator(m map[string]any) Accumulator {
	acc := Accumulator{}
	for _, k := range sortedKeys(m) {
		acc = acc.With(k, m[k])
	}
	return acc
}

// With returns a copy of a with key set to value. An existing key keeps its
// original position but takes the new value.
func (a Accumulator) With(key string, value any) Accumulator {
	next := Accumulator{
		keys:   make([]string, len(a.keys), len(a.keys)+1),
		values: make(map[string]any, len(a.values)+1),
	}
	copy(next.keys, a.keys)
	for k, v := range a.values {
		next.values[k] = v
	}
	if _, exists := next.values[key]; !exists {
		next.keys = append(next.keys, key)
	}
	next.values[key] = value
	return next
}

// Merge returns a copy of a with every entry of m applied via With.
func (a Accumulator) Merge(m map[string]any) Accumulator {
	next := a
	for _, k := range sortedKeys(m) {
		next = next.With(k, m[k])
	}
	return next
}

// Get returns the value stored under key.
func (a Accumulator) Get(key string) (any, bool) {
	v, ok := a.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (a Accumulator) Keys() []string {
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Len returns the number of entries.
func (a Accumulator) Len() int {
	return len(a.keys)
}

// Map returns a fresh map holding the entries. Callers may mutate it freely.
func (a Accumulator) Map() map[string]any {
	out := make(map[string]any, len(a.values))
	for k, v := range a.values {
		out[k] = v
	}
	return out
}
