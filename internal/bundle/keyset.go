package bundle

import "sort"

// KeySet is the set of distinct keys of one package.
type KeySet map[string]struct{}

// NewKeySet returns a set holding keys.
func NewKeySet(keys ...string) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Add inserts keys; existing keys are left as they are.
func (s KeySet) Add(keys ...string) {
	for _, k := range keys {
		s[k] = struct{}{}
	}
}

// Has reports whether key is in the set.
func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Len returns the number of keys.
func (s KeySet) Len() int { return len(s) }

// Sorted returns the keys in byte order.
func (s KeySet) Sorted() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
