package history

import "sort"

// Set is the in-memory view of previously exported keys.
type Set struct {
	keys map[Key]struct{}
}

func NewSet(keys ...Key) *Set {
	s := &Set{keys: make(map[Key]struct{}, len(keys))}
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

func (s *Set) Contains(k Key) bool {
	_, ok := s.keys[k]
	return ok
}

// Add records k in memory only; persistence happens through a Store.
func (s *Set) Add(k Key) {
	s.keys[k] = struct{}{}
}

func (s *Set) Len() int {
	return len(s.keys)
}

func (s *Set) Clone() *Set {
	clone := &Set{keys: make(map[Key]struct{}, len(s.keys))}
	for k := range s.keys {
		clone.keys[k] = struct{}{}
	}
	return clone
}

// Keys returns the keys ordered by their persisted string form.
func (s *Set) Keys() []Key {
	keys := make([]Key, 0, len(s.keys))
	for k := range s.keys {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}

func (s *Set) Strings() []string {
	keys := s.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}
