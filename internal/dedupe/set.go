package dedupe

// Set keeps a bounded, insertion-ordered collection of record IDs so a run
// counts each archive hit once even when pagination returns it twice. When
// the capacity is exceeded the oldest IDs are evicted first.
type Set struct {
	items    map[string]struct{}
	order    []string
	capacity int
}

// NewSet creates a set with the provided capacity.
func NewSet(capacity int) *Set {
	if capacity <= 0 {
		capacity = 1
	}
	return &Set{
		items:    make(map[string]struct{}, capacity),
		order:    make([]string, 0, capacity),
		capacity: capacity,
	}
}

// Seen returns true when the ID has already been added. It does not record
// the ID; use Add() for that.
func (s *Set) Seen(id string) bool {
	_, ok := s.items[id]
	return ok
}

// Add records an ID, evicting the oldest entries past capacity.
func (s *Set) Add(id string) {
	if _, ok := s.items[id]; ok {
		return
	}

	s.items[id] = struct{}{}
	s.order = append(s.order, id)

	for len(s.order) > 0 && len(s.items) > s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.items, oldest)
	}
}

// Len reports the number of distinct IDs currently held.
func (s *Set) Len() int {
	return len(s.items)
}
