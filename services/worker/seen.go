package worker

import "sjsage522/slotwatcher/internal/crawler"

// SeenSet remembers every slot already reported during this process. It is
// never pruned and never persisted.
type SeenSet struct {
	keys map[crawler.SlotKey]struct{}
}

// NewSeenSet creates an empty set
func NewSeenSet() *SeenSet {
	return &SeenSet{keys: make(map[crawler.SlotKey]struct{})}
}

// Contains reports whether the key was already reported
func (s *SeenSet) Contains(key crawler.SlotKey) bool {
	_, ok := s.keys[key]
	return ok
}

// Len returns the number of remembered keys
func (s *SeenSet) Len() int {
	return len(s.keys)
}

// Fresh returns the slots of label not yet remembered, in order. A slot
// listed twice on the same page is returned once.
func (s *SeenSet) Fresh(label string, slots []crawler.Slot) []crawler.Slot {
	var fresh []crawler.Slot
	batch := make(map[crawler.SlotKey]struct{}, len(slots))
	for _, slot := range slots {
		key := slot.Key(label)
		if s.Contains(key) {
			continue
		}
		if _, dup := batch[key]; dup {
			continue
		}
		batch[key] = struct{}{}
		fresh = append(fresh, slot)
	}
	return fresh
}

// Remember adds the slots of label to the set
func (s *SeenSet) Remember(label string, slots []crawler.Slot) {
	for _, slot := range slots {
		s.keys[slot.Key(label)] = struct{}{}
	}
}
