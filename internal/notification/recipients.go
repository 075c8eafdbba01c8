package notification

import "sort"

// RecipientSet accumulates the delivery audience for one dispatch. It
// keeps two overlapping sets: guaranteed recipients (the acting user,
// explicit recipient ids) and natural recipients (the audience the
// default business rule computes). Routing overrides may strip the
// natural subset; guaranteed recipients are never stripped.
type RecipientSet struct {
	always  map[string]struct{}
	natural map[string]struct{}
}

// NewRecipientSet returns an empty accumulator.
func NewRecipientSet() *RecipientSet {
	return &RecipientSet{
		always:  make(map[string]struct{}),
		natural: make(map[string]struct{}),
	}
}

// Add records guaranteed recipients. Empty ids are ignored.
func (s *RecipientSet) Add(ids ...string) {
	for _, id := range ids {
		if id != "" {
			s.always[id] = struct{}{}
		}
	}
}

// AddNatural records recipients computed by default business rules.
func (s *RecipientSet) AddNatural(ids ...string) {
	for _, id := range ids {
		if id != "" {
			s.natural[id] = struct{}{}
		}
	}
}

// StripNatural removes every recipient that is only present in the
// natural subset. Ids that were also added as guaranteed survive.
func (s *RecipientSet) StripNatural() {
	s.natural = make(map[string]struct{})
}

// Contains reports whether id is in the final audience.
func (s *RecipientSet) Contains(id string) bool {
	if _, ok := s.always[id]; ok {
		return true
	}
	_, ok := s.natural[id]
	return ok
}

// Len returns the size of the final audience.
func (s *RecipientSet) Len() int {
	n := len(s.always)
	for id := range s.natural {
		if _, ok := s.always[id]; !ok {
			n++
		}
	}
	return n
}

// Recipients returns the final audience, deduplicated and sorted for
// deterministic fan-out and tests.
func (s *RecipientSet) Recipients() []string {
	union := make(map[string]struct{}, len(s.always)+len(s.natural))
	for id := range s.always {
		union[id] = struct{}{}
	}
	for id := range s.natural {
		union[id] = struct{}{}
	}
	ids := make([]string, 0, len(union))
	for id := range union {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
