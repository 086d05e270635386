package identity

import "slices"

// Set is the capability list of one guest: for every event key, the rsvp
// tokens this guest was handed when responding. Holding a token is what
// entitles the guest to cancel that rsvp. A Set is used by one request at a
// time and is not safe for concurrent use.
type Set struct {
	tokens map[string][]string
	dirty  bool
}

func NewSet() *Set {
	return &Set{tokens: make(map[string][]string)}
}

// SetFrom wraps a stored index. The map is copied.
func SetFrom(index map[string][]string) *Set {
	s := NewSet()
	for eventKey, tokens := range index {
		for _, token := range tokens {
			s.add(eventKey, token)
		}
	}
	return s
}

func (s *Set) add(eventKey string, token string) bool {
	if eventKey == "" || token == "" || slices.Contains(s.tokens[eventKey], token) {
		return false
	}
	s.tokens[eventKey] = append(s.tokens[eventKey], token)
	return true
}

// Record adds token under eventKey. Recording a token twice is a no-op.
func (s *Set) Record(eventKey string, token string) {
	if s.add(eventKey, token) {
		s.dirty = true
	}
}

func (s *Set) Contains(eventKey string, token string) bool {
	if s == nil {
		return false
	}
	return slices.Contains(s.tokens[eventKey], token)
}

// Revoke drops token from eventKey. Revoking an unknown token is a no-op.
func (s *Set) Revoke(eventKey string, token string) {
	tokens := s.tokens[eventKey]
	i := slices.Index(tokens, token)
	if i < 0 {
		return
	}
	tokens = slices.Delete(tokens, i, i+1)
	if len(tokens) == 0 {
		delete(s.tokens, eventKey)
	} else {
		s.tokens[eventKey] = tokens
	}
	s.dirty = true
}

// Tokens returns a copy of the tokens recorded for eventKey.
func (s *Set) Tokens(eventKey string) []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.tokens[eventKey])
}

// Dirty reports whether the set changed since it was loaded.
func (s *Set) Dirty() bool {
	return s.dirty
}

// Index is a copy of the whole set, in the shape backends store.
func (s *Set) Index() map[string][]string {
	index := make(map[string][]string, len(s.tokens))
	for eventKey, tokens := range s.tokens {
		index[eventKey] = slices.Clone(tokens)
	}
	return index
}

func (s *Set) markClean() {
	s.dirty = false
}
