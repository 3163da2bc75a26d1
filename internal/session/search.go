package session

import (
	"fmt"
	"strings"
)

// Direction selects the neighbour used by Search.Navigate.
type Direction int

const (
	Next Direction = iota
	Prev
)

func (d Direction) String() string {
	if d == Prev {
		return "prev"
	}
	return "next"
}

// Search tracks case-insensitive substring matches over visible entries.
// The zero value is an idle search.
type Search struct {
	term    string
	matches []int // buffer indices, ascending
	current int   // position in matches; meaningful only when matches is non-empty
}

// Term returns the active search term.
func (s *Search) Term() string {
	return s.term
}

// Active reports whether a non-empty term is set.
func (s *Search) Active() bool {
	return s.term != ""
}

// Count returns the number of matches.
func (s *Search) Count() int {
	return len(s.matches)
}

// Matches returns the buffer indices of all matches in buffer order.
func (s *Search) Matches() []int {
	return s.matches
}

// Current returns the buffer index of the selected match, or -1.
func (s *Search) Current() int {
	if len(s.matches) == 0 {
		return -1
	}
	return s.matches[s.current]
}

// Indicator renders the "i/N" position, "0/0" when there are no matches.
func (s *Search) Indicator() string {
	if len(s.matches) == 0 {
		return "0/0"
	}
	return fmt.Sprintf("%d/%d", s.current+1, len(s.matches))
}

// Run sets the term and recomputes matches from scratch, clearing earlier
// highlights. The first match becomes current.
func (s *Search) Run(term string, entries []Entry) {
	s.term = term
	s.matches = s.matches[:0]
	s.current = 0
	clearHighlights(entries)
	if term == "" {
		return
	}

	needle := strings.ToLower(term)
	for i := range entries {
		if !entries[i].Visible {
			continue
		}
		if strings.Contains(strings.ToLower(entries[i].Text), needle) {
			entries[i].Match = true
			s.matches = append(s.matches, i)
		}
	}
	if len(s.matches) > 0 {
		entries[s.matches[0]].Current = true
	}
}

// Navigate moves the current match one step in dir, wrapping at either end.
// It reports false and changes nothing when there are no matches.
func (s *Search) Navigate(dir Direction, entries []Entry) bool {
	n := len(s.matches)
	if n == 0 {
		return false
	}
	entries[s.matches[s.current]].Current = false
	if dir == Prev {
		s.current = (s.current - 1 + n) % n
	} else {
		s.current = (s.current + 1) % n
	}
	entries[s.matches[s.current]].Current = true
	return true
}

// Forget drops matches but keeps the term, for when the entries they
// pointed at are gone.
func (s *Search) Forget() {
	s.matches = s.matches[:0]
	s.current = 0
}

// Clear returns the search to idle.
func (s *Search) Clear(entries []Entry) {
	s.term = ""
	s.Forget()
	clearHighlights(entries)
}

func clearHighlights(entries []Entry) {
	for i := range entries {
		entries[i].Match = false
		entries[i].Current = false
	}
}
