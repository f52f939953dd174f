package similarity

import (
	"slices"
	"strings"
)

// Matcher decides whether a player name belongs to the prominence tier.
// It is immutable after construction and safe for concurrent use.
type Matcher struct {
	fragments []string
}

// NewMatcher builds a Matcher from name fragments. Matching is a
// case-insensitive substring test; blank and duplicate fragments are dropped.
func NewMatcher(fragments []string) *Matcher {
	seen := make(map[string]struct{}, len(fragments))
	out := make([]string, 0, len(fragments))
	for _, f := range fragments {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	slices.Sort(out)
	return &Matcher{fragments: out}
}

// Match reports whether name contains any fragment.
func (m *Matcher) Match(name string) bool {
	if m == nil || len(m.fragments) == 0 {
		return false
	}
	lower := strings.ToLower(name)
	for _, f := range m.fragments {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}

// Len returns the number of distinct fragments.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.fragments)
}
