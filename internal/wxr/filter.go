package wxr

import (
	"slices"
	"strings"
)

// Filter selects which items are imported. An empty list accepts any value.
type Filter struct {
	PostTypes []string
	Statuses  []string
}

// DefaultFilter accepts published posts only.
func DefaultFilter() Filter {
	return Filter{
		PostTypes: []string{"post"},
		Statuses:  []string{"publish"},
	}
}

// WithDrafts returns a copy of f that also accepts drafts.
func (f Filter) WithDrafts() Filter {
	statuses := slices.Clone(f.Statuses)
	if len(statuses) > 0 && !slices.Contains(statuses, "draft") {
		statuses = append(statuses, "draft")
	}
	return Filter{PostTypes: slices.Clone(f.PostTypes), Statuses: statuses}
}

func (f Filter) Accepts(it Item) bool {
	return matches(f.PostTypes, it.PostType) && matches(f.Statuses, it.Status)
}

func matches(allowed []string, value string) bool {
	if len(allowed) == 0 {
		return true
	}
	value = strings.TrimSpace(value)
	for _, a := range allowed {
		if strings.EqualFold(a, value) {
			return true
		}
	}
	return false
}
