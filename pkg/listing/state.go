// Package listing keeps a paginated, filterable, sortable query in sync with the data fetched for it.
package listing

import (
	"maps"
)

type SortOrder string

const (
	SortNone SortOrder = ""
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// QueryState is the user-visible query of one listing. SortOrder is SortNone iff SortField is empty,
// and Page is 1-based.
type QueryState struct {
	Search    string
	Filters   map[string]string
	SortField string
	SortOrder SortOrder
	Page      int
}

func (s QueryState) Clone() QueryState {
	c := s
	c.Filters = maps.Clone(s.Filters)
	return c
}

func (s QueryState) Filter(key string) string {
	return s.Filters[key]
}

func (s QueryState) Equal(o QueryState) bool {
	return s.Search == o.Search &&
		s.SortField == o.SortField &&
		s.SortOrder == o.SortOrder &&
		s.Page == o.Page &&
		maps.Equal(s.Filters, o.Filters)
}

// normalize drops what def does not know and clamps the page to 1.
func (s QueryState) normalize(def Definition) QueryState {
	n := QueryState{
		Search: s.Search,
		Page:   s.Page,
	}
	if n.Page < 1 {
		n.Page = 1
	}
	for key, value := range s.Filters {
		if value == "" || !def.HasFilter(key) {
			continue
		}
		if n.Filters == nil {
			n.Filters = make(map[string]string, len(s.Filters))
		}
		n.Filters[key] = value
	}
	if s.SortField != "" && def.Sortable(s.SortField) {
		n.SortField = s.SortField
		n.SortOrder = s.SortOrder
		if n.SortOrder != SortAsc && n.SortOrder != SortDesc {
			n.SortOrder = SortAsc
		}
	}
	return n
}
