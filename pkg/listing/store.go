package listing

import (
	"sync"

	"github.com/go-faster/errors"

	"github.com/uroojmurtaza-maker/oms-frontend/pkg/eventbus"
)

var (
	ErrUnknownFilter    = errors.New("unknown filter")
	ErrUnknownSortField = errors.New("unknown sort field")
)

type Action string

const (
	ActionSearch      Action = "search"
	ActionFilter      Action = "filter"
	ActionClearFilter Action = "clear_filter"
	ActionSort        Action = "sort"
	ActionClearSort   Action = "clear_sort"
	ActionPage        Action = "page"
)

// QueryChanged is published once per effective transition, in transition order.
type QueryChanged struct {
	Listing  string
	Action   Action
	Previous QueryState
	Current  QueryState
}

// Store owns the QueryState of one listing. Every action is applied atomically and a
// transition that leaves the state unchanged publishes nothing. Search, filter and sort
// actions always return to page 1, even when the value itself is unchanged.
type Store struct {
	def Definition
	bus eventbus.EventBus

	mu    sync.Mutex
	state QueryState
}

func NewStore(def Definition, bus eventbus.EventBus, initial QueryState) *Store {
	return &Store{
		def:   def,
		bus:   bus,
		state: initial.normalize(def),
	}
}

func (s *Store) Definition() Definition {
	return s.def
}

func (s *Store) State() QueryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Store) SetSearch(text string) {
	s.apply(ActionSearch, func(q *QueryState) {
		q.Search = text
		q.Page = 1
	})
}

// SetFilter sets one filter; an empty value clears it.
func (s *Store) SetFilter(key, value string) error {
	if !s.def.HasFilter(key) {
		return errors.Wrapf(ErrUnknownFilter, "listing %q: %q", s.def.Name, key)
	}
	if value == "" {
		return s.ClearFilter(key)
	}
	s.apply(ActionFilter, func(q *QueryState) {
		if q.Filters == nil {
			q.Filters = map[string]string{}
		}
		q.Filters[key] = value
		q.Page = 1
	})
	return nil
}

func (s *Store) ClearFilter(key string) error {
	if !s.def.HasFilter(key) {
		return errors.Wrapf(ErrUnknownFilter, "listing %q: %q", s.def.Name, key)
	}
	s.apply(ActionClearFilter, func(q *QueryState) {
		delete(q.Filters, key)
		if len(q.Filters) == 0 {
			q.Filters = nil
		}
		q.Page = 1
	})
	return nil
}

// SetSort cycles field through ascending, descending and unsorted. Selecting a different
// field starts it ascending.
func (s *Store) SetSort(field string) error {
	if !s.def.Sortable(field) {
		return errors.Wrapf(ErrUnknownSortField, "listing %q: %q", s.def.Name, field)
	}
	s.apply(ActionSort, func(q *QueryState) {
		switch {
		case q.SortField != field:
			q.SortField, q.SortOrder = field, SortAsc
		case q.SortOrder == SortAsc:
			q.SortOrder = SortDesc
		default:
			q.SortField, q.SortOrder = "", SortNone
		}
		q.Page = 1
	})
	return nil
}

func (s *Store) ClearSort() {
	s.apply(ActionClearSort, func(q *QueryState) {
		q.SortField, q.SortOrder = "", SortNone
		q.Page = 1
	})
}

// SetPage moves to page n; values below 1 are clamped to 1.
func (s *Store) SetPage(n int) {
	s.apply(ActionPage, func(q *QueryState) {
		q.Page = max(n, 1)
	})
}

// apply publishes while holding the lock so subscribers see transitions in the order they happened.
// Subscribers must not call back into the store.
func (s *Store) apply(action Action, mutate func(*QueryState)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	mutate(&next)
	if next.Equal(s.state) {
		return
	}
	prev := s.state
	s.state = next
	if s.bus != nil {
		s.bus.Publish(&QueryChanged{
			Listing:  s.def.Name,
			Action:   action,
			Previous: prev.Clone(),
			Current:  next.Clone(),
		})
	}
}
