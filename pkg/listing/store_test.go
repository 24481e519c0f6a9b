package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uroojmurtaza-maker/oms-frontend/pkg/eventbus"
)

func newTestStore(t *testing.T, initial QueryState) (*Store, *[]*QueryChanged) {
	t.Helper()
	bus := eventbus.NewEventPublisher(nil)
	events := &[]*QueryChanged{}
	bus.Subscribe(func(e *QueryChanged) {
		*events = append(*events, e)
	})
	return NewStore(testDefinition(), bus, initial), events
}

func TestStore_ResetsPageOnQueryChanges(t *testing.T) {
	cases := []struct {
		name   string
		action func(*Store) error
		check  func(*testing.T, QueryState)
	}{
		{
			name:   "search",
			action: func(s *Store) error { s.SetSearch("jane"); return nil },
			check:  func(t *testing.T, q QueryState) { assert.Equal(t, "jane", q.Search) },
		},
		{
			name:   "filter",
			action: func(s *Store) error { return s.SetFilter("department", "Engineering") },
			check:  func(t *testing.T, q QueryState) { assert.Equal(t, "Engineering", q.Filter("department")) },
		},
		{
			name:   "sort",
			action: func(s *Store) error { return s.SetSort("name") },
			check: func(t *testing.T, q QueryState) {
				assert.Equal(t, "name", q.SortField)
				assert.Equal(t, SortAsc, q.SortOrder)
			},
		},
		{
			name:   "clear sort",
			action: func(s *Store) error { s.ClearSort(); return nil },
			check:  func(t *testing.T, q QueryState) { assert.Empty(t, q.SortField) },
		},
		{
			name:   "same search again",
			action: func(s *Store) error { s.SetSearch(""); return nil },
			check:  func(t *testing.T, q QueryState) { assert.Empty(t, q.Search) },
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, events := newTestStore(t, QueryState{Page: 3, SortField: "department", SortOrder: SortDesc})
			require.NoError(t, tc.action(store))

			q := store.State()
			assert.Equal(t, 1, q.Page)
			tc.check(t, q)
			require.Len(t, *events, 1)
			assert.Equal(t, 3, (*events)[0].Previous.Page)
			assert.True(t, (*events)[0].Current.Equal(q))
		})
	}
}

func TestStore_SortCycle(t *testing.T) {
	store, events := newTestStore(t, QueryState{})

	require.NoError(t, store.SetSort("name"))
	assert.Equal(t, SortAsc, store.State().SortOrder)

	require.NoError(t, store.SetSort("name"))
	assert.Equal(t, SortDesc, store.State().SortOrder)

	require.NoError(t, store.SetSort("name"))
	q := store.State()
	assert.Empty(t, q.SortField)
	assert.Equal(t, SortNone, q.SortOrder)

	require.NoError(t, store.SetSort("name"))
	assert.Equal(t, SortAsc, store.State().SortOrder)

	require.NoError(t, store.SetSort("joiningDate"))
	q = store.State()
	assert.Equal(t, "joiningDate", q.SortField)
	assert.Equal(t, SortAsc, q.SortOrder)

	assert.Len(t, *events, 5)
	for _, e := range *events {
		assert.Equal(t, ActionSort, e.Action)
		assert.Equal(t, "employees", e.Listing)
	}
}

func TestStore_RejectsUnknownKeys(t *testing.T) {
	store, events := newTestStore(t, QueryState{Page: 2})

	err := store.SetSort("salary")
	require.ErrorIs(t, err, ErrUnknownSortField)

	err = store.SetFilter("role", "admin")
	require.ErrorIs(t, err, ErrUnknownFilter)

	err = store.ClearFilter("role")
	require.ErrorIs(t, err, ErrUnknownFilter)

	assert.Equal(t, 2, store.State().Page)
	assert.Empty(t, *events)
}

func TestStore_FilterSetAndClear(t *testing.T) {
	store, events := newTestStore(t, QueryState{})

	require.NoError(t, store.SetFilter("department", "Engineering"))
	require.NoError(t, store.SetFilter("designation", "Manager"))
	require.NoError(t, store.SetFilter("department", ""))
	q := store.State()
	assert.Equal(t, map[string]string{"designation": "Manager"}, q.Filters)

	require.NoError(t, store.ClearFilter("designation"))
	assert.Empty(t, store.State().Filters)

	// already cleared and on page 1
	require.NoError(t, store.ClearFilter("designation"))
	require.Len(t, *events, 4)
	assert.Equal(t, ActionClearFilter, (*events)[3].Action)
}

func TestStore_SetPage(t *testing.T) {
	store, events := newTestStore(t, QueryState{})

	store.SetPage(0)
	store.SetPage(-4)
	assert.Equal(t, 1, store.State().Page)
	assert.Empty(t, *events, "clamped to the current page, nothing changed")

	store.SetPage(3)
	store.SetPage(3)
	assert.Equal(t, 3, store.State().Page)
	require.Len(t, *events, 1)
	assert.Equal(t, ActionPage, (*events)[0].Action)
}

func TestStore_StateIsACopy(t *testing.T) {
	store, _ := newTestStore(t, QueryState{Filters: map[string]string{"department": "HR"}})

	q := store.State()
	q.Filters["department"] = "Engineering"
	assert.Equal(t, "HR", store.State().Filter("department"))
}

func TestNewStore_NormalizesInitialState(t *testing.T) {
	store := NewStore(testDefinition(), nil, QueryState{
		Page:      -1,
		SortField: "salary",
		SortOrder: SortDesc,
		Filters:   map[string]string{"role": "admin", "department": ""},
	})
	q := store.State()
	assert.Equal(t, 1, q.Page)
	assert.Empty(t, q.SortField)
	assert.Equal(t, SortNone, q.SortOrder)
	assert.Empty(t, q.Filters)
}
