package listing

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveParams(t *testing.T) {
	def := testDefinition()

	t.Run("search only", func(t *testing.T) {
		p := DeriveParams(def, QueryState{Search: "jane", Page: 1})
		assert.Equal(t, url.Values{"page": {"1"}, "limit": {"10"}, "search": {"jane"}}, p.Values())
	})

	t.Run("blank values are omitted", func(t *testing.T) {
		p := DeriveParams(def, QueryState{Search: "   ", Page: 0, Filters: map[string]string{"department": ""}})
		assert.Equal(t, url.Values{"page": {"1"}, "limit": {"10"}}, p.Values())
	})

	t.Run("filters and sort", func(t *testing.T) {
		p := DeriveParams(def, QueryState{
			Page:      2,
			SortField: "joiningDate",
			SortOrder: SortDesc,
			Filters:   map[string]string{"department": "Engineering", "designation": "Manager"},
		})
		assert.Equal(t, url.Values{
			"page":        {"2"},
			"limit":       {"10"},
			"department":  {"Engineering"},
			"designation": {"Manager"},
			"sortBy":      {"joiningDate"},
			"sortOrder":   {"desc"},
		}, p.Values())
	})

	t.Run("filter on page 3 goes back to page 1", func(t *testing.T) {
		store := NewStore(def, nil, QueryState{Page: 3})
		_ = store.SetFilter("department", "Engineering")
		p := DeriveParams(def, store.State())
		assert.Equal(t, url.Values{"page": {"1"}, "limit": {"10"}, "department": {"Engineering"}}, p.Values())
	})
}

func TestRequestParams_Equal(t *testing.T) {
	def := testDefinition()
	a := DeriveParams(def, QueryState{Page: 1, Filters: map[string]string{"department": "HR"}})
	b := DeriveParams(def, QueryState{Page: 1, Filters: map[string]string{"department": "HR"}})
	assert.True(t, a.Equal(b))

	c := DeriveParams(def, QueryState{Page: 2, Filters: map[string]string{"department": "HR"}})
	assert.False(t, a.Equal(c))
	assert.True(t, DeriveParams(def, QueryState{}).Equal(DeriveParams(def, QueryState{Filters: map[string]string{}})))
}

func TestDecodeQuery(t *testing.T) {
	def := testDefinition()
	cases := []struct {
		name   string
		values url.Values
		want   QueryState
	}{
		{
			name:   "empty",
			values: url.Values{},
			want:   QueryState{Page: 1},
		},
		{
			name:   "negative page",
			values: url.Values{"page": {"-3"}},
			want:   QueryState{Page: 1},
		},
		{
			name:   "garbage page",
			values: url.Values{"page": {"abc"}},
			want:   QueryState{Page: 1},
		},
		{
			name:   "unknown sort field",
			values: url.Values{"sortBy": {"salary"}, "sortOrder": {"desc"}, "page": {"4"}},
			want:   QueryState{Page: 4},
		},
		{
			name:   "sort field without order",
			values: url.Values{"sortBy": {"name"}},
			want:   QueryState{Page: 1, SortField: "name", SortOrder: SortAsc},
		},
		{
			name:   "order without field",
			values: url.Values{"sortOrder": {"desc"}},
			want:   QueryState{Page: 1},
		},
		{
			name:   "unknown filter key",
			values: url.Values{"role": {"admin"}, "department": {"HR"}, "search": {"jane"}},
			want:   QueryState{Page: 1, Search: "jane", Filters: map[string]string{"department": "HR"}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DecodeQuery(tc.values, def)
			assert.True(t, tc.want.Equal(got), "want %+v, got %+v", tc.want, got)
		})
	}
}

func TestEncodeQuery(t *testing.T) {
	def := testDefinition()
	q := QueryState{
		Search:    "jane",
		Page:      3,
		SortField: "department",
		SortOrder: SortDesc,
		Filters:   map[string]string{"designation": "Manager"},
	}
	values := EncodeQuery(q)
	assert.Equal(t, url.Values{
		"search":      {"jane"},
		"page":        {"3"},
		"sortBy":      {"department"},
		"sortOrder":   {"desc"},
		"designation": {"Manager"},
	}, values)
	assert.True(t, q.Equal(DecodeQuery(values, def)))

	assert.Empty(t, EncodeQuery(QueryState{Page: 1}))
}
