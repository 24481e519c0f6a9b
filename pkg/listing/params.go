package listing

import (
	"maps"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/form"
)

var reservedParams = map[string]bool{
	"page":      true,
	"limit":     true,
	"search":    true,
	"sortBy":    true,
	"sortOrder": true,
}

var (
	encoder = form.NewEncoder()
	decoder = form.NewDecoder()
)

// RequestParams is the wire form of a QueryState. Empty values are omitted, never sent blank.
type RequestParams struct {
	Page      int               `form:"page"`
	Limit     int               `form:"limit"`
	Search    string            `form:"search,omitempty"`
	SortBy    string            `form:"sortBy,omitempty"`
	SortOrder string            `form:"sortOrder,omitempty"`
	Filters   map[string]string `form:"-"`
}

// DeriveParams is a pure function of the definition and the state.
func DeriveParams(def Definition, s QueryState) RequestParams {
	p := RequestParams{
		Page:   max(s.Page, 1),
		Limit:  def.PageSize,
		Search: strings.TrimSpace(s.Search),
	}
	if s.SortField != "" && s.SortOrder != SortNone {
		p.SortBy = s.SortField
		p.SortOrder = string(s.SortOrder)
	}
	for _, key := range def.FilterKeys() {
		if v := s.Filters[key]; v != "" {
			if p.Filters == nil {
				p.Filters = map[string]string{}
			}
			p.Filters[key] = v
		}
	}
	return p
}

func (p RequestParams) Values() url.Values {
	values, err := encoder.Encode(p)
	if err != nil {
		// only reachable with unsupported field types
		panic(err)
	}
	for key, v := range p.Filters {
		if v != "" {
			values.Set(key, v)
		}
	}
	return values
}

func (p RequestParams) Equal(o RequestParams) bool {
	return p.Page == o.Page &&
		p.Limit == o.Limit &&
		p.Search == o.Search &&
		p.SortBy == o.SortBy &&
		p.SortOrder == o.SortOrder &&
		maps.Equal(p.Filters, o.Filters)
}

// urlQuery mirrors the address-bar parameters. Every field is a string so malformed input
// is clamped instead of failing the decode.
type urlQuery struct {
	Page      string `form:"page,omitempty"`
	Search    string `form:"search,omitempty"`
	SortBy    string `form:"sortBy,omitempty"`
	SortOrder string `form:"sortOrder,omitempty"`
}

// EncodeQuery renders the shareable URL form of s. Page 1 is implied and left out.
func EncodeQuery(s QueryState) url.Values {
	q := urlQuery{
		Search: s.Search,
	}
	if s.Page > 1 {
		q.Page = strconv.Itoa(s.Page)
	}
	if s.SortField != "" && s.SortOrder != SortNone {
		q.SortBy = s.SortField
		q.SortOrder = string(s.SortOrder)
	}
	values, err := encoder.Encode(q)
	if err != nil {
		panic(err)
	}
	for key, v := range s.Filters {
		if v != "" {
			values.Set(key, v)
		}
	}
	return values
}

// DecodeQuery restores a QueryState from URL parameters. Invalid pages become 1, unknown sort
// fields and filter keys are dropped, and a sort field without a valid order sorts ascending.
func DecodeQuery(values url.Values, def Definition) QueryState {
	var q urlQuery
	if err := decoder.Decode(&q, values); err != nil {
		q = urlQuery{}
	}
	page, err := strconv.Atoi(strings.TrimSpace(q.Page))
	if err != nil {
		page = 1
	}
	s := QueryState{
		Search:    q.Search,
		SortField: q.SortBy,
		SortOrder: SortOrder(q.SortOrder),
		Page:      page,
	}
	for _, key := range def.FilterKeys() {
		if v := values.Get(key); v != "" {
			if s.Filters == nil {
				s.Filters = map[string]string{}
			}
			s.Filters[key] = v
		}
	}
	return s.normalize(def)
}
