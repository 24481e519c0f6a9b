package main

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uroojmurtaza-maker/oms-frontend/modules/hrm/presentation/viewmodels"
	"github.com/uroojmurtaza-maker/oms-frontend/modules/hrm/services"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/configuration"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/httpapi"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/listing"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/session"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"explicit", withCode(exitUsage, errors.New("bad flag")), exitUsage},
		{"wrapped explicit", fmt.Errorf("outer: %w", withCode(exitValidation, errors.New("x"))), exitValidation},
		{"invalid config", fmt.Errorf("%w: API_BASE_URL", configuration.ErrInvalid), exitConfig},
		{"client config", &httpapi.Error{Kind: httpapi.KindConfig}, exitConfig},
		{"not authenticated", session.ErrNotAuthenticated, exitAuth},
		{"forbidden", errors.Wrap(services.ErrForbidden, "delete"), exitAuth},
		{"unauthorized", &httpapi.Error{Kind: httpapi.KindAPI, HTTPStatus: 401}, exitAuth},
		{"api", &httpapi.Error{Kind: httpapi.KindAPI, HTTPStatus: 500}, exitAPI},
		{"network", &httpapi.Error{Kind: httpapi.KindNetwork}, exitAPI},
		{"unknown filter", listing.ErrUnknownFilter, exitValidation},
		{"other", errors.New("boom"), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, exitCode(tc.err))
		})
	}
	assert.NoError(t, withCode(exitUsage, nil))
}

func TestResolveChoice(t *testing.T) {
	departments := []string{"Engineering", "Sales", "Marketing", "HR", "Human Resources", "Quality Assurance"}
	cases := map[string]string{
		"hr":          "HR",
		"ENGINEERING": "Engineering",
		"eng":         "Engineering",
		"mark":        "Marketing",
		"qa":          "Quality Assurance",
		"hmnres":      "Human Resources",
	}
	for input, want := range cases {
		got, err := resolveChoice(input, departments)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := resolveChoice("h", departments)
	require.ErrorContains(t, err, "ambiguous")
	_, err = resolveChoice("xyz", departments)
	require.ErrorContains(t, err, "matches none")
	_, err = resolveChoice("  ", departments)
	require.Error(t, err)
}

func TestResolveFilterAndSort(t *testing.T) {
	def := listing.Definition{
		Name:       "employees",
		Endpoint:   "/users/get-employees",
		SortFields: []string{"name", "department", "joiningDate"},
		Filters: []listing.FilterDefinition{
			{Key: "department", Options: []string{"Engineering", "HR"}},
			{Key: "city"},
		},
	}
	v, err := resolveFilter(def, "department", "eng")
	require.NoError(t, err)
	assert.Equal(t, "Engineering", v)

	v, err = resolveFilter(def, "city", " Lahore ")
	require.NoError(t, err)
	assert.Equal(t, "Lahore", v)

	_, err = resolveFilter(def, "role", "x")
	require.ErrorIs(t, err, listing.ErrUnknownFilter)

	f, err := resolveSortField(def, "joining")
	require.NoError(t, err)
	assert.Equal(t, "joiningDate", f)
	_, err = resolveSortField(def, "email")
	require.ErrorIs(t, err, listing.ErrUnknownSortField)
}

func TestParseIntent(t *testing.T) {
	in, ok := parseIntent("  Filter department  Human Resources ")
	require.True(t, ok)
	assert.Equal(t, "filter", in.verb)
	assert.Equal(t, []string{"department", "Human", "Resources"}, in.args)
	assert.Equal(t, "department  Human Resources", in.rest)

	in, ok = parseIntent("search")
	require.True(t, ok)
	assert.Equal(t, "search", in.verb)
	assert.Empty(t, in.rest)

	_, ok = parseIntent("   ")
	assert.False(t, ok)
}

func TestRenderTable(t *testing.T) {
	table := &viewmodels.EmployeeTable{
		Columns: []viewmodels.Column{
			{Key: "srNo", Title: "Sr. No."},
			{Key: "name", Title: "Name", Sortable: true, SortOrder: "asc"},
		},
		Rows: []viewmodels.EmployeeRow{
			{SerialNo: "1", Name: "Jane Doe"},
		},
		Page:       1,
		TotalPages: 0,
		Search:     "jane",
		Filters:    map[string]string{"department": "HR", "designation": "Manager"},
	}
	var buf bytes.Buffer
	require.NoError(t, renderTable(&buf, table))
	assert.Equal(t, "Sr. No.  Name ^\n1        Jane Doe\nPage 1 of 1 | search \"jane\" | department=HR | designation=Manager\n", buf.String())

	buf.Reset()
	require.NoError(t, renderTable(&buf, &viewmodels.EmployeeTable{Error: "Failed to fetch data"}))
	assert.Equal(t, "error: Failed to fetch data\n", buf.String())

	buf.Reset()
	require.NoError(t, renderTable(&buf, &viewmodels.EmployeeTable{Columns: table.Columns, Page: 1}))
	assert.Contains(t, buf.String(), "No employees found")
}

func TestRenderProfile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderProfile(&buf, &viewmodels.EmployeeProfile{Name: "Jane", Salary: "$10.00"}))
	assert.Contains(t, buf.String(), "Name:")
	assert.Contains(t, buf.String(), "$10.00")
	assert.NotContains(t, buf.String(), "Status:")
}
