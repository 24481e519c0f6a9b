package services

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/uroojmurtaza-maker/oms-frontend/pkg/httpapi"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/listing"
)

func TestEmployeeExporter_Export(t *testing.T) {
	var pages []string
	r := mux.NewRouter()
	r.HandleFunc("/users/get-employees", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		assert.Equal(t, "Engineering", q.Get("department"))
		assert.Equal(t, "jane", q.Get("search"))
		pages = append(pages, q.Get("page"))
		page, _ := strconv.Atoi(q.Get("page"))
		_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
			"employees": []any{map[string]any{
				"id":          page,
				"name":        "jane " + strconv.Itoa(page),
				"department":  "Engineering",
				"joiningDate": "2024-03-01",
				"status":      "Active",
			}},
			"totalPages": 2,
		})
	}).Methods(http.MethodGet)
	exporter := NewEmployeeExporter(employeesDefinition(), newTestAPI(t, r), nil)

	var buf bytes.Buffer
	n, err := exporter.Export(context.Background(), listing.QueryState{
		Search:  "jane",
		Filters: map[string]string{"department": "Engineering"},
		Page:    5,
	}, "Admin", &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"1", "2"}, pages)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Employees")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Sr. No.", "Employee ID", "Name", "Email", "Designation", "Department", "Joining Date", "Status"}, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "Jane 1", rows[1][2])
	assert.Equal(t, "03/01/2024", rows[1][6])
	assert.Equal(t, "11", rows[2][0])
	assert.Equal(t, "Jane 2", rows[2][2])
}

func TestEmployeeExporter_EmployeeRoleHidesColumns(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/users/get-employees", func(w http.ResponseWriter, req *http.Request) {
		_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{"employees": []any{}, "totalPages": 0})
	})
	exporter := NewEmployeeExporter(employeesDefinition(), newTestAPI(t, r), nil)

	var buf bytes.Buffer
	n, err := exporter.Export(context.Background(), listing.QueryState{}, RoleEmployee, &buf)
	require.NoError(t, err)
	assert.Zero(t, n)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Employees")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.NotContains(t, rows[0], "Joining Date")
	assert.NotContains(t, rows[0], "Status")
}

func TestEmployeeExporter_FetchError(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/users/get-employees", func(w http.ResponseWriter, req *http.Request) {
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "", "database unavailable", nil)
	})
	exporter := NewEmployeeExporter(employeesDefinition(), newTestAPI(t, r), nil)

	_, err := exporter.Export(context.Background(), listing.QueryState{}, "Admin", &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, "database unavailable", httpapi.ServerMessage(err))
}
