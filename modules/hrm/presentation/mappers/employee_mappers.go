package mappers

import (
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/uroojmurtaza-maker/oms-frontend/modules/hrm/domain/aggregates/employee"
	"github.com/uroojmurtaza-maker/oms-frontend/modules/hrm/presentation/viewmodels"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/listing"
)

// Placeholder is shown for every empty value.
const Placeholder = "----"

const (
	tableDateLayout     = "01/02/2006"
	tableDateTimeLayout = "01/02/2006 03:04 PM"
	longDateLayout      = "January 02, 2006"
)

var titleCaser = cases.Title(language.English, cases.NoLower)

var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	employee.DateLayout,
}

// EmployeeColumns lists the table columns visible to role. Plain employees do not see
// joining dates or statuses.
func EmployeeColumns(role string) []viewmodels.Column {
	columns := []viewmodels.Column{
		{Key: "srNo", Title: "Sr. No."},
		{Key: "employeeId", Title: "Employee ID"},
		{Key: "name", Title: "Name", Sortable: true},
		{Key: "email", Title: "Email"},
		{Key: "designation", Title: "Designation"},
		{Key: "department", Title: "Department", Sortable: true},
	}
	if !strings.EqualFold(role, "Employee") {
		columns = append(columns,
			viewmodels.Column{Key: "joiningDate", Title: "Joining Date", Sortable: true},
			viewmodels.Column{Key: "status", Title: "Status"},
		)
	}
	return columns
}

func EmployeeRowToViewModel(row listing.Row, index, page, pageSize int) viewmodels.EmployeeRow {
	e, err := employee.FromRecord(row.Data)
	if err != nil {
		e = employee.Employee{}
	}
	status := orPlaceholder(e.Status.String())
	return viewmodels.EmployeeRow{
		Key:         row.Key,
		SerialNo:    strconv.Itoa((max(page, 1)-1)*pageSize + index + 1),
		ID:          e.ID.String(),
		EmployeeID:  orPlaceholder(e.EmployeeID.String()),
		Name:        orPlaceholder(titleCaser.String(e.Name.String())),
		Email:       orPlaceholder(e.Email.String()),
		Designation: orPlaceholder(e.Designation.String()),
		Department:  orPlaceholder(e.Department.String()),
		PhoneNumber: Phone(e),
		DateOfBirth: FormatTableDate(e.DateOfBirth.String()),
		JoiningDate: FormatTableDate(e.JoiningDate.String()),
		Status:      status,
		StatusTone:  ListingStatusTone(e.Status.String()),
		Picture:     e.Picture(),
	}
}

func EmployeeTableToViewModel(v listing.View, role string) *viewmodels.EmployeeTable {
	columns := EmployeeColumns(role)
	for i := range columns {
		if columns[i].Sortable && columns[i].Key == v.Query.SortField {
			columns[i].SortOrder = string(v.Query.SortOrder)
		}
	}
	rows := make([]viewmodels.EmployeeRow, 0, len(v.Rows))
	for i, row := range v.Rows {
		rows = append(rows, EmployeeRowToViewModel(row, i, v.Page, v.PageSize))
	}
	return &viewmodels.EmployeeTable{
		Columns:    columns,
		Rows:       rows,
		Page:       v.Page,
		TotalPages: v.TotalPages,
		Loading:    v.Loading,
		Error:      v.ErrorMessage,
		Search:     v.Query.Search,
		Filters:    v.Query.Filters,
	}
}

func EmployeeToProfileViewModel(e employee.Employee) *viewmodels.EmployeeProfile {
	return &viewmodels.EmployeeProfile{
		ID:          e.ID.String(),
		EmployeeID:  orPlaceholder(e.EmployeeID.String()),
		Name:        orPlaceholder(e.Name.String()),
		Email:       orPlaceholder(e.Email.String()),
		Designation: orPlaceholder(e.Designation.String()),
		Department:  orPlaceholder(e.Department.String()),
		Status:      e.Status.String(),
		StatusTone:  ProfileStatusTone(e.Status.String()),
		DateOfBirth: FormatLongDate(e.DateOfBirth.String()),
		JoiningDate: FormatLongDate(e.JoiningDate.String()),
		PhoneNumber: orPlaceholder(e.PhoneNumber.String()),
		Salary:      FormatSalary(e.Salary.String()),
		Picture:     e.Picture(),
	}
}

// Phone prefers the split country code and number, then the single phone field.
func Phone(e employee.Employee) string {
	if e.CountryCode != "" && e.PhoneNo != "" {
		return e.CountryCode.String() + " " + e.PhoneNo.String()
	}
	return orPlaceholder(e.PhoneNumber.String())
}

// FormatTableDate renders MM/DD/YYYY, with the time appended when the value carries one.
// Unparseable values are returned as they are.
func FormatTableDate(value string) string {
	if strings.TrimSpace(value) == "" {
		return Placeholder
	}
	t, ok := parseDate(value)
	if !ok {
		return value
	}
	if strings.ContainsAny(value, "T:") {
		return t.Format(tableDateTimeLayout)
	}
	return t.Format(tableDateLayout)
}

func FormatLongDate(value string) string {
	if strings.TrimSpace(value) == "" {
		return Placeholder
	}
	t, ok := parseDate(value)
	if !ok {
		return value
	}
	return t.Format(longDateLayout)
}

// FormatSalary renders an amount as US dollars with two decimals.
func FormatSalary(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return Placeholder
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return value
	}
	if d.IsZero() {
		return Placeholder
	}
	return money.New(d.Round(2).Shift(2).IntPart(), money.USD).Display()
}

func ListingStatusTone(status string) string {
	switch status {
	case "Current Employee":
		return "success"
	case "Old Employee":
		return "error"
	}
	return "default"
}

func ProfileStatusTone(status string) string {
	switch strings.ToLower(status) {
	case "active":
		return "success"
	case "inactive":
		return "error"
	}
	return "default"
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}
