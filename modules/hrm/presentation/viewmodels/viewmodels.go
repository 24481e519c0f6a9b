package viewmodels

type Column struct {
	Key      string
	Title    string
	Sortable bool
	// SortOrder is "asc", "desc" or empty for the column the table is sorted by.
	SortOrder string
}

type EmployeeRow struct {
	Key         string
	SerialNo    string
	ID          string
	EmployeeID  string
	Name        string
	Email       string
	Designation string
	Department  string
	PhoneNumber string
	DateOfBirth string
	JoiningDate string
	Status      string
	StatusTone  string
	Picture     string
}

// Cell returns the rendered value of the column with the given key.
func (r EmployeeRow) Cell(key string) string {
	switch key {
	case "srNo":
		return r.SerialNo
	case "employeeId":
		return r.EmployeeID
	case "name":
		return r.Name
	case "email":
		return r.Email
	case "designation":
		return r.Designation
	case "department":
		return r.Department
	case "phoneNumber":
		return r.PhoneNumber
	case "dateOfBirth":
		return r.DateOfBirth
	case "joiningDate":
		return r.JoiningDate
	case "status":
		return r.Status
	}
	return ""
}

type EmployeeTable struct {
	Columns    []Column
	Rows       []EmployeeRow
	Page       int
	TotalPages int
	Loading    bool
	Error      string
	Search     string
	Filters    map[string]string
}

type EmployeeProfile struct {
	ID          string
	EmployeeID  string
	Name        string
	Email       string
	Designation string
	Department  string
	Status      string
	StatusTone  string
	DateOfBirth string
	JoiningDate string
	PhoneNumber string
	Salary      string
	Picture     string
}
