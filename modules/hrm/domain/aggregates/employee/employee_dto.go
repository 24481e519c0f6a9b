package employee

import (
	"time"
)

const DateLayout = "2006-01-02"

// CreateDTO is the input of POST /users/create-employee. Zero values are left out of the payload.
type CreateDTO struct {
	EmployeeID        string
	Name              string
	Email             string
	Password          string
	Designation       string
	Department        string
	PhoneNumber       string
	Salary            string
	DateOfBirth       time.Time
	JoiningDate       time.Time
	ProfilePictureKey string
	ProfilePictureURL string
}

func (d *CreateDTO) ToPayload() map[string]any {
	payload := map[string]any{}
	setString(payload, "employeeId", d.EmployeeID)
	setString(payload, "name", d.Name)
	setString(payload, "email", d.Email)
	setString(payload, "password", d.Password)
	setString(payload, "designation", d.Designation)
	setString(payload, "department", d.Department)
	setString(payload, "phoneNumber", d.PhoneNumber)
	setString(payload, "salary", d.Salary)
	setDate(payload, "dateOfBirth", d.DateOfBirth)
	setDate(payload, "joiningDate", d.JoiningDate)
	setString(payload, "profilePictureKey", d.ProfilePictureKey)
	setString(payload, "profilePictureUrl", d.ProfilePictureURL)
	return payload
}

// UpdateDTO carries only the fields the caller wants to change; nil means untouched.
type UpdateDTO struct {
	EmployeeID  *string
	Name        *string
	Email       *string
	Designation *string
	Department  *string
	PhoneNumber *string
	Salary      *string
	Status      *string
	DateOfBirth *time.Time
	JoiningDate *time.Time
}

// Apply returns e with the DTO's fields written over it.
func (d *UpdateDTO) Apply(e Employee) Employee {
	apply := func(dst *Text, v *string) {
		if v != nil {
			*dst = Text(*v)
		}
	}
	apply(&e.EmployeeID, d.EmployeeID)
	apply(&e.Name, d.Name)
	apply(&e.Email, d.Email)
	apply(&e.Designation, d.Designation)
	apply(&e.Department, d.Department)
	apply(&e.PhoneNumber, d.PhoneNumber)
	apply(&e.Salary, d.Salary)
	apply(&e.Status, d.Status)
	if d.DateOfBirth != nil {
		e.DateOfBirth = Text(d.DateOfBirth.Format(DateLayout))
	}
	if d.JoiningDate != nil {
		e.JoiningDate = Text(d.JoiningDate.Format(DateLayout))
	}
	return e
}

// Editable returns the fields an update may touch, keyed by their JSON names.
func Editable(e Employee) map[string]any {
	return map[string]any{
		"employeeId":  e.EmployeeID.String(),
		"name":        e.Name.String(),
		"email":       e.Email.String(),
		"designation": e.Designation.String(),
		"department":  e.Department.String(),
		"phoneNumber": e.PhoneNumber.String(),
		"salary":      e.Salary.String(),
		"status":      e.Status.String(),
		"dateOfBirth": dateOnly(e.DateOfBirth.String()),
		"joiningDate": dateOnly(e.JoiningDate.String()),
	}
}

// dateOnly trims a timestamp such as 2024-01-15T00:00:00.000Z to its date.
func dateOnly(s string) string {
	if len(s) > len(DateLayout) {
		if _, err := time.Parse(DateLayout, s[:len(DateLayout)]); err == nil {
			return s[:len(DateLayout)]
		}
	}
	return s
}

func setString(payload map[string]any, key, value string) {
	if value != "" {
		payload[key] = value
	}
}

func setDate(payload map[string]any, key string, value time.Time) {
	if !value.IsZero() {
		payload[key] = value.Format(DateLayout)
	}
}
