package employee

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Text decodes any JSON scalar into its textual form. The employee API is not consistent about
// sending ids and amounts as numbers or strings.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch x := v.(type) {
	case json.Number:
		*t = Text(x.String())
	case bool:
		*t = Text(strconv.FormatBool(x))
	default:
		*t = Text(b)
	}
	return nil
}

func (t Text) String() string {
	return string(t)
}

// Employee is the employee record as served by the API.
type Employee struct {
	ID                Text `json:"id"`
	EmployeeID        Text `json:"employeeId"`
	Name              Text `json:"name"`
	Email             Text `json:"email"`
	Designation       Text `json:"designation"`
	Department        Text `json:"department"`
	Role              Text `json:"role"`
	Status            Text `json:"status"`
	PhoneNumber       Text `json:"phoneNumber"`
	CountryCode       Text `json:"countryCode"`
	PhoneNo           Text `json:"phoneNo"`
	DateOfBirth       Text `json:"dateOfBirth"`
	JoiningDate       Text `json:"joiningDate"`
	Salary            Text `json:"salary"`
	ProfilePicture    Text `json:"profilePicture"`
	ProfilePictureURL Text `json:"profilePictureUrl"`
	Image             Text `json:"image"`
	Avatar            Text `json:"avatar"`
	CreatedAt         Text `json:"createdAt"`
	UpdatedAt         Text `json:"updatedAt"`
}

// Picture returns the first picture field the API filled in.
func (e Employee) Picture() string {
	for _, v := range []Text{e.ProfilePicture, e.ProfilePictureURL, e.Image, e.Avatar} {
		if v != "" {
			return v.String()
		}
	}
	return ""
}

// FromRecord converts a decoded listing row into an Employee.
func FromRecord(data map[string]any) (Employee, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return Employee{}, err
	}
	var e Employee
	if err := json.Unmarshal(b, &e); err != nil {
		return Employee{}, err
	}
	return e, nil
}
