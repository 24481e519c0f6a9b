package services

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/uroojmurtaza-maker/oms-frontend/pkg/composables"
)

// EmployeesAuthzObject represents the HRM employees capability object.
const EmployeesAuthzObject = "hrm.employees"

// RoleEmployee may browse employees but not change them.
const RoleEmployee = "Employee"

var ErrForbidden = errors.New("forbidden")

var authorizeHRMFn = defaultAuthorizeHRM

func authorizeHRM(ctx context.Context, object, action string) error {
	return authorizeHRMFn(ctx, object, action)
}

// defaultAuthorizeHRM only checks what the client knows about the signed-in user; the API
// remains the authority. Without a user in ctx nothing is refused here.
func defaultAuthorizeHRM(ctx context.Context, object, action string) error {
	user, err := composables.UseUser(ctx)
	if err != nil {
		return nil
	}
	if action == "view" {
		return nil
	}
	if strings.EqualFold(user.Role(), RoleEmployee) {
		return errors.Wrapf(ErrForbidden, "%s %s", action, object)
	}
	return nil
}
