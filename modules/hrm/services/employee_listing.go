package services

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/uroojmurtaza-maker/oms-frontend/modules/hrm/domain/aggregates/employee"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/eventbus"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/httpapi"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/listing"
)

const EmployeesListing = "employees"

// EmployeeListing is the employee table: a listing controller that refetches its current page
// after every confirmed deletion.
type EmployeeListing struct {
	*listing.Controller
	service     *EmployeeService
	unsubscribe func()
}

func NewEmployeeListing(
	def listing.Definition,
	getter listing.Getter,
	bus eventbus.EventBus,
	service *EmployeeService,
	opts listing.ControllerOptions,
) (*EmployeeListing, error) {
	ctrl, err := listing.NewController(def, getter, bus, opts)
	if err != nil {
		return nil, err
	}
	l := &EmployeeListing{
		Controller: ctrl,
		service:    service,
	}
	l.unsubscribe = bus.Subscribe(l.onDeleted)
	return l, nil
}

func (l *EmployeeListing) onDeleted(e *employee.DeletedEvent) {
	l.Refetch()
}

// Delete removes an employee. On failure it returns the message to surface and leaves the
// table untouched.
func (l *EmployeeListing) Delete(ctx context.Context, id string) (string, error) {
	if err := l.service.Delete(ctx, id); err != nil {
		return FailureMessage(err), err
	}
	return "Employee deleted successfully", nil
}

func (l *EmployeeListing) Dispose() {
	l.unsubscribe()
	l.Controller.Dispose()
}

// FailureMessage is the text shown to the user for a failed mutation.
func FailureMessage(err error) string {
	var apiErr *httpapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
