package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/evanphx/json-patch/v5"
	"github.com/go-faster/errors"

	"github.com/uroojmurtaza-maker/oms-frontend/modules/hrm/domain/aggregates/employee"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/eventbus"
)

var ErrEmployeeNotFound = errors.New("employee not found")

// APIClient is the subset of httpapi.Client the employee services call.
type APIClient interface {
	Get(ctx context.Context, path string, params url.Values) ([]byte, error)
	Post(ctx context.Context, path string, body any) ([]byte, error)
	Patch(ctx context.Context, path string, body any) ([]byte, error)
	Delete(ctx context.Context, path string) ([]byte, error)
}

// UploadTarget is a pre-signed location for a profile picture.
type UploadTarget struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
	PublicURL string `json:"publicUrl"`
}

type EmployeeService struct {
	api       APIClient
	publisher eventbus.EventBus
}

func NewEmployeeService(api APIClient, publisher eventbus.EventBus) *EmployeeService {
	return &EmployeeService{
		api:       api,
		publisher: publisher,
	}
}

func (s *EmployeeService) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if err := authorizeHRM(ctx, EmployeesAuthzObject, "view"); err != nil {
		return employee.Employee{}, err
	}
	body, err := s.api.Get(ctx, "/users/get-employee/"+url.PathEscape(id), nil)
	if err != nil {
		return employee.Employee{}, err
	}
	var e employee.Employee
	if err := decodeUnwrapped(body, &e, "employee", "data"); err != nil {
		return employee.Employee{}, err
	}
	if e.ID == "" && e.Name == "" && e.Email == "" {
		return employee.Employee{}, ErrEmployeeNotFound
	}
	return e, nil
}

func (s *EmployeeService) Create(ctx context.Context, data *employee.CreateDTO) (employee.Employee, error) {
	if err := authorizeHRM(ctx, EmployeesAuthzObject, "create"); err != nil {
		return employee.Employee{}, err
	}
	body, err := s.api.Post(ctx, "/users/create-employee", data.ToPayload())
	if err != nil {
		return employee.Employee{}, err
	}
	var created employee.Employee
	if err := decodeUnwrapped(body, &created, "employee", "data"); err != nil {
		return employee.Employee{}, err
	}
	s.publisher.Publish(&employee.CreatedEvent{Data: *data, Result: created})
	return created, nil
}

// Update sends a JSON merge patch holding only the fields data changes relative to current.
// It reports false, without calling the API, when nothing would change.
func (s *EmployeeService) Update(ctx context.Context, current employee.Employee, data *employee.UpdateDTO) (bool, error) {
	if err := authorizeHRM(ctx, EmployeesAuthzObject, "update"); err != nil {
		return false, err
	}
	if current.ID == "" {
		return false, errors.New("employee id is required")
	}
	patch, err := mergePatch(employee.Editable(current), employee.Editable(data.Apply(current)))
	if err != nil {
		return false, err
	}
	if bytes.Equal(patch, []byte("{}")) {
		return false, nil
	}
	if _, err := s.api.Patch(ctx, "/users/update-employee/"+url.PathEscape(current.ID.String()), json.RawMessage(patch)); err != nil {
		return false, err
	}
	s.publisher.Publish(&employee.UpdatedEvent{ID: current.ID.String(), Patch: patch})
	return true, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if err := authorizeHRM(ctx, EmployeesAuthzObject, "delete"); err != nil {
		return err
	}
	if _, err := s.api.Delete(ctx, "/users/delete-employee/"+url.PathEscape(id)); err != nil {
		return err
	}
	s.publisher.Publish(&employee.DeletedEvent{ID: id})
	return nil
}

// UploadURL asks the API for a pre-signed profile picture location.
func (s *EmployeeService) UploadURL(ctx context.Context, fileName, fileType string) (UploadTarget, error) {
	if err := authorizeHRM(ctx, EmployeesAuthzObject, "create"); err != nil {
		return UploadTarget{}, err
	}
	body, err := s.api.Post(ctx, "/users/upload-url", map[string]string{
		"fileName": fileName,
		"fileType": fileType,
	})
	if err != nil {
		return UploadTarget{}, err
	}
	var target UploadTarget
	if err := decodeUnwrapped(body, &target, "data"); err != nil {
		return UploadTarget{}, err
	}
	if target.UploadURL == "" {
		return UploadTarget{}, errors.New("upload url missing from response")
	}
	return target, nil
}

func mergePatch(original, modified map[string]any) ([]byte, error) {
	originalJSON, err := json.Marshal(original)
	if err != nil {
		return nil, errors.Wrap(err, "marshal original")
	}
	modifiedJSON, err := json.Marshal(modified)
	if err != nil {
		return nil, errors.Wrap(err, "marshal modified")
	}
	patch, err := jsonpatch.CreateMergePatch(originalJSON, modifiedJSON)
	if err != nil {
		return nil, errors.Wrap(err, "create merge patch")
	}
	return patch, nil
}

// decodeUnwrapped decodes the first non-null envelope key into out, or the whole body when
// none of them is present.
func decodeUnwrapped(body []byte, out any, keys ...string) error {
	raw := bytes.TrimSpace(body)
	if len(raw) == 0 {
		return nil
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	for _, key := range keys {
		if v, ok := envelope[key]; ok && !bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			raw = v
			break
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
