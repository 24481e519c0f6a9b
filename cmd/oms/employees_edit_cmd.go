package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/uroojmurtaza-maker/oms-frontend/modules/hrm/domain/aggregates/employee"
	"github.com/uroojmurtaza-maker/oms-frontend/modules/hrm/services"
)

// employeeFlags holds the editable fields as typed on the command line.
type employeeFlags struct {
	employeeID  string
	name        string
	email       string
	password    string
	designation string
	department  string
	phone       string
	salary      string
	status      string
	dateOfBirth string
	joiningDate string
	picture     string
}

func (f *employeeFlags) register(cmd *cobra.Command, create bool) {
	cmd.Flags().StringVar(&f.employeeID, "employee-id", "", "Employee ID")
	cmd.Flags().StringVar(&f.name, "name", "", "Full name")
	cmd.Flags().StringVar(&f.email, "email", "", "Email address")
	cmd.Flags().StringVar(&f.designation, "designation", "", "Designation (fuzzy matched)")
	cmd.Flags().StringVar(&f.department, "department", "", "Department (fuzzy matched)")
	cmd.Flags().StringVar(&f.phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&f.salary, "salary", "", "Salary")
	cmd.Flags().StringVar(&f.dateOfBirth, "date-of-birth", "", "Date of birth (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.joiningDate, "joining-date", "", "Joining date (YYYY-MM-DD)")
	if create {
		cmd.Flags().StringVar(&f.password, "password", "", "Initial password (required)")
		cmd.Flags().StringVar(&f.picture, "picture", "", "Profile picture file to upload")
	} else {
		cmd.Flags().StringVar(&f.status, "status", "", "Employment status")
	}
}

func parseDateFlag(name, value string) (time.Time, error) {
	t, err := time.Parse(employee.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, withCode(exitUsage, fmt.Errorf("invalid --%s %q (expected YYYY-MM-DD)", name, value))
	}
	return t, nil
}

func newEmployeesCreateCmd(newRT runtimeFactory) *cobra.Command {
	var flags employeeFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an employee",
		RunE: run(newRT, func(ctx context.Context, rt *runtime, _ []string) error {
			ctx, err := rt.authorized(ctx)
			if err != nil {
				return err
			}
			dto, err := flags.createDTO(rt)
			if err != nil {
				return err
			}
			if flags.picture != "" {
				key, publicURL, err := uploadPicture(ctx, rt.employees(), flags.picture)
				if err != nil {
					return err
				}
				dto.ProfilePictureKey, dto.ProfilePictureURL = key, publicURL
			}
			created, err := rt.employees().Create(ctx, dto)
			if err != nil {
				return withCode(exitCode(err), errors.New(services.FailureMessage(err)))
			}
			if created.ID != "" {
				_, err = fmt.Fprintf(rt.out, "Employee created successfully (id %s)\n", created.ID)
			} else {
				_, err = fmt.Fprintln(rt.out, "Employee created successfully")
			}
			return err
		}),
	}
	flags.register(cmd, true)
	for _, name := range []string{"name", "email", "password", "designation", "department"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (f *employeeFlags) createDTO(rt *runtime) (*employee.CreateDTO, error) {
	def := rt.employeesListing()
	designation, err := resolveFilter(def, "designation", f.designation)
	if err != nil {
		return nil, withCode(exitValidation, err)
	}
	department, err := resolveFilter(def, "department", f.department)
	if err != nil {
		return nil, withCode(exitValidation, err)
	}
	dto := &employee.CreateDTO{
		EmployeeID:  strings.TrimSpace(f.employeeID),
		Name:        strings.TrimSpace(f.name),
		Email:       strings.TrimSpace(f.email),
		Password:    f.password,
		Designation: designation,
		Department:  department,
		PhoneNumber: strings.TrimSpace(f.phone),
		Salary:      strings.TrimSpace(f.salary),
	}
	if f.dateOfBirth != "" {
		if dto.DateOfBirth, err = parseDateFlag("date-of-birth", f.dateOfBirth); err != nil {
			return nil, err
		}
	}
	if f.joiningDate != "" {
		if dto.JoiningDate, err = parseDateFlag("joining-date", f.joiningDate); err != nil {
			return nil, err
		}
	}
	return dto, nil
}

func newEmployeesUpdateCmd(newRT runtimeFactory) *cobra.Command {
	var flags employeeFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the given fields of an employee",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = run(newRT, func(ctx context.Context, rt *runtime, args []string) error {
		ctx, err := rt.authorized(ctx)
		if err != nil {
			return err
		}
		dto, err := flags.updateDTO(cmd, rt)
		if err != nil {
			return err
		}
		current, err := rt.employees().GetByID(ctx, args[0])
		if err != nil {
			return withCode(exitCode(err), errors.New(services.FailureMessage(err)))
		}
		changed, err := rt.employees().Update(ctx, current, dto)
		if err != nil {
			return withCode(exitCode(err), errors.New(services.FailureMessage(err)))
		}
		if !changed {
			_, err = fmt.Fprintln(rt.out, "No changes to save")
			return err
		}
		_, err = fmt.Fprintln(rt.out, "Employee updated successfully")
		return err
	})
	flags.register(cmd, false)
	return cmd
}

// updateDTO sets only the fields whose flags were given.
func (f *employeeFlags) updateDTO(cmd *cobra.Command, rt *runtime) (*employee.UpdateDTO, error) {
	def := rt.employeesListing()
	changed := cmd.Flags().Changed
	text := func(flag, value string) *string {
		if !changed(flag) {
			return nil
		}
		v := strings.TrimSpace(value)
		return &v
	}
	dto := &employee.UpdateDTO{
		EmployeeID:  text("employee-id", f.employeeID),
		Name:        text("name", f.name),
		Email:       text("email", f.email),
		PhoneNumber: text("phone", f.phone),
		Salary:      text("salary", f.salary),
		Status:      text("status", f.status),
	}
	option := func(flag, value string) (*string, error) {
		if !changed(flag) {
			return nil, nil
		}
		resolved, err := resolveFilter(def, flag, value)
		if err != nil {
			return nil, withCode(exitValidation, err)
		}
		return &resolved, nil
	}
	date := func(flag, value string) (*time.Time, error) {
		if !changed(flag) {
			return nil, nil
		}
		t, err := parseDateFlag(flag, value)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}
	var err error
	if dto.Designation, err = option("designation", f.designation); err != nil {
		return nil, err
	}
	if dto.Department, err = option("department", f.department); err != nil {
		return nil, err
	}
	if dto.DateOfBirth, err = date("date-of-birth", f.dateOfBirth); err != nil {
		return nil, err
	}
	if dto.JoiningDate, err = date("joining-date", f.joiningDate); err != nil {
		return nil, err
	}
	return dto, nil
}

// uploadPicture asks the API for a pre-signed location and PUTs the file there.
func uploadPicture(ctx context.Context, svc *services.EmployeeService, path string) (key, publicURL string, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", "", withCode(exitUsage, err)
	}
	mtype := mimetype.Detect(content)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", "", withCode(exitValidation, fmt.Errorf("%s is not an image (%s)", path, mtype.String()))
	}
	target, err := svc.UploadURL(ctx, filepath.Base(path), mtype.String())
	if err != nil {
		return "", "", withCode(exitCode(err), errors.New(services.FailureMessage(err)))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target.UploadURL, bytes.NewReader(content))
	if err != nil {
		return "", "", errors.Wrap(err, "build upload request")
	}
	req.Header.Set("Content-Type", mtype.String())
	resp, err := uploadClient.Do(req)
	if err != nil {
		return "", "", withCode(exitAPI, errors.Wrap(err, "upload picture"))
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", withCode(exitAPI, fmt.Errorf("upload picture: status %d", resp.StatusCode))
	}
	return target.Key, target.PublicURL, nil
}

var uploadClient = &http.Client{
	Timeout: 60 * time.Second,
	Transport: &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
}
