package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/uroojmurtaza-maker/oms-frontend/modules/hrm/presentation/mappers"
	"github.com/uroojmurtaza-maker/oms-frontend/modules/hrm/services"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/listing"
)

func newEmployeesCmd(newRT runtimeFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "employees",
		Aliases: []string{"emp"},
		Short:   "Browse and manage employees",
	}
	cmd.AddCommand(newEmployeesListCmd(newRT))
	cmd.AddCommand(newEmployeesBrowseCmd(newRT))
	cmd.AddCommand(newEmployeesShowCmd(newRT))
	cmd.AddCommand(newEmployeesCreateCmd(newRT))
	cmd.AddCommand(newEmployeesUpdateCmd(newRT))
	cmd.AddCommand(newEmployeesDeleteCmd(newRT))
	cmd.AddCommand(newEmployeesExportCmd(newRT))
	return cmd
}

// queryFlags are the listing query flags shared by list, browse and export.
type queryFlags struct {
	query       string
	search      string
	designation string
	department  string
	sort        string
	order       string
	page        int
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.query, "query", "", "Start from a URL query string, e.g. 'page=2&department=HR'")
	cmd.Flags().StringVar(&f.search, "search", "", "Search text")
	cmd.Flags().StringVar(&f.designation, "designation", "", "Designation filter (fuzzy matched)")
	cmd.Flags().StringVar(&f.department, "department", "", "Department filter (fuzzy matched)")
	cmd.Flags().StringVar(&f.sort, "sort", "", "Sort column (fuzzy matched)")
	cmd.Flags().StringVar(&f.order, "order", "asc", "Sort order: asc|desc")
	cmd.Flags().IntVar(&f.page, "page", 0, "Page number")
}

// state builds the query state: the --query string first, explicit flags over it.
func (f *queryFlags) state(def listing.Definition) (listing.QueryState, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(strings.TrimSpace(f.query), "?"))
	if err != nil {
		return listing.QueryState{}, withCode(exitUsage, fmt.Errorf("invalid --query: %w", err))
	}
	q := listing.DecodeQuery(values, def)
	if q.Filters == nil {
		q.Filters = map[string]string{}
	}
	if f.search != "" {
		q.Search = f.search
	}
	for key, value := range map[string]string{"designation": f.designation, "department": f.department} {
		if strings.TrimSpace(value) == "" {
			continue
		}
		resolved, err := resolveFilter(def, key, value)
		if err != nil {
			return listing.QueryState{}, withCode(exitValidation, err)
		}
		q.Filters[key] = resolved
	}
	if f.sort != "" {
		field, err := resolveSortField(def, f.sort)
		if err != nil {
			return listing.QueryState{}, withCode(exitValidation, err)
		}
		order := listing.SortOrder(strings.ToLower(strings.TrimSpace(f.order)))
		if order != listing.SortAsc && order != listing.SortDesc {
			return listing.QueryState{}, withCode(exitUsage, fmt.Errorf("invalid --order %q (expected asc|desc)", f.order))
		}
		q.SortField, q.SortOrder = field, order
	}
	if f.page > 0 {
		q.Page = f.page
	}
	if q.Page < 1 {
		q.Page = 1
	}
	return q, nil
}

func newEmployeesListCmd(newRT runtimeFactory) *cobra.Command {
	var flags queryFlags
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of employees",
		RunE: run(newRT, func(ctx context.Context, rt *runtime, _ []string) error {
			ctx, err := rt.authorized(ctx)
			if err != nil {
				return err
			}
			q, err := flags.state(rt.employeesListing())
			if err != nil {
				return err
			}
			l, err := rt.newEmployeeListing(ctx, q)
			if err != nil {
				return err
			}
			defer l.Dispose()
			l.Start()
			l.Wait()

			view := l.View()
			if view.ErrorMessage != "" {
				return withCode(exitAPI, errors.New(view.ErrorMessage))
			}
			table := mappers.EmployeeTableToViewModel(view, rt.role())
			if asJSON {
				return writeJSONLine(rt.out, table)
			}
			return renderTable(rt.out, table)
		}),
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the table as JSON")
	return cmd
}

func newEmployeesShowCmd(newRT runtimeFactory) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an employee profile",
		Args:  cobra.ExactArgs(1),
		RunE: run(newRT, func(ctx context.Context, rt *runtime, args []string) error {
			ctx, err := rt.authorized(ctx)
			if err != nil {
				return err
			}
			e, err := rt.employees().GetByID(ctx, args[0])
			if err != nil {
				if errors.Is(err, services.ErrEmployeeNotFound) {
					return withCode(exitAPI, err)
				}
				return withCode(exitCode(err), errors.New(services.FailureMessage(err)))
			}
			profile := mappers.EmployeeToProfileViewModel(e)
			if asJSON {
				return writeJSONLine(rt.out, profile)
			}
			return renderProfile(rt.out, profile)
		}),
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the profile as JSON")
	return cmd
}

func newEmployeesDeleteCmd(newRT runtimeFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an employee",
		Args:  cobra.ExactArgs(1),
		RunE: run(newRT, func(ctx context.Context, rt *runtime, args []string) error {
			ctx, err := rt.authorized(ctx)
			if err != nil {
				return err
			}
			if err := rt.employees().Delete(ctx, args[0]); err != nil {
				return withCode(exitCode(err), errors.New(services.FailureMessage(err)))
			}
			_, err = fmt.Fprintln(rt.out, "Employee deleted successfully")
			return err
		}),
	}
}

func newEmployeesExportCmd(newRT runtimeFactory) *cobra.Command {
	var flags queryFlags
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every matching employee to an XLSX file",
		RunE: run(newRT, func(ctx context.Context, rt *runtime, _ []string) error {
			ctx, err := rt.authorized(ctx)
			if err != nil {
				return err
			}
			if strings.TrimSpace(output) == "" {
				return withCode(exitUsage, errors.New("--output is required"))
			}
			q, err := flags.state(rt.employeesListing())
			if err != nil {
				return err
			}
			f, err := os.Create(output)
			if err != nil {
				return withCode(exitUsage, err)
			}
			n, err := rt.exporter().Export(ctx, q, rt.role(), f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(output)
				return err
			}
			_, err = fmt.Fprintf(rt.out, "Exported %d employees to %s\n", n, output)
			return err
		}),
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&output, "output", "", "Target .xlsx file (required)")
	return cmd
}
