package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/uroojmurtaza-maker/oms-frontend/modules/hrm/presentation/viewmodels"
)

func writeJSONLine(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

func renderTable(w io.Writer, table *viewmodels.EmployeeTable) error {
	if table.Error != "" {
		_, err := fmt.Fprintf(w, "error: %s\n", table.Error)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	titles := make([]string, 0, len(table.Columns))
	for _, c := range table.Columns {
		title := c.Title
		switch c.SortOrder {
		case "asc":
			title += " ^"
		case "desc":
			title += " v"
		}
		titles = append(titles, title)
	}
	fmt.Fprintln(tw, strings.Join(titles, "\t"))
	if len(table.Rows) == 0 {
		fmt.Fprintln(tw, "No employees found")
	}
	for _, row := range table.Rows {
		cells := make([]string, 0, len(table.Columns))
		for _, c := range table.Columns {
			cells = append(cells, row.Cell(c.Key))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, tableFooter(table))
	return err
}

func tableFooter(table *viewmodels.EmployeeTable) string {
	parts := []string{fmt.Sprintf("Page %d of %d", table.Page, max(table.TotalPages, 1))}
	if table.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", table.Search))
	}
	keys := make([]string, 0, len(table.Filters))
	for k := range table.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, table.Filters[k]))
	}
	return strings.Join(parts, " | ")
}

func renderProfile(w io.Writer, p *viewmodels.EmployeeProfile) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fields := [][2]string{
		{"Name", p.Name},
		{"Employee ID", p.EmployeeID},
		{"Email", p.Email},
		{"Designation", p.Designation},
		{"Department", p.Department},
		{"Date of Birth", p.DateOfBirth},
		{"Joining Date", p.JoiningDate},
		{"Phone Number", p.PhoneNumber},
		{"Salary", p.Salary},
	}
	if p.Status != "" {
		fields = append(fields, [2]string{"Status", p.Status})
	}
	if p.Picture != "" {
		fields = append(fields, [2]string{"Picture", p.Picture})
	}
	for _, f := range fields {
		fmt.Fprintf(tw, "%s:\t%s\n", f[0], f[1])
	}
	return tw.Flush()
}
