package services

import (
	"context"
	"io"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/uroojmurtaza-maker/oms-frontend/modules/hrm/presentation/mappers"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/listing"
)

const exportSheet = "Employees"

// maxExportPages bounds an export against a server that keeps reporting more pages.
const maxExportPages = 1000

type EmployeeExporter struct {
	def    listing.Definition
	getter listing.Getter
	log    *logrus.Logger
}

func NewEmployeeExporter(def listing.Definition, getter listing.Getter, log *logrus.Logger) *EmployeeExporter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &EmployeeExporter{def: def, getter: getter, log: log}
}

// Export writes every employee matching q, page by page, as an XLSX workbook.
// The page of q is ignored. It returns the number of exported rows.
func (e *EmployeeExporter) Export(ctx context.Context, q listing.QueryState, role string, w io.Writer) (int, error) {
	columns := mappers.EmployeeColumns(role)

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return 0, errors.Wrap(err, "rename sheet")
	}
	header := make([]interface{}, 0, len(columns))
	for _, c := range columns {
		header = append(header, c.Title)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return 0, errors.Wrap(err, "write header")
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return 0, errors.Wrap(err, "header style")
	}
	lastCol, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return 0, errors.Wrap(err, "header range")
	}
	if err := f.SetCellStyle(exportSheet, "A1", lastCol+"1", style); err != nil {
		return 0, errors.Wrap(err, "apply header style")
	}

	log := e.log.WithField("listing", e.def.Name)
	written := 0
	for page := 1; page <= maxExportPages; page++ {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		q.Page = page
		params := listing.DeriveParams(e.def, q)
		body, err := e.getter.Get(ctx, e.def.Endpoint, params.Values())
		if err != nil {
			return written, errors.Wrapf(err, "fetch page %d", page)
		}
		result, err := listing.Project(body, e.def.ItemsKey)
		if err != nil {
			return written, errors.Wrapf(err, "decode page %d", page)
		}
		for i, row := range result.Items {
			vm := mappers.EmployeeRowToViewModel(row, i, page, e.def.PageSize)
			cells := make([]interface{}, 0, len(columns))
			for _, c := range columns {
				cells = append(cells, vm.Cell(c.Key))
			}
			cell, err := excelize.CoordinatesToCellName(1, written+2)
			if err != nil {
				return written, errors.Wrap(err, "cell name")
			}
			if err := f.SetSheetRow(exportSheet, cell, &cells); err != nil {
				return written, errors.Wrap(err, "write row")
			}
			written++
		}
		log.WithFields(logrus.Fields{"page": page, "rows": len(result.Items)}).Debug("export: page written")
		if page >= result.TotalPages || len(result.Items) == 0 {
			break
		}
	}

	if err := f.SetColWidth(exportSheet, "B", lastCol, 22); err != nil {
		return written, errors.Wrap(err, "column width")
	}
	if err := f.Write(w); err != nil {
		return written, errors.Wrap(err, "write workbook")
	}
	return written, nil
}
