// Package export writes a loaded shift month to an Excel workbook or a
// printable PDF.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/turnity/turnity/internal/domain"
	"github.com/turnity/turnity/internal/grid"
)

// SheetName is the single worksheet in an exported workbook.
const SheetName = "Reporte"

type column struct {
	header string
	width  float64
}

var columns = []column{
	{"codigo_persona", 15},
	{"nombre", 30},
	{"fecha", 12},
	{"jornada", 10},
	{"codigo_turno", 12},
	{"inicio_turno", 15},
	{"termino_turno", 15},
	{"horas", 10},
	{"turno", 15},
	{"cedula_jefe", 15},
	{"nombre_jefe", 25},
	{"tienda", 30},
	{"departamento", 25},
	{"posicion", 25},
}

// Row is one employee-day line of the report.
type Row struct {
	EmployeeID  string
	Name        string
	Date        string
	WorkingDay  float64
	ShiftCode   string
	Start       string
	End         string
	Hours       int
	Label       string
	ManagerID   string
	ManagerName string
	Store       string
	Department  string
	Position    string
}

func (r Row) values() []any {
	return []any{
		r.EmployeeID, r.Name, r.Date, r.WorkingDay, r.ShiftCode, r.Start, r.End,
		r.Hours, r.Label, r.ManagerID, r.ManagerName, r.Store, r.Department, r.Position,
	}
}

// Rows lays out a session's month: every roster employee on every day of
// the loaded weeks, unassigned days as rest. The session must be loaded.
func Rows(s *grid.Session) ([]Row, error) {
	if err := s.Loaded(); err != nil {
		return nil, err
	}
	p, err := s.BuildPayload()
	if err != nil {
		return nil, err
	}
	scope := s.Scope()
	manager := s.User()

	var rows []Row
	for _, ep := range p.EmployeeShifts {
		emp, _ := s.Employee(ep.Employee)
		for _, wk := range ep.WeeklyShifts {
			for _, rec := range wk.Shifts {
				label := grid.FreeLabel
				if date, err := domain.ParseDate(rec.Date); err == nil {
					label = s.CellLabel(emp.ID, date)
				}
				rows = append(rows, Row{
					EmployeeID:  ep.Employee,
					Name:        emp.FullName,
					Date:        rec.Date,
					WorkingDay:  wk.WorkingDay,
					ShiftCode:   rec.Turn,
					Start:       domain.ClockHHMM(rec.InitialHour),
					End:         domain.ClockHHMM(rec.EndHour),
					Hours:       rec.Hours,
					Label:       label,
					ManagerID:   manager.Document,
					ManagerName: manager.FullName,
					Store:       scope.Store.Name,
					Department:  scope.Department.Name,
					Position:    emp.Position,
				})
			}
		}
	}
	return rows, nil
}

// WriteWorkbook writes rows as an .xlsx document to w.
func WriteWorkbook(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c.header
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, name, name, c.width); err != nil {
			return fmt.Errorf("sizing column %s: %w", c.header, err)
		}
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	last, _ := excelize.ColumnNumberToName(len(columns))
	if err := f.SetCellStyle(SheetName, "A1", last+"1", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		vals := r.values()
		if err := f.SetSheetRow(SheetName, cell, &vals); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// WriteMonthWorkbook exports a loaded session and returns the number of
// data rows written.
func WriteMonthWorkbook(w io.Writer, s *grid.Session) (int, error) {
	rows, err := Rows(s)
	if err != nil {
		return 0, err
	}
	if err := WriteWorkbook(w, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
