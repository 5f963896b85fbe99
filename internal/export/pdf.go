package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/turnity/turnity/internal/domain"
	"github.com/turnity/turnity/internal/grid"
)

// Page geometry for an A4 landscape report, in millimetres.
const (
	pageMargin   = 10.0
	weekColWidth = 25.0
	dayColWidth  = 36.0
	headRowH     = 8.0
	weekRowH     = 19.0
	lineH        = 3.5
	tableTop     = 62.0
)

var (
	corporate = [3]int{0, 63, 114}
	grey      = [3]int{80, 80, 80}
	lightGrey = [3]int{200, 200, 200}
	dayBand   = [3]int{230, 240, 255}
	freeFill  = [3]int{240, 240, 240}
)

var weekdayHeads = []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}

var monthNames = []string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

const footerNote = "Este documento es informativo y está sujeto a cambios según las necesidades operativas."

// WriteMonthPDF prints a loaded session as a landscape A4 document with one
// page per roster employee: header, employee line and a calendar of the
// month's weeks. printed stamps the header. It returns the page count.
func WriteMonthPDF(w io.Writer, s *grid.Session, printed time.Time) (int, error) {
	if err := s.Loaded(); err != nil {
		return 0, err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(printed)
	pdf.SetTitle("Reporte de turnos "+s.MonthLabel(), true)
	pdf.SetCreator("turnity", true)

	r := &pdfReport{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), s: s, printed: printed}
	employees := s.Employees()
	if len(employees) == 0 {
		r.page(0)
		r.text(14, 46, "helvetica", "", 10, grey, "No hay empleados en este departamento.")
	}
	for i, emp := range employees {
		r.page(i + 1)
		r.employee(emp)
		r.calendar(emp)
	}

	if err := pdf.Output(w); err != nil {
		return 0, fmt.Errorf("writing pdf: %w", err)
	}
	return pdf.PageCount(), nil
}

type pdfReport struct {
	pdf     *fpdf.Fpdf
	tr      func(string) string
	s       *grid.Session
	printed time.Time
}

func (r *pdfReport) color(c [3]int) { r.pdf.SetTextColor(c[0], c[1], c[2]) }
func (r *pdfReport) fill(c [3]int)  { r.pdf.SetFillColor(c[0], c[1], c[2]) }
func (r *pdfReport) draw(c [3]int)  { r.pdf.SetDrawColor(c[0], c[1], c[2]) }

// text writes a single line with its baseline at y. x < 0 right-aligns
// against the right margin; x == 0 centres on the page.
func (r *pdfReport) text(x, y float64, family, style string, size float64, c [3]int, s string) {
	r.pdf.SetFont(family, style, size)
	r.color(c)
	s = r.tr(s)
	pageW, _ := r.pdf.GetPageSize()
	width := r.pdf.GetStringWidth(s)
	switch {
	case x == 0:
		x = (pageW - width) / 2
	case x < 0:
		x = pageW - pageMargin - width
	}
	r.pdf.Text(x, y, s)
}

func (r *pdfReport) rule(y, lw float64, c [3]int) {
	pageW, _ := r.pdf.GetPageSize()
	r.pdf.SetLineWidth(lw)
	r.draw(c)
	r.pdf.Line(pageMargin, y, pageW-pageMargin, y)
}

func (r *pdfReport) page(n int) {
	r.pdf.AddPage()
	scope := r.s.Scope()
	ref := r.s.Reference()

	r.text(0, 15, "helvetica", "B", 16, corporate, "REPORTE DE TURNOS")
	r.text(-1, 10, "helvetica", "", 10, grey, "Fecha: "+r.printed.Format("02/01/2006 15:04"))
	if n > 0 {
		r.text(-1, 15, "helvetica", "", 10, grey, fmt.Sprintf("Página: %d", n))
	}
	r.text(0, 25, "helvetica", "B", 11, corporate, fmt.Sprintf("Tienda: %s | Departamento: %s | Mes: %s %d",
		scope.Store.Name, scope.Department.Name, monthNames[ref.Month()-1], ref.Year()))
	r.rule(30, 0.5, corporate)

	_, pageH := r.pdf.GetPageSize()
	r.rule(pageH-20, 0.3, lightGrey)
	r.text(0, pageH-15, "helvetica", "I", 8, [3]int{120, 120, 120}, footerNote)
}

func (r *pdfReport) employee(emp domain.EmployeeRef) {
	r.text(14, 38, "helvetica", "B", 11, corporate, "INFORMACIÓN DEL EMPLEADO")
	r.text(14, 46, "helvetica", "", 10, grey, fmt.Sprintf("Nombre: %s | Documento: %s | Cargo: %s | Jornada laboral: %g horas",
		orNA(emp.FullName), orNA(emp.ID), orNA(emp.Position), emp.ContractedWeeklyHours))
	r.rule(50, 0.3, lightGrey)
	r.text(14, 58, "helvetica", "B", 11, corporate, "TURNOS ASIGNADOS")
}

func (r *pdfReport) calendar(emp domain.EmployeeRef) {
	pdf := r.pdf
	pdf.SetLineWidth(0.1)
	r.draw(lightGrey)

	// Head row.
	pdf.SetXY(pageMargin, tableTop)
	pdf.SetFont("helvetica", "B", 8)
	r.fill(corporate)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(weekColWidth, headRowH, r.tr("Semana / Jornada"), "1", 0, "CM", true, 0, "")
	for _, h := range weekdayHeads {
		pdf.CellFormat(dayColWidth, headRowH, r.tr(h), "1", 0, "CM", true, 0, "")
	}

	y := tableTop + headRowH
	for i, wk := range r.s.Weeks() {
		pdf.Rect(pageMargin, y, weekColWidth, weekRowH, "D")
		pdf.SetFont("helvetica", "B", 8)
		r.color(corporate)
		pdf.SetXY(pageMargin, y+weekRowH/2-lineH)
		pdf.CellFormat(weekColWidth, lineH, fmt.Sprintf("Semana %d", i+1), "", 2, "C", false, 0, "")
		pdf.SetFont("helvetica", "", 8)
		pdf.CellFormat(weekColWidth, lineH, fmt.Sprintf("(%g horas)", r.s.ContractedHours(emp, i)), "", 0, "C", false, 0, "")

		for col := range weekdayHeads {
			x := pageMargin + weekColWidth + float64(col)*dayColWidth
			pdf.Rect(x, y, dayColWidth, weekRowH, "D")
		}
		for _, d := range wk.Days() {
			col := (int(d.Weekday()) + 6) % 7
			r.dayCell(pageMargin+weekColWidth+float64(col)*dayColWidth, y, emp, d)
		}
		y += weekRowH
	}
}

// dayCell fills one calendar cell: a band with the day of month, then the
// assignment.
func (r *pdfReport) dayCell(x, y float64, emp domain.EmployeeRef, d time.Time) {
	pdf := r.pdf
	r.fill(dayBand)
	pdf.Rect(x, y, dayColWidth, 5, "F")
	r.mark(x+2, y+3.8, "B", 9, corporate, fmt.Sprintf("%d", d.Day()))

	shift, ok := r.s.Cell(emp.ID, d)
	if !ok || shift.Kind == domain.KindRest {
		r.banner(x, y, "LIBRE", [3]int{0, 128, 0})
		return
	}
	switch shift.Kind {
	case domain.KindSpecialLeave:
		r.banner(x, y, shift.Leave.Token(), leaveColor(shift.Leave))
	case domain.KindTimed:
		def := shift.Shift
		if def == nil {
			r.banner(x, y, shift.Label(), grey)
			return
		}
		start := domain.ClockHHMM(def.StartTime)
		end := domain.ClockHHMM(domain.CoalesceStr(def.EndTime, domain.EndClock(def.StartTime, shift.HoursBucket)))
		lines := []string{
			fmt.Sprintf("Turno: %s (%d horas)", def.Code, shift.HoursBucket),
			fmt.Sprintf("Inicio: %s  Fin: %s", start, end),
			"Descanso: " + domain.CoalesceStr(shift.Break, "-"),
		}
		pdf.SetFont("helvetica", "", 7.5)
		r.color(grey)
		for i, l := range lines {
			pdf.SetXY(x+1, y+6+float64(i)*lineH)
			pdf.CellFormat(dayColWidth-2, lineH, r.tr(l), "", 0, "L", false, 0, "")
		}
	}
}

// mark writes at an absolute position without alignment.
func (r *pdfReport) mark(x, y float64, style string, size float64, c [3]int, s string) {
	r.pdf.SetFont("helvetica", style, size)
	r.color(c)
	r.pdf.Text(x, y, r.tr(s))
}

// banner shades the cell below the day band and centres label in it.
func (r *pdfReport) banner(x, y float64, label string, c [3]int) {
	pdf := r.pdf
	r.fill(freeFill)
	pdf.Rect(x, y+5, dayColWidth, weekRowH-5, "F")
	pdf.SetFont("helvetica", "B", 9)
	r.color(c)
	pdf.SetXY(x, y+5)
	pdf.CellFormat(dayColWidth, weekRowH-5, r.tr(label), "", 0, "CM", false, 0, "")
}

func leaveColor(l domain.SpecialLeave) [3]int {
	switch l {
	case domain.LeaveVacation:
		return [3]int{0, 102, 204}
	case domain.LeaveDisability:
		return [3]int{204, 0, 0}
	default:
		return [3]int{102, 0, 102}
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
