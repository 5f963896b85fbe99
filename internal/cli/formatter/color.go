package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/turnity/turnity/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)

	// StyleCursor marks the focused grid cell.
	StyleCursor = lipgloss.NewStyle().Foreground(ColorFg).Background(ColorHeader).Bold(true)
)

// HoursColor returns the style for a weekly total against its target:
// red when hours are missing, yellow when over, green when complete.
func HoursColor(status domain.HoursStatus) lipgloss.Style {
	switch status {
	case domain.HoursMissing:
		return StyleRed
	case domain.HoursExcess:
		return StyleYellow
	case domain.HoursComplete:
		return StyleGreen
	default:
		return StyleDim
	}
}

// SeverityColor returns the style for an incident severity.
func SeverityColor(sev domain.Severity) lipgloss.Style {
	if sev == domain.SeverityWarning {
		return StyleYellow
	}
	return StyleRed
}

// SeverityIndicator returns a colored marker such as "● ERROR".
func SeverityIndicator(sev domain.Severity) string {
	switch sev {
	case domain.SeverityWarning:
		return StyleYellow.Render("● WARNING")
	case domain.SeverityError:
		return StyleRed.Render("● ERROR")
	default:
		return StyleDim.Render("● " + strings.ToUpper(string(sev)))
	}
}

// CellStyle picks the style for a grid cell label.
func CellStyle(shift domain.AssignedShift, assigned bool) lipgloss.Style {
	if !assigned {
		return StyleDim
	}
	switch shift.Kind {
	case domain.KindSpecialLeave:
		return StylePurple
	case domain.KindTimed:
		return StyleBlue
	default:
		return StyleDim
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
