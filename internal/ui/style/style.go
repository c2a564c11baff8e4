// Package style holds the palette and icons shared by the logger, the
// progress renderer and the text report.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Orange = lipgloss.Color("#EA580C")
	Yellow = lipgloss.Color("#F59E0B")
	Blue   = lipgloss.Color("#2563EB")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
)

// SeverityColor maps a CVSS severity name to its display color.
// Unknown names and "none" render in Slate.
func SeverityColor(severity string) lipgloss.Color {
	switch severity {
	case "critical":
		return Red
	case "high":
		return Orange
	case "medium":
		return Yellow
	case "low":
		return Blue
	default:
		return Slate
	}
}
