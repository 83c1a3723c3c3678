// Package colorize provides terminal styling for the runtime inspection
// CLI. One style per output role, so tables and traces read consistently.
package colorize

import "github.com/charmbracelet/lipgloss"

// Theme colors, IDA-style: yellow labels, pink numbers, gray detail.
const (
	colorHeader  = "#569CD6" // Blue for section headers
	colorLabel   = "#FFC800" // Yellow for symbol names and addresses
	colorTag     = "#FFB4C8" // Light pink for hashtags
	colorDetail  = "#B4B4B4" // Light gray for detail text
	colorBorder  = "#505050" // Dark gray for borders
	colorError   = "#FF80C0" // Pink for errors
	colorOK      = "#00FF00" // Green for passing checks
	colorComment = "#FF8000" // Orange for comments
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(colorHeader)).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorLabel))
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(colorTag))
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(colorDetail))
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(colorBorder))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorError))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(colorOK))
	commentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorComment))
)
