package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Color styles for terminal output
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	primaryStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
)

var out io.Writer = os.Stdout

// SetOutput redirects all printing. A nil writer restores stdout.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	out = w
}

// Writer returns the current output writer.
func Writer() io.Writer {
	return out
}

// Success prints a success message
func Success(format string, args ...any) {
	_, _ = fmt.Fprint(out, successStyle.Render("✓ "))
	_, _ = fmt.Fprintf(out, format+"\n", args...)
}

// Warning prints a warning message
func Warning(format string, args ...any) {
	_, _ = fmt.Fprint(out, warningStyle.Render("⚠ "))
	_, _ = fmt.Fprintf(out, format+"\n", args...)
}

// Error prints an error message
func Error(format string, args ...any) {
	_, _ = fmt.Fprint(out, errorStyle.Render("✗ "))
	_, _ = fmt.Fprintf(out, format+"\n", args...)
}

// Info prints an info message
func Info(format string, args ...any) {
	_, _ = fmt.Fprint(out, infoStyle.Render("ℹ "))
	_, _ = fmt.Fprintf(out, format+"\n", args...)
}

// Muted prints a muted message
func Muted(format string, args ...any) {
	_, _ = fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// Primary prints a primary message
func Primary(format string, args ...any) {
	_, _ = fmt.Fprintln(out, primaryStyle.Render(fmt.Sprintf(format, args...)))
}

// Section prints a section header
func Section(title string) {
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, primaryStyle.Render(title))
	_, _ = fmt.Fprintln(out, mutedStyle.Render(strings.Repeat("═", lipgloss.Width(title))))
	_, _ = fmt.Fprintln(out)
}

// JSON prints v as indented JSON.
func JSON(v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// StatusIcon returns a colored icon for an order status
func StatusIcon(status string) string {
	switch status {
	case "Delivered":
		return successStyle.Render("✓")
	case "Processing":
		return warningStyle.Render("○")
	case "Cancelled":
		return errorStyle.Render("✗")
	case "Shipped":
		return infoStyle.Render("◉")
	default:
		return mutedStyle.Render("•")
	}
}

// Flag renders a boolean as a colored yes/no.
func Flag(b bool) string {
	if b {
		return successStyle.Render("yes")
	}
	return mutedStyle.Render("no")
}

// Money formats an amount with two decimals.
func Money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
