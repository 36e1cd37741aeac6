// Package interactive implements the bubbletea TUI for resolving
// conflicts and selecting extend templates/answers, plus the plain-text
// styling its prompts and the CLI's own summaries print through.
package interactive

import "github.com/charmbracelet/lipgloss"

var disabled bool

// The style vocabulary is named for what dollie's output actually does
// with color, not for the raw palette: a conflict's two sides (Warn for
// former, Success for current, matching the resolve prompt's own f/c
// legend), a run's header and muted chrome, and Danger for anything that
// needs to stand out as broken. Grounded on the teacher's lipgloss style
// table (internal/ui/styles.go), which names its styles after the colors
// themselves (Green/Red/Cyan/...); dollie's screen time is dominated by
// the former/current split, so the names here track that instead.
var (
	boldStyle    = lipgloss.NewStyle().Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	dangerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func renderStyle(style lipgloss.Style, s string) string {
	if disabled {
		return s
	}
	return style.Render(s)
}

func Bold(s string) string    { return renderStyle(boldStyle, s) }
func Header(s string) string  { return renderStyle(headerStyle, s) }
func Success(s string) string { return renderStyle(successStyle, s) }
func Danger(s string) string  { return renderStyle(dangerStyle, s) }
func Warn(s string) string    { return renderStyle(warnStyle, s) }
func Muted(s string) string   { return renderStyle(mutedStyle, s) }

// DisableColor forces every render function above to return plain text.
// newNewCmd and newResolveCmd call this directly from their --no-color
// flag, ahead of anything they print, rather than threading a disabled
// bool through every call site.
func DisableColor() { disabled = true }

// ResetColor re-enables styling after DisableColor.
func ResetColor() { disabled = false }
