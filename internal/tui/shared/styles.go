// Package shared holds the styles, formatting helpers and messages used by
// the terminal front-end.
package shared

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Exported constants.
const (
	// DefaultPadding is the default padding for UI elements
	DefaultPadding = 2
	// ProgressBarWidth is the default width of progress bars
	ProgressBarWidth = 40
	// MaxProgressBarWidth is the maximum width for progress bars
	MaxProgressBarWidth = 100
	// ProgressPercentageScale is the scale for percentage calculations (100 for percentages)
	ProgressPercentageScale = 100
	// TickIntervalMs is the interval for tick messages in milliseconds
	TickIntervalMs = 250

	// KeyCtrlC is the key binding for cancellation
	KeyCtrlC = "ctrl+c"
	// KeyEsc aborts a prompt
	KeyEsc = "esc"
	// KeyEnter confirms a prompt
	KeyEnter = "enter"
	// PromptArrow is the arrow character used in prompts
	PromptArrow = "▶ "
)

// colorsDisabled and unicodeDisabled follow NO_COLOR (https://no-color.org)
// and TERM=dumb.
//
//nolint:gochecknoglobals // read once from the environment
var (
	colorsDisabled  = os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb"
	unicodeDisabled = os.Getenv("TERM") == "dumb"
)

// ColorsDisabled reports whether output is monochrome.
func ColorsDisabled() bool {
	return colorsDisabled
}

func color(code string) lipgloss.TerminalColor {
	if colorsDisabled {
		return lipgloss.NoColor{}
	}

	return lipgloss.Color(code)
}

func AccentColor() lipgloss.TerminalColor { return color(accentColorCode) }

func DimColor() lipgloss.TerminalColor { return color(dimColorCode) }

func ErrorColor() lipgloss.TerminalColor { return color(errorColorCode) }

func HighlightColor() lipgloss.TerminalColor { return color(highlightColorCode) }

// PrimaryColor returns the primary color for the UI
func PrimaryColor() lipgloss.TerminalColor { return color(primaryColorCode) }

func SuccessColor() lipgloss.TerminalColor { return color(successColorCode) }

func WarningColor() lipgloss.TerminalColor { return color(warningColorCode) }

// BoxStyle returns the style for boxes with padding
func BoxStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(AccentColor()).
		Padding(0, DefaultPadding)
}

// DimStyle returns the style for dimmed text
func DimStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(DimColor())
}

// ErrorStyle returns the style for error messages
func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ErrorColor()).Bold(!colorsDisabled)
}

// LabelStyle returns the style for labels
func LabelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(HighlightColor()).Bold(!colorsDisabled)
}

// SuccessStyle returns the style for success messages
func SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(SuccessColor()).Bold(!colorsDisabled)
}

// TitleStyle returns the style for titles
func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(!colorsDisabled).Foreground(PrimaryColor()).MarginBottom(1)
}

// WarningStyle returns the style for warning messages
func WarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(WarningColor())
}

// RenderBox renders content in a box with consistent styling
func RenderBox(content string) string {
	return BoxStyle().Render(content)
}

// RenderDim renders dimmed text with consistent styling
func RenderDim(text string) string {
	return DimStyle().Render(text)
}

// RenderError renders an error message with consistent styling
func RenderError(text string) string {
	return ErrorStyle().Render(text)
}

// RenderLabel renders a label with consistent styling
func RenderLabel(text string) string {
	return LabelStyle().Render(text)
}

// RenderSuccess renders a success message with consistent styling
func RenderSuccess(text string) string {
	return SuccessStyle().Render(text)
}

// RenderTitle renders a title with consistent styling
func RenderTitle(text string) string {
	return TitleStyle().Render(text)
}

// RenderWarning renders a warning message with consistent styling
func RenderWarning(text string) string {
	return WarningStyle().Render(text)
}

// SuccessSymbol returns a check mark with ASCII fallback
func SuccessSymbol() string {
	if unicodeDisabled {
		return "[ok]"
	}

	return "✓"
}

// ErrorSymbol returns a cross with ASCII fallback
func ErrorSymbol() string {
	if unicodeDisabled {
		return "[x]"
	}

	return "✗"
}

// SkipSymbol returns a skip arrow with ASCII fallback
func SkipSymbol() string {
	if unicodeDisabled {
		return "[-]"
	}

	return "↷"
}

// WarningSymbol returns a warning sign with ASCII fallback
func WarningSymbol() string {
	if unicodeDisabled {
		return "[!]"
	}

	return "⚠"
}

// unexported constants.
const (
	accentColorCode    = "62"  // Blue
	dimColorCode       = "240" // Dark gray
	errorColorCode     = "196" // Red
	highlightColorCode = "86"  // Cyan
	primaryColorCode   = "205" // Pink/purple
	successColorCode   = "42"  // Green
	warningColorCode   = "226"
)
