package styles

import (
	"github.com/charmbracelet/lipgloss"

	"hwbook/internal/timefmt"
)

// Theme represents a color scheme for the application
type Theme struct {
	Name string

	// Base colors
	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// UI element colors
	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
	Cursor      lipgloss.Color
}

// Notebook is the default color theme, warm paper tones for homework
var Notebook = Theme{
	Name: "Notebook",

	Background:    lipgloss.Color("#1c1917"),
	Foreground:    lipgloss.Color("#e7e5e4"),
	ForegroundDim: lipgloss.Color("#78716c"),

	Primary:   lipgloss.Color("#f59e0b"),
	Secondary: lipgloss.Color("#34d399"),
	Accent:    lipgloss.Color("#60a5fa"),

	Success: lipgloss.Color("#34d399"),
	Warning: lipgloss.Color("#fbbf24"),
	Error:   lipgloss.Color("#f87171"),
	Info:    lipgloss.Color("#60a5fa"),

	Border:      lipgloss.Color("#44403c"),
	BorderFocus: lipgloss.Color("#f59e0b"),
	Selection:   lipgloss.Color("#44403c"),
	Cursor:      lipgloss.Color("#e7e5e4"),
}

// Current holds the active theme
var Current = Notebook

// MaxWidth is the maximum content width for the app
const MaxWidth = 120

// ContentWidth returns the actual content width to use (min of terminal width and MaxWidth)
func ContentWidth(terminalWidth int) int {
	if terminalWidth > MaxWidth {
		return MaxWidth
	}
	return terminalWidth
}

// CenterView wraps content and centers it horizontally if terminal is wider than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// UrgencyColor maps a deadline urgency tier to its display color.
func UrgencyColor(u timefmt.Urgency) lipgloss.Color {
	switch u {
	case timefmt.UrgencyOverdue:
		return Current.Error
	case timefmt.UrgencyUrgent:
		return Current.Warning
	case timefmt.UrgencyElevated:
		return Current.Primary
	}
	return Current.ForegroundDim
}

// Styles holds all the pre-computed styles for the UI
type Styles struct {
	// App container
	App lipgloss.Style

	// Titles
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	// Selected rows in option lists
	ListSelected lipgloss.Style

	// Batch cards in the registry grid
	Card        lipgloss.Style
	CardFocused lipgloss.Style
	CardTitle   lipgloss.Style
	CardMeta    lipgloss.Style
	Badge       lipgloss.Style

	// Buttons
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonPrimary lipgloss.Style

	// Item checklist
	ItemRow  lipgloss.Style
	ItemDone lipgloss.Style
	Subject  lipgloss.Style

	// Input fields
	Input        lipgloss.Style
	InputFocused lipgloss.Style

	// Popups
	Popup lipgloss.Style

	// Toast line
	Toast      lipgloss.Style
	ToastError lipgloss.Style

	// Help text
	Help    lipgloss.Style
	HelpKey lipgloss.Style
}

// NewStyles creates styles based on the current theme
func NewStyles() *Styles {
	t := Current

	return &Styles{
		App: lipgloss.NewStyle().
			Background(t.Background).
			Foreground(t.Foreground),

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		ListSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 2).
			Bold(true),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		CardFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		CardTitle: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Bold(true),

		CardMeta: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		Badge: lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true),

		Button: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(t.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 2).
			Bold(true),

		ButtonPrimary: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Padding(0, 2).
			Bold(true),

		ItemRow: lipgloss.NewStyle().
			Padding(0, 1),

		ItemDone: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Strikethrough(true).
			Padding(0, 1),

		Subject: lipgloss.NewStyle().
			Padding(0, 1).
			MarginRight(1),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		Popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(1, 2),

		Toast: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Success).
			Padding(0, 1),

		ToastError: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Error).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),
	}
}
