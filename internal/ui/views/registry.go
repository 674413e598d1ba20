package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"hwbook/internal/models"
	"hwbook/internal/registry"
	"hwbook/internal/state"
	"hwbook/internal/timefmt"
	"hwbook/internal/ui/keys"
	"hwbook/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// SelectedBatch signals that a batch should open in the detail view.
type SelectedBatch struct {
	BatchID int64
}

// OpenToday signals the shortcut to the current batch.
type OpenToday struct{}

// OpenUpload signals that a new upload flow should start.
type OpenUpload struct{}

type pageMsg struct {
	ev registry.PageEvent
}

// RegistryView shows the batch grid with infinite scroll
type RegistryView struct {
	app        *state.App
	controller *registry.Controller
	styles     *styles.Styles
	keys       keys.KeyMap
	spinner    spinner.Model

	width  int
	height int
	cursor int

	showHelpPopup bool
}

// NewRegistryView creates the grid over a fresh controller
func NewRegistryView(app *state.App) *RegistryView {
	s := styles.NewStyles()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Current.Primary)

	return &RegistryView{
		app:        app,
		controller: registry.New(app.Gateway(), registry.SizeMedium, app.Logger()),
		styles:     s,
		keys:       keys.DefaultKeyMap(),
		spinner:    sp,
	}
}

func (v *RegistryView) Init() tea.Cmd {
	return tea.Batch(v.spinner.Tick, v.loadInitial())
}

func (v *RegistryView) loadInitial() tea.Cmd {
	run := v.controller.StartInitial()
	return func() tea.Msg {
		return pageMsg{ev: run(context.Background())}
	}
}

func (v *RegistryView) loadMore() tea.Cmd {
	run := v.controller.StartMore()
	if run == nil {
		return nil
	}
	return func() tea.Msg {
		return pageMsg{ev: run(context.Background())}
	}
}

// Update handles messages
func (v *RegistryView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.controller.SetSize(registry.SizeFor(styles.ContentWidth(msg.Width)))
		return v, nil

	case pageMsg:
		applied := v.controller.Apply(msg.ev)
		if n := len(v.controller.Visible()); v.cursor >= n && n > 0 {
			v.cursor = n - 1
		}
		// once the grid is on screen a failed refresh has no error page
		// to fall back to, so surface it as a toast instead
		if applied && msg.ev.Err != nil && v.controller.Loaded() {
			return v, toastError(msg.ev.Err)
		}
		return v, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *RegistryView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := v.controller.Size().Columns()
	n := len(v.controller.Visible())

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Up):
		if v.cursor-cols >= 0 {
			v.cursor -= cols
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor+cols < n {
			v.cursor += cols
		}
		return v, v.maybeLoadMore()

	case key.Matches(msg, v.keys.Left):
		if v.cursor > 0 {
			v.cursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Right):
		if v.cursor < n-1 {
			v.cursor++
		}
		return v, v.maybeLoadMore()

	case key.Matches(msg, v.keys.Enter):
		if batches := v.controller.Visible(); v.cursor < len(batches) {
			id := batches[v.cursor].ID
			return v, func() tea.Msg { return SelectedBatch{BatchID: id} }
		}
		return v, nil

	case key.Matches(msg, v.keys.Today):
		return v, func() tea.Msg { return OpenToday{} }

	case key.Matches(msg, v.keys.New):
		return v, func() tea.Msg { return OpenUpload{} }

	case key.Matches(msg, v.keys.Refresh):
		v.cursor = 0
		return v, v.loadInitial()

	case key.Matches(msg, v.keys.Filter):
		v.cycleFilter()
		v.cursor = 0
		return v, nil

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

func (v *RegistryView) cycleFilter() {
	switch v.controller.Filter() {
	case "":
		v.controller.SetFilter(models.BatchActive)
	case models.BatchActive:
		v.controller.SetFilter(models.BatchCompleted)
	default:
		v.controller.SetFilter("")
	}
}

// maybeLoadMore requests the next page when the cursor is close to the
// bottom of the grid.
func (v *RegistryView) maybeLoadMore() tea.Cmd {
	cols := v.controller.Size().Columns()
	n := len(v.controller.Visible())
	if n == 0 {
		return nil
	}
	totalRows := (n + cols - 1) / cols
	cursorRow := v.cursor/cols + 1
	if v.controller.NearBottom(cursorRow, totalRows) {
		return v.loadMore()
	}
	return nil
}

// View renders the view
func (v *RegistryView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if !v.controller.Loaded() {
		if v.controller.Err() != "" {
			return v.renderError()
		}
		return v.styles.TitleMuted.Render(v.spinner.View() + " Loading...")
	}

	batches := v.controller.Visible()
	if len(batches) == 0 {
		return v.renderEmpty()
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderGrid(batches))
	if v.controller.Loading() {
		b.WriteString("\n")
		b.WriteString(v.styles.TitleMuted.Render(v.spinner.View() + " loading more"))
	}
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *RegistryView) renderHeader() string {
	s := v.styles
	title := s.Title.Render("Homework")

	filterLabel := "All"
	switch v.controller.Filter() {
	case models.BatchActive:
		filterLabel = "Active"
	case models.BatchCompleted:
		filterLabel = "Completed"
	}
	filter := s.TitleMuted.Render("filter: " + filterLabel)

	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", filter)
}

func (v *RegistryView) renderGrid(batches []models.Batch) string {
	cols := v.controller.Size().Columns()
	contentWidth := styles.ContentWidth(v.width)
	cardWidth := clamp(contentWidth/cols-2, 18, 40)

	var rows []string
	for start := 0; start < len(batches); start += cols {
		end := start + cols
		if end > len(batches) {
			end = len(batches)
		}
		var cards []string
		for i := start; i < end; i++ {
			cards = append(cards, v.renderCard(batches[i], cardWidth, i == v.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *RegistryView) renderCard(batch models.Batch, width int, selected bool) string {
	s := v.styles

	cardStyle := s.Card
	if selected {
		cardStyle = s.CardFocused
	}

	badge := s.Badge.
		Foreground(lipgloss.Color(batch.Status.Color())).
		Render(batch.Status.Badge())

	name := batch.Name
	if name == "" {
		name = batch.CreatedAt.Format("Jan 2")
	}
	title := s.CardTitle.Render(truncate(name, width-2))

	// deadline label works in calendar days here; the detail view does
	// the minute-precision countdown
	deadlineLine := s.CardMeta.Render("no deadline")
	if batch.DeadlineAt != nil {
		label := timefmt.DayLabel(*batch.DeadlineAt, time.Now())
		_, urgency := timefmt.Deadline(*batch.DeadlineAt, time.Now())
		deadlineLine = lipgloss.NewStyle().
			Foreground(styles.UrgencyColor(urgency)).
			Render("due " + label)
	}

	progress := s.CardMeta.Render(fmt.Sprintf("%d items", len(batch.Items)))
	if len(batch.Items) > 0 {
		progress = s.CardMeta.Render(fmt.Sprintf("%d/%d done", batch.DoneCount(), len(batch.Items)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Center, title),
		badge,
		deadlineLine,
		progress,
	)
	return cardStyle.Width(width).Render(content)
}

func truncate(text string, width int) string {
	if width < 4 {
		width = 4
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	return string(runes[:width-1]) + "…"
}

func (v *RegistryView) renderEmpty() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	var lines []string
	if v.controller.Filter() != "" {
		lines = []string{
			s.Title.Render("Nothing here"),
			"",
			s.TitleMuted.Render("No batches match this filter. Press 'f' to change it."),
		}
	} else {
		lines = []string{
			s.Title.Render("No homework yet"),
			"",
			s.TitleMuted.Render("Press 'n' to photograph and upload your first batch"),
			"",
			s.ButtonPrimary.Render(" New Upload "),
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *RegistryView) renderError() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Could not load batches"),
		"",
		s.TitleMuted.Render(v.controller.Err()),
		"",
		s.TitleMuted.Render("Press 'r' to retry"),
	)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *RegistryView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s open • %s today • %s new • %s filter • %s refresh • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("t"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("f"),
			v.styles.HelpKey.Render("r"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *RegistryView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("↵") + "      open batch",
		s.HelpKey.Render("t") + "      today's batch",
		s.HelpKey.Render("n") + "      new upload",
		s.HelpKey.Render("f") + "      cycle status filter",
		s.HelpKey.Render("r") + "      refresh",
		s.HelpKey.Render("q") + "      quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Popup.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}
