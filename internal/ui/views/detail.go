package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"hwbook/internal/api"
	"hwbook/internal/models"
	"hwbook/internal/state"
	"hwbook/internal/timefmt"
	"hwbook/internal/today"
	"hwbook/internal/ui/keys"
	"hwbook/internal/ui/styles"
)

// BackToRegistry signals to go back to the batch grid.
type BackToRegistry struct{}

type detailLoadMsg struct {
	ev today.LoadEvent
}

type itemStatusMsg struct {
	ev today.StatusEvent
}

type batchCompleteMsg struct {
	ev today.CompleteEvent
}

type itemDeleteMsg struct {
	ev today.DeleteEvent
}

type batchUpdateMsg struct {
	ev   today.UpdateEvent
	note string
}

// countdownTickMsg re-renders the deadline line once a minute. The
// generation stops ticks scheduled for a batch the user already left.
type countdownTickMsg struct {
	gen int
}

// DetailView shows one batch: checklist, images, and completion flow
type DetailView struct {
	app        *state.App
	controller *today.Controller
	batchID    int64 // 0 = current batch
	styles     *styles.Styles
	keys       keys.KeyMap
	spinner    spinner.Model

	width  int
	height int
	cursor int

	tickGen int

	confirmingDelete bool
	deleteTargetID   int64

	settingDeadline bool
	deadlineInput   textinput.Model

	editingItem   bool
	editItemID    int64 // 0 = new item
	itemFocus     int   // 0 text, 1 concept, 2 subject (new items only)
	itemText      textinput.Model
	itemConcept   textinput.Model
	itemSubjectIx int
}

// NewDetailView creates a detail view. batchID zero shows the current
// batch ("today" shortcut).
func NewDetailView(app *state.App, batchID int64) *DetailView {
	s := styles.NewStyles()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Current.Primary)

	deadlineInput := textinput.New()
	deadlineInput.Placeholder = "2026-03-09 23:59"
	deadlineInput.CharLimit = 16

	itemText := textinput.New()
	itemText.Placeholder = "what needs doing"
	itemText.CharLimit = 200

	itemConcept := textinput.New()
	itemConcept.Placeholder = "key concept (optional)"
	itemConcept.CharLimit = 100

	return &DetailView{
		app:           app,
		controller:    today.New(app.Gateway(), app.Logger()),
		batchID:       batchID,
		styles:        s,
		keys:          keys.DefaultKeyMap(),
		spinner:       sp,
		deadlineInput: deadlineInput,
		itemText:      itemText,
		itemConcept:   itemConcept,
	}
}

func (v *DetailView) Init() tea.Cmd {
	return tea.Batch(v.spinner.Tick, v.load())
}

func (v *DetailView) load() tea.Cmd {
	run := v.controller.StartLoad(v.batchID)
	return func() tea.Msg {
		return detailLoadMsg{ev: run(context.Background())}
	}
}

func (v *DetailView) scheduleTick() tea.Cmd {
	gen := v.tickGen
	return tea.Tick(time.Minute, func(time.Time) tea.Msg {
		return countdownTickMsg{gen: gen}
	})
}

// visibleItems returns the checklist in display order, honoring the
// status filter.
func (v *DetailView) visibleItems() []models.Item {
	return v.controller.Visible()
}

// Update handles messages
func (v *DetailView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case detailLoadMsg:
		applied := v.controller.Apply(msg.ev)
		if n := len(v.visibleItems()); v.cursor >= n && n > 0 {
			v.cursor = n - 1
		}
		// once the batch is on screen a failed reload has no error page
		// to fall back to, so surface it as a toast instead
		if applied && msg.ev.Err != nil && v.controller.Loaded() {
			return v, toastError(msg.ev.Err)
		}
		var tick tea.Cmd
		if b := v.controller.Batch(); b != nil && b.DeadlineAt != nil {
			v.tickGen++
			tick = v.scheduleTick()
		}
		return v, tick

	case countdownTickMsg:
		if msg.gen != v.tickGen {
			return v, nil
		}
		return v, v.scheduleTick()

	case itemStatusMsg:
		if err := v.controller.ApplyStatus(msg.ev); err != nil {
			return v, toastError(err)
		}
		return v, nil

	case batchCompleteMsg:
		if err := v.controller.ApplyComplete(msg.ev); err != nil {
			return v, toastError(err)
		}
		return v, tea.Batch(toastInfo("batch completed"), v.load())

	case itemDeleteMsg:
		if err := v.controller.ApplyDelete(msg.ev); err != nil {
			return v, toastError(err)
		}
		if n := len(v.visibleItems()); v.cursor >= n && n > 0 {
			v.cursor = n - 1
		}
		return v, nil

	case batchUpdateMsg:
		if err := v.controller.ApplyUpdate(msg.ev); err != nil {
			return v, toastError(err)
		}
		// reload so server-reconciled items and ids replace the local view
		return v, tea.Batch(toastInfo(msg.note), v.load())

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if v.controller.ViewerOpen() {
			return v.updateViewer(msg)
		}
		if v.controller.CompletePrompt() {
			return v.updateCompletePrompt(msg)
		}
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.settingDeadline {
			return v.updateDeadline(msg)
		}
		if v.editingItem {
			return v.updateItemForm(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *DetailView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := v.visibleItems()

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		v.tickGen++
		return v, func() tea.Msg { return BackToRegistry{} }

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(items)-1 {
			v.cursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter), msg.String() == " ":
		if v.cursor < len(items) {
			run := v.controller.StartAdvance(items[v.cursor].ID)
			if run == nil {
				return v, nil
			}
			return v, func() tea.Msg { return itemStatusMsg{ev: run(context.Background())} }
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if v.cursor < len(items) {
			v.confirmingDelete = true
			v.deleteTargetID = items[v.cursor].ID
		}
		return v, nil

	case key.Matches(msg, v.keys.Edit):
		if b := v.controller.Batch(); b != nil && b.Status == models.BatchActive && v.cursor < len(items) {
			v.openItemForm(&items[v.cursor])
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		if b := v.controller.Batch(); b != nil && b.Status == models.BatchActive {
			v.openItemForm(nil)
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Filter):
		v.cycleItemFilter()
		v.cursor = 0
		return v, nil

	case key.Matches(msg, v.keys.Images):
		if len(v.controller.Images()) > 0 {
			v.controller.OpenViewer(0)
		}
		return v, nil

	case msg.String() == "D":
		if b := v.controller.Batch(); b != nil && b.Status == models.BatchActive {
			v.settingDeadline = true
			v.deadlineInput.Focus()
			if b.DeadlineAt != nil {
				v.deadlineInput.SetValue(b.DeadlineAt.Local().Format("2006-01-02 15:04"))
			}
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Refresh):
		return v, v.load()
	}

	return v, nil
}

func (v *DetailView) updateDeadline(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.settingDeadline = false
		v.deadlineInput.Blur()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		var deadline *time.Time
		if text := strings.TrimSpace(v.deadlineInput.Value()); text != "" {
			t, err := time.ParseInLocation("2006-01-02 15:04", text, time.Local)
			if err != nil {
				return v, toastError(&api.Error{
					Kind:    api.KindValidation,
					Message: "deadline must look like 2026-03-09 23:59",
				})
			}
			utc := t.UTC()
			deadline = &utc
		}
		v.settingDeadline = false
		v.deadlineInput.Blur()
		run := v.controller.StartDeadline(deadline)
		if run == nil {
			return v, nil
		}
		return v, func() tea.Msg { return batchUpdateMsg{ev: run(context.Background()), note: "deadline updated"} }
	}

	var cmd tea.Cmd
	v.deadlineInput, cmd = v.deadlineInput.Update(msg)
	return v, cmd
}

func (v *DetailView) cycleItemFilter() {
	switch v.controller.ItemFilter() {
	case "":
		v.controller.SetItemFilter(models.ItemTodo)
	case models.ItemTodo:
		v.controller.SetItemFilter(models.ItemDoing)
	case models.ItemDoing:
		v.controller.SetItemFilter(models.ItemDone)
	default:
		v.controller.SetItemFilter("")
	}
}

// openItemForm opens the editor for an existing item, or for a new one
// when item is nil.
func (v *DetailView) openItemForm(item *models.Item) {
	v.editingItem = true
	v.itemFocus = 0
	v.itemSubjectIx = 0

	if item == nil {
		v.editItemID = 0
		v.itemText.SetValue("")
		v.itemConcept.SetValue("")
	} else {
		v.editItemID = item.ID
		v.itemText.SetValue(item.Text)
		v.itemConcept.SetValue(item.KeyConcept)
	}
	v.updateItemFocus()
}

func (v *DetailView) updateItemFocus() {
	v.itemText.Blur()
	v.itemConcept.Blur()
	switch v.itemFocus {
	case 0:
		v.itemText.Focus()
	case 1:
		v.itemConcept.Focus()
	}
}

// itemFormFields is how many focus stops the form has: new items get a
// subject picker, existing items keep their subject.
func (v *DetailView) itemFormFields() int {
	if v.editItemID == 0 {
		return 3
	}
	return 2
}

func (v *DetailView) updateItemForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editingItem = false
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		n := v.itemFormFields()
		v.itemFocus = (v.itemFocus + 1) % n
		v.updateItemFocus()
		return v, nil

	case msg.String() == "shift+tab":
		n := v.itemFormFields()
		v.itemFocus = (v.itemFocus + n - 1) % n
		v.updateItemFocus()
		return v, nil

	case key.Matches(msg, v.keys.Left):
		if v.itemFocus == 2 {
			n := len(v.app.Subjects(context.Background()))
			v.itemSubjectIx = (v.itemSubjectIx - 1 + n) % n
			return v, nil
		}

	case key.Matches(msg, v.keys.Right):
		if v.itemFocus == 2 {
			n := len(v.app.Subjects(context.Background()))
			v.itemSubjectIx = (v.itemSubjectIx + 1) % n
			return v, nil
		}

	case key.Matches(msg, v.keys.Enter), msg.String() == "ctrl+s":
		return v.saveItemForm()
	}

	var cmd tea.Cmd
	switch v.itemFocus {
	case 0:
		v.itemText, cmd = v.itemText.Update(msg)
	case 1:
		v.itemConcept, cmd = v.itemConcept.Update(msg)
	}
	return v, cmd
}

func (v *DetailView) saveItemForm() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(v.itemText.Value())
	if text == "" {
		return v, toastError(&api.Error{
			Kind:    api.KindValidation,
			Message: "item text is required",
		})
	}
	concept := strings.TrimSpace(v.itemConcept.Value())
	v.editingItem = false

	var run func(context.Context) today.UpdateEvent
	note := "item saved"
	if v.editItemID == 0 {
		subjects := v.app.Subjects(context.Background())
		run = v.controller.StartAddItem(subjects[v.itemSubjectIx].ID, text, concept)
		note = "item added"
	} else {
		run = v.controller.StartEditItem(v.editItemID, text, concept)
	}
	if run == nil {
		return v, nil
	}
	return v, func() tea.Msg { return batchUpdateMsg{ev: run(context.Background()), note: note} }
}

func (v *DetailView) updateViewer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.controller.CloseViewer()
	case key.Matches(msg, v.keys.Left), key.Matches(msg, v.keys.Up):
		v.controller.ViewerPrev()
	case key.Matches(msg, v.keys.Right), key.Matches(msg, v.keys.Down):
		v.controller.ViewerNext()
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	}
	return v, nil
}

func (v *DetailView) updateCompletePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		run := v.controller.StartComplete()
		if run == nil {
			return v, nil
		}
		return v, func() tea.Msg { return batchCompleteMsg{ev: run(context.Background())} }
	case "n", "N", "esc":
		v.controller.DeclineComplete()
		// reload so the view matches what the server now believes
		return v, v.load()
	}
	return v, nil
}

func (v *DetailView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		run := v.controller.StartDelete(v.deleteTargetID)
		return v, func() tea.Msg { return itemDeleteMsg{ev: run(context.Background())} }
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

// View renders the view
func (v *DetailView) View() string {
	if v.controller.ViewerOpen() {
		return v.renderViewer()
	}

	if v.controller.CompletePrompt() {
		return v.renderCompletePrompt()
	}

	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.settingDeadline {
		return v.renderDeadlineForm()
	}

	if v.editingItem {
		return v.renderItemForm()
	}

	if !v.controller.Loaded() {
		if v.controller.Err() != "" {
			return v.renderError()
		}
		return v.styles.TitleMuted.Render(v.spinner.View() + " Loading...")
	}

	if v.controller.Empty() {
		return v.renderNoBatch()
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderChecklist())
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *DetailView) renderHeader() string {
	s := v.styles
	batch := v.controller.Batch()

	name := batch.Name
	if name == "" {
		name = batch.CreatedAt.Format("Jan 2")
	}
	title := s.Title.Render(name)

	badge := s.Badge.
		Foreground(lipgloss.Color(batch.Status.Color())).
		Render(batch.Status.Badge())

	lines := []string{lipgloss.JoinHorizontal(lipgloss.Center, title, " ", badge)}

	// minute-precision countdown here; the grid keeps calendar days
	if batch.DeadlineAt != nil {
		text, urgency := timefmt.Countdown(*batch.DeadlineAt, time.Now())
		lines = append(lines, lipgloss.NewStyle().
			Foreground(styles.UrgencyColor(urgency)).
			Render(text))
	}

	if n := len(v.controller.Images()); n > 0 {
		lines = append(lines, s.TitleMuted.Render(fmt.Sprintf("%d pages • press 'i' to view", n)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *DetailView) renderChecklist() string {
	s := v.styles

	if f := v.controller.ItemFilter(); f != "" {
		items := v.controller.Visible()
		return lipgloss.JoinVertical(lipgloss.Left,
			s.TitleMuted.Render(fmt.Sprintf("%s (%d) • 'f' cycles the filter", string(f), len(items))),
			v.renderItems(items, 0),
		)
	}

	if v.controller.AllDone() {
		return lipgloss.JoinVertical(lipgloss.Left,
			s.Title.Foreground(styles.Current.Success).Render("All done! 🎉"),
			"",
			s.TitleMuted.Render("Every item in this batch is finished."),
			"",
			v.renderItems(v.controller.Done(), len(v.controller.Todo())),
		)
	}

	todo := v.controller.Todo()
	done := v.controller.Done()

	sections := []string{
		s.TitleMuted.Render(fmt.Sprintf("To do (%d)", len(todo))),
		v.renderItems(todo, 0),
	}
	if len(done) > 0 {
		sections = append(sections,
			"",
			s.TitleMuted.Render(fmt.Sprintf("Done (%d)", len(done))),
			v.renderItems(done, len(todo)),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderItems renders one section of the checklist. offset is the index
// of the section's first row in the combined cursor space.
func (v *DetailView) renderItems(items []models.Item, offset int) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	width := clamp(contentWidth-6, 24, 90)

	var rows []string
	for i, it := range items {
		marker := "[ ]"
		switch it.Status {
		case models.ItemDoing:
			marker = "[~]"
		case models.ItemDone:
			marker = "[x]"
		}

		subject := lipgloss.NewStyle().
			Foreground(lipgloss.Color(it.Subject.Color)).
			Render(it.Subject.Name)

		text := it.Text
		if it.KeyConcept != "" {
			text += s.TitleMuted.Render("  (" + it.KeyConcept + ")")
		}
		if it.Status == models.ItemDone && it.StartedAt != nil {
			d := timefmt.Duration(*it.StartedAt, it.FinishedAt, time.Now())
			text += s.TitleMuted.Render("  " + d)
		}

		line := marker + " " + subject + " " + text
		rowStyle := s.ItemRow
		if it.Status == models.ItemDone {
			rowStyle = s.ItemDone
		}
		if offset+i == v.cursor {
			rowStyle = s.ListSelected
		}
		rows = append(rows, rowStyle.Width(width).Render(line))
	}
	if len(rows) == 0 {
		return s.TitleMuted.Render("  nothing here")
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *DetailView) renderViewer() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	imgs := v.controller.DisplayImages()
	img, ok := v.controller.ViewerImage()
	if !ok {
		return ""
	}

	pos := 0
	for i, candidate := range imgs {
		if candidate.ID == img.ID {
			pos = i + 1
			break
		}
	}

	kind := "homework"
	if img.ImageType == models.ImageReference {
		kind = "reference"
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render(fmt.Sprintf("Page %d of %d", pos, len(imgs))),
		"",
		s.TitleMuted.Render(img.FileName),
		s.TitleMuted.Render(kind),
		"",
		s.TitleMuted.Render("←/→ flip through pages • wraps around • esc close"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Popup.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *DetailView) renderCompletePrompt() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("Everything is done!"),
		"",
		s.TitleMuted.Render("Mark this batch as complete?"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - Not yet "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *DetailView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Item?"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *DetailView) renderDeadlineForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Deadline"),
		"",
		"When is this due? (local time, empty to clear):",
		s.InputFocused.Width(24).Render(v.deadlineInput.View()),
		"",
		s.TitleMuted.Render("↵: set • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *DetailView) renderItemForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	title := "Edit item"
	if v.editItemID == 0 {
		title = "New item"
	}

	lines := []string{
		s.Title.Render(title),
		"",
		"Task:",
		v.renderItemInput(v.itemText, v.itemFocus == 0),
		"",
		"Key concept:",
		v.renderItemInput(v.itemConcept, v.itemFocus == 1),
	}

	if v.editItemID == 0 {
		subjects := v.app.Subjects(context.Background())
		subject := subjects[v.itemSubjectIx]
		picker := lipgloss.NewStyle().
			Foreground(lipgloss.Color(subject.Color)).
			Render("◀ " + subject.Name + " ▶")
		if v.itemFocus != 2 {
			picker = s.TitleMuted.Render(subject.Name)
		}
		lines = append(lines, "", "Subject:", picker)
	}

	lines = append(lines, "",
		s.TitleMuted.Render("↵: save • Tab: next field • Esc: cancel"))

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *DetailView) renderItemInput(in textinput.Model, focused bool) string {
	style := v.styles.Input
	if focused {
		style = v.styles.InputFocused
	}
	return style.Width(44).Render(in.View())
}

func (v *DetailView) renderNoBatch() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("Nothing due today"),
		"",
		s.TitleMuted.Render("No active batch right now."),
		"",
		s.TitleMuted.Render("Press 'n' from the grid to upload one, or esc to go back."),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *DetailView) renderError() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Could not load batch"),
		"",
		s.TitleMuted.Render(v.controller.Err()),
		"",
		s.TitleMuted.Render("Press 'r' to retry, esc to go back"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *DetailView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("esc") + " back")
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s start/finish • %s edit • %s add • %s filter • %s images • %s delete • %s deadline • %s back",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("f"),
			v.styles.HelpKey.Render("i"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("D"),
			v.styles.HelpKey.Render("esc"),
		),
	)
}
