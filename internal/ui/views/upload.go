package views

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"hwbook/internal/api"
	"hwbook/internal/models"
	"hwbook/internal/pipeline"
	"hwbook/internal/state"
	"hwbook/internal/ui/keys"
	"hwbook/internal/ui/styles"
)

// BatchCommitted signals that the upload flow finished and the registry
// should refresh.
type BatchCommitted struct {
	BatchID int64
}

type uploadEventMsg struct {
	ev pipeline.UploadEvent
}

type parseEventMsg struct {
	ev pipeline.ParseEvent
}

type toggleEventMsg struct {
	ev pipeline.ToggleEvent
}

type imageDeleteMsg struct {
	ev pipeline.DeleteImageEvent
}

type confirmEventMsg struct {
	ev pipeline.ConfirmEvent
}

// progressTickMsg animates the simulated progress bar
type progressTickMsg struct {
	gen int
}

// editorFocus is the field under the cursor in the item form
type editorFocus int

const (
	focusText editorFocus = iota
	focusConcept
	focusSubject
	focusSave
)

// UploadView walks the upload pipeline: pick files, watch recognition,
// review and edit the draft, confirm
type UploadView struct {
	app    *state.App
	styles *styles.Styles
	keys   keys.KeyMap
	bar    progress.Model

	width  int
	height int

	// file entry
	pathInput textinput.Model

	// progress animation
	progGen   int
	startedAt time.Time

	// draft review
	cursor     int
	imagesMode bool
	imgCursor  int

	// item form
	editing       bool
	editingID     string // empty for a new item
	editText      textarea.Model
	editConcept   textinput.Model
	editSubjectIx int
	editFocus     editorFocus

	// deadline form
	settingDeadline bool
	deadlineInput   textinput.Model
}

// NewUploadView creates the upload flow over the session's pipeline slot
func NewUploadView(app *state.App) *UploadView {
	s := styles.NewStyles()

	pathInput := textinput.New()
	pathInput.Placeholder = "photos/*.jpg scan.png ..."
	pathInput.CharLimit = 500
	pathInput.Focus()

	editText := textarea.New()
	editText.Placeholder = "What needs doing?"
	editText.CharLimit = 500
	editText.SetWidth(50)
	editText.SetHeight(3)
	editText.ShowLineNumbers = false

	editConcept := textinput.New()
	editConcept.Placeholder = "Key concept (optional)"
	editConcept.CharLimit = 100

	deadlineInput := textinput.New()
	deadlineInput.Placeholder = "2026-03-09 23:59"
	deadlineInput.CharLimit = 16

	bar := progress.New(progress.WithDefaultGradient())

	return &UploadView{
		app:           app,
		styles:        s,
		keys:          keys.DefaultKeyMap(),
		bar:           bar,
		pathInput:     pathInput,
		editText:      editText,
		editConcept:   editConcept,
		deadlineInput: deadlineInput,
	}
}

func (v *UploadView) pipe() *pipeline.Pipeline { return v.app.Pipeline() }

func (v *UploadView) Init() tea.Cmd {
	return textinput.Blink
}

// readFiles expands the entered paths, globs included, and reads them.
func readFiles(input string) ([]api.File, error) {
	var files []api.File
	for _, pattern := range strings.Fields(input) {
		matches, err := filepath.Glob(pattern)
		if err != nil || len(matches) == 0 {
			matches = []string{pattern}
		}
		for _, path := range matches {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", path, err)
			}
			files = append(files, api.File{Name: filepath.Base(path), Data: data})
		}
	}
	return files, nil
}

func (v *UploadView) startUpload() tea.Cmd {
	files, err := readFiles(v.pathInput.Value())
	if err != nil {
		return toastError(err)
	}

	p := v.pipe()
	started, err := p.SelectFiles(files)
	if err != nil {
		return toastError(err)
	}
	if !started {
		return toastInfo("no image files in that selection")
	}

	run, err := p.StartUpload()
	if err != nil {
		return toastError(err)
	}

	v.progGen++
	v.startedAt = time.Now()
	upload := func() tea.Msg { return uploadEventMsg{ev: run(context.Background())} }
	return tea.Batch(upload, v.progressTick())
}

func (v *UploadView) progressTick() tea.Cmd {
	gen := v.progGen
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return progressTickMsg{gen: gen}
	})
}

// Update handles messages
func (v *UploadView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	p := v.pipe()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		inputWidth := clamp(contentWidth-10, 20, 50)
		v.editText.SetWidth(inputWidth)
		v.bar.Width = clamp(contentWidth-10, 20, 60)
		return v, nil

	case progressTickMsg:
		if msg.gen != v.progGen {
			return v, nil
		}
		switch p.State() {
		case pipeline.Uploading, pipeline.Recognizing, pipeline.Confirming:
			return v, v.progressTick()
		}
		return v, nil

	case uploadEventMsg:
		p.ApplyUpload(msg.ev)
		if p.State() == pipeline.Recognizing {
			run, err := p.StartParse()
			if err != nil {
				return v, toastError(err)
			}
			return v, func() tea.Msg { return parseEventMsg{ev: run(context.Background())} }
		}
		return v, v.afterRecognition()

	case parseEventMsg:
		p.ApplyParse(msg.ev)
		return v, v.afterRecognition()

	case toggleEventMsg:
		if err := p.ApplyToggle(msg.ev); err != nil {
			return v, toastError(err)
		}
		return v, nil

	case imageDeleteMsg:
		if err := p.ApplyDeleteImage(msg.ev); err != nil {
			return v, toastError(err)
		}
		if n := len(p.Images()); v.imgCursor >= n && n > 0 {
			v.imgCursor = n - 1
		}
		return v, nil

	case confirmEventMsg:
		p.ApplyConfirm(msg.ev)
		if p.State() == pipeline.Committed {
			id := p.Batch().ID
			p.Reset()
			return v, tea.Batch(
				toastInfo("homework saved"),
				func() tea.Msg { return BatchCommitted{BatchID: id} },
			)
		}
		return v, nil

	case tea.KeyMsg:
		return v.updateKeys(msg)
	}

	return v, nil
}

// afterRecognition lands the pipeline in the review screen and folds any
// newly discovered subjects into the session cache.
func (v *UploadView) afterRecognition() tea.Cmd {
	p := v.pipe()
	if p.State() != pipeline.Previewing {
		return nil
	}
	if found := p.NewSubjects(); len(found) > 0 {
		v.app.MergeSubjects(found)
	}
	v.cursor = 0
	return nil
}

func (v *UploadView) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := v.pipe()

	switch p.State() {
	case pipeline.Idle, pipeline.FilesSelected:
		return v.updateFileEntry(msg)

	case pipeline.Uploading, pipeline.Recognizing, pipeline.Confirming:
		// nothing to interact with while a call is in flight
		if key.Matches(msg, v.keys.Quit) {
			return v, tea.Quit
		}
		return v, nil

	case pipeline.Previewing, pipeline.Editing:
		if v.editing {
			return v.updateItemForm(msg)
		}
		if v.settingDeadline {
			return v.updateDeadlineForm(msg)
		}
		if v.imagesMode {
			return v.updateImages(msg)
		}
		return v.updateReview(msg)

	case pipeline.Failed:
		return v.updateFailed(msg)
	}

	return v, nil
}

func (v *UploadView) updateFileEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		return v, v.leave()
	case key.Matches(msg, v.keys.Enter):
		return v, v.startUpload()
	case msg.String() == "ctrl+c":
		return v, tea.Quit
	}
	var cmd tea.Cmd
	v.pathInput, cmd = v.pathInput.Update(msg)
	return v, cmd
}

func (v *UploadView) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := v.pipe()
	items := p.Items()

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, v.leave()

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

	case key.Matches(msg, v.keys.New):
		v.openItemForm("", models.DraftItem{})
		return v, textarea.Blink

	case key.Matches(msg, v.keys.Edit), key.Matches(msg, v.keys.Enter):
		if v.cursor < len(items) {
			v.openItemForm(items[v.cursor].ClientID, items[v.cursor])
			return v, textarea.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if v.cursor < len(items) {
			p.RemoveItem(items[v.cursor].ClientID)
			if n := len(p.Items()); v.cursor >= n && n > 0 {
				v.cursor = n - 1
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.Images):
		if len(p.Images()) > 0 {
			v.imagesMode = true
			v.imgCursor = 0
		}
		return v, nil

	case msg.String() == "D":
		v.settingDeadline = true
		v.deadlineInput.Focus()
		if d := p.Deadline(); d != nil {
			v.deadlineInput.SetValue(d.Local().Format("2006-01-02 15:04"))
		}
		return v, textinput.Blink

	case msg.String() == "ctrl+s":
		return v, v.confirm()
	}

	return v, nil
}

func (v *UploadView) confirm() tea.Cmd {
	p := v.pipe()
	run, err := p.StartConfirm()
	if err != nil {
		return toastError(err)
	}
	v.progGen++
	v.startedAt = time.Now()
	call := func() tea.Msg { return confirmEventMsg{ev: run(context.Background())} }
	return tea.Batch(call, v.progressTick())
}

func (v *UploadView) updateImages(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := v.pipe()
	imgs := p.Images()

	switch {
	case key.Matches(msg, v.keys.Back):
		v.imagesMode = false
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.imgCursor > 0 {
			v.imgCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.imgCursor < len(imgs)-1 {
			v.imgCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter), msg.String() == " ":
		run, err := p.StartToggle(v.imgCursor)
		if err != nil {
			// in-flight toggles are dropped silently, anything else
			// is worth a toast
			if err == pipeline.ErrToggleInFlight {
				return v, nil
			}
			return v, toastError(err)
		}
		return v, func() tea.Msg { return toggleEventMsg{ev: run(context.Background())} }

	case key.Matches(msg, v.keys.Delete):
		run, err := p.StartDeleteImage(v.imgCursor)
		if err != nil {
			return v, toastError(err)
		}
		return v, func() tea.Msg { return imageDeleteMsg{ev: run(context.Background())} }
	}

	return v, nil
}

func (v *UploadView) openItemForm(clientID string, item models.DraftItem) {
	v.editing = true
	v.editingID = clientID
	v.editFocus = focusText
	v.editText.SetValue(item.Text)
	v.editConcept.SetValue(item.KeyConcept)

	v.editSubjectIx = 0
	subjects := v.app.Subjects(context.Background())
	for i, s := range subjects {
		if s.ID == item.SubjectID {
			v.editSubjectIx = i
			break
		}
	}
	v.updateFormFocus()
}

func (v *UploadView) updateFormFocus() {
	v.editText.Blur()
	v.editConcept.Blur()
	switch v.editFocus {
	case focusText:
		v.editText.Focus()
	case focusConcept:
		v.editConcept.Focus()
	}
}

func (v *UploadView) updateItemForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case msg.String() == "ctrl+s":
		v.saveItem()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.editFocus = (v.editFocus + 1) % 4
		v.updateFormFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocus = (v.editFocus + 3) % 4
		v.updateFormFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.editFocus {
		case focusConcept:
			v.editFocus = focusSubject
			v.updateFormFocus()
			return v, nil
		case focusSave:
			v.saveItem()
			return v, nil
		}
		// enter in the textarea inserts a newline

	case key.Matches(msg, v.keys.Left):
		if v.editFocus == focusSubject {
			n := len(v.app.Subjects(context.Background()))
			v.editSubjectIx = (v.editSubjectIx - 1 + n) % n
			return v, nil
		}

	case key.Matches(msg, v.keys.Right):
		if v.editFocus == focusSubject {
			n := len(v.app.Subjects(context.Background()))
			v.editSubjectIx = (v.editSubjectIx + 1) % n
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.editFocus {
	case focusText:
		v.editText, cmd = v.editText.Update(msg)
	case focusConcept:
		v.editConcept, cmd = v.editConcept.Update(msg)
	}
	return v, cmd
}

func (v *UploadView) saveItem() {
	p := v.pipe()
	subjects := v.app.Subjects(context.Background())
	subjectID := subjects[v.editSubjectIx].ID
	text := v.editText.Value()
	concept := strings.TrimSpace(v.editConcept.Value())

	if v.editingID == "" {
		id := p.AddItem(subjectID)
		p.UpdateItem(id, subjectID, text, concept)
	} else {
		p.UpdateItem(v.editingID, subjectID, text, concept)
	}
	v.editing = false
}

func (v *UploadView) updateDeadlineForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.settingDeadline = false
		v.deadlineInput.Blur()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		text := strings.TrimSpace(v.deadlineInput.Value())
		if text == "" {
			v.pipe().SetDeadline(nil)
			v.settingDeadline = false
			v.deadlineInput.Blur()
			return v, nil
		}
		t, err := time.ParseInLocation("2006-01-02 15:04", text, time.Local)
		if err != nil {
			return v, toastError(&api.Error{
				Kind:    api.KindValidation,
				Message: "deadline must look like 2026-03-09 23:59",
			})
		}
		utc := t.UTC()
		v.pipe().SetDeadline(&utc)
		v.settingDeadline = false
		v.deadlineInput.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.deadlineInput, cmd = v.deadlineInput.Update(msg)
	return v, cmd
}

func (v *UploadView) updateFailed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Refresh):
		v.pipe().Reset()
		v.pathInput.Focus()
		return v, textinput.Blink
	case key.Matches(msg, v.keys.Back):
		return v, v.leave()
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	}
	return v, nil
}

// leave abandons whatever draft exists and returns to the registry.
func (v *UploadView) leave() tea.Cmd {
	v.progGen++
	p := v.pipe()
	return func() tea.Msg {
		p.Abandon(context.Background())
		return BackToRegistry{}
	}
}

// View renders the view
func (v *UploadView) View() string {
	p := v.pipe()

	switch p.State() {
	case pipeline.Idle, pipeline.FilesSelected:
		return v.renderFileEntry()
	case pipeline.Uploading, pipeline.Recognizing, pipeline.Confirming:
		return v.renderProgress()
	case pipeline.Previewing, pipeline.Editing:
		if v.editing {
			return v.renderItemForm()
		}
		if v.settingDeadline {
			return v.renderDeadlineForm()
		}
		if v.imagesMode {
			return v.renderImages()
		}
		return v.renderReview()
	case pipeline.Failed:
		return v.renderFailed()
	}
	return ""
}

func (v *UploadView) renderFileEntry() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 24, 60)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("New Upload"),
		"",
		"Image files (paths or globs, space separated):",
		s.InputFocused.Width(inputWidth).Render(v.pathInput.View()),
		"",
		s.TitleMuted.Render("jpg, jpeg, png and webp are uploaded, everything else is skipped"),
		"",
		s.TitleMuted.Render("↵: upload • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *UploadView) renderProgress() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	stage, within := pipeline.StageAt(time.Since(v.startedAt))
	pct := pipeline.Percent(stage, within)
	label := stage.Label()
	if v.pipe().State() == pipeline.Confirming {
		label = "saving homework"
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("Working..."),
		"",
		v.bar.ViewAs(float64(pct)/100),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%s (%d%%)", label, pct)),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *UploadView) renderReview() string {
	s := v.styles
	p := v.pipe()
	contentWidth := styles.ContentWidth(v.width)
	width := clamp(contentWidth-6, 24, 90)

	var b strings.Builder
	b.WriteString(s.Title.Render("Review Draft"))
	b.WriteString("\n")

	meta := fmt.Sprintf("%d pages", len(p.Images()))
	if d := p.Deadline(); d != nil {
		meta += " • due " + d.Local().Format("Jan 2 15:04")
	} else {
		meta += " • no deadline"
	}
	b.WriteString(s.TitleMuted.Render(meta))
	b.WriteString("\n\n")

	items := p.Items()
	if len(items) == 0 {
		b.WriteString(s.TitleMuted.Render("Nothing recognized. Press 'n' to add items by hand."))
	} else {
		var rows []string
		for i, it := range items {
			subject := v.app.SubjectByID(it.SubjectID)
			subjectTag := lipgloss.NewStyle().
				Foreground(lipgloss.Color(subject.Color)).
				Render(subject.Name)

			text := strings.ReplaceAll(it.Text, "\n", " ")
			if it.KeyConcept != "" {
				text += s.TitleMuted.Render("  (" + it.KeyConcept + ")")
			}

			rowStyle := s.ItemRow
			if i == v.cursor {
				rowStyle = s.ListSelected
			}
			rows = append(rows, rowStyle.Width(width).Render(subjectTag+" "+text))
		}
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	b.WriteString("\n")
	b.WriteString(v.reviewHelp())
	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *UploadView) reviewHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("ctrl+s") + " save")
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s edit • %s new • %s del • %s images • %s deadline • %s save • %s cancel",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("i"),
			v.styles.HelpKey.Render("D"),
			v.styles.HelpKey.Render("ctrl+s"),
			v.styles.HelpKey.Render("esc"),
		),
	)
}

func (v *UploadView) renderImages() string {
	s := v.styles
	p := v.pipe()
	contentWidth := styles.ContentWidth(v.width)

	var rows []string
	for i, img := range p.Images() {
		kind := "homework "
		if img.ImageType == models.ImageReference {
			kind = "reference"
		}
		row := fmt.Sprintf("%s  %s", kind, img.FileName)
		rowStyle := s.ItemRow
		if i == v.imgCursor {
			rowStyle = s.ListSelected
		}
		rows = append(rows, rowStyle.Render(row))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Pages"),
		"",
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		"",
		s.TitleMuted.Render("↵/Space: homework ↔ reference • d: remove • Esc: done"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Popup.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *UploadView) renderItemForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	formTitle := "New Item"
	if v.editingID != "" {
		formTitle = "Edit Item"
	}

	textStyle := s.Input
	conceptStyle := s.Input
	subjectStyle := s.Input
	btnStyle := s.Button
	switch v.editFocus {
	case focusText:
		textStyle = s.InputFocused
	case focusConcept:
		conceptStyle = s.InputFocused
	case focusSubject:
		subjectStyle = s.InputFocused
	case focusSave:
		btnStyle = s.ButtonFocused
	}

	subjects := v.app.Subjects(context.Background())
	subject := subjects[v.editSubjectIx]
	subjectLine := lipgloss.NewStyle().
		Foreground(lipgloss.Color(subject.Color)).
		Render("◀ " + subject.Name + " ▶")

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(formTitle),
		"",
		"Task:",
		textStyle.Render(v.editText.View()),
		"",
		"Key concept:",
		conceptStyle.Width(inputWidth).Render(v.editConcept.View()),
		"",
		"Subject:",
		subjectStyle.Render(subjectLine),
		"",
		btnStyle.Render(" Save "),
		"",
		s.TitleMuted.Render("Tab: next • ←→: subject • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *UploadView) renderDeadlineForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Deadline"),
		"",
		"When is this due? (local time, empty for none):",
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

func (v *UploadView) renderFailed() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Upload failed"),
		"",
		s.TitleMuted.Render(v.pipe().Err()),
		"",
		s.TitleMuted.Render("Press 'r' to start over, esc to go back"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}
