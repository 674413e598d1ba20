package ui

import (
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"hwbook/internal/db"
	"hwbook/internal/state"
	"hwbook/internal/ui/styles"
	"hwbook/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewRegistry View = iota
	ViewDetail
	ViewUpload
)

// toastExpired clears the toast line. The id keeps an old timer from
// clearing a newer toast.
type toastExpired struct {
	id int
}

const toastDuration = 3 * time.Second

type App struct {
	session     *state.App
	store       *db.DB
	currentView View
	registry    *views.RegistryView
	detail      *views.DetailView
	upload      *views.UploadView
	styles      *styles.Styles
	width       int
	height      int

	toastText  string
	toastError bool
	toastID    int
}

// Creates a new application. store may be nil when the local cache
// could not be opened.
func NewApp(session *state.App, store *db.DB) *App {
	return &App{
		session:  session,
		store:    store,
		registry: views.NewRegistryView(session),
		styles:   styles.NewStyles(),
	}
}

func (a *App) Init() tea.Cmd {
	// Reopen the batch the user was last looking at
	if a.store != nil {
		lastBatchID, err := a.store.GetSetting("last_batch_id")
		if err == nil && lastBatchID != "" {
			if id, err := strconv.ParseInt(lastBatchID, 10, 64); err == nil {
				return tea.Batch(a.registry.Init(), a.openDetail(id))
			}
		}
	}
	return a.registry.Init()
}

func (a *App) openDetail(batchID int64) tea.Cmd {
	a.currentView = ViewDetail
	a.detail = views.NewDetailView(a.session, batchID)

	if a.store != nil {
		a.store.SetSetting("last_batch_id", strconv.FormatInt(batchID, 10))
	}

	return tea.Batch(
		a.detail.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

func (a *App) openUpload() tea.Cmd {
	a.currentView = ViewUpload
	a.upload = views.NewUploadView(a.session)

	return tea.Batch(
		a.upload.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

func (a *App) backToRegistry() tea.Cmd {
	a.currentView = ViewRegistry
	if a.store != nil {
		a.store.SetSetting("last_batch_id", "")
	}
	return tea.Batch(
		a.registry.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

func (a *App) showToast(text string, isError bool) tea.Cmd {
	a.toastText = text
	a.toastError = isError
	a.toastID++
	id := a.toastID
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpired{id: id}
	})
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Always update registry size since it persists
		a.registry.Update(msg)

	case views.SelectedBatch:
		return a, a.openDetail(msg.BatchID)

	case views.OpenToday:
		return a, a.openDetail(0)

	case views.OpenUpload:
		return a, a.openUpload()

	case views.BackToRegistry:
		return a, a.backToRegistry()

	case views.BatchCommitted:
		// straight into the new batch; the grid reloads on the way back
		return a, a.openDetail(msg.BatchID)

	case views.ToastMsg:
		return a, a.showToast(msg.Text, msg.IsError)

	case toastExpired:
		if msg.id == a.toastID {
			a.toastText = ""
		}
		return a, nil
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewRegistry:
		_, cmd = a.registry.Update(msg)
	case ViewDetail:
		_, cmd = a.detail.Update(msg)
	case ViewUpload:
		_, cmd = a.upload.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	var body string
	switch a.currentView {
	case ViewDetail:
		if a.detail != nil {
			body = a.detail.View()
		}
	case ViewUpload:
		if a.upload != nil {
			body = a.upload.View()
		}
	}
	if body == "" {
		body = a.registry.View()
	}

	if a.toastText != "" {
		toastStyle := a.styles.Toast
		if a.toastError {
			toastStyle = a.styles.ToastError
		}
		body += "\n" + toastStyle.Render(a.toastText)
	}
	return body
}
