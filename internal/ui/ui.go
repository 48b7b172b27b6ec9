package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/krolx/nicemusic/internal/nav"
	"github.com/krolx/nicemusic/internal/store"
	"github.com/krolx/nicemusic/internal/uploads"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoginView ViewState = iota
	LibraryView
	UploadView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	session      *store.Session
	library      *store.Library
	queue        *uploads.Queue
	processor    *uploads.Processor
	guard        *nav.Guard
	styles       *Palette
	width        int
	height       int
	songList     list.Model
	listReady    bool
	email        textinput.Model
	password     textinput.Model
	focusIdx     int
	progressChan chan uploads.ProgressUpdate
	uploadDone   chan uploadsDoneMsg
	progress     uploads.ProgressUpdate
	uploading    bool
	err          error
	status       string
	help         help.Model
	keys         keyMap
}

// Opts carries the stores and services the TUI renders.
type Opts struct {
	Session   *store.Session
	Library   *store.Library
	Queue     *uploads.Queue
	Processor *uploads.Processor
	Guard     *nav.Guard
	Theme     string
}

type routeResolvedMsg struct {
	route nav.Route
	err   error
}

type loginDoneMsg struct {
	err error
}

type songsFetchedMsg struct {
	err error
}

type favToggledMsg struct {
	err error
}

type uploadProgressMsg uploads.ProgressUpdate

type uploadsDoneMsg struct {
	result *uploads.Result
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts Opts) *Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	return &Model{
		ctx:      ctx,
		view:     LoginView,
		session:  opts.Session,
		library:  opts.Library,
		queue:    opts.Queue,
		processor: opts.Processor,
		guard:    opts.Guard,
		styles:   PaletteFor(opts.Theme),
		email:    email,
		password: password,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init resolves the start destination through the route guard, so a
// persisted session skips the login form.
func (m *Model) Init() tea.Cmd {
	return m.resolveRoute(nav.RouteLibrary)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listReady {
			m.songList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoginView:
			return m.handleLoginKeys(msg)
		case LibraryView:
			return m.handleLibraryKeys(msg)
		case UploadView:
			return m.handleUploadKeys(msg)
		}

	case routeResolvedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		switch msg.route.Name {
		case nav.RouteLogin:
			m.view = LoginView
			return m, textinput.Blink
		case nav.RouteUpload:
			m.view = UploadView
			return m, nil
		default:
			m.view = LibraryView
			return m, m.fetchSongs(true)
		}

	case loginDoneMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.status = ""
		return m, m.resolveRoute(m.guard.Consume().Name)

	case songsFetchedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.syncSongList()
		return m, nil

	case favToggledMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		}
		m.syncSongList()
		return m, nil

	case uploadProgressMsg:
		m.progress = uploads.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case uploadsDoneMsg:
		m.uploading = false
		if msg.err != nil {
			m.status = msg.err.Error()
		} else if msg.result != nil {
			m.status = fmt.Sprintf("%d uploaded, %d failed", msg.result.Succeeded, msg.result.Failed)
		}
		if m.progressChan != nil {
			m.progressChan = nil
		}
		return m, nil
	}

	if m.view == LibraryView && m.listReady {
		var cmd tea.Cmd
		m.songList, cmd = m.songList.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return m.styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case LoginView:
		return m.renderLogin()
	case LibraryView:
		return m.renderLibrary()
	case UploadView:
		return m.renderUploads()
	default:
		return ""
	}
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "shift+tab":
		m.focusIdx = (m.focusIdx + 1) % 2
		if m.focusIdx == 0 {
			m.email.Focus()
			m.password.Blur()
		} else {
			m.password.Focus()
			m.email.Blur()
		}
		return m, textinput.Blink
	case "enter":
		return m, m.login(m.email.Value(), m.password.Value())
	}

	var cmd tea.Cmd
	if m.focusIdx == 0 {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleLibraryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.more):
		return m, m.loadMore()
	case key.Matches(msg, m.keys.favorite):
		if item, ok := m.songList.SelectedItem().(songItem); ok {
			return m, m.toggleFavorite(item.song.ID)
		}
	case key.Matches(msg, m.keys.upload):
		m.view = UploadView
		return m, nil
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handleUploadKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = LibraryView
		return m, nil
	case key.Matches(msg, m.keys.clear):
		m.queue.ClearCompleted()
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if !m.uploading && len(m.queue.Pending()) > 0 {
			return m, m.startUploads()
		}
	}
	return m, nil
}

func (m *Model) resolveRoute(name string) tea.Cmd {
	return func() tea.Msg {
		route, err := m.guard.Resolve(m.ctx, name)
		return routeResolvedMsg{route: route, err: err}
	}
}

func (m *Model) login(email, password string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.session.Login(m.ctx, email, password)
		return loginDoneMsg{err: err}
	}
}

func (m *Model) fetchSongs(reset bool) tea.Cmd {
	return func() tea.Msg {
		return songsFetchedMsg{err: m.library.Fetch(m.ctx, reset)}
	}
}

func (m *Model) loadMore() tea.Cmd {
	return func() tea.Msg {
		return songsFetchedMsg{err: m.library.LoadMore(m.ctx)}
	}
}

func (m *Model) toggleFavorite(songID string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.library.ToggleFavorite(m.ctx, songID)
		return favToggledMsg{err: err}
	}
}

func (m *Model) startUploads() tea.Cmd {
	m.uploading = true
	m.progressChan = make(chan uploads.ProgressUpdate, 50)
	m.uploadDone = make(chan uploadsDoneMsg, 1)
	prog := m.progressChan
	done := m.uploadDone

	go func() {
		result, err := m.processor.Process(m.ctx, prog, uploads.ProcessOpts{
			OnUploaded: m.library.Insert,
		})
		done <- uploadsDoneMsg{result: result, err: err}
		close(prog)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	prog := m.progressChan
	done := m.uploadDone
	return func() tea.Msg {
		if prog == nil {
			return <-done
		}

		update, ok := <-prog
		if !ok {
			return <-done
		}
		return uploadProgressMsg(update)
	}
}

func (m *Model) syncSongList() {
	songs := m.library.Songs()
	items := make([]list.Item, len(songs))
	for i, s := range songs {
		items[i] = songItem{song: s}
	}

	if !m.listReady {
		m.songList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.songList.Title = "Library"
		m.songList.SetSize(m.width-4, m.height-8)
		m.listReady = true
		return
	}
	m.songList.SetItems(items)
}

func (m *Model) renderLogin() string {
	title := m.styles.title.Render("Sign in")

	var status string
	if m.status != "" {
		status = "\n" + m.styles.err.Render(m.status)
	}

	helpView := m.help.ShortHelpView([]key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sign in")),
	})

	return fmt.Sprintf("%s\n%s\n%s%s\n\n%s", title, m.email.View(), m.password.View(), status, helpView)
}

func (m *Model) renderLibrary() string {
	if !m.listReady {
		return m.styles.help.Render("Loading library...")
	}

	var footer string
	if m.status != "" {
		footer = m.styles.warn.Render(m.status) + "\n"
	}
	if m.library.HasMore() {
		footer += m.styles.help.Render(fmt.Sprintf("%d of %d loaded", len(m.library.Songs()), m.library.TrackCount()))
	}

	helpKeys := []key.Binding{m.keys.favorite, m.keys.more, m.keys.upload, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", m.songList.View(), footer, helpView)
}

func (m *Model) renderUploads() string {
	title := m.styles.title.Render("Uploads")

	var lines string
	for _, it := range m.queue.Items() {
		item := uploadItem{item: it}
		var line string
		switch it.Status {
		case uploads.StatusSuccess:
			line = m.styles.ok.Render(fmt.Sprintf("%s  %s", item.Title(), item.Description()))
		case uploads.StatusError:
			line = m.styles.err.Render(fmt.Sprintf("%s  %s", item.Title(), item.Description()))
		default:
			line = fmt.Sprintf("%s  %s", item.Title(), item.Description())
		}
		lines += line + "\n"
	}
	if lines == "" {
		lines = m.styles.help.Render("Queue is empty") + "\n"
	}

	var status string
	if m.uploading {
		status = m.progress.Message + "\n"
	} else if m.status != "" {
		status = m.styles.warn.Render(m.status) + "\n"
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.clear, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s%s", title, lines, status, helpView)
}
