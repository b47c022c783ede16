// Package browser is the terminal front-end of the generation client. It
// renders generated pages as markdown and lists their actions for keyboard
// navigation.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/achneerov/dreamrender/pkg/navigator"
)

const (
	defaultTitle     = "DreamRender"
	defaultWrap      = 80
	actionListHeight = 10
	chromeHeight     = 2 // header and footer lines
	busyMessage      = "A page is still being generated."
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

// Navigator is the part of the navigation controller the browser drives.
type Navigator interface {
	Start(ctx context.Context) error
	Activate(ctx context.Context, action navigator.Action) error
}

// doneMsg reports the end of a Start or Activate call.
type doneMsg struct{ err error }

// Option configures a Model.
type Option func(*Model)

// WithStyle selects the glamour style: "auto" detects the terminal
// background, anything else names a standard style such as "dark" or
// "notty".
func WithStyle(style string) Option {
	return func(m *Model) {
		m.style = style
	}
}

// Model is the bubbletea model of the browser.
type Model struct {
	ctx context.Context
	nav Navigator

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	viewport viewport.Model
	actions  list.Model
	renderer *glamour.TermRenderer
	style    string

	width   int
	height  int
	title   string
	page    navigator.Page
	loading bool
	status  string
}

// New creates a browser model. The first page is requested from Init.
func New(ctx context.Context, nav Navigator, opts ...Option) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = dimStyle

	vp := viewport.New(0, 0)
	vp.KeyMap = viewport.KeyMap{
		PageDown: defaultKeyMap.PageDown,
		PageUp:   defaultKeyMap.PageUp,
	}

	actions := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	actions.SetShowTitle(false)
	actions.SetShowStatusBar(false)
	actions.SetFilteringEnabled(false)
	actions.SetShowHelp(false)

	m := Model{
		ctx:      ctx,
		nav:      nav,
		keys:     defaultKeyMap,
		help:     help.New(),
		spinner:  spin,
		viewport: vp,
		actions:  actions,
		style:    "auto",
		title:    defaultTitle,
		loading:  true,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.renderer = newRenderer(m.style, defaultWrap)
	return m
}

func newRenderer(style string, wrap int) *glamour.TermRenderer {
	styleOpt := glamour.WithStandardStyle(style)
	if style == "auto" {
		styleOpt = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(wrap))
	if err != nil {
		slog.Warn("browser: markdown renderer unavailable", "style", style, "error", err)
		return nil
	}
	return r
}

// Init starts the spinner and the first generation.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run(func(ctx context.Context) error {
		return m.nav.Start(ctx)
	}))
}

func (m Model) run(call func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return doneMsg{err: call(ctx)}
	}
}

// Update handles navigator messages, window resizes and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadingMsg:
		m.loading = true
		m.status = ""
		return m, m.spinner.Tick

	case pageMsg:
		m.loading = false
		m.page = msg.page
		m.actions.SetItems(buildActionItems(msg.page.Actions))
		m.actions.Select(0)
		m.viewport.SetContent(m.renderPage())
		m.viewport.GotoTop()
		return m, nil

	case titleMsg:
		m.title = msg.title
		return m, nil

	case errorMsg:
		m.loading = false
		m.status = msg.message
		return m, nil

	case doneMsg:
		m.handleDone(msg.err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleDone(err error) {
	switch {
	case err == nil:
	case errors.Is(err, navigator.ErrBusy):
		m.status = busyMessage
	case errors.Is(err, navigator.ErrStaleAction), errors.Is(err, context.Canceled):
	default:
		if m.status == "" {
			m.status = err.Error()
		}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Open):
		item, ok := m.actions.SelectedItem().(actionItem)
		if !ok {
			return m, nil
		}
		if m.loading {
			m.status = busyMessage
			return m, nil
		}
		m.status = ""
		return m, m.run(func(ctx context.Context) error {
			return m.nav.Activate(ctx, item.action)
		})
	case key.Matches(msg, m.keys.PageUp, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.actions, cmd = m.actions.Update(msg)
	return m, cmd
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width

	listHeight := min(actionListHeight, max(height/3, 1))
	m.actions.SetSize(width, listHeight)
	m.viewport.Width = width
	m.viewport.Height = max(height-listHeight-chromeHeight, 1)

	m.renderer = newRenderer(m.style, max(width-2, 20))
	m.viewport.SetContent(m.renderPage())
}

// renderPage renders the displayed page body. Without a renderer the raw
// markdown is shown.
func (m Model) renderPage() string {
	md := Markdown(m.page.HTML)
	if m.renderer == nil || md == "" {
		return md
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		slog.Warn("browser: rendering page failed", "key", m.page.Key, "error", err)
		return md
	}
	return out
}

// View renders the header, the page or spinner, the action list and a
// status or help footer.
func (m Model) View() string {
	header := headerStyle.Render(m.title)
	if m.page.Key != "" {
		header += dimStyle.Render("  " + m.page.Key)
	}

	body := m.viewport.View()
	if m.loading {
		body = fmt.Sprintf("%s Generating page...", m.spinner.View())
	}

	footer := m.help.View(m.keys)
	if m.status != "" {
		footer = errStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.actions.View(), footer)
}

// Run starts the browser on the terminal until the user quits or ctx is
// cancelled. display must be the navigator's display.
func Run(ctx context.Context, nav Navigator, display *Display, opts ...Option) error {
	p := tea.NewProgram(New(ctx, nav, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	display.Attach(p.Send)
	defer display.Attach(nil)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}
