package browser

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/achneerov/dreamrender/pkg/navigator"
)

type loadingMsg struct{}

type pageMsg struct{ page navigator.Page }

type titleMsg struct{ title string }

type errorMsg struct{ message string }

// Display implements navigator.Display by forwarding every call to a running
// program as a message. Calls made before Attach are dropped.
type Display struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// NewDisplay creates a detached display.
func NewDisplay() *Display {
	return &Display{}
}

// Attach routes display updates to send, typically (*tea.Program).Send.
func (d *Display) Attach(send func(tea.Msg)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.send = send
}

func (d *Display) dispatch(msg tea.Msg) {
	d.mu.Lock()
	send := d.send
	d.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

// ShowLoading implements navigator.Display.
func (d *Display) ShowLoading() { d.dispatch(loadingMsg{}) }

// Render implements navigator.Display.
func (d *Display) Render(p navigator.Page) { d.dispatch(pageMsg{page: p}) }

// SetTitle implements navigator.Display.
func (d *Display) SetTitle(title string) { d.dispatch(titleMsg{title: title}) }

// ShowError implements navigator.Display.
func (d *Display) ShowError(message string) { d.dispatch(errorMsg{message: message}) }

var _ navigator.Display = (*Display)(nil)
