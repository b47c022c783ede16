package audit

import (
	"time"

	"github.com/google/uuid"
)

// NewEvent creates an event for a generation of the given kind.
func NewEvent(kind string) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Kind:      kind,
	}
}

// WithSession adds the session identifier.
func (e *Event) WithSession(sessionID string) *Event {
	e.SessionID = sessionID
	return e
}

// WithRequestID adds a request ID to the event.
func (e *Event) WithRequestID(requestID string) *Event {
	e.RequestID = requestID
	return e
}

// WithModel records which completer served the request.
func (e *Event) WithModel(model string) *Event {
	e.Model = model
	return e
}

// WithPrompt records the theme keyword, prompt size and cached page count.
func (e *Event) WithPrompt(keyword string, promptChars, cachedPages int) *Event {
	e.Keyword = keyword
	e.PromptChars = promptChars
	e.CachedPages = cachedPages
	return e
}

// WithResponseSize records how much text was relayed.
func (e *Event) WithResponseSize(chars, fragments int) *Event {
	e.ResponseChars = chars
	e.Fragments = fragments
	return e
}

// WithResult adds result information to the event.
func (e *Event) WithResult(success bool, errorMsg string, durationMS int64) *Event {
	e.Success = success
	e.ErrorMessage = errorMsg
	e.DurationMS = durationMS
	return e
}
