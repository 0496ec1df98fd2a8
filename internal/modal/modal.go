// Package modal implements the registration modal lifecycle: the Closed/Open
// state machine, the reset-once signal to the form engine, focus containment,
// and scroll locking on the host surface.
package modal

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/skatefest/client/internal/models"
)

// ErrBusy is returned when a close is attempted while a submission is
// outstanding. The success path is exempt.
var ErrBusy = errors.New("cannot close while submitting")

// Phase is the modal visibility state.
type Phase int

const (
	Closed Phase = iota
	Open
)

// CloseReason records why the modal closed.
type CloseReason int

const (
	ReasonCloseButton CloseReason = iota
	ReasonEscape
	ReasonBackgroundClick
	ReasonSuccess
)

// Key is a keyboard event routed to the modal while open.
type Key int

const (
	KeyTab Key = iota
	KeyShiftTab
	KeyEscape
)

// Host is the rendering surface the modal controls: its focusable elements
// and the page scroll lock. The terminal front end and tests provide fakes.
type Host interface {
	FocusableElements() []string
	ActiveElement() string
	Focus(id string)
	SetScrollLock(locked bool)
}

// Form is the engine the modal drives. Open is the explicit reset signal,
// emitted exactly once per closed-to-open transition. registration.Engine
// satisfies it.
type Form interface {
	Open(ctx context.Context, event *models.Event) error
	Close() error
	Submitting() bool
}

// Modal owns one modal mount. Bound to the single UI goroutine.
type Modal struct {
	host   Host
	form   Form
	logger *zap.Logger

	// AckDelay is how long a success acknowledgment stays visible before the
	// modal closes itself.
	AckDelay time.Duration

	phase        Phase
	event        *models.Event
	keyInstalled bool
	scrollLocked bool
}

// New creates a modal over the given host and form.
func New(host Host, form Form, logger *zap.Logger) *Modal {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Modal{host: host, form: form, logger: logger}
}

// OpenFor transitions Closed to Open for event: locks scrolling, installs
// key handling, signals the form reset, and focuses the first focusable
// element. Calling it while already open is a no-op, so incidental re-renders
// never re-reset the form.
func (m *Modal) OpenFor(ctx context.Context, event *models.Event) error {
	if m.phase == Open {
		return nil
	}
	if err := m.form.Open(ctx, event); err != nil {
		return err
	}

	m.phase = Open
	m.event = event
	m.host.SetScrollLock(true)
	m.scrollLocked = true
	m.keyInstalled = true

	if focusable := m.host.FocusableElements(); len(focusable) > 0 {
		m.host.Focus(focusable[0])
	}
	m.logger.Debug("modal opened", zap.String("event_id", event.ID))
	return nil
}

// Close transitions Open to Closed and releases every host effect: scroll
// lock off, key handling deregistered. Closing while the form is submitting
// is refused unless the close follows a successful submission.
func (m *Modal) Close(reason CloseReason) error {
	if m.phase == Closed {
		return nil
	}
	if m.form.Submitting() && reason != ReasonSuccess {
		return ErrBusy
	}
	if err := m.form.Close(); err != nil {
		return err
	}

	m.phase = Closed
	m.event = nil
	m.keyInstalled = false
	if m.scrollLocked {
		m.host.SetScrollLock(false)
		m.scrollLocked = false
	}
	m.logger.Debug("modal closed", zap.Int("reason", int(reason)))
	return nil
}

// CloseOnSuccess surfaces the success acknowledgment for AckDelay and then
// closes.
func (m *Modal) CloseOnSuccess() error {
	if m.AckDelay > 0 {
		time.Sleep(m.AckDelay)
	}
	return m.Close(ReasonSuccess)
}

// HandleKey routes a key event. Tab and Shift+Tab cycle focus inside the
// modal's focusable ring; Escape closes. Keys are ignored while closed.
func (m *Modal) HandleKey(key Key) error {
	if m.phase == Closed || !m.keyInstalled {
		return nil
	}
	switch key {
	case KeyEscape:
		return m.Close(ReasonEscape)
	case KeyTab:
		m.cycleFocus(1)
	case KeyShiftTab:
		m.cycleFocus(-1)
	}
	return nil
}

// HandleBackgroundClick closes the modal on a click outside its content.
func (m *Modal) HandleBackgroundClick() error {
	if m.phase == Closed {
		return nil
	}
	return m.Close(ReasonBackgroundClick)
}

// Phase returns the current visibility state.
func (m *Modal) Phase() Phase {
	return m.phase
}

// Event returns the event the modal is open for, nil while closed.
func (m *Modal) Event() *models.Event {
	return m.event
}

func (m *Modal) cycleFocus(dir int) {
	focusable := m.host.FocusableElements()
	if len(focusable) == 0 {
		return
	}
	idx := 0
	active := m.host.ActiveElement()
	for i, id := range focusable {
		if id == active {
			idx = i
			break
		}
	}
	next := (idx + dir + len(focusable)) % len(focusable)
	m.host.Focus(focusable[next])
}
