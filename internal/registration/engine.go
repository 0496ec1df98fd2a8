// Package registration owns the registration draft and its submission
// lifecycle: field updates, submit-time validation, the duplicate-registration
// gate, and the idle/submitting/succeeded/failed state machine.
package registration

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skatefest/client/internal/api"
	"github.com/skatefest/client/internal/auth"
	"github.com/skatefest/client/internal/models"
)

var (
	// ErrAuthRequired means a submit was attempted without a session. The
	// caller closes the modal; the attempt is not retried.
	ErrAuthRequired = errors.New("login required")
	// ErrSubmitInFlight guards the draft against reset while a submission is
	// outstanding.
	ErrSubmitInFlight = errors.New("submission in flight")
	// ErrNoDraft means no modal session is open.
	ErrNoDraft = errors.New("no open draft")
	// ErrAlreadyRegistered means the duplicate-registration gate tripped and
	// the form is suppressed.
	ErrAlreadyRegistered = errors.New("already registered for this event")
	// ErrUnsupportedDocument rejects a document that is not an image.
	ErrUnsupportedDocument = errors.New("unsupported document type")
)

// Messages surfaced when the backend rejects or the network fails. The form
// stays editable in both cases.
const (
	msgServerRejected = "Something went wrong. Please try again later."
	msgUnreachable    = "Unable to connect to the server. Please try again later."
)

// Phase is the submission lifecycle phase.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseSucceeded
	PhaseFailed
)

// State is the current submission state; Message is set only when failed.
type State struct {
	Phase   Phase
	Message string
}

// Gateway is the slice of the backend the engine needs. api.Client
// satisfies it.
type Gateway interface {
	SubmitRegistration(ctx context.Context, sub *models.RegistrationSubmission) error
	MyRegistrations(ctx context.Context) ([]models.MyRegistration, error)
}

// Session reports the current user. auth.Session satisfies it.
type Session interface {
	Current() (*auth.User, bool)
}

// Engine owns the draft and submission state for one modal mount. It is
// bound to the single UI goroutine and not safe for concurrent use.
type Engine struct {
	gateway Gateway
	session Session
	logger  *zap.Logger

	open              bool
	event             *models.Event
	draft             *Draft
	draftID           uuid.UUID
	state             State
	alreadyRegistered bool
}

// NewEngine creates an engine bound to one modal mount.
func NewEngine(gateway Gateway, session Session, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{gateway: gateway, session: session, logger: logger}
}

// Open starts a modal session for event, resetting the draft exactly once
// per closed-to-open transition. While the session for the same event stays
// open, further Open calls are no-ops so in-progress edits survive unrelated
// re-renders. Opening for a different event resets.
func (e *Engine) Open(ctx context.Context, event *models.Event) error {
	if event == nil {
		return fmt.Errorf("event is required")
	}
	if e.state.Phase == PhaseSubmitting {
		return ErrSubmitInFlight
	}
	if e.open && e.event.ID == event.ID {
		return nil
	}

	e.open = true
	e.event = event
	e.draft = newDraft(event)
	e.draftID = uuid.New()
	e.state = State{Phase: PhaseIdle}
	e.alreadyRegistered = false

	e.logger.Debug("draft reset",
		zap.String("draft_id", e.draftID.String()),
		zap.String("event_id", event.ID),
		zap.Bool("team_event", event.IsTeamEvent),
		zap.Int("member_slots", len(e.draft.TeamMembers)),
	)

	e.checkExisting(ctx)
	return nil
}

// Close ends the modal session and destroys the draft. Refused while a
// submission is outstanding.
func (e *Engine) Close() error {
	if e.state.Phase == PhaseSubmitting {
		return ErrSubmitInFlight
	}
	e.open = false
	e.event = nil
	e.draft = nil
	e.state = State{Phase: PhaseIdle}
	e.alreadyRegistered = false
	return nil
}

// checkExisting queries the user's registrations and trips the
// already-registered gate on a case-insensitive trimmed title match. Any
// failure is logged and treated as not registered: a transient read failure
// must not block a first-time registrant.
func (e *Engine) checkExisting(ctx context.Context) {
	if _, ok := e.session.Current(); !ok {
		return
	}
	regs, err := e.gateway.MyRegistrations(ctx)
	if err != nil {
		e.logger.Warn("registration status check failed, assuming not registered", zap.Error(err))
		return
	}
	title := strings.TrimSpace(e.event.Title)
	for _, reg := range regs {
		if strings.EqualFold(strings.TrimSpace(reg.EventName), title) {
			e.alreadyRegistered = true
			e.logger.Info("already registered", zap.String("event_id", e.event.ID))
			return
		}
	}
}

// SetField replaces one scalar field. No validation happens here; rules run
// at submit time only.
func (e *Engine) SetField(field Field, value string) error {
	if !e.open {
		return ErrNoDraft
	}
	if e.alreadyRegistered {
		return ErrAlreadyRegistered
	}
	return e.draft.set(field, value)
}

// SetMember replaces one team-member slot. The slot count is fixed at reset
// time and the index must be within it.
func (e *Engine) SetMember(i int, value string) error {
	if !e.open {
		return ErrNoDraft
	}
	if e.alreadyRegistered {
		return ErrAlreadyRegistered
	}
	if i < 0 || i >= len(e.draft.TeamMembers) {
		return fmt.Errorf("member index %d out of range [0,%d)", i, len(e.draft.TeamMembers))
	}
	e.draft.TeamMembers[i] = value
	return nil
}

// SetDocument attaches the identity document image.
func (e *Engine) SetDocument(name string, data []byte) error {
	if !e.open {
		return ErrNoDraft
	}
	if e.alreadyRegistered {
		return ErrAlreadyRegistered
	}
	ext := strings.ToLower(path.Ext(name))
	if _, ok := allowedDocumentExtensions[ext]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedDocument, name)
	}
	e.draft.DocumentName = name
	e.draft.Document = data
	return nil
}

// Validate runs the submit-time rules and returns the first failure message,
// or "" when the draft is submittable.
func (e *Engine) Validate() string {
	if !e.open {
		return ""
	}
	return e.draft.validate(e.event.IsTeamEvent)
}

// Submit runs validation and sends the draft. A second call while a
// submission is outstanding is a no-op and produces no request. Without a
// session it aborts with ErrAuthRequired and the caller closes the modal.
// Validation and server failures land in State, not in the returned error,
// and leave the form editable.
func (e *Engine) Submit(ctx context.Context) error {
	if e.state.Phase == PhaseSubmitting {
		return nil
	}
	if !e.open {
		return ErrNoDraft
	}
	if e.alreadyRegistered {
		return ErrAlreadyRegistered
	}
	if _, ok := e.session.Current(); !ok {
		return ErrAuthRequired
	}

	if msg := e.draft.validate(e.event.IsTeamEvent); msg != "" {
		e.state = State{Phase: PhaseFailed, Message: msg}
		return nil
	}

	e.state = State{Phase: PhaseSubmitting}
	err := e.gateway.SubmitRegistration(ctx, e.draft.submission(e.event))
	switch {
	case err == nil:
		e.state = State{Phase: PhaseSucceeded}
		e.logger.Info("registration submitted",
			zap.String("draft_id", e.draftID.String()),
			zap.String("event_id", e.event.ID),
		)
	case isServerRejection(err):
		msg := serverMessage(err)
		e.state = State{Phase: PhaseFailed, Message: msg}
		e.logger.Warn("registration rejected", zap.String("message", msg))
	default:
		e.state = State{Phase: PhaseFailed, Message: msgUnreachable}
		e.logger.Warn("registration submit failed", zap.Error(err))
	}
	return nil
}

// isServerRejection distinguishes a response the server actually produced
// from a transport-level failure.
func isServerRejection(err error) bool {
	var ve *api.ValidationError
	var se *api.StatusError
	return errors.As(err, &ve) || errors.As(err, &se)
}

// serverMessage joins the structured per-field messages when present,
// otherwise falls back to the generic rejection message.
func serverMessage(err error) string {
	var ve *api.ValidationError
	if errors.As(err, &ve) && len(ve.Messages) > 0 {
		return strings.Join(ve.Messages, ", ")
	}
	return msgServerRejected
}

// State returns the current submission state.
func (e *Engine) State() State {
	return e.state
}

// Draft exposes the draft for rendering. Nil while closed.
func (e *Engine) Draft() *Draft {
	return e.draft
}

// Event returns the event of the open session, nil while closed.
func (e *Engine) Event() *models.Event {
	return e.event
}

// AlreadyRegistered reports whether the duplicate-registration gate tripped
// for the open session.
func (e *Engine) AlreadyRegistered() bool {
	return e.alreadyRegistered
}

// Submitting reports whether a submission is outstanding.
func (e *Engine) Submitting() bool {
	return e.state.Phase == PhaseSubmitting
}
