package modal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skatefest/client/internal/models"
)

type fakeHost struct {
	focusable []string
	active    string
	lockLog   []bool
}

func newFakeHost() *fakeHost {
	return &fakeHost{focusable: []string{"first", "second", "third"}}
}

func (h *fakeHost) FocusableElements() []string { return h.focusable }
func (h *fakeHost) ActiveElement() string       { return h.active }
func (h *fakeHost) Focus(id string)             { h.active = id }
func (h *fakeHost) SetScrollLock(locked bool)   { h.lockLog = append(h.lockLog, locked) }

type fakeForm struct {
	openCalls  int
	closeCalls int
	openErr    error
	submitting bool
	lastEvent  *models.Event
}

func (f *fakeForm) Open(_ context.Context, event *models.Event) error {
	if f.openErr != nil {
		return f.openErr
	}
	f.openCalls++
	f.lastEvent = event
	return nil
}

func (f *fakeForm) Close() error {
	f.closeCalls++
	return nil
}

func (f *fakeForm) Submitting() bool { return f.submitting }

func event() *models.Event {
	return &models.Event{ID: "ev-1", Title: "Speed Sprint"}
}

func TestOpenTransition(t *testing.T) {
	host := newFakeHost()
	form := &fakeForm{}
	m := New(host, form, nil)

	require.NoError(t, m.OpenFor(context.Background(), event()))
	assert.Equal(t, Open, m.Phase())
	assert.Equal(t, 1, form.openCalls)
	assert.Equal(t, []bool{true}, host.lockLog)
	assert.Equal(t, "first", host.active)
}

func TestOpenWhileOpenIsNoOp(t *testing.T) {
	host := newFakeHost()
	form := &fakeForm{}
	m := New(host, form, nil)

	require.NoError(t, m.OpenFor(context.Background(), event()))
	require.NoError(t, m.OpenFor(context.Background(), event()))
	require.NoError(t, m.OpenFor(context.Background(), event()))

	assert.Equal(t, 1, form.openCalls, "reset signal must fire once per transition")
	assert.Equal(t, []bool{true}, host.lockLog)
}

func TestOpenPropagatesFormError(t *testing.T) {
	host := newFakeHost()
	form := &fakeForm{openErr: errors.New("busy")}
	m := New(host, form, nil)

	assert.Error(t, m.OpenFor(context.Background(), event()))
	assert.Equal(t, Closed, m.Phase())
	assert.Empty(t, host.lockLog, "host must stay untouched when the form refuses to open")
}

func TestCloseReleasesHostEffects(t *testing.T) {
	host := newFakeHost()
	form := &fakeForm{}
	m := New(host, form, nil)

	require.NoError(t, m.OpenFor(context.Background(), event()))
	require.NoError(t, m.Close(ReasonCloseButton))

	assert.Equal(t, Closed, m.Phase())
	assert.Equal(t, 1, form.closeCalls)
	assert.Equal(t, []bool{true, false}, host.lockLog)
	assert.Nil(t, m.Event())
}

func TestCloseWhileClosedIsNoOp(t *testing.T) {
	form := &fakeForm{}
	m := New(newFakeHost(), form, nil)

	require.NoError(t, m.Close(ReasonCloseButton))
	assert.Zero(t, form.closeCalls)
}

func TestCloseRefusedWhileSubmitting(t *testing.T) {
	form := &fakeForm{}
	m := New(newFakeHost(), form, nil)
	require.NoError(t, m.OpenFor(context.Background(), event()))

	form.submitting = true
	assert.ErrorIs(t, m.Close(ReasonCloseButton), ErrBusy)
	assert.ErrorIs(t, m.HandleKey(KeyEscape), ErrBusy)
	assert.ErrorIs(t, m.HandleBackgroundClick(), ErrBusy)
	assert.Equal(t, Open, m.Phase())

	// The success path may close through the submitting window.
	form.submitting = false
	require.NoError(t, m.Close(ReasonSuccess))
	assert.Equal(t, Closed, m.Phase())
}

func TestEscapeCloses(t *testing.T) {
	m := New(newFakeHost(), &fakeForm{}, nil)
	require.NoError(t, m.OpenFor(context.Background(), event()))

	require.NoError(t, m.HandleKey(KeyEscape))
	assert.Equal(t, Closed, m.Phase())
}

func TestBackgroundClickCloses(t *testing.T) {
	m := New(newFakeHost(), &fakeForm{}, nil)
	require.NoError(t, m.OpenFor(context.Background(), event()))

	require.NoError(t, m.HandleBackgroundClick())
	assert.Equal(t, Closed, m.Phase())
}

func TestTabCyclesWithinFocusRing(t *testing.T) {
	host := newFakeHost()
	m := New(host, &fakeForm{}, nil)
	require.NoError(t, m.OpenFor(context.Background(), event()))

	require.NoError(t, m.HandleKey(KeyTab))
	assert.Equal(t, "second", host.active)
	require.NoError(t, m.HandleKey(KeyTab))
	assert.Equal(t, "third", host.active)
	require.NoError(t, m.HandleKey(KeyTab))
	assert.Equal(t, "first", host.active, "tab wraps to the first element")

	require.NoError(t, m.HandleKey(KeyShiftTab))
	assert.Equal(t, "third", host.active, "shift+tab wraps backwards")
}

func TestKeysIgnoredWhileClosed(t *testing.T) {
	host := newFakeHost()
	m := New(host, &fakeForm{}, nil)

	require.NoError(t, m.HandleKey(KeyTab))
	require.NoError(t, m.HandleKey(KeyEscape))
	assert.Empty(t, host.active)
}

func TestRepeatedCyclesDoNotLeak(t *testing.T) {
	host := newFakeHost()
	form := &fakeForm{}
	m := New(host, form, nil)

	for i := 0; i < 3; i++ {
		require.NoError(t, m.OpenFor(context.Background(), event()))
		require.NoError(t, m.Close(ReasonCloseButton))
	}

	assert.Equal(t, 3, form.openCalls)
	assert.Equal(t, 3, form.closeCalls)
	assert.Equal(t, []bool{true, false, true, false, true, false}, host.lockLog)
}

func TestCloseOnSuccess(t *testing.T) {
	form := &fakeForm{}
	m := New(newFakeHost(), form, nil)
	require.NoError(t, m.OpenFor(context.Background(), event()))

	require.NoError(t, m.CloseOnSuccess())
	assert.Equal(t, Closed, m.Phase())
}
