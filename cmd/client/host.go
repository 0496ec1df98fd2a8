package main

// termHost is the terminal rendering surface behind modal.Host. There is no
// real focus or page scroll in a terminal, so it only tracks what the modal
// asked for.
type termHost struct {
	active string
	locked bool
}

func newTermHost() *termHost {
	return &termHost{}
}

func (h *termHost) FocusableElements() []string {
	return []string{"form", "submit", "close"}
}

func (h *termHost) ActiveElement() string {
	return h.active
}

func (h *termHost) Focus(id string) {
	h.active = id
}

func (h *termHost) SetScrollLock(locked bool) {
	h.locked = locked
}
