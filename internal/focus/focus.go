// Package focus tracks which draft slot receives champion clicks ("active")
// and which pick slot's recommendations are displayed ("runes focus").
//
// The runes focus follows the active pick slot until the user locks it. The
// focus is modelled as Idle, Following(slot) or Locked(slot), so a lock with no
// subject cannot be expressed.
package focus

import (
	"fmt"

	"github.com/DoyleJ11/lol-rune-draft/internal/draft"
)

type Mode string

const (
	ModeIdle      Mode = "idle"
	ModeFollowing Mode = "following"
	ModeLocked    Mode = "locked"
)

// Focus is the runes focus. The zero value is Idle.
type Focus struct {
	mode    Mode
	subject draft.SlotRef
}

func Idle() Focus { return Focus{mode: ModeIdle} }

func Following(ref draft.SlotRef) Focus { return Focus{mode: ModeFollowing, subject: ref} }

func Locked(ref draft.SlotRef) Focus { return Focus{mode: ModeLocked, subject: ref} }

func (f Focus) Mode() Mode {
	if f.mode == "" {
		return ModeIdle
	}
	return f.mode
}

func (f Focus) Subject() (draft.SlotRef, bool) {
	if f.Mode() == ModeIdle {
		return draft.SlotRef{}, false
	}
	return f.subject, true
}

func (f Focus) IsLocked() bool { return f.mode == ModeLocked }

func (f Focus) String() string {
	if ref, ok := f.Subject(); ok {
		return fmt.Sprintf("%s(%s)", f.mode, ref)
	}
	return string(ModeIdle)
}

// State is the read-only snapshot handed to renderers.
type State struct {
	Active     *draft.SlotRef `json:"active"`
	RunesFocus *draft.SlotRef `json:"runes_focus"`
	Locked     bool           `json:"locked"`
}

type Controller struct {
	active    draft.SlotRef
	hasActive bool
	focus     Focus
}

func NewController() *Controller {
	return &Controller{focus: Idle()}
}

// SelectActive makes ref the active slot. While unlocked, an active pick slot
// also becomes the runes focus.
func (c *Controller) SelectActive(ref draft.SlotRef) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	c.active = ref
	c.hasActive = true
	if !c.focus.IsLocked() && ref.IsPick() {
		c.focus = Following(ref)
	}
	return nil
}

// ToggleLock locks the current focus or releases the lock. Unlocking snaps the
// focus to the slot that is active now. With nothing focused there is nothing
// to lock and the call is a no-op. It reports whether the focus is locked
// afterwards.
func (c *Controller) ToggleLock() bool {
	switch c.focus.Mode() {
	case ModeFollowing:
		c.focus = Locked(c.focus.subject)
	case ModeLocked:
		c.focus = Following(c.focus.subject)
		if c.hasActive && c.active.IsPick() {
			c.focus = Following(c.active)
		}
	}
	return c.focus.IsLocked()
}

// OnLedgerMutation is called after slot ref changed. When the focused slot has
// been emptied the focus is dropped and any lock released. It reports whether
// the focus was dropped.
func (c *Controller) OnLedgerMutation(ref draft.SlotRef, occupied bool) bool {
	subject, ok := c.focus.Subject()
	if !ok || subject != ref || occupied {
		return false
	}
	c.focus = Idle()
	return true
}

// OnSideSwap moves the active slot and the focus to the other side together so
// both keep pointing at the same player after the ledger swap.
func (c *Controller) OnSideSwap() {
	if c.hasActive {
		c.active = c.active.Flipped()
	}
	switch c.focus.Mode() {
	case ModeFollowing:
		c.focus = Following(c.focus.subject.Flipped())
	case ModeLocked:
		c.focus = Locked(c.focus.subject.Flipped())
	}
}

// Reset clears the active slot, the focus and the lock.
func (c *Controller) Reset() {
	c.active = draft.SlotRef{}
	c.hasActive = false
	c.focus = Idle()
}

func (c *Controller) Active() (draft.SlotRef, bool) { return c.active, c.hasActive }

func (c *Controller) RunesFocus() (draft.SlotRef, bool) { return c.focus.Subject() }

func (c *Controller) Focus() Focus { return c.focus }

func (c *Controller) State() State {
	var s State
	if c.hasActive {
		active := c.active
		s.Active = &active
	}
	if ref, ok := c.focus.Subject(); ok {
		s.RunesFocus = &ref
	}
	s.Locked = c.focus.IsLocked()
	return s
}
