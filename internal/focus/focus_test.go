package focus

import (
	"errors"
	"testing"

	"github.com/DoyleJ11/lol-rune-draft/internal/draft"
)

func mustSelect(t *testing.T, c *Controller, ref draft.SlotRef) {
	t.Helper()
	if err := c.SelectActive(ref); err != nil {
		t.Fatalf("select %s: %v", ref, err)
	}
}

func TestFocusFollowsActivePickUnlessLocked(t *testing.T) {
	cases := []struct {
		name   string
		locked bool
		want   draft.SlotRef
	}{
		{name: "unlocked follows", locked: false, want: draft.Pick(draft.TeamRed, 0)},
		{name: "locked stays", locked: true, want: draft.Pick(draft.TeamBlue, 2)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewController()
			mustSelect(t, c, draft.Pick(draft.TeamBlue, 2))
			if tc.locked {
				c.ToggleLock()
			}
			mustSelect(t, c, draft.Pick(draft.TeamRed, 0))

			got, ok := c.RunesFocus()
			if !ok || got != tc.want {
				t.Fatalf("runes focus = %v (%v), want %v", got, ok, tc.want)
			}
			if active, _ := c.Active(); active != draft.Pick(draft.TeamRed, 0) {
				t.Fatalf("active = %v", active)
			}
		})
	}
}

func TestBanSlotNeverBecomesFocus(t *testing.T) {
	c := NewController()
	mustSelect(t, c, draft.Ban(draft.TeamBlue, 0))
	if _, ok := c.RunesFocus(); ok {
		t.Fatalf("ban slot must not be focused")
	}

	mustSelect(t, c, draft.Pick(draft.TeamBlue, 1))
	mustSelect(t, c, draft.Ban(draft.TeamRed, 4))
	if got, _ := c.RunesFocus(); got != draft.Pick(draft.TeamBlue, 1) {
		t.Fatalf("selecting a ban moved focus to %v", got)
	}
}

func TestClearingFocusedSlotReleasesLock(t *testing.T) {
	c := NewController()
	mustSelect(t, c, draft.Pick(draft.TeamBlue, 1))
	if !c.ToggleLock() {
		t.Fatalf("expected locked")
	}

	if c.OnLedgerMutation(draft.Pick(draft.TeamBlue, 2), false) {
		t.Fatalf("clearing another slot must not drop focus")
	}
	if c.OnLedgerMutation(draft.Pick(draft.TeamBlue, 1), true) {
		t.Fatalf("replacing the occupant must not drop focus")
	}

	if !c.OnLedgerMutation(draft.Pick(draft.TeamBlue, 1), false) {
		t.Fatalf("clearing the focused slot must drop focus")
	}
	s := c.State()
	if s.RunesFocus != nil || s.Locked {
		t.Fatalf("after clear: %+v", s)
	}
}

func TestUnlockSnapsToActive(t *testing.T) {
	c := NewController()
	mustSelect(t, c, draft.Pick(draft.TeamBlue, 0))
	c.ToggleLock()
	mustSelect(t, c, draft.Pick(draft.TeamRed, 3))

	if c.ToggleLock() {
		t.Fatalf("expected unlocked")
	}
	if got, _ := c.RunesFocus(); got != draft.Pick(draft.TeamRed, 3) {
		t.Fatalf("unlock should snap to active, got %v", got)
	}
}

func TestUnlockWithBanActiveKeepsSubject(t *testing.T) {
	c := NewController()
	mustSelect(t, c, draft.Pick(draft.TeamBlue, 0))
	c.ToggleLock()
	mustSelect(t, c, draft.Ban(draft.TeamRed, 3))
	c.ToggleLock()

	if got, _ := c.RunesFocus(); got != draft.Pick(draft.TeamBlue, 0) {
		t.Fatalf("got %v", got)
	}
	if c.Focus().Mode() != ModeFollowing {
		t.Fatalf("mode = %s", c.Focus().Mode())
	}
}

func TestToggleLockWithoutFocusIsNoop(t *testing.T) {
	c := NewController()
	if c.ToggleLock() {
		t.Fatalf("nothing focused, lock must not engage")
	}
	if c.Focus().Mode() != ModeIdle {
		t.Fatalf("mode = %s", c.Focus().Mode())
	}
}

func TestSideSwapTwiceRestoresFocus(t *testing.T) {
	c := NewController()
	mustSelect(t, c, draft.Pick(draft.TeamBlue, 3))
	c.ToggleLock()
	mustSelect(t, c, draft.Ban(draft.TeamRed, 1))
	before := c.State()

	c.OnSideSwap()
	s := c.State()
	if *s.Active != draft.Ban(draft.TeamBlue, 1) || *s.RunesFocus != draft.Pick(draft.TeamRed, 3) || !s.Locked {
		t.Fatalf("after one swap: %+v %+v", *s.Active, *s.RunesFocus)
	}

	c.OnSideSwap()
	after := c.State()
	if *after.Active != *before.Active || *after.RunesFocus != *before.RunesFocus || after.Locked != before.Locked {
		t.Fatalf("double swap: got %+v, want %+v", after, before)
	}
}

func TestSelectInvalidSlot(t *testing.T) {
	c := NewController()
	err := c.SelectActive(draft.SlotRef{Kind: draft.KindPick, Team: draft.TeamBlue, Index: 7})
	if !errors.Is(err, draft.ErrInvalidSlot) {
		t.Fatalf("want ErrInvalidSlot, got %v", err)
	}
	if _, ok := c.Active(); ok {
		t.Fatalf("invalid select must not set active")
	}
}

func TestReset(t *testing.T) {
	c := NewController()
	mustSelect(t, c, draft.Pick(draft.TeamRed, 2))
	c.ToggleLock()
	c.Reset()
	if s := c.State(); s.Active != nil || s.RunesFocus != nil || s.Locked {
		t.Fatalf("after reset: %+v", s)
	}
}
