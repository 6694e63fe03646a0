package draft

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func champ(id string, key int) Champion {
	return Champion{ID: id, Key: key, Name: id}
}

func fullPicks(l *Ledger) {
	for i := range SlotsPerTeam {
		_ = l.Place(Pick(TeamBlue, i), champ(fmt.Sprintf("b%d", i), 100+i))
		_ = l.Place(Pick(TeamRed, i), champ(fmt.Sprintf("r%d", i), 200+i))
	}
}

func TestPlaceRejectsChampionUsedElsewhere(t *testing.T) {
	cases := []struct {
		name    string
		first   SlotRef
		second  SlotRef
		wantErr error
	}{
		{
			name:    "same champion picked on other side",
			first:   Pick(TeamBlue, 0),
			second:  Pick(TeamRed, 3),
			wantErr: ErrAlreadyUsed,
		},
		{
			name:    "banned champion cannot be picked",
			first:   Ban(TeamRed, 1),
			second:  Pick(TeamBlue, 1),
			wantErr: ErrAlreadyUsed,
		},
		{
			name:    "picked champion cannot be banned",
			first:   Pick(TeamBlue, 4),
			second:  Ban(TeamBlue, 0),
			wantErr: ErrAlreadyUsed,
		},
		{
			name:    "re-placing into the same slot is fine",
			first:   Pick(TeamBlue, 2),
			second:  Pick(TeamBlue, 2),
			wantErr: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLedger()
			if err := l.Place(tc.first, champ("Ahri", 103)); err != nil {
				t.Fatalf("first place: %v", err)
			}
			before := l.View()

			err := l.Place(tc.second, champ("Ahri", 103))
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got err %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr != nil {
				if _, ok := l.Occupant(tc.second); ok {
					t.Fatalf("rejected place must leave %s empty", tc.second)
				}
				if !reflect.DeepEqual(before, l.View()) {
					t.Fatalf("ledger changed after rejected place")
				}
			}
		})
	}
}

func TestUniquenessHoldsOverPlaceSequence(t *testing.T) {
	l := NewLedger()
	ids := []string{"Ahri", "Zed", "Lux", "Ahri", "Zed", "Garen"}
	slots := []SlotRef{
		Pick(TeamBlue, 0), Ban(TeamRed, 0), Pick(TeamRed, 2),
		Pick(TeamRed, 4), Ban(TeamBlue, 3), Pick(TeamBlue, 0),
	}
	for i, id := range ids {
		_ = l.Place(slots[i], champ(id, i+1))

		seen := map[string]int{}
		v := l.View()
		for _, team := range Teams {
			for _, c := range append(v.Picks[team], v.Bans[team]...) {
				if c != nil {
					seen[c.ID]++
				}
			}
		}
		for id, n := range seen {
			if n > 1 {
				t.Fatalf("step %d: %s occupies %d slots", i, id, n)
			}
		}
	}
}

func TestPlaceOverwritesOccupant(t *testing.T) {
	l := NewLedger()
	_ = l.Place(Pick(TeamBlue, 1), champ("Lee", 64))
	if err := l.Place(Pick(TeamBlue, 1), champ("Vi", 254)); err != nil {
		t.Fatalf("unexpected err %v", err)
	}
	got, _ := l.Occupant(Pick(TeamBlue, 1))
	if got.ID != "Vi" {
		t.Fatalf("got %q, want Vi", got.ID)
	}
	if l.UsedIDs()["Lee"] {
		t.Fatalf("replaced champion should no longer be used")
	}
}

func TestInvalidSlotIsRejected(t *testing.T) {
	l := NewLedger()
	bad := []SlotRef{
		{Kind: KindPick, Team: TeamBlue, Index: 5},
		{Kind: KindPick, Team: TeamBlue, Index: -1},
		{Kind: "hover", Team: TeamBlue, Index: 0},
		{Kind: KindBan, Team: "green", Index: 0},
	}
	for _, ref := range bad {
		if err := l.Place(ref, champ("Ahri", 103)); !errors.Is(err, ErrInvalidSlot) {
			t.Fatalf("place %v: want ErrInvalidSlot, got %v", ref, err)
		}
		if err := l.Clear(ref); !errors.Is(err, ErrInvalidSlot) {
			t.Fatalf("clear %v: want ErrInvalidSlot, got %v", ref, err)
		}
	}
}

func TestClearAndReset(t *testing.T) {
	l := NewLedger()
	_ = l.Place(Pick(TeamRed, 0), champ("Zed", 238))
	_ = l.Place(Ban(TeamBlue, 0), champ("Yasuo", 157))

	if err := l.Clear(Pick(TeamRed, 1)); err != nil {
		t.Fatalf("clearing empty slot: %v", err)
	}
	if err := l.Clear(Pick(TeamRed, 0)); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if used := l.UsedIDs(); used["Zed"] || !used["Yasuo"] {
		t.Fatalf("after clear: used = %v", used)
	}

	l.ResetAll()
	if len(l.UsedIDs()) != 0 {
		t.Fatalf("after reset: used = %v", l.UsedIDs())
	}
}

func TestSwapSidesTwiceRestoresLedger(t *testing.T) {
	l := NewLedger()
	_ = l.Place(Pick(TeamBlue, 0), champ("Aatrox", 266))
	_ = l.Place(Pick(TeamRed, 3), champ("Jinx", 222))
	_ = l.Place(Ban(TeamBlue, 2), champ("Yone", 777))
	before := l.View()

	l.SwapSides()
	if c, ok := l.Occupant(Pick(TeamRed, 0)); !ok || c.ID != "Aatrox" {
		t.Fatalf("after swap: red pick 0 = %+v", c)
	}
	if c, ok := l.Occupant(Ban(TeamRed, 2)); !ok || c.ID != "Yone" {
		t.Fatalf("after swap: bans must move with picks, red ban 2 = %+v", c)
	}

	l.SwapSides()
	if after := l.View(); !reflect.DeepEqual(after, before) {
		t.Fatalf("double swap: got %+v, want %+v", after, before)
	}
}

func TestPickSnapshot(t *testing.T) {
	l := NewLedger()
	fullPicks(l)
	_ = l.Clear(Pick(TeamRed, 4))

	keys, complete := l.PickSnapshot()
	if complete {
		t.Fatalf("9 picks reported complete")
	}
	if keys[0] != 100 || keys[5] != 200 || keys[9] != 0 {
		t.Fatalf("unexpected order %v", keys)
	}
	if n := l.FilledPicks(); n != 9 {
		t.Fatalf("FilledPicks = %d, want 9", n)
	}

	_ = l.Place(Pick(TeamRed, 4), champ("r4", 204))
	if _, complete := l.PickSnapshot(); !complete {
		t.Fatalf("10 picks reported incomplete")
	}
}

func TestSlotRefPlayerIndex(t *testing.T) {
	cases := []struct {
		ref  SlotRef
		want int
	}{
		{Pick(TeamBlue, 0), 0},
		{Pick(TeamBlue, 4), 4},
		{Pick(TeamRed, 0), 5},
		{Pick(TeamRed, 4), 9},
	}
	for _, tc := range cases {
		if got := tc.ref.PlayerIndex(); got != tc.want {
			t.Fatalf("%s: got %d, want %d", tc.ref, got, tc.want)
		}
		if back := PlayerSlot(tc.want); back != tc.ref {
			t.Fatalf("PlayerSlot(%d) = %s, want %s", tc.want, back, tc.ref)
		}
	}
	if Pick(TeamRed, 3).Role() != RoleADC {
		t.Fatalf("index 3 should play ADC")
	}
}
