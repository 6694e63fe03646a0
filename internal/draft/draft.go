package draft

import (
	"errors"
	"fmt"
)

var ErrAlreadyUsed = errors.New("champion already used")
var ErrInvalidSlot = errors.New("invalid slot")

// SlotsPerTeam is the number of pick (and ban) slots on each side.
const SlotsPerTeam = 5

// PickSlots is the number of pick slots across both sides.
const PickSlots = 2 * SlotsPerTeam

type Team string

const (
	TeamBlue Team = "blue"
	TeamRed  Team = "red"
)

var Teams = [2]Team{TeamBlue, TeamRed}

func (t Team) Valid() bool { return t == TeamBlue || t == TeamRed }

func (t Team) Opposite() Team {
	if t == TeamBlue {
		return TeamRed
	}
	return TeamBlue
}

type Kind string

const (
	KindPick Kind = "pick"
	KindBan  Kind = "ban"
)

func (k Kind) Valid() bool { return k == KindPick || k == KindBan }

type Role string

const (
	RoleTop     Role = "TOP"
	RoleJungle  Role = "JUNGLE"
	RoleMid     Role = "MID"
	RoleADC     Role = "ADC"
	RoleSupport Role = "SUPPORT"
)

// Roles maps a pick slot index to the lane it plays.
var Roles = [SlotsPerTeam]Role{RoleTop, RoleJungle, RoleMid, RoleADC, RoleSupport}

// Champion is a reference to a catalog entry. Key is the numeric champion key
// the prediction models are trained on.
type Champion struct {
	ID   string `json:"id"`
	Key  int    `json:"key"`
	Name string `json:"name"`
}

type SlotRef struct {
	Kind  Kind `json:"kind"`
	Team  Team `json:"team"`
	Index int  `json:"index"`
}

func Pick(team Team, index int) SlotRef { return SlotRef{Kind: KindPick, Team: team, Index: index} }
func Ban(team Team, index int) SlotRef  { return SlotRef{Kind: KindBan, Team: team, Index: index} }

func (r SlotRef) Validate() error {
	if !r.Kind.Valid() || !r.Team.Valid() || r.Index < 0 || r.Index >= SlotsPerTeam {
		return fmt.Errorf("%w: %s", ErrInvalidSlot, r)
	}
	return nil
}

func (r SlotRef) IsPick() bool { return r.Kind == KindPick }

// Flipped returns the same position on the other side.
func (r SlotRef) Flipped() SlotRef {
	r.Team = r.Team.Opposite()
	return r
}

// PlayerIndex is the 0..9 position used by the prediction models:
// blue players first, then red.
func (r SlotRef) PlayerIndex() int {
	if r.Team == TeamBlue {
		return r.Index
	}
	return r.Index + SlotsPerTeam
}

// PlayerSlot is the inverse of PlayerIndex.
func PlayerSlot(player int) SlotRef {
	if player < SlotsPerTeam {
		return Pick(TeamBlue, player)
	}
	return Pick(TeamRed, player-SlotsPerTeam)
}

func (r SlotRef) Role() Role {
	if r.Index < 0 || r.Index >= SlotsPerTeam {
		return ""
	}
	return Roles[r.Index]
}

func (r SlotRef) String() string {
	return fmt.Sprintf("%s/%s/%d", r.Kind, r.Team, r.Index)
}
