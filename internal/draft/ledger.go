package draft

import "slices"

type Row [SlotsPerTeam]*Champion

// Ledger is the pick/ban grid. A champion id occupies at most one slot across
// both buckets and both sides.
type Ledger struct {
	picks map[Team]*Row
	bans  map[Team]*Row
}

func NewLedger() *Ledger {
	return &Ledger{
		picks: map[Team]*Row{TeamBlue: {}, TeamRed: {}},
		bans:  map[Team]*Row{TeamBlue: {}, TeamRed: {}},
	}
}

func (l *Ledger) row(kind Kind, team Team) *Row {
	if kind == KindPick {
		return l.picks[team]
	}
	return l.bans[team]
}

// Place writes champion c into slot ref. It fails with ErrAlreadyUsed when c
// sits in any other slot; the ledger is left unchanged in that case.
func (l *Ledger) Place(ref SlotRef, c Champion) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	if at, ok := l.locate(c.ID); ok && at != ref {
		return ErrAlreadyUsed
	}
	champ := c
	l.row(ref.Kind, ref.Team)[ref.Index] = &champ
	return nil
}

// Clear empties slot ref. Clearing an empty slot is a no-op.
func (l *Ledger) Clear(ref SlotRef) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	l.row(ref.Kind, ref.Team)[ref.Index] = nil
	return nil
}

func (l *Ledger) Occupant(ref SlotRef) (Champion, bool) {
	if ref.Validate() != nil {
		return Champion{}, false
	}
	c := l.row(ref.Kind, ref.Team)[ref.Index]
	if c == nil {
		return Champion{}, false
	}
	return *c, true
}

func (l *Ledger) ResetAll() {
	for _, team := range Teams {
		*l.picks[team] = Row{}
		*l.bans[team] = Row{}
	}
}

// SwapSides exchanges blue and red for picks and bans together.
func (l *Ledger) SwapSides() {
	l.picks[TeamBlue], l.picks[TeamRed] = l.picks[TeamRed], l.picks[TeamBlue]
	l.bans[TeamBlue], l.bans[TeamRed] = l.bans[TeamRed], l.bans[TeamBlue]
}

func (l *Ledger) UsedIDs() map[string]bool {
	used := map[string]bool{}
	for _, row := range l.rows() {
		for _, c := range row {
			if c != nil {
				used[c.ID] = true
			}
		}
	}
	return used
}

// PickedChampionKeys returns the five pick keys of team in slot order; 0 marks
// an empty slot.
func (l *Ledger) PickedChampionKeys(team Team) [SlotsPerTeam]int {
	var keys [SlotsPerTeam]int
	row := l.picks[team]
	if row == nil {
		return keys
	}
	for i, c := range row {
		if c != nil {
			keys[i] = c.Key
		}
	}
	return keys
}

// PickSnapshot returns blue picks 0-4 followed by red picks 0-4 and whether
// all ten are filled.
func (l *Ledger) PickSnapshot() ([PickSlots]int, bool) {
	var keys [PickSlots]int
	blue := l.PickedChampionKeys(TeamBlue)
	red := l.PickedChampionKeys(TeamRed)
	copy(keys[:SlotsPerTeam], blue[:])
	copy(keys[SlotsPerTeam:], red[:])
	return keys, !slices.Contains(keys[:], 0)
}

func (l *Ledger) FilledPicks() int {
	n := 0
	for _, team := range Teams {
		for _, c := range l.picks[team] {
			if c != nil {
				n++
			}
		}
	}
	return n
}

func (l *Ledger) locate(id string) (SlotRef, bool) {
	for _, kind := range []Kind{KindPick, KindBan} {
		for _, team := range Teams {
			for i, c := range l.row(kind, team) {
				if c != nil && c.ID == id {
					return SlotRef{Kind: kind, Team: team, Index: i}, true
				}
			}
		}
	}
	return SlotRef{}, false
}

func (l *Ledger) rows() []*Row {
	return []*Row{l.picks[TeamBlue], l.picks[TeamRed], l.bans[TeamBlue], l.bans[TeamRed]}
}

// View is a detached copy of the grid for renderers. Empty slots are nil.
type View struct {
	Picks map[Team][]*Champion `json:"picks"`
	Bans  map[Team][]*Champion `json:"bans"`
}

func (l *Ledger) View() View {
	v := View{
		Picks: map[Team][]*Champion{},
		Bans:  map[Team][]*Champion{},
	}
	for _, team := range Teams {
		v.Picks[team] = copyRow(l.picks[team])
		v.Bans[team] = copyRow(l.bans[team])
	}
	return v
}

func copyRow(row *Row) []*Champion {
	out := make([]*Champion, SlotsPerTeam)
	for i, c := range row {
		if c != nil {
			champ := *c
			out[i] = &champ
		}
	}
	return out
}
