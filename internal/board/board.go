package board

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-rune-draft/internal/catalog"
	"github.com/DoyleJ11/lol-rune-draft/internal/draft"
	"github.com/DoyleJ11/lol-rune-draft/internal/focus"
	"github.com/DoyleJ11/lol-rune-draft/internal/predict"
	"github.com/DoyleJ11/lol-rune-draft/internal/recommend"
	"github.com/DoyleJ11/lol-rune-draft/internal/runes"
)

var ErrNoActiveSlot = errors.New("no active slot")
var ErrUnknownChampion = errors.New("unknown champion")
var ErrNoPrediction = errors.New("no prediction to edit")
var ErrUnsupportedCommand = errors.New("unsupported command")

type CommandType string

const (
	CmdSelectSlot           CommandType = "SelectSlot"
	CmdPlaceChampion        CommandType = "PlaceChampion"
	CmdClearSlot            CommandType = "ClearSlot"
	CmdResetDraft           CommandType = "ResetDraft"
	CmdSwapSides            CommandType = "SwapSides"
	CmdToggleLock           CommandType = "ToggleLock"
	CmdSelectPrimaryStyle   CommandType = "SelectPrimaryStyle"
	CmdSelectSecondaryStyle CommandType = "SelectSecondaryStyle"
	CmdRefresh              CommandType = "Refresh"
)

/*
	CmdSelectSlot           -> EvtSlotSelected -> EvtPredictionIssued (focus moved onto a full draft)
	CmdPlaceChampion        -> EvtChampionPlaced -> EvtPredictionIssued
	CmdClearSlot            -> EvtSlotCleared -> EvtFocusDropped (if it was the focus)
	CmdResetDraft           -> EvtDraftReset
	CmdSwapSides            -> EvtSidesSwapped -> EvtPredictionIssued
	CmdToggleLock           -> EvtLockToggled -> EvtPredictionIssued (unlock snapped elsewhere)
	CmdSelect*Style         -> EvtPageChanged
	CmdRefresh              -> EvtPredictionIssued | EvtStatusChanged (engine loaded or reset)
	Resolve                 -> EvtPredictionApplied | EvtPredictionFailed
*/

// Command is one user intent. Slot is optional for CmdPlaceChampion, which
// falls back to the active slot.
type Command struct {
	Type       CommandType
	Slot       draft.SlotRef
	ChampionID string
	StyleID    int
}

type EventType string

const (
	EvtSlotSelected      EventType = "SlotSelected"
	EvtChampionPlaced    EventType = "ChampionPlaced"
	EvtSlotCleared       EventType = "SlotCleared"
	EvtDraftReset        EventType = "DraftReset"
	EvtSidesSwapped      EventType = "SidesSwapped"
	EvtLockToggled       EventType = "LockToggled"
	EvtFocusDropped      EventType = "FocusDropped"
	EvtPredictionIssued  EventType = "PredictionIssued"
	EvtPredictionApplied EventType = "PredictionApplied"
	EvtPredictionFailed  EventType = "PredictionFailed"
	EvtPageChanged       EventType = "PageChanged"
	EvtStatusChanged     EventType = "StatusChanged"
)

type Event struct {
	Type       EventType
	Slot       draft.SlotRef
	ChampionID string
	RequestID  uint64
	StyleID    int
	Locked     bool
}

// Engine is the prediction engine plus the mappings it was loaded with; the
// rune style catalog comes from those mappings.
type Engine interface {
	recommend.Engine
	Mappings() *predict.Mappings
}

type ChampionLookup interface {
	Lookup(id string) (draft.Champion, bool)
}

// NameSource returns cached display metadata, or nil while none is loaded.
type NameSource interface {
	Cached() *catalog.Metadata
}

type Deps struct {
	Engine    Engine
	Champions ChampionLookup
	Names     NameSource
	Log       *zap.Logger
}

// Board is one user's draft: ledger, focus, recommendation and rune page.
// It is not safe for concurrent use; a lobby goroutine owns it.
type Board struct {
	ledger    *draft.Ledger
	focus     *focus.Controller
	orch      *recommend.Orchestrator
	engine    Engine
	champions ChampionLookup
	names     NameSource
	log       *zap.Logger

	page       *runes.Page
	pagePlayer int
}

// New returns an empty board. Predictions run under ctx and come back through
// deliver; the owner passes them to Resolve.
func New(ctx context.Context, deps Deps, deliver func(recommend.Resolution)) *Board {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	var eng recommend.Engine = deps.Engine
	return &Board{
		ledger:    draft.NewLedger(),
		focus:     focus.NewController(),
		orch:      recommend.New(ctx, eng, deliver, log),
		engine:    deps.Engine,
		champions: deps.Champions,
		names:     deps.Names,
		log:       log.Named("board"),
	}
}

func (b *Board) Apply(cmd Command) ([]Event, error) {
	var events []Event

	switch cmd.Type {
	case CmdSelectSlot:
		if err := b.focus.SelectActive(cmd.Slot); err != nil {
			return nil, err
		}
		events = append(events, Event{Type: EvtSlotSelected, Slot: cmd.Slot})

	case CmdPlaceChampion:
		ref := cmd.Slot
		if ref.Kind == "" {
			active, ok := b.focus.Active()
			if !ok {
				return nil, ErrNoActiveSlot
			}
			ref = active
		}
		champ, err := b.lookup(cmd.ChampionID)
		if err != nil {
			return nil, err
		}
		if err := b.ledger.Place(ref, champ); err != nil {
			return nil, fmt.Errorf("place %s in %s: %w", champ.Name, ref, err)
		}
		events = append(events, Event{Type: EvtChampionPlaced, Slot: ref, ChampionID: champ.ID})
		b.focus.OnLedgerMutation(ref, true)

	case CmdClearSlot:
		if err := b.ledger.Clear(cmd.Slot); err != nil {
			return nil, err
		}
		events = append(events, Event{Type: EvtSlotCleared, Slot: cmd.Slot})
		if b.focus.OnLedgerMutation(cmd.Slot, false) {
			events = append(events, Event{Type: EvtFocusDropped, Slot: cmd.Slot})
		}

	case CmdResetDraft:
		b.ledger.ResetAll()
		b.focus.Reset()
		events = append(events, Event{Type: EvtDraftReset})

	case CmdSwapSides:
		b.ledger.SwapSides()
		b.focus.OnSideSwap()
		if b.page != nil {
			// the page belongs to a person, not an index
			b.pagePlayer = draft.PlayerSlot(b.pagePlayer).Flipped().PlayerIndex()
		}
		events = append(events, Event{Type: EvtSidesSwapped})

	case CmdToggleLock:
		locked := b.focus.ToggleLock()
		events = append(events, Event{Type: EvtLockToggled, Locked: locked})

	case CmdSelectPrimaryStyle, CmdSelectSecondaryStyle:
		ev, err := b.overrideStyle(cmd)
		if err != nil {
			return nil, err
		}
		return []Event{ev}, nil

	case CmdRefresh:

	default:
		return nil, ErrUnsupportedCommand
	}

	return append(events, b.evaluate()...), nil
}

func (b *Board) lookup(id string) (draft.Champion, error) {
	if b.champions == nil {
		return draft.Champion{}, fmt.Errorf("%w: %q", ErrUnknownChampion, id)
	}
	champ, ok := b.champions.Lookup(id)
	if !ok {
		return draft.Champion{}, fmt.Errorf("%w: %q", ErrUnknownChampion, id)
	}
	return champ, nil
}

// evaluate lets the orchestrator react to the new ledger and focus.
func (b *Board) evaluate() []Event {
	issued, prev := b.orch.Issued(), b.orch.Status()
	ref, focused := b.focus.RunesFocus()
	st := b.orch.Evaluate(b.ledger, ref, focused)
	if st.Phase == recommend.PhaseNotReady {
		b.page = nil
	}
	switch {
	case b.orch.Issued() != issued:
		return []Event{{Type: EvtPredictionIssued, Slot: ref, RequestID: st.RequestID}}
	case st != prev:
		return []Event{{Type: EvtStatusChanged, Slot: ref}}
	}
	return nil
}

// Resolve applies a finished prediction if it is still the awaited one. It
// reports false for stale resolutions, which change nothing.
func (b *Board) Resolve(r recommend.Resolution) ([]Event, bool) {
	if !b.orch.Resolve(r) {
		return nil, false
	}
	if r.Err != nil {
		b.page = nil
		return []Event{{Type: EvtPredictionFailed, RequestID: r.RequestID}}, true
	}

	pred := b.orch.Current()
	cat, err := b.catalog()
	if err != nil {
		b.log.Warn("no style catalog for prediction", zap.Uint64("request_id", r.RequestID), zap.Error(err))
		b.page = nil
		return []Event{{Type: EvtPredictionApplied, RequestID: r.RequestID}}, true
	}

	if b.keepOverride(pred.Request.Player, cat) {
		b.log.Debug("keeping manual rune page", zap.Uint64("request_id", r.RequestID))
		return []Event{{Type: EvtPredictionApplied, RequestID: r.RequestID}}, true
	}

	page, err := runes.ComposePage(pred.Result, cat)
	if err != nil {
		b.log.Warn("cannot compose rune page", zap.Uint64("request_id", r.RequestID), zap.Error(err))
		b.page = nil
	} else {
		b.page = &page
		b.pagePlayer = pred.Request.Player
	}
	return []Event{{Type: EvtPredictionApplied, RequestID: r.RequestID}}, true
}

// keepOverride reports whether a manual page for player survives a new
// result. Styles that no longer exist void the override.
func (b *Board) keepOverride(player int, cat runes.Catalog) bool {
	if b.page == nil || !b.page.Overridden || b.pagePlayer != player {
		return false
	}
	if _, ok := cat.Style(b.page.Primary); !ok {
		return false
	}
	if b.page.HasSecondary() {
		if _, ok := cat.Style(b.page.Secondary); !ok {
			return false
		}
	}
	return true
}

func (b *Board) overrideStyle(cmd Command) (Event, error) {
	if b.page == nil || b.orch.Current() == nil {
		return Event{}, ErrNoPrediction
	}
	cat, err := b.catalog()
	if err != nil {
		return Event{}, err
	}
	var next runes.Page
	if cmd.Type == CmdSelectPrimaryStyle {
		next, err = b.page.WithPrimary(cmd.StyleID, cat)
	} else {
		next, err = b.page.WithSecondary(cmd.StyleID, cat)
	}
	if err != nil {
		return Event{}, err
	}
	b.page = &next
	return Event{Type: EvtPageChanged, StyleID: cmd.StyleID}, nil
}

func (b *Board) catalog() (runes.Catalog, error) {
	if b.engine == nil {
		return nil, predict.ErrNotLoaded
	}
	return runes.CatalogFromMappings(b.engine.Mappings())
}

func (b *Board) metadata() runes.Names {
	if b.names == nil {
		return nil
	}
	if m := b.names.Cached(); m != nil {
		return m
	}
	return nil
}

// Close abandons any pending prediction.
func (b *Board) Close() { b.orch.Close() }

// View is a detached, read-only picture of the board for renderers.
type View struct {
	Draft      draft.View            `json:"draft"`
	Focus      focus.State           `json:"focus"`
	Used       []string              `json:"used"`
	Status     recommend.Status      `json:"status"`
	Prediction *recommend.Prediction `json:"prediction,omitempty"`
	Panel      *runes.Panel          `json:"panel,omitempty"`
}

func (b *Board) View() View {
	v := View{
		Draft:  b.ledger.View(),
		Focus:  b.focus.State(),
		Used:   slices.Sorted(maps.Keys(b.ledger.UsedIDs())),
		Status: b.orch.Status(),
	}
	if pred := b.orch.Current(); pred != nil {
		cp := *pred
		v.Prediction = &cp
		if b.page != nil {
			if cat, err := b.catalog(); err == nil {
				panel := runes.BuildPanel(pred.Result, *b.page, cat, b.metadata())
				v.Panel = &panel
			}
		}
	}
	return v
}

// Page returns the current rune page, if a prediction is shown.
func (b *Board) Page() (runes.Page, bool) {
	if b.page == nil || b.orch.Current() == nil {
		return runes.Page{}, false
	}
	return *b.page, true
}

// Summary describes the shown recommendation for history.
type Summary struct {
	Picks          [draft.PickSlots]int
	Player         int
	ChampionID     string
	Role           draft.Role
	PrimaryStyle   int
	SecondaryStyle int
	Keystone       int
	Spells         []int
}

// Summary returns the shown recommendation, or false when there is none.
func (b *Board) Summary() (Summary, bool) {
	pred := b.orch.Current()
	page, ok := b.Page()
	if pred == nil || !ok {
		return Summary{}, false
	}
	s := Summary{
		Picks:          pred.Request.Picks,
		Player:         pred.Request.Player,
		PrimaryStyle:   page.Primary,
		SecondaryStyle: page.Secondary,
	}
	ref := draft.PlayerSlot(s.Player)
	s.Role = ref.Role()
	if c, ok := b.ledger.Occupant(ref); ok {
		s.ChampionID = c.ID
	}
	if len(pred.Result.Keystone) > 0 {
		s.Keystone = pred.Result.Keystone[0].ID
	}
	for i, sp := range pred.Result.SummonerSpells {
		if i == runes.TopSpells {
			break
		}
		s.Spells = append(s.Spells, sp.ID)
	}
	return s, true
}
