package predict

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/lol-rune-draft/internal/draft"
)

var ErrNotLoaded = errors.New("models not loaded")
var ErrUnknownChampion = errors.New("unknown champion key")
var ErrInvalidPlayer = errors.New("invalid player index")
var ErrBadOutput = errors.New("unexpected model output")

type Head string

const (
	HeadKeystone       Head = "keystone"
	HeadLesserRunes    Head = "lesser_runes"
	HeadShards         Head = "shards"
	HeadSummonerSpells Head = "summoner_spells"
)

var Heads = []Head{HeadKeystone, HeadLesserRunes, HeadShards, HeadSummonerSpells}

// Feeds are the model inputs, already translated to model champion indices.
type Feeds struct {
	ChampionsBlue  [draft.SlotsPerTeam]int64 `json:"champions_blue"`
	ChampionsRed   [draft.SlotsPerTeam]int64 `json:"champions_red"`
	PlayerChampion int64                     `json:"player_champion"`
	Position       int64                     `json:"position"`
	Side           int64                     `json:"side"`
}

// Model runs one prediction head and returns its probability vector.
type Model interface {
	Run(ctx context.Context, head Head, feeds Feeds) ([]float64, error)
}

type loaded struct {
	mappings *Mappings
	model    Model
}

// Predictor is the prediction engine: it owns the mappings and a model and is
// safe for concurrent use. It is not ready until Load succeeds.
type Predictor struct {
	mu    sync.RWMutex
	cur   *loaded
	ready atomic.Bool
	gen   atomic.Uint64
	log   *zap.Logger
}

func NewPredictor(log *zap.Logger) *Predictor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Predictor{log: log.Named("predictor")}
}

func (p *Predictor) Load(m *Mappings, model Model) error {
	if m == nil || model == nil {
		return fmt.Errorf("load predictor: mappings and model are required")
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("load predictor: %w", err)
	}
	p.mu.Lock()
	p.cur = &loaded{mappings: m, model: model}
	p.mu.Unlock()
	p.gen.Add(1)
	p.ready.Store(true)
	p.log.Info("models loaded",
		zap.Int("champions", len(m.ChampionToIdx)),
		zap.Int("keystones", len(m.Keystones)),
		zap.Int("styles", len(m.RunesByStyle)))
	return nil
}

func (p *Predictor) Reset() {
	p.ready.Store(false)
	p.mu.Lock()
	p.cur = nil
	p.mu.Unlock()
}

func (p *Predictor) Ready() bool { return p.ready.Load() }

// Generation counts successful loads. Results computed under an older
// generation may disagree with the current mappings or model.
func (p *Predictor) Generation() uint64 { return p.gen.Load() }

// Mappings returns the loaded mappings, or nil before Load.
func (p *Predictor) Mappings() *Mappings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.cur == nil {
		return nil
	}
	return p.cur.mappings
}

// Predict runs all heads for the player at index player (0..9, blue first)
// in the draft picks.
func (p *Predictor) Predict(ctx context.Context, picks [draft.PickSlots]int, player int) (Result, error) {
	p.mu.RLock()
	cur := p.cur
	p.mu.RUnlock()
	if !p.Ready() || cur == nil {
		return Result{}, ErrNotLoaded
	}
	if player < 0 || player >= draft.PickSlots {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidPlayer, player)
	}

	feeds, err := buildFeeds(cur.mappings, picks, player)
	if err != nil {
		return Result{}, err
	}

	outputs := make(map[Head][]float64, len(Heads))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, head := range Heads {
		g.Go(func() error {
			out, err := cur.model.Run(gctx, head, feeds)
			if err != nil {
				return fmt.Errorf("run %s: %w", head, err)
			}
			mu.Lock()
			outputs[head] = out
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	return shapeResult(cur.mappings, outputs)
}

func buildFeeds(m *Mappings, picks [draft.PickSlots]int, player int) (Feeds, error) {
	var f Feeds
	for i, key := range picks {
		idx, err := m.championIndex(key)
		if err != nil {
			return Feeds{}, err
		}
		if i < draft.SlotsPerTeam {
			f.ChampionsBlue[i] = idx
		} else {
			f.ChampionsRed[i-draft.SlotsPerTeam] = idx
		}
	}
	playerIdx, err := m.championIndex(picks[player])
	if err != nil {
		return Feeds{}, err
	}
	f.PlayerChampion = playerIdx
	f.Position = int64(player % draft.SlotsPerTeam)
	if player >= draft.SlotsPerTeam {
		f.Side = 1
	}
	return f, nil
}

func shapeResult(m *Mappings, out map[Head][]float64) (Result, error) {
	checks := []struct {
		head Head
		want int
	}{
		{HeadKeystone, len(m.Keystones)},
		{HeadLesserRunes, len(m.LesserRunesFlat)},
		{HeadShards, 3 * ShardRowSize},
		{HeadSummonerSpells, len(m.SummonerSpells)},
	}
	for _, c := range checks {
		if got := len(out[c.head]); got != c.want {
			return Result{}, fmt.Errorf("%w: %s has %d values, want %d", ErrBadOutput, c.head, got, c.want)
		}
	}

	shards := out[HeadShards]
	return Result{
		Keystone:    ranked(m.Keystones, out[HeadKeystone]),
		LesserRunes: ranked(m.LesserRunesFlat, out[HeadLesserRunes]),
		StatShards: StatShards{
			Offense: unranked(m.StatShards.Offense, shards[0:ShardRowSize]),
			Flex:    unranked(m.StatShards.Flex, shards[ShardRowSize:2*ShardRowSize]),
			Defense: unranked(m.StatShards.Defense, shards[2*ShardRowSize:3*ShardRowSize]),
		},
		SummonerSpells: ranked(m.SummonerSpells, out[HeadSummonerSpells]),
	}, nil
}
