// Package predicttest provides mappings, champions and a scripted model for
// tests that need a working predictor without an inference server.
package predicttest

import (
	"context"
	"strconv"
	"sync"

	"github.com/DoyleJ11/lol-rune-draft/internal/draft"
	"github.com/DoyleJ11/lol-rune-draft/internal/predict"
)

const (
	StylePrecision   = 8000
	StyleDomination  = 8100
	StyleSorcery     = 8200
	StyleInspiration = 8300
	StyleResolve     = 8400
)

const (
	Conqueror   = 8010
	Electrocute = 8112
	DarkHarvest = 8128
	Aery        = 8214
	Comet       = 8229
	Glacial     = 8351
	Grasp       = 8437

	Triumph          = 9111
	LegendAlacrity   = 9104
	CoupDeGrace      = 8014
	SuddenImpact     = 8143
	EyeballCollector = 8138
	UltimateHunter   = 8106
	Transcendence    = 8210
	GatheringStorm   = 8236
	BonePlating      = 8473
	Overgrowth       = 8451

	Flash    = 4
	Ignite   = 14
	Teleport = 12
	Smite    = 11
	Heal     = 7
)

var runesByStyle = map[string][][]int{
	"8000": {{8005, 8008, 8021, 8010}, {9101, 9111, 8009}, {9104, 9105, 9103}, {8014, 8017, 8299}},
	"8100": {{8112, 8128, 9923}, {8126, 8139, 8143}, {8136, 8120, 8138}, {8135, 8105, 8106}},
	"8200": {{8214, 8229, 8230}, {8224, 8226, 8275}, {8210, 8234, 8233}, {8237, 8232, 8236}},
	"8300": {{8351, 8360, 8369}, {8306, 8304, 8321}, {8313, 8352, 8345}, {8347, 8410, 8316}},
	"8400": {{8437, 8439, 8465}, {8446, 8463, 8401}, {8429, 8444, 8473}, {8451, 8453, 8242}},
}

var champions = []draft.Champion{
	{ID: "Annie", Key: 1, Name: "Annie"},
	{ID: "Olaf", Key: 2, Name: "Olaf"},
	{ID: "Galio", Key: 3, Name: "Galio"},
	{ID: "TwistedFate", Key: 4, Name: "Twisted Fate"},
	{ID: "XinZhao", Key: 5, Name: "Xin Zhao"},
	{ID: "Urgot", Key: 6, Name: "Urgot"},
	{ID: "Leblanc", Key: 7, Name: "LeBlanc"},
	{ID: "Vladimir", Key: 8, Name: "Vladimir"},
	{ID: "Fiddlesticks", Key: 9, Name: "Fiddlesticks"},
	{ID: "Kayle", Key: 10, Name: "Kayle"},
	{ID: "MasterYi", Key: 11, Name: "Master Yi"},
	{ID: "Alistar", Key: 12, Name: "Alistar"},
}

// Champions returns twelve champions known to Mappings.
func Champions() []draft.Champion {
	out := make([]draft.Champion, len(champions))
	copy(out, champions)
	return out
}

// Mappings returns a valid mappings document covering Champions and the five
// rune styles.
func Mappings() *predict.Mappings {
	m := &predict.Mappings{
		ChampionToIdx: map[string]int{},
		RunesByStyle:  map[string][][]int{},
		StatShards: predict.ShardIDs{
			Offense: []int{5008, 5005, 5007},
			Flex:    []int{5008, 5010, 5001},
			Defense: []int{5011, 5013, 5001},
		},
		SummonerSpells: []int{Flash, Ignite, Teleport, Smite, Heal, 3, 21, 6},
	}
	for i, c := range champions {
		m.ChampionToIdx[strconv.Itoa(c.Key)] = i
	}
	for _, style := range []string{"8000", "8100", "8200", "8300", "8400"} {
		slots := runesByStyle[style]
		cp := make([][]int, len(slots))
		for i, s := range slots {
			cp[i] = append([]int(nil), s...)
		}
		m.RunesByStyle[style] = cp
		m.Keystones = append(m.Keystones, slots[0]...)
		for _, slot := range slots[1:] {
			m.LesserRunesFlat = append(m.LesserRunesFlat, slot...)
		}
	}
	return m
}

// Model answers every head from Probs keyed by game id. Shards, when set,
// overrides the nine shard outputs.
type Model struct {
	Mappings *predict.Mappings
	Probs    map[int]float64
	Shards   []float64
	Err      error

	mu    sync.Mutex
	calls []predict.Feeds
}

func NewModel(m *predict.Mappings, probs map[int]float64) *Model {
	return &Model{Mappings: m, Probs: probs}
}

func (m *Model) Run(ctx context.Context, head predict.Head, feeds predict.Feeds) ([]float64, error) {
	if head == predict.HeadKeystone {
		m.mu.Lock()
		m.calls = append(m.calls, feeds)
		m.mu.Unlock()
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ids []int
	switch head {
	case predict.HeadKeystone:
		ids = m.Mappings.Keystones
	case predict.HeadLesserRunes:
		ids = m.Mappings.LesserRunesFlat
	case predict.HeadSummonerSpells:
		ids = m.Mappings.SummonerSpells
	case predict.HeadShards:
		if m.Shards != nil {
			return append([]float64(nil), m.Shards...), nil
		}
		s := m.Mappings.StatShards
		ids = append(append(append([]int(nil), s.Offense...), s.Flex...), s.Defense...)
	}
	out := make([]float64, len(ids))
	for i, id := range ids {
		out[i] = m.Probs[id]
	}
	return out, nil
}

// Calls returns the feeds of every prediction run so far.
func (m *Model) Calls() []predict.Feeds {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]predict.Feeds(nil), m.calls...)
}

// Picks returns the keys of the first ten Champions as a full draft.
func Picks() [draft.PickSlots]int {
	var keys [draft.PickSlots]int
	for i := range keys {
		keys[i] = champions[i].Key
	}
	return keys
}
