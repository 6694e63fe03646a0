package predict

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/multierr"
)

// ShardRowSize is the number of choices in each stat shard row.
const ShardRowSize = 3

type ShardIDs struct {
	Offense []int `json:"offense"`
	Flex    []int `json:"flex"`
	Defense []int `json:"defense"`
}

// Mappings ties model output positions to game ids. It is the mappings.json
// shipped next to the model files.
type Mappings struct {
	ChampionToIdx   map[string]int     `json:"champion_to_idx"`
	Keystones       []int              `json:"keystones"`
	LesserRunesFlat []int              `json:"lesser_runes_flat"`
	StatShards      ShardIDs           `json:"stat_shards"`
	SummonerSpells  []int              `json:"summoner_spells"`
	RunesByStyle    map[string][][]int `json:"runes_by_style"`
}

func ParseMappings(r io.Reader) (*Mappings, error) {
	var m Mappings
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode mappings: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func LoadMappingsFile(path string) (*Mappings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mappings: %w", err)
	}
	defer f.Close()
	return ParseMappings(f)
}

// Validate reports every structural problem at once.
func (m *Mappings) Validate() error {
	var err error
	if len(m.ChampionToIdx) == 0 {
		err = multierr.Append(err, fmt.Errorf("mappings: champion_to_idx is empty"))
	}
	for key := range m.ChampionToIdx {
		if _, convErr := strconv.Atoi(key); convErr != nil {
			err = multierr.Append(err, fmt.Errorf("mappings: champion key %q is not numeric", key))
		}
	}
	if len(m.Keystones) == 0 {
		err = multierr.Append(err, fmt.Errorf("mappings: keystones is empty"))
	}
	if len(m.LesserRunesFlat) == 0 {
		err = multierr.Append(err, fmt.Errorf("mappings: lesser_runes_flat is empty"))
	}
	if len(m.SummonerSpells) == 0 {
		err = multierr.Append(err, fmt.Errorf("mappings: summoner_spells is empty"))
	}
	for name, row := range map[string][]int{
		"offense": m.StatShards.Offense,
		"flex":    m.StatShards.Flex,
		"defense": m.StatShards.Defense,
	} {
		if len(row) != ShardRowSize {
			err = multierr.Append(err, fmt.Errorf("mappings: stat_shards.%s has %d ids, want %d", name, len(row), ShardRowSize))
		}
	}
	if len(m.RunesByStyle) == 0 {
		err = multierr.Append(err, fmt.Errorf("mappings: runes_by_style is empty"))
	}
	for style, slots := range m.RunesByStyle {
		if _, convErr := strconv.Atoi(style); convErr != nil {
			err = multierr.Append(err, fmt.Errorf("mappings: style id %q is not numeric", style))
		}
		if len(slots) < 2 {
			err = multierr.Append(err, fmt.Errorf("mappings: style %s needs a keystone slot and minor slots", style))
		}
	}
	return err
}

func (m *Mappings) championIndex(key int) (int64, error) {
	idx, ok := m.ChampionToIdx[strconv.Itoa(key)]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownChampion, key)
	}
	return int64(idx), nil
}
