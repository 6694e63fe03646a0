package runes

import (
	"math"

	"github.com/DoyleJ11/lol-rune-draft/internal/predict"
)

// Display policy. These only affect how items are drawn, never which styles
// are recommended.
const (
	MinWeight         = 0.3
	MinorWeightScale  = 5.0
	MinorTopThreshold = 0.02
	TopSpells         = 2
)

type Entry struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Names resolves display names and icons. A nil Names leaves them empty.
type Names interface {
	Rune(id int) (Entry, bool)
	Style(id int) (Entry, bool)
	Shard(id int) (Entry, bool)
	Spell(id int) (Entry, bool)
}

type Item struct {
	ID          int     `json:"id"`
	Name        string  `json:"name,omitempty"`
	Icon        string  `json:"icon,omitempty"`
	Probability float64 `json:"probability"`
	Weight      float64 `json:"weight"`
	Top         bool    `json:"top"`
}

type Tree struct {
	StyleID   int      `json:"style_id"`
	Name      string   `json:"name,omitempty"`
	Keystones []Item   `json:"keystones,omitempty"`
	Slots     [][]Item `json:"slots"`
}

type StyleTab struct {
	ID        int    `json:"id"`
	Name      string `json:"name,omitempty"`
	Icon      string `json:"icon,omitempty"`
	Primary   bool   `json:"primary"`
	Secondary bool   `json:"secondary"`
}

type ShardRows struct {
	Offense []Item `json:"offense"`
	Flex    []Item `json:"flex"`
	Defense []Item `json:"defense"`
}

// Panel is everything a renderer needs to draw one recommendation.
type Panel struct {
	Page      Page       `json:"page"`
	Tabs      []StyleTab `json:"tabs"`
	Primary   *Tree      `json:"primary,omitempty"`
	Secondary *Tree      `json:"secondary,omitempty"`
	Shards    ShardRows  `json:"shards"`
	Spells    []Item     `json:"spells"`
}

func BuildPanel(res predict.Result, page Page, cat Catalog, names Names) Panel {
	p := Panel{Page: page}

	for _, s := range cat {
		tab := StyleTab{ID: s.ID, Primary: s.ID == page.Primary, Secondary: s.ID == page.Secondary}
		if e, ok := lookup(names, Names.Style, s.ID); ok {
			tab.Name, tab.Icon = e.Name, e.Icon
		}
		p.Tabs = append(p.Tabs, tab)
	}

	if s, ok := cat.Style(page.Primary); ok {
		tree := minorTree(res, s, names)
		var top int
		if len(res.Keystone) > 0 {
			top = res.Keystone[0].ID
		}
		for _, id := range s.Keystones() {
			prob, ok := predict.Lookup(res.Keystone, id)
			if !ok {
				continue
			}
			it := item(names, Names.Rune, id, prob, weight(prob))
			it.Top = id == top
			tree.Keystones = append(tree.Keystones, it)
		}
		p.Primary = &tree
	}
	if s, ok := cat.Style(page.Secondary); ok && page.HasSecondary() {
		tree := minorTree(res, s, names)
		p.Secondary = &tree
	}

	p.Shards = ShardRows{
		Offense: shardRow(res.StatShards.Offense, names),
		Flex:    shardRow(res.StatShards.Flex, names),
		Defense: shardRow(res.StatShards.Defense, names),
	}

	for i, sp := range res.SummonerSpells {
		if names != nil {
			if _, ok := names.Spell(sp.ID); !ok {
				continue
			}
		}
		it := item(names, Names.Spell, sp.ID, sp.Probability, weight(sp.Probability))
		it.Top = i < TopSpells
		p.Spells = append(p.Spells, it)
	}
	return p
}

func minorTree(res predict.Result, s Style, names Names) Tree {
	tree := Tree{StyleID: s.ID}
	if e, ok := lookup(names, Names.Style, s.ID); ok {
		tree.Name = e.Name
	}
	for _, slot := range s.MinorSlots() {
		row := []Item{}
		for _, id := range slot {
			prob, ok := predict.Lookup(res.LesserRunes, id)
			if !ok {
				continue
			}
			it := item(names, Names.Rune, id, prob, weight(prob*MinorWeightScale))
			it.Top = prob > MinorTopThreshold
			row = append(row, it)
		}
		tree.Slots = append(tree.Slots, row)
	}
	return tree
}

func shardRow(row []predict.Probability, names Names) []Item {
	best := predict.Max(row)
	out := make([]Item, 0, len(row))
	for _, sh := range row {
		it := item(names, Names.Shard, sh.ID, sh.Probability, weight(sh.Probability))
		it.Top = sh.Probability == best
		out = append(out, it)
	}
	return out
}

func item(names Names, get func(Names, int) (Entry, bool), id int, prob, w float64) Item {
	it := Item{ID: id, Probability: prob, Weight: w}
	if e, ok := lookup(names, get, id); ok {
		it.Name, it.Icon = e.Name, e.Icon
	}
	return it
}

func lookup(names Names, get func(Names, int) (Entry, bool), id int) (Entry, bool) {
	if names == nil {
		return Entry{}, false
	}
	return get(names, id)
}

// weight clamps a visual weight into [MinWeight, 1].
func weight(v float64) float64 {
	return math.Min(1, math.Max(MinWeight, v))
}
