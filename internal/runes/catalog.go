package runes

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/DoyleJ11/lol-rune-draft/internal/predict"
)

// Style is one rune tree. Slots[0] holds the keystones, the remaining slots
// hold minor runes.
type Style struct {
	ID    int     `json:"id"`
	Slots [][]int `json:"slots"`
}

func (s Style) Keystones() []int {
	if len(s.Slots) == 0 {
		return nil
	}
	return s.Slots[0]
}

func (s Style) MinorSlots() [][]int {
	if len(s.Slots) < 2 {
		return nil
	}
	return s.Slots[1:]
}

// Catalog lists the styles in iteration order, which is also the tie-break
// order when choosing a secondary style.
type Catalog []Style

// CatalogFromMappings builds the catalog from runes_by_style, ordered by
// ascending style id.
func CatalogFromMappings(m *predict.Mappings) (Catalog, error) {
	if m == nil {
		return nil, predict.ErrNotLoaded
	}
	cat := make(Catalog, 0, len(m.RunesByStyle))
	for key, slots := range m.RunesByStyle {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("style id %q: %w", key, err)
		}
		cat = append(cat, Style{ID: id, Slots: slots})
	}
	slices.SortFunc(cat, func(a, b Style) int { return a.ID - b.ID })
	return cat, nil
}

func (c Catalog) Style(id int) (Style, bool) {
	i := slices.IndexFunc(c, func(s Style) bool { return s.ID == id })
	if i < 0 {
		return Style{}, false
	}
	return c[i], true
}

func (c Catalog) IDs() []int {
	ids := make([]int, len(c))
	for i, s := range c {
		ids[i] = s.ID
	}
	return ids
}

// StyleForRune returns the style owning runeID in any of its slots.
func (c Catalog) StyleForRune(runeID int) (int, bool) {
	for _, s := range c {
		for _, slot := range s.Slots {
			if slices.Contains(slot, runeID) {
				return s.ID, true
			}
		}
	}
	return 0, false
}
