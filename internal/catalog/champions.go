package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/DoyleJ11/lol-rune-draft/internal/draft"
)

var ErrNoChampions = errors.New("no champions in file")

// Champions is the champion list of one Data Dragon release, sorted by name.
type Champions struct {
	Version string
	list    []draft.Champion
	byID    map[string]draft.Champion
}

type ddragonChampion struct {
	ID      string `json:"id"`
	Key     string `json:"key"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

type ddragonChampions struct {
	Version string                     `json:"version"`
	Data    map[string]ddragonChampion `json:"data"`
}

// ParseChampions reads a Data Dragon champion.json document.
func ParseChampions(r io.Reader) (*Champions, error) {
	var doc ddragonChampions
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode champions: %w", err)
	}
	if len(doc.Data) == 0 {
		return nil, ErrNoChampions
	}

	c := &Champions{
		Version: doc.Version,
		byID:    make(map[string]draft.Champion, len(doc.Data)),
	}
	for _, raw := range doc.Data {
		key, err := strconv.Atoi(raw.Key)
		if err != nil {
			return nil, fmt.Errorf("champion %s: bad key %q", raw.ID, raw.Key)
		}
		champ := draft.Champion{ID: raw.ID, Key: key, Name: raw.Name}
		c.list = append(c.list, champ)
		c.byID[champ.ID] = champ
		if c.Version == "" {
			c.Version = raw.Version
		}
	}

	col := collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics)
	slices.SortFunc(c.list, func(a, b draft.Champion) int {
		if n := col.CompareString(a.Name, b.Name); n != 0 {
			return n
		}
		return strings.Compare(a.ID, b.ID)
	})
	return c, nil
}

func LoadChampionsFile(path string) (*Champions, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open champions: %w", err)
	}
	defer f.Close()
	return ParseChampions(f)
}

// NewChampions builds a catalog from an already known list, keeping its order.
func NewChampions(version string, list []draft.Champion) *Champions {
	c := &Champions{Version: version, byID: make(map[string]draft.Champion, len(list))}
	for _, champ := range list {
		c.list = append(c.list, champ)
		c.byID[champ.ID] = champ
	}
	return c
}

func (c *Champions) All() []draft.Champion { return slices.Clone(c.list) }

func (c *Champions) Len() int { return len(c.list) }

func (c *Champions) Lookup(id string) (draft.Champion, bool) {
	champ, ok := c.byID[id]
	return champ, ok
}

// Search returns champions whose name contains query, ignoring case.
func (c *Champions) Search(query string) []draft.Champion {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.All()
	}
	var out []draft.Champion
	for _, champ := range c.list {
		if strings.Contains(strings.ToLower(champ.Name), q) {
			out = append(out, champ)
		}
	}
	return out
}
