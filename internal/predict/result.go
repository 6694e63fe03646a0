package predict

import "slices"

// Probability is one candidate id with the model's probability for it.
type Probability struct {
	ID          int     `json:"id"`
	Probability float64 `json:"probability"`
}

// StatShards keeps each shard row in the fixed catalog order of the mappings,
// not sorted by probability.
type StatShards struct {
	Offense []Probability `json:"offense"`
	Flex    []Probability `json:"flex"`
	Defense []Probability `json:"defense"`
}

func (s StatShards) Rows() [3][]Probability {
	return [3][]Probability{s.Offense, s.Flex, s.Defense}
}

// Result is the output of one prediction. Keystone, LesserRunes and
// SummonerSpells are sorted by descending probability.
type Result struct {
	Keystone       []Probability `json:"keystone"`
	LesserRunes    []Probability `json:"lesser_runes"`
	StatShards     StatShards    `json:"stat_shards"`
	SummonerSpells []Probability `json:"summoner_spells"`
}

// Lookup returns the probability of id in list, or 0 when absent.
func Lookup(list []Probability, id int) (float64, bool) {
	i := slices.IndexFunc(list, func(p Probability) bool { return p.ID == id })
	if i < 0 {
		return 0, false
	}
	return list[i].Probability, true
}

// Max returns the largest probability in list.
func Max(list []Probability) float64 {
	best := 0.0
	for i, p := range list {
		if i == 0 || p.Probability > best {
			best = p.Probability
		}
	}
	return best
}

func ranked(ids []int, probs []float64) []Probability {
	out := unranked(ids, probs)
	slices.SortStableFunc(out, func(a, b Probability) int {
		switch {
		case a.Probability > b.Probability:
			return -1
		case a.Probability < b.Probability:
			return 1
		}
		return 0
	})
	return out
}

func unranked(ids []int, probs []float64) []Probability {
	out := make([]Probability, len(ids))
	for i, id := range ids {
		out[i] = Probability{ID: id, Probability: probs[i]}
	}
	return out
}
