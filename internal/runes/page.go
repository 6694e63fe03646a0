package runes

import (
	"errors"
	"fmt"

	"github.com/DoyleJ11/lol-rune-draft/internal/predict"
)

var ErrNoKeystone = errors.New("no keystone in prediction")
var ErrUnknownStyle = errors.New("unknown rune style")
var ErrSameStyle = errors.New("secondary style cannot equal primary")

// Page is the selected primary and secondary style. Secondary is 0 when no
// style qualifies. Overridden is set once the user picks a style by hand.
type Page struct {
	Primary    int  `json:"primary_style"`
	Secondary  int  `json:"secondary_style,omitempty"`
	Overridden bool `json:"overridden"`
}

func (p Page) HasSecondary() bool { return p.Secondary != 0 }

// ComposePage picks the primary style from the top keystone and the secondary
// style from the minor-rune probabilities.
func ComposePage(res predict.Result, cat Catalog) (Page, error) {
	if len(res.Keystone) == 0 {
		return Page{}, ErrNoKeystone
	}
	top := res.Keystone[0]
	for _, k := range res.Keystone[1:] {
		if k.Probability > top.Probability {
			top = k
		}
	}
	primary, ok := cat.StyleForRune(top.ID)
	if !ok {
		return Page{}, fmt.Errorf("%w: keystone %d", ErrUnknownStyle, top.ID)
	}
	secondary, _ := BestSecondaryStyle(res, cat, primary)
	return Page{Primary: primary, Secondary: secondary}, nil
}

// BestSecondaryStyle returns the style other than primary with the largest
// summed minor-rune probability. Ties go to the earlier style in cat; a style
// needs a positive sum to qualify.
func BestSecondaryStyle(res predict.Result, cat Catalog, primary int) (int, bool) {
	best, bestSum := 0, 0.0
	for _, s := range cat {
		if s.ID == primary {
			continue
		}
		sum := 0.0
		for _, slot := range s.MinorSlots() {
			for _, id := range slot {
				p, _ := predict.Lookup(res.LesserRunes, id)
				sum += p
			}
		}
		if sum > bestSum {
			best, bestSum = s.ID, sum
		}
	}
	return best, best != 0
}

// WithPrimary makes style the primary. Choosing the current secondary swaps
// the two.
func (p Page) WithPrimary(style int, cat Catalog) (Page, error) {
	if _, ok := cat.Style(style); !ok {
		return p, fmt.Errorf("%w: %d", ErrUnknownStyle, style)
	}
	if style == p.Secondary {
		p.Secondary = p.Primary
	}
	p.Primary = style
	p.Overridden = true
	return p, nil
}

// WithSecondary makes style the secondary. Choosing the current primary is
// rejected and the page is returned unchanged.
func (p Page) WithSecondary(style int, cat Catalog) (Page, error) {
	if _, ok := cat.Style(style); !ok {
		return p, fmt.Errorf("%w: %d", ErrUnknownStyle, style)
	}
	if style == p.Primary {
		return p, ErrSameStyle
	}
	p.Secondary = style
	p.Overridden = true
	return p, nil
}
