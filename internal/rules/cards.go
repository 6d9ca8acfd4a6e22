package rules

import "encoding/json"

// Tier is a development card tier, I (cheapest) through III.
type Tier int

const (
	TierI Tier = iota
	TierII
	TierIII
)

// Tiers lists every tier in ascending order.
var Tiers = [3]Tier{TierI, TierII, TierIII}

// Card is an immutable development card: a bonus color, a point value and
// a token cost.
type Card struct {
	Tier     Tier     `json:"tier"`
	Bonus    Color    `json:"bonus"`
	Points   uint8    `json:"points"`
	Requires ColorVec `json:"requires"`
}

// ReservedCard is a card a player holds in reserve. Invisible is true when
// the card was drawn blind from the pool, in which case opponents must not
// see its face in any snapshot.
type ReservedCard struct {
	Card      Card `json:"card"`
	Invisible bool `json:"invisible"`
}

// CardView is the opponent-facing projection of a ReservedCard: either the
// card's face, or just its tier when it was reserved blind. It marshals as
// the tagged union {"type":"visible","view":<card>} or
// {"type":"invisible","view":<tier>}, matching the wire format every other
// tagged union in this package uses.
type CardView struct {
	Visible bool
	Card    Card
	Tier    Tier
}

func NewVisibleCardView(c Card) CardView { return CardView{Visible: true, Card: c} }

func NewInvisibleCardView(t Tier) CardView { return CardView{Visible: false, Tier: t} }

// ToView projects a ReservedCard into the view its owner's opponents see.
func (r ReservedCard) ToView() CardView {
	if r.Invisible {
		return NewInvisibleCardView(r.Card.Tier)
	}
	return NewVisibleCardView(r.Card)
}

func (v CardView) MarshalJSON() ([]byte, error) {
	if v.Visible {
		return json.Marshal(struct {
			Type string `json:"type"`
			View Card   `json:"view"`
		}{"visible", v.Card})
	}
	return json.Marshal(struct {
		Type string `json:"type"`
		View Tier   `json:"view"`
	}{"invisible", v.Tier})
}

func (v *CardView) UnmarshalJSON(data []byte) error {
	var head struct {
		Type string          `json:"type"`
		View json.RawMessage `json:"view"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	switch head.Type {
	case "visible":
		var c Card
		if err := json.Unmarshal(head.View, &c); err != nil {
			return err
		}
		*v = NewVisibleCardView(c)
	default:
		var t Tier
		if err := json.Unmarshal(head.View, &t); err != nil {
			return err
		}
		*v = NewInvisibleCardView(t)
	}
	return nil
}

// DevelopmentCards is the set of cards a player has purchased, indexed by
// bonus color (one slot per non-joker Color) so the running bonus vector
// can be summed in O(1) on the hot validation path, with the point total
// kept denormalized alongside it.
type DevelopmentCards struct {
	Points uint8     `json:"points"`
	Bonus  ColorVec  `json:"bonus"`
	Inner  [5][]Card `json:"inner"`
}

// Add records a purchased card, updating the denormalized bonus/points.
func (d *DevelopmentCards) Add(c Card) {
	d.Inner[c.Bonus] = append(d.Inner[c.Bonus], c)
	d.Bonus[c.Bonus]++
	d.Points += c.Points
}

// Count returns the total number of development cards owned, used for the
// fewest-development-cards tiebreak.
func (d *DevelopmentCards) Count() int {
	n := 0
	for _, t := range d.Inner {
		n += len(t)
	}
	return n
}
