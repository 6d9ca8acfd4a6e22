package rules

import "math/rand"

// Noble is a visiting noble: worth fixed points, requiring a minimum bonus
// vector from a player's purchased development cards to attract a visit.
type Noble struct {
	Points   uint8    `json:"points"`
	Requires ColorVec `json:"requires"`
}

// nobleDeck is the canonical set of ten nobles, ported verbatim from the
// original engine's hardcoded table.
var nobleDeck = [10]Noble{
	{3, NewColorVec(0, 0, 4, 4, 0, 0)},
	{3, NewColorVec(0, 4, 0, 0, 4, 0)},
	{3, NewColorVec(4, 0, 0, 0, 4, 0)},
	{3, NewColorVec(0, 4, 4, 0, 0, 0)},
	{3, NewColorVec(4, 0, 0, 4, 0, 0)},
	{3, NewColorVec(3, 0, 0, 3, 3, 0)},
	{3, NewColorVec(3, 3, 0, 0, 3, 0)},
	{3, NewColorVec(0, 3, 3, 3, 0, 0)},
	{3, NewColorVec(0, 3, 3, 0, 3, 0)},
	{3, NewColorVec(3, 0, 3, 3, 0, 0)},
}

// NoblePool is the subset of nobleDeck in play for one match: n+1 nobles
// drawn without replacement for n players.
type NoblePool struct {
	nobles []Noble
}

// NewNoblePool draws n nobles from the canonical deck using rng.
func NewNoblePool(rng *rand.Rand, n int) *NoblePool {
	idx := rng.Perm(len(nobleDeck))[:n]
	nobles := make([]Noble, n)
	for i, j := range idx {
		nobles[i] = nobleDeck[j]
	}
	return &NoblePool{nobles: nobles}
}

func (p *NoblePool) Len() int { return len(p.nobles) }

func (p *NoblePool) All() []Noble {
	out := make([]Noble, len(p.nobles))
	copy(out, p.nobles)
	return out
}

func (p *NoblePool) Get(idx int) Noble { return p.nobles[idx] }

// Remove takes a noble out of the pool, e.g. once it has visited a player.
func (p *NoblePool) Remove(idx int) Noble {
	n := p.nobles[idx]
	p.nobles = append(p.nobles[:idx], p.nobles[idx+1:]...)
	return n
}

// EligibleVisitors returns the indices of nobles whose requirements are met
// by bonus, in pool order.
func (p *NoblePool) EligibleVisitors(bonus ColorVec) []int {
	var out []int
	for i, n := range p.nobles {
		if n.Requires.Le(bonus) {
			out = append(out, i)
		}
	}
	return out
}
