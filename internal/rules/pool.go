package rules

import "math/rand"

// CardPool holds, per tier, the shuffled face-down draw pile and the up to
// four face-up revealed cards players can see and take.
type CardPool struct {
	pool     [3][]Card
	revealed [3][]Card
}

// NewCardPool shuffles a fresh copy of tierDeck with rng and reveals four
// cards per tier, mirroring the original engine's with_rng constructor.
func NewCardPool(rng *rand.Rand) *CardPool {
	p := &CardPool{}
	for _, t := range Tiers {
		deck := make([]Card, len(tierDeck[t]))
		copy(deck, tierDeck[t])
		rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
		p.pool[t] = deck
		for i := 0; i < 4; i++ {
			p.reveal(t)
		}
	}
	return p
}

// reveal moves the top card of the tier's draw pile face up, if there is
// room and a card left to draw. Returns whether a card was revealed.
func (p *CardPool) reveal(t Tier) bool {
	if len(p.revealed[t]) >= 4 {
		return false
	}
	pool := p.pool[t]
	if len(pool) == 0 {
		return false
	}
	top := pool[len(pool)-1]
	p.pool[t] = pool[:len(pool)-1]
	p.revealed[t] = append(p.revealed[t], top)
	return true
}

// Remaining returns the face-down count per tier.
func (p *CardPool) Remaining() [3]int {
	var r [3]int
	for _, t := range Tiers {
		r[t] = len(p.pool[t])
	}
	return r
}

// Revealed returns the face-up cards per tier, in index order.
func (p *CardPool) Revealed() [3][]Card {
	var r [3][]Card
	for _, t := range Tiers {
		r[t] = append([]Card(nil), p.revealed[t]...)
	}
	return r
}

// Peek returns the revealed card at (tier, idx) without removing it.
func (p *CardPool) Peek(t Tier, idx int) (Card, bool) {
	if idx < 0 || idx >= len(p.revealed[t]) {
		return Card{}, false
	}
	return p.revealed[t][idx], true
}

// Take removes a revealed card at (tier, idx) and immediately refills the
// revealed row from the draw pile, if any remain.
func (p *CardPool) Take(t Tier, idx int) (Card, bool) {
	if idx < 0 || idx >= len(p.revealed[t]) {
		return Card{}, false
	}
	c := p.revealed[t][idx]
	p.revealed[t] = append(p.revealed[t][:idx], p.revealed[t][idx+1:]...)
	p.reveal(t)
	return c, true
}

// TakeFromPool draws blind from the top of a tier's face-down pile.
func (p *CardPool) TakeFromPool(t Tier) (Card, bool) {
	pool := p.pool[t]
	if len(pool) == 0 {
		return Card{}, false
	}
	c := pool[len(pool)-1]
	p.pool[t] = pool[:len(pool)-1]
	return c, true
}
