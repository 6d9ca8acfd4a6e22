// Package rules implements the deterministic board-game state machine: card
// and noble data, action validation and application, turn advancement, and
// winner selection. It holds no I/O; the Match Server drives it by
// supplying actions obtained from remote actors.
package rules

import (
	"fmt"
	"math/rand"
)

// EndReason classifies why a match concluded, echoed in the Supervisor's
// ReportGameEnds call.
type EndReason string

const (
	EndNormal EndReason = "normal"
	EndDraw   EndReason = "draw"
)

// GameState is the complete authoritative state of one match.
type GameState struct {
	NPlayers  int
	Round     int
	Current   int
	LastRound bool
	GameEnd   bool
	NopStreak int
	Tokens    ColorVec
	CardPool  *CardPool
	Nobles    *NoblePool
	Players   []*PlayerState
	Records   []Record

	// roundAllNop tracks whether every main action played so far in the
	// in-progress round has been Nop; reset at each round boundary.
	roundAllNop bool
}

func bankForPlayerCount(n int) ColorVec {
	switch n {
	case 2:
		return NewColorVec(4, 4, 4, 4, 4, 5)
	case 3:
		return NewColorVec(5, 5, 5, 5, 5, 5)
	case 4:
		return NewColorVec(7, 7, 7, 7, 7, 5)
	default:
		panic(fmt.Sprintf("rules: invalid player count %d", n))
	}
}

// NewGame builds a fresh GameState for nPlayers (2-4) using rng for card
// shuffling and noble selection, mirroring the original engine's
// with_rng constructor.
func NewGame(rng *rand.Rand, nPlayers int) *GameState {
	if nPlayers < 2 || nPlayers > 4 {
		panic(fmt.Sprintf("rules: invalid player count %d", nPlayers))
	}
	players := make([]*PlayerState, nPlayers)
	for i := range players {
		players[i] = NewPlayerState(i)
	}
	return &GameState{
		NPlayers:    nPlayers,
		Tokens:      bankForPlayerCount(nPlayers),
		CardPool:    NewCardPool(rng),
		Nobles:      NewNoblePool(rng, nPlayers+1),
		Players:     players,
		roundAllNop: true,
	}
}

func (g *GameState) player(idx int) *PlayerState { return g.Players[idx] }

// Snapshot projects the state into its public, info-hiding view.
func (g *GameState) Snapshot() GameSnapshot {
	players := make([]PlayerSnapshot, len(g.Players))
	for i, p := range g.Players {
		players[i] = newPlayerSnapshot(p)
	}
	return GameSnapshot{
		LastRound:     g.LastRound,
		CurrentRound:  g.Round,
		CurrentPlayer: g.Current,
		Tokens:        g.Tokens,
		CardPool:      newCardPoolSnapshot(g.CardPool),
		Nobles:        g.Nobles.All(),
		Players:       players,
	}
}

// ValidateMain reports whether action is legal for the current player given
// the present state, without mutating anything.
func (g *GameState) ValidateMain(action PlayerAction) error {
	p := g.player(g.Current)
	switch action.Kind {
	case PlayerActionNop:
		return nil
	case PlayerActionTakeTokens:
		return g.validateTakeTokens(p, action.TakeTokens)
	case PlayerActionBuyCard:
		return g.validateBuyCard(p, action.BuyCard)
	case PlayerActionReserveCard:
		return g.validateReserveCard(p, action.ReserveCard)
	default:
		return fmt.Errorf("rules: unknown action kind %q", action.Kind)
	}
}

func (g *GameState) validateTakeTokens(p *PlayerState, a TakeTokenAction) error {
	if a.Tokens[Yellow] != 0 {
		return fmt.Errorf("rules: take_tokens cannot take yellow directly")
	}
	switch a.Kind {
	case TakeThreeDifferent:
		n := 0
		for _, c := range Colors[:5] {
			switch a.Tokens[c] {
			case 0:
			case 1:
				n++
			default:
				return fmt.Errorf("rules: three_different lane %s must be 0 or 1", c)
			}
		}
		if n == 0 || n > 3 {
			return fmt.Errorf("rules: three_different must take 1-3 colors, got %d", n)
		}
		if !a.Tokens.Le(g.Tokens) {
			return fmt.Errorf("rules: bank cannot cover requested tokens")
		}
		return nil
	case TakeTwoSame:
		nonZero := 0
		var chosen Color
		for _, c := range Colors[:5] {
			switch a.Tokens[c] {
			case 0:
			case 2:
				nonZero++
				chosen = c
			default:
				return fmt.Errorf("rules: two_same lane %s must be 0 or 2", c)
			}
		}
		if nonZero != 1 {
			return fmt.Errorf("rules: two_same must set exactly one color to 2")
		}
		if g.Tokens[chosen] < 4 {
			return fmt.Errorf("rules: bank has fewer than 4 %s tokens, two_same not allowed", chosen)
		}
		return nil
	default:
		return fmt.Errorf("rules: unknown take_tokens kind %q", a.Kind)
	}
}

func effectiveCost(card Card, bonus ColorVec) ColorVec {
	return card.Requires.SaturatingSub(bonus)
}

func (g *GameState) resolveCard(src CardSource) (Card, bool, error) {
	switch src.Kind {
	case SourceRevealed:
		loc := src.RevealedLocation
		c, ok := g.CardPool.Peek(loc.Tier, loc.Idx)
		if !ok {
			return Card{}, false, fmt.Errorf("rules: no revealed card at tier %d idx %d", loc.Tier, loc.Idx)
		}
		return c, false, nil
	case SourceReserved:
		p := g.player(g.Current)
		if src.ReservedIdx < 0 || src.ReservedIdx >= len(p.ReservedCards) {
			return Card{}, false, fmt.Errorf("rules: no reserved card at idx %d", src.ReservedIdx)
		}
		return p.ReservedCards[src.ReservedIdx].Card, true, nil
	default:
		return Card{}, false, fmt.Errorf("rules: unknown card source kind %q", src.Kind)
	}
}

func (g *GameState) validateBuyCard(p *PlayerState, a BuyCardAction) error {
	card, _, err := g.resolveCard(a.Source)
	if err != nil {
		return err
	}
	if !a.Uses.Le(p.Tokens) {
		return fmt.Errorf("rules: player does not hold the tokens offered")
	}
	effective := effectiveCost(card, p.Bonus())
	diff := 0
	for _, c := range Colors[:5] {
		if d := effective[c] - a.Uses[c]; d > 0 {
			diff += d
		}
	}
	if diff != a.Uses[Yellow] {
		return fmt.Errorf("rules: joker usage %d does not cover shortfall %d", a.Uses[Yellow], diff)
	}
	return nil
}

func (g *GameState) validateReserveCard(p *PlayerState, a ReserveCardAction) error {
	if len(p.ReservedCards) >= 3 {
		return fmt.Errorf("rules: player already holds 3 reserved cards")
	}
	if a.Idx == nil {
		if g.CardPool.Remaining()[a.Tier] == 0 {
			return fmt.Errorf("rules: pool for tier %d is empty", a.Tier)
		}
		return nil
	}
	if _, ok := g.CardPool.Peek(a.Tier, *a.Idx); !ok {
		return fmt.Errorf("rules: no revealed card at tier %d idx %d", a.Tier, *a.Idx)
	}
	return nil
}

// ApplyMain mutates state for a validated main action. Callers must call
// ValidateMain first; ApplyMain does not re-validate.
func (g *GameState) ApplyMain(action PlayerAction) {
	p := g.player(g.Current)
	switch action.Kind {
	case PlayerActionNop:
	case PlayerActionTakeTokens:
		p.Tokens = p.Tokens.Add(action.TakeTokens.Tokens)
		g.Tokens = g.Tokens.Sub(action.TakeTokens.Tokens)
	case PlayerActionBuyCard:
		g.applyBuyCard(p, action.BuyCard)
	case PlayerActionReserveCard:
		g.applyReserveCard(p, action.ReserveCard)
	}
	g.Records = append(g.Records, NewPlayerActionRecord(g.Current, action))
}

func (g *GameState) applyBuyCard(p *PlayerState, a BuyCardAction) {
	var card Card
	switch a.Source.Kind {
	case SourceRevealed:
		loc := a.Source.RevealedLocation
		card, _ = g.CardPool.Take(loc.Tier, loc.Idx)
	case SourceReserved:
		card = p.ReservedCards[a.Source.ReservedIdx].Card
		p.ReservedCards = append(p.ReservedCards[:a.Source.ReservedIdx], p.ReservedCards[a.Source.ReservedIdx+1:]...)
	}
	p.Tokens = p.Tokens.Sub(a.Uses)
	g.Tokens = g.Tokens.Add(a.Uses)
	p.DevelopmentCards.Add(card)
}

func (g *GameState) applyReserveCard(p *PlayerState, a ReserveCardAction) {
	var rc ReservedCard
	if a.Idx == nil {
		card, _ := g.CardPool.TakeFromPool(a.Tier)
		rc = ReservedCard{Card: card, Invisible: true}
	} else {
		card, _ := g.CardPool.Take(a.Tier, *a.Idx)
		rc = ReservedCard{Card: card, Invisible: false}
	}
	p.ReservedCards = append(p.ReservedCards, rc)
	if g.Tokens[Yellow] > 0 {
		g.Tokens[Yellow]--
		p.Tokens[Yellow]++
	}
}

// NeedsDropTokens reports whether the current player must be asked to drop
// tokens after their main action.
func (g *GameState) NeedsDropTokens() bool {
	return g.player(g.Current).Tokens.Total() > 10
}

// ValidateDropTokens checks a DropTokensAction for the current player: the
// dropped tokens must be held, and must bring the player's total to
// exactly 10 (the stricter canonical rule; see DESIGN.md).
func (g *GameState) ValidateDropTokens(a DropTokensAction) error {
	p := g.player(g.Current)
	if !a.Tokens.Le(p.Tokens) {
		return fmt.Errorf("rules: cannot drop tokens the player does not hold")
	}
	if p.Tokens.Total()-a.Tokens.Total() != 10 {
		return fmt.Errorf("rules: drop must bring token total to exactly 10")
	}
	return nil
}

// ApplyDropTokens mutates state for a validated DropTokensAction.
func (g *GameState) ApplyDropTokens(a DropTokensAction) {
	p := g.player(g.Current)
	p.Tokens = p.Tokens.Sub(a.Tokens)
	g.Tokens = g.Tokens.Add(a.Tokens)
	g.Records = append(g.Records, NewDropTokensRecord(g.Current, a))
}

// EligibleNobles returns the indices into the noble pool that the current
// player's bonus now satisfies.
func (g *GameState) EligibleNobles() []int {
	return g.Nobles.EligibleVisitors(g.player(g.Current).Bonus())
}

// ValidateSelectNoble checks that idx is one of the currently eligible
// noble indices.
func (g *GameState) ValidateSelectNoble(a SelectNoblesAction) error {
	for _, idx := range g.EligibleNobles() {
		if idx == a.Index {
			return nil
		}
	}
	return fmt.Errorf("rules: noble %d is not eligible", a.Index)
}

// ApplyVisitNoble removes noble idx from the pool and awards it to the
// current player.
func (g *GameState) ApplyVisitNoble(idx int) {
	p := g.player(g.Current)
	n := g.Nobles.Remove(idx)
	p.Nobles = append(p.Nobles, n)
	g.Records = append(g.Records, NewVisitNobleRecord(g.Current, n))
}

// AdvanceTurn applies the end-of-turn latch and advances Current, updating
// LastRound/GameEnd/NopStreak. wasNop reports whether the main action just
// completed (not DropTokens/SelectNoble) was a Nop; failed/aborted turns
// must not be passed here at all, per the stall detector's "do not count
// Nops across failed/aborted turns" rule. It returns the winner set (nil
// unless the game just ended) and the end reason.
func (g *GameState) AdvanceTurn(wasNop bool) (winners []int, reason EndReason, ended bool) {
	if !wasNop {
		g.roundAllNop = false
	}
	if g.player(g.Current).Points() >= 15 {
		g.LastRound = true
	}
	if g.LastRound && g.Current == g.NPlayers-1 {
		g.GameEnd = true
		return g.winners(), EndNormal, true
	}

	g.Current = (g.Current + 1) % g.NPlayers
	if g.Current == 0 {
		if g.roundAllNop {
			g.GameEnd = true
			g.NopStreak++
			return nil, EndDraw, true
		}
		g.NopStreak = 0
		g.roundAllNop = true
		g.Round++
	}
	return nil, "", false
}

// winners computes the end-of-game winner set: highest points, tie-broken
// by fewest total development cards, remaining ties reported jointly.
func (g *GameState) winners() []int {
	maxPoints := uint8(0)
	for _, p := range g.Players {
		if pts := p.Points(); pts > maxPoints {
			maxPoints = pts
		}
	}
	var candidates []int
	for _, p := range g.Players {
		if p.Points() == maxPoints {
			candidates = append(candidates, p.Idx)
		}
	}
	if len(candidates) == 1 {
		return candidates
	}
	minCards := -1
	for _, idx := range candidates {
		n := g.Players[idx].DevelopmentCards.Count()
		if minCards == -1 || n < minCards {
			minCards = n
		}
	}
	var out []int
	for _, idx := range candidates {
		if g.Players[idx].DevelopmentCards.Count() == minCards {
			out = append(out, idx)
		}
	}
	return out
}
