package rules

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T, nPlayers int) *GameState {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	return NewGame(rng, nPlayers)
}

func TestNewGameBankByPlayerCount(t *testing.T) {
	g2 := newTestGame(t, 2)
	assert.Equal(t, NewColorVec(4, 4, 4, 4, 4, 5), g2.Tokens)

	g3 := newTestGame(t, 3)
	assert.Equal(t, NewColorVec(5, 5, 5, 5, 5, 5), g3.Tokens)

	g4 := newTestGame(t, 4)
	assert.Equal(t, NewColorVec(7, 7, 7, 7, 7, 5), g4.Tokens)

	assert.Equal(t, 3, g4.Nobles.Len())
}

func TestValidateTakeTokensThreeDifferent(t *testing.T) {
	g := newTestGame(t, 4)

	good := TakeTokenAction{Kind: TakeThreeDifferent, Tokens: NewColorVec(1, 1, 1, 0, 0, 0)}
	require.NoError(t, g.ValidateMain(NewTakeTokensAction(good)))

	tooMany := TakeTokenAction{Kind: TakeThreeDifferent, Tokens: NewColorVec(2, 1, 1, 0, 0, 0)}
	assert.Error(t, g.ValidateMain(NewTakeTokensAction(tooMany)))

	joker := TakeTokenAction{Kind: TakeThreeDifferent, Tokens: NewColorVec(1, 0, 0, 0, 0, 1)}
	assert.Error(t, g.ValidateMain(NewTakeTokensAction(joker)))
}

func TestValidateTakeTokensTwoSameRequiresFourInBank(t *testing.T) {
	g := newTestGame(t, 2)
	g.Tokens[Black] = 3

	action := TakeTokenAction{Kind: TakeTwoSame, Tokens: NewColorVec(2, 0, 0, 0, 0, 0)}
	assert.Error(t, g.ValidateMain(NewTakeTokensAction(action)))

	g.Tokens[Black] = 4
	assert.NoError(t, g.ValidateMain(NewTakeTokensAction(action)))
}

func TestApplyTakeTokensMovesBankToPlayer(t *testing.T) {
	g := newTestGame(t, 2)
	action := NewTakeTokensAction(TakeTokenAction{Kind: TakeThreeDifferent, Tokens: NewColorVec(1, 1, 1, 0, 0, 0)})
	require.NoError(t, g.ValidateMain(action))
	g.ApplyMain(action)

	assert.Equal(t, NewColorVec(1, 1, 1, 0, 0, 0), g.Players[0].Tokens)
	assert.Equal(t, NewColorVec(3, 3, 3, 4, 4, 5), g.Tokens)
	require.Len(t, g.Records, 1)
	assert.Equal(t, RecordPlayerAction, g.Records[0].Kind)
}

func TestReserveCardGrantsJokerWhileBankHasOne(t *testing.T) {
	g := newTestGame(t, 2)
	idx := 0
	action := NewReserveCardAction(ReserveCardAction{Tier: TierI, Idx: &idx})
	require.NoError(t, g.ValidateMain(action))
	g.ApplyMain(action)

	assert.Len(t, g.Players[0].ReservedCards, 1)
	assert.False(t, g.Players[0].ReservedCards[0].Invisible)
	assert.Equal(t, 1, g.Players[0].Tokens[Yellow])
	assert.Equal(t, 4, g.Tokens[Yellow])
}

func TestReserveCardBlindIsInvisibleToOpponents(t *testing.T) {
	g := newTestGame(t, 2)
	action := NewReserveCardAction(ReserveCardAction{Tier: TierII})
	require.NoError(t, g.ValidateMain(action))
	g.ApplyMain(action)

	require.Len(t, g.Players[0].ReservedCards, 1)
	assert.True(t, g.Players[0].ReservedCards[0].Invisible)

	snap := g.Snapshot()
	view := snap.Players[0].ReservedCards[0]
	assert.False(t, view.Visible)
}

func TestReserveCardCapsAtThree(t *testing.T) {
	g := newTestGame(t, 2)
	for i := 0; i < 3; i++ {
		action := NewReserveCardAction(ReserveCardAction{Tier: TierI})
		require.NoError(t, g.ValidateMain(action))
		g.ApplyMain(action)
	}
	fourth := NewReserveCardAction(ReserveCardAction{Tier: TierI})
	assert.Error(t, g.ValidateMain(fourth))
}

func TestBuyCardFromRiverWithJokerShortfall(t *testing.T) {
	g := newTestGame(t, 2)
	card, ok := g.CardPool.Peek(TierI, 0)
	require.True(t, ok)

	// Give the player exactly the card's cost minus one lane, plus one
	// joker to cover the shortfall.
	cost := card.Requires
	give := cost
	var shortLane Color = -1
	for _, c := range Colors[:5] {
		if cost[c] > 0 {
			shortLane = c
			break
		}
	}
	require.NotEqual(t, Color(-1), shortLane)
	give[shortLane]--
	g.Players[0].Tokens = give
	g.Players[0].Tokens[Yellow] = 1

	uses := give
	uses[Yellow] = 1

	action := NewBuyCardAction(BuyCardAction{Source: NewRevealedSource(TierI, 0), Uses: uses})
	require.NoError(t, g.ValidateMain(action))
	g.ApplyMain(action)

	assert.Equal(t, card.Points, g.Players[0].DevelopmentCards.Points)
	assert.Equal(t, 1, g.Players[0].Bonus()[card.Bonus])
}

func TestAdvanceTurnDrawOnAllNopRound(t *testing.T) {
	g := newTestGame(t, 2)
	var winners []int
	var reason EndReason
	var ended bool
	for i := 0; i < g.NPlayers; i++ {
		winners, reason, ended = g.AdvanceTurn(true)
	}
	assert.True(t, ended)
	assert.Equal(t, EndDraw, reason)
	assert.Nil(t, winners)
	assert.Equal(t, 1, g.NopStreak)
}

func TestAdvanceTurnResetsNopStreakOnAnyAction(t *testing.T) {
	g := newTestGame(t, 2)
	g.AdvanceTurn(false)
	_, _, ended := g.AdvanceTurn(true)
	assert.False(t, ended)
	assert.Equal(t, 0, g.NopStreak)
	assert.Equal(t, 1, g.Round)
}

func TestWinnersTieBreaksByFewestDevelopmentCards(t *testing.T) {
	g := newTestGame(t, 2)
	g.Players[0].DevelopmentCards.Points = 15
	g.Players[1].DevelopmentCards.Points = 15
	g.Players[0].DevelopmentCards.Inner[Black] = []Card{{}, {}}
	g.Players[1].DevelopmentCards.Inner[Black] = []Card{{}}

	winners := g.winners()
	assert.Equal(t, []int{1}, winners)
}

func TestWinnersReportsJointTies(t *testing.T) {
	g := newTestGame(t, 2)
	g.Players[0].DevelopmentCards.Points = 15
	g.Players[1].DevelopmentCards.Points = 15

	winners := g.winners()
	assert.ElementsMatch(t, []int{0, 1}, winners)
}

func TestDropTokensRequiresExactlyTen(t *testing.T) {
	g := newTestGame(t, 2)
	g.Players[0].Tokens = NewColorVec(3, 3, 3, 3, 0, 0)

	tooFew := DropTokensAction{Tokens: NewColorVec(1, 0, 0, 0, 0, 0)}
	assert.Error(t, g.ValidateDropTokens(tooFew))

	exact := DropTokensAction{Tokens: NewColorVec(2, 0, 0, 0, 0, 0)}
	require.NoError(t, g.ValidateDropTokens(exact))
	g.ApplyDropTokens(exact)
	assert.Equal(t, 10, g.Players[0].Tokens.Total())
}

func TestEligibleNoblesRequireBonusCoverage(t *testing.T) {
	g := newTestGame(t, 2)
	assert.Empty(t, g.EligibleNobles())

	noble := g.Nobles.Get(0)
	for c, n := range noble.Requires {
		g.Players[0].DevelopmentCards.Bonus[c] = n
	}
	eligible := g.EligibleNobles()
	assert.Contains(t, eligible, 0)

	sel := SelectNoblesAction{Index: eligible[0]}
	require.NoError(t, g.ValidateSelectNoble(sel))
	g.ApplyVisitNoble(sel.Index)
	assert.Len(t, g.Players[0].Nobles, 1)
}
