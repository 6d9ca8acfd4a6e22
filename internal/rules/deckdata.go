package rules

// tierDeck holds the full unshuffled card list for one tier. The original
// engine's card table lives in an unretrievable defs submodule, so this is
// an independently authored deterministic table that keeps the same shape
// the rules rely on: tier I is all zero-point entry cards, tier II
// introduces modest point values with steeper single/double-color costs,
// tier III is expensive, high-point and frequently joker-dependent.
var tierDeck = [3][]Card{
	TierI:   buildTierI(),
	TierII:  buildTierII(),
	TierIII: buildTierIII(),
}

func card(tier Tier, bonus Color, points uint8, costs ColorVec) Card {
	return Card{Tier: tier, Bonus: bonus, Points: points, Requires: costs}
}

// buildTierI yields 40 zero-to-one point cards, 8 per bonus color: four
// cheap single/dual-color costs and four slightly pricier three-color
// costs, so every color has early, affordable cards to build an engine on.
func buildTierI() []Card {
	var out []Card
	cheap := [4]ColorVec{
		NewColorVec(3, 0, 0, 0, 0, 0),
		NewColorVec(0, 2, 1, 0, 0, 0),
		NewColorVec(1, 1, 1, 1, 0, 0),
		NewColorVec(2, 0, 0, 2, 0, 0),
	}
	costly := [4]ColorVec{
		NewColorVec(1, 1, 1, 1, 1, 0),
		NewColorVec(0, 0, 2, 2, 0, 0),
		NewColorVec(3, 1, 0, 0, 1, 0),
		NewColorVec(0, 1, 0, 1, 3, 0),
	}
	for _, bonus := range Colors[:5] {
		for _, c := range cheap {
			out = append(out, card(TierI, bonus, 0, rotate(c, bonus)))
		}
		for _, c := range costly {
			out = append(out, card(TierI, bonus, 1, rotate(c, bonus)))
		}
	}
	return out
}

// buildTierII yields 30 cards, 6 per bonus color, worth 1-3 points with a
// single dominant color cost of 5-6 plus a smaller secondary color.
func buildTierII() []Card {
	var out []Card
	shapes := []struct {
		points uint8
		cost   ColorVec
	}{
		{1, NewColorVec(0, 0, 0, 0, 5, 0)},
		{1, NewColorVec(2, 0, 0, 3, 2, 0)},
		{2, NewColorVec(0, 0, 5, 0, 0, 0)},
		{2, NewColorVec(1, 4, 2, 0, 0, 0)},
		{3, NewColorVec(6, 0, 0, 0, 0, 0)},
		{3, NewColorVec(0, 0, 3, 3, 5, 0)},
	}
	for _, bonus := range Colors[:5] {
		for _, s := range shapes {
			out = append(out, card(TierII, bonus, s.points, rotate(s.cost, bonus)))
		}
	}
	return out
}

// buildTierIII yields 20 cards, 4 per bonus color, worth 3-5 points with
// expensive, multi-color costs.
func buildTierIII() []Card {
	var out []Card
	shapes := []struct {
		points uint8
		cost   ColorVec
	}{
		{3, NewColorVec(3, 3, 5, 3, 0, 0)},
		{4, NewColorVec(0, 0, 0, 7, 0, 0)},
		{4, NewColorVec(3, 0, 3, 6, 3, 0)},
		{5, NewColorVec(0, 0, 7, 3, 0, 0)},
	}
	for _, bonus := range Colors[:5] {
		for _, s := range shapes {
			out = append(out, card(TierIII, bonus, s.points, rotate(s.cost, bonus)))
		}
	}
	return out
}

// rotate cyclically shifts a cost vector's first five lanes so that the
// "dominant" cost lane lands on the card's own bonus color instead of
// always landing on Black, giving each color family a distinct cost
// profile instead of 40 identical reprints.
func rotate(v ColorVec, bonus Color) ColorVec {
	var out ColorVec
	for i := 0; i < 5; i++ {
		out[(Color(i)+bonus)%5] = v[i]
	}
	out[Yellow] = v[Yellow]
	return out
}
