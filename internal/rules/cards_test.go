package rules

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevelopmentCardsWireFormatIndexedByBonusColor(t *testing.T) {
	var d DevelopmentCards
	d.Add(Card{Tier: TierI, Bonus: Blue, Points: 1, Requires: NewColorVec(1, 1, 1, 0, 0, 0)})

	data, err := json.Marshal(d)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "inner")
	assert.NotContains(t, raw, "tiers")

	var inner [5][]Card
	require.NoError(t, json.Unmarshal(raw["inner"], &inner))
	assert.Len(t, inner[Blue], 1)
	assert.Equal(t, 1, d.Count())
}
