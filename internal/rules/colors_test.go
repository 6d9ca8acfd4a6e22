package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorVecArithmetic(t *testing.T) {
	a := NewColorVec(1, 2, 3, 4, 5, 0)
	b := NewColorVec(1, 1, 1, 1, 1, 0)

	require.Equal(t, 15, a.Total())
	assert.Equal(t, NewColorVec(2, 3, 4, 5, 6, 0), a.Add(b))
	assert.Equal(t, NewColorVec(0, 1, 2, 3, 4, 0), a.Sub(b))
}

func TestColorVecSaturatingSub(t *testing.T) {
	a := NewColorVec(0, 1, 2, 0, 0, 0)
	b := NewColorVec(1, 1, 1, 1, 1, 0)
	assert.Equal(t, NewColorVec(0, 0, 1, 0, 0, 0), a.SaturatingSub(b))
}

// TestColorVecPartialOrder confirms Lt/Le/Gt/Ge are independent lane-wise
// predicates: two vectors can be mutually incomparable, in which case none
// of the four predicates hold in either direction.
func TestColorVecPartialOrder(t *testing.T) {
	x := NewColorVec(1, 0, 0, 0, 0, 0)
	y := NewColorVec(0, 1, 0, 0, 0, 0)

	assert.False(t, x.Lt(y))
	assert.False(t, y.Lt(x))
	assert.False(t, x.Le(y))
	assert.False(t, y.Le(x))
	assert.False(t, x.Gt(y))
	assert.False(t, y.Gt(x))

	lo := NewColorVec(1, 1, 1, 1, 1, 1)
	hi := NewColorVec(2, 2, 2, 2, 2, 2)
	assert.True(t, lo.Lt(hi))
	assert.True(t, lo.Le(hi))
	assert.True(t, hi.Gt(lo))
	assert.True(t, hi.Ge(lo))
	assert.True(t, lo.Le(lo))
	assert.False(t, lo.Lt(lo))
}

// TestColorVecMixedLaneLt confirms Lt/Gt use the a<=b && a!=b formula, not
// "every lane strictly less/greater": a single equal lane among otherwise
// strictly-ordered lanes must still count as Lt/Gt.
func TestColorVecMixedLaneLt(t *testing.T) {
	a := NewColorVec(1, 1, 1, 1, 1, 1)
	b := NewColorVec(2, 1, 1, 1, 1, 1)

	assert.True(t, a.Lt(b))
	assert.True(t, b.Gt(a))
}

func TestColorVecNonZeroLanes(t *testing.T) {
	v := NewColorVec(0, 2, 0, 1, 0, 0)
	assert.Equal(t, []Color{Blue, Red}, v.NonZeroLanes())
}
