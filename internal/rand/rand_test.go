package rand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdRand_SameSeedSameSequence(t *testing.T) {
	a := New(0x1337)
	b := New(0x1337)

	for i := 0; i < 100; i++ {
		require.Equal(t, a.Next(), b.Next(), "draw %d", i)
	}
}

func TestStdRand_SetSeedRestartsSequence(t *testing.T) {
	r := New(42)
	first := []uint64{r.Next(), r.Next(), r.Next()}

	r.SetSeed(42)
	again := []uint64{r.Next(), r.Next(), r.Next()}

	assert.Equal(t, first, again)
}

func TestStdRand_Below(t *testing.T) {
	r := New(1)

	for i := 0; i < 1000; i++ {
		v := r.Below(7)
		require.Less(t, v, uint64(7))
	}
}

func TestStdRand_BelowZeroPanics(t *testing.T) {
	r := New(1)

	assert.Panics(t, func() { r.Below(0) })
}

func TestStdRand_BelowOrZero(t *testing.T) {
	r := New(1)

	assert.Equal(t, uint64(0), r.BelowOrZero(0))

	for i := 0; i < 100; i++ {
		require.Less(t, r.BelowOrZero(3), uint64(3))
	}
}

func TestStdRand_Between(t *testing.T) {
	r := New(9)
	seen := map[uint64]bool{}

	for i := 0; i < 500; i++ {
		v := r.Between(3, 5)
		require.GreaterOrEqual(t, v, uint64(3))
		require.LessOrEqual(t, v, uint64(5))
		seen[v] = true
	}

	assert.Len(t, seen, 3)
	assert.Equal(t, uint64(4), r.Between(4, 4))
	assert.Panics(t, func() { r.Between(5, 4) })
}

func TestStdRand_Coinflip(t *testing.T) {
	r := New(3)

	for i := 0; i < 100; i++ {
		require.False(t, r.Coinflip(0))
		require.True(t, r.Coinflip(1))
	}
}

func TestStdRand_SplitIsDeterministicAndIndependent(t *testing.T) {
	parentA := New(77)
	parentB := New(77)

	childA := parentA.Split()
	childB := parentB.Split()

	for i := 0; i < 20; i++ {
		require.Equal(t, childA.Next(), childB.Next())
	}

	// The child must not replay the parent stream.
	parent := New(77)
	child := parent.Split()
	assert.NotEqual(t, parent.Next(), child.Next())
}
