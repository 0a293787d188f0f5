package k2tree

import (
	"fmt"
	mrand "math/rand"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiihann/k2bench/matrix"
)

func newMatrix(t *testing.T, w, h int, cells [][2]int) *matrix.BitMatrix {
	t.Helper()

	m, err := matrix.New(w, h)
	require.NoError(t, err)

	for _, c := range cells {
		require.NoError(t, m.Set(c[0], c[1], true))
	}

	return m
}

func randomMatrix(t *testing.T, rng *mrand.Rand, w, h int, density float64) *matrix.BitMatrix {
	t.Helper()

	m, err := matrix.New(w, h)
	require.NoError(t, err)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if rng.Float64() < density {
				require.NoError(t, m.Set(x, y, true))
			}
		}
	}

	return m
}

// requireSameCells fails unless every cell of m reads the same from tree.
func requireSameCells(t *testing.T, m *matrix.BitMatrix, tree *Tree) {
	t.Helper()

	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			want, err := m.Get(x, y)
			require.NoError(t, err)

			got, err := tree.Get(x, y)
			require.NoError(t, err)
			require.Equal(t, want, got, "cell (%d,%d)", x, y)
		}
	}
}

var scenarioA = [][2]int{
	{4, 0}, {6, 0}, {6, 1}, {7, 1}, {6, 3},
	{0, 4}, {2, 4}, {0, 5}, {6, 4}, {7, 4},
}

func TestScenarioA(t *testing.T) {
	m := newMatrix(t, 8, 8, scenarioA)

	tree, err := FromMatrix(m.Clone(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, tree.Levels())

	v, err := tree.Get(6, 1)
	require.NoError(t, err)
	assert.True(t, v)

	v, err = tree.Get(0, 0)
	require.NoError(t, err)
	assert.False(t, v)

	requireSameCells(t, m, tree)
}

func TestScenarioB(t *testing.T) {
	m := newMatrix(t, 4, 4, [][2]int{
		{0, 0}, {0, 1}, {1, 1}, {2, 2}, {2, 3}, {3, 2},
	})

	tree, err := FromMatrix(m, 2, 2)
	require.NoError(t, err)

	assert.Equal(t, "[1001; 1011, 1110]", tree.String())
	assert.Equal(t, 4, tree.StemBits())
	assert.Equal(t, 8, tree.LeafBits())
	assert.Equal(t, 2, tree.PackedBytes())

	size := tree.SizeInBytes()
	assert.Equal(t, int(unsafe.Sizeof(Tree{}))+2, size)
	assert.NotEqual(t, matrix.PayloadBytes(4, 4), size)

	requireSameCells(t, m, tree)
}

func TestRoundTrip(t *testing.T) {
	rng := mrand.New(mrand.NewSource(7))

	tests := []struct {
		w, h         int
		stemK, leafK int
		density      float64
	}{
		{1, 1, 2, 2, 1},
		{4, 4, 2, 2, 0.3},
		{16, 16, 2, 2, 0.05},
		{16, 16, 2, 4, 0.2},
		{27, 27, 3, 3, 0.1},
		{30, 30, 3, 2, 0.5},
		{64, 64, 2, 2, 0.19},
		{100, 37, 2, 2, 0.1},
		{5, 90, 4, 2, 0.3},
		{32, 32, 2, 2, 1},
	}

	for _, tt := range tests {
		name := fmt.Sprintf("%dx%d_k%d_%d", tt.w, tt.h, tt.stemK, tt.leafK)
		t.Run(name, func(t *testing.T) {
			m := randomMatrix(t, rng, tt.w, tt.h, tt.density)

			tree, err := FromMatrix(m.Clone(), tt.stemK, tt.leafK)
			require.NoError(t, err)
			assert.Equal(t, tt.w, tree.Width())
			assert.Equal(t, tt.h, tree.Height())

			requireSameCells(t, m, tree)
		})
	}
}

func TestBuildDoesNotModifySource(t *testing.T) {
	m := newMatrix(t, 8, 8, scenarioA)
	before := m.String()

	_, err := FromMatrix(m, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, before, m.String())
}

func TestEmptyMatrixLowerBound(t *testing.T) {
	for _, n := range []int{1, 4, 8, 64, 256} {
		for _, k := range []int{2, 3, 4} {
			m := newMatrix(t, n, n, nil)

			tree, err := FromMatrix(m, k, 2)
			require.NoError(t, err)

			assert.Equal(t, k*k, tree.StemBits(), "n=%d k=%d", n, k)
			assert.Equal(t, 0, tree.LeafBits(), "n=%d k=%d", n, k)
			assert.GreaterOrEqual(t, tree.PackedBytes(), MinPackedBytes(k))
			assert.Greater(t, tree.SizeInBytes(), 0)

			v, err := tree.Get(n-1, n-1)
			require.NoError(t, err)
			assert.False(t, v)
		}
	}
}

func TestSizeLowerBoundHoldsWhenPopulated(t *testing.T) {
	rng := mrand.New(mrand.NewSource(11))

	for _, n := range []int{4, 8, 16, 32, 64} {
		m := randomMatrix(t, rng, n, n, 0.1)

		tree, err := FromMatrix(m, 2, 2)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, tree.PackedBytes(), MinPackedBytes(2))
		assert.Equal(t, int(unsafe.Sizeof(Tree{}))+tree.PackedBytes(),
			tree.SizeInBytes())
	}
}

func TestInvalidBranchFactors(t *testing.T) {
	m := newMatrix(t, 4, 4, nil)

	for _, k := range [][2]int{{1, 2}, {2, 1}, {0, 0}, {-2, 2}} {
		_, err := FromMatrix(m, k[0], k[1])
		assert.ErrorIs(t, err, ErrInvalidBranchFactor, "k=%v", k)
	}
}

func TestNilSource(t *testing.T) {
	_, err := FromMatrix(nil, 2, 2)
	assert.ErrorIs(t, err, ErrEmptyMatrix)
}

func TestQueryOutOfBounds(t *testing.T) {
	m := newMatrix(t, 5, 3, [][2]int{{4, 2}})

	tree, err := FromMatrix(m, 2, 2)
	require.NoError(t, err)

	// The padded side is 8, but only the source dimensions are addressable.
	for _, c := range [][2]int{{5, 0}, {0, 3}, {7, 7}, {-1, 0}} {
		_, err := tree.Get(c[0], c[1])
		assert.ErrorIs(t, err, ErrOutOfBounds, "cell %v", c)
	}

	v, err := tree.Get(4, 2)
	require.NoError(t, err)
	assert.True(t, v)
}
