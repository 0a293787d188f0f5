// Package k2tree implements a static k²-tree: a hierarchical, block
// compressed encoding of a boolean matrix.
//
// The matrix is padded to a square of side leafK·stemK^levels. Every stem
// level splits a block into stemK×stemK children and records one bit per
// child saying whether it contains any set cell. Stem bits are stored
// level by level, root first, and only non-empty blocks are expanded. The
// last stem level points at leaf blocks of leafK×leafK raw cells.
//
// Within a block, child (dx, dy) is bit dy·k + dx.
package k2tree

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/bits-and-blooms/bitset"
)

var (
	// ErrInvalidBranchFactor is returned when stemK or leafK is below 2.
	ErrInvalidBranchFactor = errors.New("branch factor must be at least 2")

	// ErrEmptyMatrix is returned when the source has no cells.
	ErrEmptyMatrix = errors.New("source matrix has zero width or height")

	// ErrOutOfBounds is returned when a query lies outside the source
	// dimensions.
	ErrOutOfBounds = errors.New("coordinate out of bounds")
)

// Source is the read access FromMatrix needs from a matrix.
type Source interface {
	Width() int
	Height() int
	Get(x, y int) (bool, error)
}

// Tree is an immutable k²-tree snapshot.
type Tree struct {
	stemK  int
	leafK  int
	width  int
	height int
	side   int
	levels int
	stems  *bitset.BitSet
	leaves *bitset.BitSet
}

// FromMatrix builds a tree from src. src is only read.
func FromMatrix(src Source, stemK, leafK int) (*Tree, error) {
	if stemK < 2 || leafK < 2 {
		return nil, fmt.Errorf("%w: stem_k=%d leaf_k=%d",
			ErrInvalidBranchFactor, stemK, leafK)
	}

	if src == nil || src.Width() <= 0 || src.Height() <= 0 {
		return nil, ErrEmptyMatrix
	}

	width, height := src.Width(), src.Height()
	n := max(width, height)

	side, levels := leafK*stemK, 1
	for side < n {
		side *= stemK
		levels++
	}

	b := &builder{
		src:    src,
		width:  width,
		height: height,
		stemK:  stemK,
		leafK:  leafK,
		levels: levels,
		stems:  make([]blockList, levels),
		leaves: blockList{bits: bitset.New(0)},
	}
	for i := range b.stems {
		b.stems[i].bits = bitset.New(0)
	}

	if _, err := b.visit(0, 0, 0, side); err != nil {
		return nil, err
	}

	return &Tree{
		stemK:  stemK,
		leafK:  leafK,
		width:  width,
		height: height,
		side:   side,
		levels: levels,
		stems:  b.concatStems(),
		leaves: b.leaves.packed(),
	}, nil
}

// Get reports whether cell (x, y) is set.
func (t *Tree) Get(x, y int) (bool, error) {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return false, fmt.Errorf("%w: (%d,%d) outside %dx%d",
			ErrOutOfBounds, x, y, t.width, t.height)
	}

	stemBlock := uint(t.stemK * t.stemK)
	stemBlocks := t.stems.Len() / stemBlock

	var (
		start  uint
		x0, y0 int
		side   = t.side
	)

	for level := 0; level < t.levels; level++ {
		child := side / t.stemK
		cx, cy := (x-x0)/child, (y-y0)/child
		pos := start + uint(cy*t.stemK+cx)

		if !t.stems.Test(pos) {
			return false, nil
		}

		x0 += cx * child
		y0 += cy * child
		side = child

		// Set stem bits strictly before pos.
		ones := t.stems.Rank(pos) - 1

		if level < t.levels-1 {
			start = (ones + 1) * stemBlock
			continue
		}

		leaf := ones - (stemBlocks - 1)
		off := leaf*uint(t.leafK*t.leafK) + uint((y-y0)*t.leafK+(x-x0))

		return t.leaves.Test(off), nil
	}

	return false, nil
}

// Width returns the width of the source matrix.
func (t *Tree) Width() int { return t.width }

// Height returns the height of the source matrix.
func (t *Tree) Height() int { return t.height }

// StemK returns the stem branch factor.
func (t *Tree) StemK() int { return t.stemK }

// LeafK returns the leaf branch factor.
func (t *Tree) LeafK() int { return t.leafK }

// Levels returns the number of stem levels.
func (t *Tree) Levels() int { return t.levels }

// StemBits returns the length of the packed stem array in bits.
func (t *Tree) StemBits() int { return int(t.stems.Len()) }

// LeafBits returns the length of the packed leaf array in bits.
func (t *Tree) LeafBits() int { return int(t.leaves.Len()) }

// PackedBytes is the storage of the stem and leaf arrays, each rounded up
// to whole bytes.
func (t *Tree) PackedBytes() int {
	return (t.StemBits()+7)/8 + (t.LeafBits()+7)/8
}

// SizeInBytes reports the descriptor size plus PackedBytes.
func (t *Tree) SizeInBytes() int {
	return int(unsafe.Sizeof(*t)) + t.PackedBytes()
}

// MinPackedBytes is the smallest PackedBytes any tree with the given stem
// branch factor can report: the root block is always stored.
func MinPackedBytes(stemK int) int {
	return (stemK*stemK + 7) / 8
}

// String renders the tree as "[stem blocks; leaf blocks]" with blocks
// separated by ", ".
func (t *Tree) String() string {
	var b strings.Builder

	b.WriteByte('[')
	writeBlocks(&b, t.stems, uint(t.stemK*t.stemK))
	b.WriteString("; ")
	writeBlocks(&b, t.leaves, uint(t.leafK*t.leafK))
	b.WriteByte(']')

	return b.String()
}

func writeBlocks(b *strings.Builder, bits *bitset.BitSet, block uint) {
	for i := uint(0); i < bits.Len(); i++ {
		if i > 0 && i%block == 0 {
			b.WriteString(", ")
		}
		if bits.Test(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
}
