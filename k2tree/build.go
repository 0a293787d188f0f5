package k2tree

import (
	"github.com/bits-and-blooms/bitset"
)

// blockList is an append-only bit array grown one block at a time.
type blockList struct {
	bits *bitset.BitSet
	n    uint
}

func (l *blockList) add(block []bool) {
	for i, v := range block {
		if v {
			l.bits.Set(l.n + uint(i))
		}
	}
	l.n += uint(len(block))
}

// packed returns a bitset whose Len is exactly the number of appended bits.
func (l *blockList) packed() *bitset.BitSet {
	out := bitset.New(l.n)
	for i, ok := l.bits.NextSet(0); ok; i, ok = l.bits.NextSet(i + 1) {
		out.Set(i)
	}

	return out
}

type builder struct {
	src    Source
	width  int
	height int
	stemK  int
	leafK  int
	levels int
	stems  []blockList
	leaves blockList
}

// visit walks the block at (x0, y0) of the given side and reports whether
// it holds any set cell. Depth-first recursion appends blocks to each level
// in the same order a breadth-first walk would visit them.
func (b *builder) visit(level, x0, y0, side int) (bool, error) {
	if level == b.levels {
		return b.visitLeaf(x0, y0)
	}

	child := side / b.stemK
	block := make([]bool, b.stemK*b.stemK)
	nonEmpty := false

	for dy := 0; dy < b.stemK; dy++ {
		for dx := 0; dx < b.stemK; dx++ {
			cx, cy := x0+dx*child, y0+dy*child
			if cx >= b.width || cy >= b.height {
				continue
			}

			set, err := b.visit(level+1, cx, cy, child)
			if err != nil {
				return false, err
			}

			block[dy*b.stemK+dx] = set
			nonEmpty = nonEmpty || set
		}
	}

	if nonEmpty || level == 0 {
		b.stems[level].add(block)
	}

	return nonEmpty, nil
}

func (b *builder) visitLeaf(x0, y0 int) (bool, error) {
	block := make([]bool, b.leafK*b.leafK)
	nonEmpty := false

	for dy := 0; dy < b.leafK; dy++ {
		for dx := 0; dx < b.leafK; dx++ {
			x, y := x0+dx, y0+dy
			if x >= b.width || y >= b.height {
				continue
			}

			set, err := b.src.Get(x, y)
			if err != nil {
				return false, err
			}

			block[dy*b.leafK+dx] = set
			nonEmpty = nonEmpty || set
		}
	}

	if nonEmpty {
		b.leaves.add(block)
	}

	return nonEmpty, nil
}

// concatStems joins the per-level stem arrays root first.
func (b *builder) concatStems() *bitset.BitSet {
	var total uint
	for _, l := range b.stems {
		total += l.n
	}

	out := bitset.New(total)

	var offset uint
	for _, l := range b.stems {
		for i, ok := l.bits.NextSet(0); ok; i, ok = l.bits.NextSet(i + 1) {
			out.Set(offset + i)
		}
		offset += l.n
	}

	return out
}
