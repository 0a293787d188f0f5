// Package matrix provides a fixed-size, bit-packed boolean matrix used as
// the flat baseline in k2bench comparisons.
package matrix

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/bits-and-blooms/bitset"
)

var (
	// ErrZeroDimension is returned when a matrix is created with a zero or
	// negative width or height.
	ErrZeroDimension = errors.New("matrix dimensions must be positive")

	// ErrOutOfBounds is returned when a coordinate lies outside the matrix.
	ErrOutOfBounds = errors.New("coordinate out of bounds")
)

// BitMatrix is a width x height grid of bits stored row-major in a single
// bitset. Cell (x, y) lives at bit y*width + x.
type BitMatrix struct {
	width  int
	height int
	bits   *bitset.BitSet
}

// New creates an all-false matrix of the given dimensions.
func New(width, height int) (*BitMatrix, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrZeroDimension, width, height)
	}

	return &BitMatrix{
		width:  width,
		height: height,
		bits:   bitset.New(uint(width * height)),
	}, nil
}

// Width returns the number of columns.
func (m *BitMatrix) Width() int { return m.width }

// Height returns the number of rows.
func (m *BitMatrix) Height() int { return m.height }

// Get returns the value of cell (x, y).
func (m *BitMatrix) Get(x, y int) (bool, error) {
	if err := m.check(x, y); err != nil {
		return false, err
	}

	return m.bits.Test(m.index(x, y)), nil
}

// Set assigns value to cell (x, y).
func (m *BitMatrix) Set(x, y int, value bool) error {
	if err := m.check(x, y); err != nil {
		return err
	}

	m.bits.SetTo(m.index(x, y), value)

	return nil
}

// Clone returns a deep copy that shares no storage with m.
func (m *BitMatrix) Clone() *BitMatrix {
	return &BitMatrix{
		width:  m.width,
		height: m.height,
		bits:   m.bits.Clone(),
	}
}

// Count returns the number of true cells.
func (m *BitMatrix) Count() int {
	return int(m.bits.Count())
}

// SizeInBytes reports the descriptor size plus the packed payload of
// ceil(width*height/8) bytes.
func (m *BitMatrix) SizeInBytes() int {
	return int(unsafe.Sizeof(*m)) + PayloadBytes(m.width, m.height)
}

// PayloadBytes is the packed storage needed for a width x height grid.
func PayloadBytes(width, height int) int {
	return (width*height + 7) / 8
}

// String renders the matrix as rows of 0 and 1.
func (m *BitMatrix) String() string {
	var b strings.Builder
	b.Grow((m.width + 1) * m.height)

	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.bits.Test(m.index(x, y)) {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
		b.WriteByte('\n')
	}

	return b.String()
}

func (m *BitMatrix) check(x, y int) error {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return fmt.Errorf("%w: (%d,%d) outside %dx%d",
			ErrOutOfBounds, x, y, m.width, m.height)
	}

	return nil
}

func (m *BitMatrix) index(x, y int) uint {
	return uint(y*m.width + x)
}
