package harness

import (
	"errors"
	"fmt"

	"github.com/weiihann/k2bench/k2tree"
	"github.com/weiihann/k2bench/matrix"
)

// ErrNilMatrix is returned when Build is given no matrix.
var ErrNilMatrix = errors.New("nil matrix")

// Structure is a built representation under measurement.
type Structure interface {
	Name() string
	// Get answers a bounds-checked point query.
	Get(x, y int) (bool, error)
	// SizeInBytes reports the full footprint including packed storage.
	SizeInBytes() int
}

// Adapter builds a Structure from a matrix. The compressed adapter only
// reads m; the runner still hands it a clone so the baseline keeps sole
// ownership of the original.
type Adapter interface {
	Name() string
	Build(m *matrix.BitMatrix, stemK, leafK int) (Structure, error)
}

// BitMatrixAdapter exposes the flat matrix itself. Branch factors are
// ignored.
type BitMatrixAdapter struct{}

// Name implements Adapter.
func (BitMatrixAdapter) Name() string { return "bitmatrix" }

// Build implements Adapter.
func (a BitMatrixAdapter) Build(m *matrix.BitMatrix, stemK, leafK int) (Structure, error) {
	if err := checkMatrix(m); err != nil {
		return nil, &ConstructionError{
			Structure: a.Name(), StemK: stemK, LeafK: leafK, Err: err,
		}
	}

	return &flatStructure{m: m}, nil
}

// K2TreeAdapter builds a k2tree.Tree.
type K2TreeAdapter struct{}

// Name implements Adapter.
func (K2TreeAdapter) Name() string { return "k2tree" }

// Build implements Adapter.
func (a K2TreeAdapter) Build(m *matrix.BitMatrix, stemK, leafK int) (Structure, error) {
	if err := checkMatrix(m); err != nil {
		return nil, &ConstructionError{
			Structure: a.Name(), StemK: stemK, LeafK: leafK, Err: err,
		}
	}

	tree, err := k2tree.FromMatrix(m, stemK, leafK)
	if err != nil {
		return nil, &ConstructionError{
			Structure: a.Name(), StemK: stemK, LeafK: leafK, Err: err,
		}
	}

	return &treeStructure{tree: tree}, nil
}

func checkMatrix(m *matrix.BitMatrix) error {
	if m == nil {
		return ErrNilMatrix
	}

	if m.Width() <= 0 || m.Height() <= 0 {
		return fmt.Errorf("%w: %dx%d",
			matrix.ErrZeroDimension, m.Width(), m.Height())
	}

	return nil
}

type flatStructure struct {
	m *matrix.BitMatrix
}

func (s *flatStructure) Name() string { return "bitmatrix" }

func (s *flatStructure) Get(x, y int) (bool, error) {
	v, err := s.m.Get(x, y)
	if err != nil {
		return false, &QueryError{Structure: s.Name(), X: x, Y: y, Err: err}
	}

	return v, nil
}

func (s *flatStructure) SizeInBytes() int { return s.m.SizeInBytes() }

type treeStructure struct {
	tree *k2tree.Tree
}

func (s *treeStructure) Name() string { return "k2tree" }

func (s *treeStructure) Get(x, y int) (bool, error) {
	v, err := s.tree.Get(x, y)
	if err != nil {
		return false, &QueryError{Structure: s.Name(), X: x, Y: y, Err: err}
	}

	return v, nil
}

func (s *treeStructure) SizeInBytes() int { return s.tree.SizeInBytes() }
