// Package workload generates random sparse boolean matrices for k2bench
// trials. Two density models are supported: a handful of random cells
// (sparse) and a thresholded normal fill over every cell (threshold).
package workload

import (
	"errors"
	"fmt"
	mrand "math/rand"

	"github.com/weiihann/k2bench/matrix"
)

// Model selects the rule deciding which cells are set.
type Model string

const (
	// ModelSparse sets SparseCells random cells. Collisions are allowed.
	ModelSparse Model = "sparse"

	// ModelThreshold draws a normal value for every cell and sets the cell
	// when the value exceeds Threshold. Cost is O(n²).
	ModelThreshold Model = "threshold"
)

// Density parameters of the two models.
const (
	SparseCells = 5
	Mean        = 0.5
	StdDev      = 0.9
	Threshold   = 1.28
)

var (
	// ErrInvalidSize is returned for a matrix dimension below 1.
	ErrInvalidSize = errors.New("matrix size must be at least 1")

	// ErrUnknownModel is returned for an unrecognised density model.
	ErrUnknownModel = errors.New("unknown density model")
)

// Models returns the supported density models.
func Models() []Model {
	return []Model{ModelSparse, ModelThreshold}
}

// ParseModel converts a model name into a Model.
func ParseModel(s string) (Model, error) {
	for _, m := range Models() {
		if string(m) == s {
			return m, nil
		}
	}

	return "", fmt.Errorf("%w %q", ErrUnknownModel, s)
}

// Summary contains statistics about a generated matrix.
type Summary struct {
	Size    int
	Cells   int
	SetBits int
}

// Density is the fraction of set cells.
func (s Summary) Density() float64 {
	if s.Cells == 0 {
		return 0
	}

	return float64(s.SetBits) / float64(s.Cells)
}

// Generator produces matrices from a caller-owned random source.
type Generator struct {
	rng *mrand.Rand
}

// NewGenerator creates a Generator drawing from rng. Seeding rng makes
// generation reproducible.
func NewGenerator(rng *mrand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate builds an n x n matrix under the given model.
func (g *Generator) Generate(n int, model Model) (*matrix.BitMatrix, Summary, error) {
	if n < 1 {
		return nil, Summary{}, fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}

	m, err := matrix.New(n, n)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("allocate matrix: %w", err)
	}

	switch model {
	case ModelSparse:
		err = g.fillSparse(m, n)
	case ModelThreshold:
		err = g.fillThreshold(m, n)
	default:
		return nil, Summary{}, fmt.Errorf("%w %q", ErrUnknownModel, model)
	}

	if err != nil {
		return nil, Summary{}, fmt.Errorf("fill %s: %w", model, err)
	}

	return m, Summary{Size: n, Cells: n * n, SetBits: m.Count()}, nil
}

func (g *Generator) fillSparse(m *matrix.BitMatrix, n int) error {
	for i := 0; i < SparseCells; i++ {
		x := g.rng.Intn(n)
		y := g.rng.Intn(n)

		if err := m.Set(x, y, true); err != nil {
			return err
		}
	}

	return nil
}

func (g *Generator) fillThreshold(m *matrix.BitMatrix, n int) error {
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			v := Mean + StdDev*g.rng.NormFloat64()
			if v <= Threshold {
				continue
			}

			if err := m.Set(x, y, true); err != nil {
				return err
			}
		}
	}

	return nil
}
