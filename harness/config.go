package harness

import (
	"errors"
	"fmt"

	"github.com/weiihann/k2bench/workload"
)

// Defaults of the canonical sweep.
const (
	DefaultStemK     = 2
	DefaultLeafK     = 2
	DefaultOutputDir = "output"
	TimeTable        = "time.csv"
	SpaceTable       = "space.csv"
)

// DefaultSizes is the canonical geometric sweep.
func DefaultSizes() []int {
	return []int{4, 8, 16, 32, 64, 128, 256, 512, 1024, 2048, 4096}
}

// VerifySizes is the sweep used by the equivalence check. Each size reads
// every cell of both structures, so it stops well short of DefaultSizes.
func VerifySizes() []int {
	return []int{4, 8, 16, 32, 64, 128, 256}
}

// Config holds the parameters of a sweep.
type Config struct {
	Sizes     []int
	Model     workload.Model
	StemK     int
	LeafK     int
	Seed      int64
	OutputDir string
}

// DefaultConfig returns the canonical sweep configuration. Seed 0 means
// the caller picks a time-based seed.
func DefaultConfig() Config {
	return Config{
		Sizes:     DefaultSizes(),
		Model:     workload.ModelThreshold,
		StemK:     DefaultStemK,
		LeafK:     DefaultLeafK,
		OutputDir: DefaultOutputDir,
	}
}

// Validate checks that the sweep is non-empty and strictly increasing and
// that both branch factors are at least 2.
func (c Config) Validate() error {
	if len(c.Sizes) == 0 {
		return errors.New("sweep has no sizes")
	}

	for i, n := range c.Sizes {
		if n < 1 {
			return fmt.Errorf("size %d at index %d must be positive", n, i)
		}
		if i > 0 && n <= c.Sizes[i-1] {
			return fmt.Errorf("sizes must increase: %d follows %d",
				n, c.Sizes[i-1])
		}
	}

	if c.StemK < 2 || c.LeafK < 2 {
		return fmt.Errorf("branch factors must be at least 2: stem_k=%d leaf_k=%d",
			c.StemK, c.LeafK)
	}

	if _, err := workload.ParseModel(string(c.Model)); err != nil {
		return err
	}

	return nil
}
