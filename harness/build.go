package harness

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/weiihann/k2bench/matrix"
)

// KnownStructures returns the list of supported structure names.
func KnownStructures() []string {
	return []string{"bitmatrix", "k2tree"}
}

// Lookup returns the Adapter registered under name.
func Lookup(name string) (Adapter, error) {
	switch name {
	case "bitmatrix":
		return BitMatrixAdapter{}, nil
	case "k2tree":
		return K2TreeAdapter{}, nil
	default:
		return nil, fmt.Errorf("unknown structure %q", name)
	}
}

// Build runs a.Build and logs how long it took.
func Build(
	ctx context.Context,
	logger *slog.Logger,
	a Adapter,
	m *matrix.BitMatrix,
	stemK, leafK int,
) (Structure, error) {
	start := time.Now()

	s, err := a.Build(m, stemK, leafK)
	if err != nil {
		return nil, err
	}

	logger.DebugContext(ctx, "structure built",
		slog.String("structure", a.Name()),
		slog.Duration("build_time", time.Since(start)),
	)

	return s, nil
}
