package harness

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
)

// Snapshot reads every cell of s within width x height and returns the set
// cells as row-major indices y*width + x.
func Snapshot(s Structure, width, height int) (*roaring.Bitmap, error) {
	if uint64(width)*uint64(height) > math.MaxUint32 {
		return nil, fmt.Errorf("snapshot %s: %dx%d exceeds 32-bit cell index",
			s.Name(), width, height)
	}

	bm := roaring.New()

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v, err := s.Get(x, y)
			if err != nil {
				return nil, err
			}
			if v {
				bm.Add(uint32(y*width + x))
			}
		}
	}

	bm.RunOptimize()

	return bm, nil
}

// Verify checks that baseline and compressed answer every point query in
// width x height identically. A disagreement is reported as a
// *MismatchError for the lowest differing cell.
func Verify(baseline, compressed Structure, width, height int) error {
	want, err := Snapshot(baseline, width, height)
	if err != nil {
		return err
	}

	got, err := Snapshot(compressed, width, height)
	if err != nil {
		return err
	}

	if want.Equals(got) {
		return nil
	}

	idx := roaring.Xor(want, got).Minimum()

	return &MismatchError{
		X:          int(idx) % width,
		Y:          int(idx) / width,
		Baseline:   baseline.Name(),
		Compressed: compressed.Name(),
		Want:       want.Contains(idx),
		Got:        got.Contains(idx),
	}
}
