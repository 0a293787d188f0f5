package harness

import "fmt"

// ConstructionError reports an invalid matrix or branch factor passed to
// an Adapter's Build.
type ConstructionError struct {
	Structure string
	StemK     int
	LeafK     int
	Err       error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("build %s (stem_k=%d, leaf_k=%d): %v",
		e.Structure, e.StemK, e.LeafK, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// QueryError reports an out-of-bounds point query.
type QueryError struct {
	Structure string
	X, Y      int
	Err       error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s at (%d,%d): %v", e.Structure, e.X, e.Y, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// MismatchError reports a cell on which two structures disagree.
type MismatchError struct {
	X, Y       int
	Baseline   string
	Compressed string
	Want, Got  bool
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("cell (%d,%d): %s=%t, %s=%t",
		e.X, e.Y, e.Baseline, e.Want, e.Compressed, e.Got)
}
