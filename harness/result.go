// Package harness runs k2bench trials: it builds the flat and compressed
// representations of a generated matrix and measures query latency or
// storage size for each.
package harness

// Record is one trial result. Baseline and Compressed hold nanoseconds in
// the timing study and bytes in the space study.
type Record struct {
	N          int   `json:"n"`
	Baseline   int64 `json:"bitmatrix"`
	Compressed int64 `json:"k2tree"`
}

// Results holds the records of a full sweep in sweep order.
type Results struct {
	Time  []Record `json:"time"`
	Space []Record `json:"space"`
}
