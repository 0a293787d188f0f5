// Package report persists k2bench trial records as CSV tables and formats
// them as comparison tables for the console.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/weiihann/k2bench/harness"
)

// Unit selects how record metrics are rendered.
type Unit int

const (
	// Nanoseconds renders metrics as durations.
	Nanoseconds Unit = iota
	// Bytes renders metrics as sizes.
	Bytes
)

// Generate writes a markdown comparison table for records.
func Generate(w io.Writer, title string, unit Unit, records []harness.Record) error {
	if len(records) == 0 {
		return fmt.Errorf("no records to report")
	}

	fmt.Fprintf(w, "## %s\n", title)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "| n | bitmatrix | k2tree | k2tree/bitmatrix |")
	fmt.Fprintln(w, "|---|-----------|--------|------------------|")

	for _, r := range records {
		fmt.Fprintf(w, "| %d | %s | %s | %s |\n",
			r.N,
			format(unit, r.Baseline),
			format(unit, r.Compressed),
			formatRatio(r.Compressed, r.Baseline),
		)
	}

	fmt.Fprintln(w)

	return nil
}

// GenerateJSON writes results as JSON to w.
func GenerateJSON(w io.Writer, results *harness.Results) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(results)
}

func format(unit Unit, v int64) string {
	if unit == Bytes {
		return formatBytes(uint64(max(v, 0)))
	}

	return formatNs(v)
}

func formatRatio(num, den int64) string {
	if den <= 0 {
		return "-"
	}

	return fmt.Sprintf("%.2fx", float64(num)/float64(den))
}

func formatNs(ns int64) string {
	switch {
	case ns < 1_000:
		return fmt.Sprintf("%dns", ns)
	case ns < 1_000_000:
		return fmt.Sprintf("%.2fµs", float64(ns)/1e3)
	default:
		return fmt.Sprintf("%.2fms", float64(ns)/1e6)
	}
}

func formatBytes(b uint64) string {
	if b == 0 {
		return "-"
	}

	units := []string{"B", "KB", "MB", "GB", "TB"}
	size := float64(b)
	unit := 0

	for size >= 1024 && unit < len(units)-1 {
		size /= 1024
		unit++
	}

	formatted := fmt.Sprintf("%.1f", size)
	formatted = strings.TrimRight(formatted, "0")
	formatted = strings.TrimRight(formatted, ".")

	return formatted + " " + units[unit]
}
