package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/weiihann/k2bench/harness"
)

func TestGenerateSpace(t *testing.T) {
	records := []harness.Record{
		{N: 4, Baseline: 26, Compressed: 66},
		{N: 1024, Baseline: 131096, Compressed: 65560},
	}

	var buf bytes.Buffer
	if err := Generate(&buf, "Space usage", Bytes, records); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "## Space usage") {
		t.Error("expected title in output")
	}
	if !strings.Contains(output, "| 1024 | 128 KB | 64 KB | 0.50x |") {
		t.Errorf("expected 1024 row with 0.50x ratio, got:\n%s", output)
	}
	if !strings.Contains(output, "2.54x") {
		t.Error("expected 2.54x ratio for n=4")
	}
}

func TestGenerateTime(t *testing.T) {
	records := []harness.Record{{N: 8, Baseline: 100, Compressed: 450}}

	var buf bytes.Buffer
	if err := Generate(&buf, "Query time", Nanoseconds, records); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.Contains(buf.String(), "| 8 | 100ns | 450ns | 4.50x |") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestGenerateZeroBaseline(t *testing.T) {
	records := []harness.Record{{N: 4, Baseline: 0, Compressed: 30}}

	var buf bytes.Buffer
	if err := Generate(&buf, "Query time", Nanoseconds, records); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.Contains(buf.String(), "| 4 | 0ns | 30ns | - |") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestGenerateEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(&buf, "Query time", Nanoseconds, nil); err == nil {
		t.Error("expected error for empty records")
	}
}

func TestGenerateJSON(t *testing.T) {
	results := &harness.Results{
		Time:  []harness.Record{{N: 4, Baseline: 10, Compressed: 20}},
		Space: []harness.Record{{N: 4, Baseline: 26, Compressed: 66}},
	}

	var buf bytes.Buffer
	if err := GenerateJSON(&buf, results); err != nil {
		t.Fatalf("GenerateJSON failed: %v", err)
	}

	if !strings.Contains(buf.String(), `"bitmatrix": 26`) {
		t.Errorf("expected bitmatrix field in output:\n%s", buf.String())
	}

	var parsed harness.Results
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(parsed.Space) != 1 || parsed.Space[0].Compressed != 66 {
		t.Errorf("space = %+v, want one record with k2tree=66", parsed.Space)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input uint64
		want  string
	}{
		{0, "-"},
		{512, "512 B"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1048576, "1 MB"},
		{1073741824, "1 GB"},
	}

	for _, tt := range tests {
		got := formatBytes(tt.input)
		if got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatNs(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{0, "0ns"},
		{999, "999ns"},
		{1000, "1.00µs"},
		{1500, "1.50µs"},
		{2_500_000, "2.50ms"},
	}

	for _, tt := range tests {
		got := formatNs(tt.input)
		if got != tt.want {
			t.Errorf("formatNs(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
