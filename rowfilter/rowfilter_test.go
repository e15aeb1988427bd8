package rowfilter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

type idSet map[string]struct{}

func (s idSet) Contains(id string) bool {
	_, exists := s[id]
	return exists
}

func ids(v ...string) idSet {
	out := make(idSet)
	for _, id := range v {
		out[id] = struct{}{}
	}
	return out
}

type recorder struct {
	adjustments []HeaderAdjustment
	progress    []Counts
}

func (r *recorder) HeaderAdjusted(h HeaderAdjustment) { r.adjustments = append(r.adjustments, h) }
func (r *recorder) Progress(c Counts) { r.progress = append(r.progress, c) }

func TestFilterForcesHeader(t *testing.T) {
	input := "ID1\tID2\tAGE\nF1\tS1\t40\nF3\tS3\t50\n"

	rec := &recorder{}
	var out bytes.Buffer
	counts, err := New(rec).Run(strings.NewReader(input), &out, ids("S1", "S2"))
	if err != nil {
		t.Fatal(err)
	}

	if expected := "FID\tIID\tAGE\nF1\tS1\t40\n"; out.String() != expected {
		t.Errorf("Output mismatch.\nGot: %q\nExpected: %q", out.String(), expected)
	}

	if counts != (Counts{Processed: 2, Kept: 1}) {
		t.Errorf("Unexpected counts: %+v", counts)
	}

	if len(rec.adjustments) != 1 {
		t.Fatalf("Expected 1 header adjustment, got %d", len(rec.adjustments))
	}
	if adj := rec.adjustments[0]; adj.Original != [2]string{"ID1", "ID2"} || adj.Swapped {
		t.Errorf("Unexpected adjustment: %+v", adj)
	}
}

func TestFilterPassesCorrectHeaderThrough(t *testing.T) {
	// A CRLF header that is already correct must be copied byte for byte.
	input := "FID\tIID\tsex \r\nF1\tS1\t1\r\n"

	rec := &recorder{}
	var out bytes.Buffer
	if _, err := New(rec).Run(strings.NewReader(input), &out, ids("S1")); err != nil {
		t.Fatal(err)
	}

	if out.String() != input {
		t.Errorf("Got %q, expected %q", out.String(), input)
	}

	if len(rec.adjustments) != 0 {
		t.Errorf("Expected no header adjustment, got %+v", rec.adjustments)
	}
}

func TestFilterSwappedHeader(t *testing.T) {
	input := "IID\tFID\tAGE\nS1\tF1\t40\n"

	rec := &recorder{}
	var out bytes.Buffer
	counts, err := New(rec).Run(strings.NewReader(input), &out, ids("S1", "S2"))
	if err != nil {
		t.Fatal(err)
	}

	// Relabeling is positional and matching stays on column 1, which holds F1.
	if expected := "FID\tIID\tAGE\n"; out.String() != expected {
		t.Errorf("Got %q, expected %q", out.String(), expected)
	}
	if counts != (Counts{Processed: 1, Kept: 0}) {
		t.Errorf("Unexpected counts: %+v", counts)
	}
	if len(rec.adjustments) != 1 || !rec.adjustments[0].Swapped {
		t.Errorf("Expected a swapped header adjustment, got %+v", rec.adjustments)
	}
}

func TestFilterKeepsLinesVerbatim(t *testing.T) {
	input := strings.Join([]string{
		"FID\tIID\tx",
		"F1\tS1\t  padded value  ",
		"", // blank line: processed, never kept
		"F9",
		"F2\tS2\t2",
		"F2b\tS2\t3", // duplicate IID within the table
		"F4\ts1\t4",  // case differs
		"F5\tS5\t5",
	}, "\n") // no trailing newline on the last line

	var out bytes.Buffer
	counts, err := New(nil).Run(strings.NewReader(input), &out, ids("S1", "S2", "S5"))
	if err != nil {
		t.Fatal(err)
	}

	expected := "FID\tIID\tx\nF1\tS1\t  padded value  \nF2\tS2\t2\nF2b\tS2\t3\nF5\tS5\t5"
	if out.String() != expected {
		t.Errorf("Got %q, expected %q", out.String(), expected)
	}

	if counts != (Counts{Processed: 7, Kept: 4}) {
		t.Errorf("Unexpected counts: %+v", counts)
	}
}

func TestFilterOnlyWritesMembers(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("FID\tIID\n")
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&sb, "F%d\tS%d\n", i, i)
	}

	keep := ids("S0", "S7", "S499", "S1000")

	var out bytes.Buffer
	counts, err := New(nil).Run(strings.NewReader(sb.String()), &out, keep)
	if err != nil {
		t.Fatal(err)
	}

	if counts.Kept > len(keep) || counts.Kept > counts.Processed {
		t.Errorf("Kept %d rows with %d IDs and %d input rows", counts.Kept, len(keep), counts.Processed)
	}
	if counts.Kept != 3 {
		t.Errorf("Expected 3 rows, got %d", counts.Kept)
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	for _, line := range lines[1:] {
		if fields := strings.Split(line, "\t"); !keep.Contains(fields[1]) {
			t.Errorf("Row %q is not in the keep set", line)
		}
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	input := "a\tb\tc\nF1\tS1\t1\nF2\tS2\t2\n"

	var first, second bytes.Buffer
	if _, err := New(nil).Run(strings.NewReader(input), &first, ids("S2")); err != nil {
		t.Fatal(err)
	}
	if _, err := New(nil).Run(strings.NewReader(input), &second, ids("S2")); err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Errorf("Outputs differ:\n%q\n%q", first.String(), second.String())
	}
}

func TestFilterProgress(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("FID\tIID\n")
	for i := 0; i < 25; i++ {
		fmt.Fprintf(&sb, "F%d\tS%d\n", i, i%2)
	}

	rec := &recorder{}
	f := New(rec)
	f.ProgressEvery = 10

	if _, err := f.Run(strings.NewReader(sb.String()), &bytes.Buffer{}, ids("S0")); err != nil {
		t.Fatal(err)
	}

	expected := []Counts{{Processed: 10, Kept: 5}, {Processed: 20, Kept: 10}}
	if len(rec.progress) != len(expected) {
		t.Fatalf("Got %d progress events, expected %d", len(rec.progress), len(expected))
	}
	for i := range expected {
		if rec.progress[i] != expected[i] {
			t.Errorf("Event %d: got %+v, expected %+v", i, rec.progress[i], expected[i])
		}
	}
}

func TestFilterIDColumnByName(t *testing.T) {
	input := "eid\tsex\tage\n1001\t1\t40\n1002\t0\t50\n"

	f := &Filter{IDColumnName: "eid"}

	var out bytes.Buffer
	counts, err := f.Run(strings.NewReader(input), &out, ids("1002"))
	if err != nil {
		t.Fatal(err)
	}

	if expected := "eid\tsex\tage\n1002\t0\t50\n"; out.String() != expected {
		t.Errorf("Got %q, expected %q", out.String(), expected)
	}
	if counts != (Counts{Processed: 2, Kept: 1}) {
		t.Errorf("Unexpected counts: %+v", counts)
	}

	f.IDColumnName = "IID"
	if _, err := f.Run(strings.NewReader(input), &bytes.Buffer{}, ids("1002")); !errors.Is(err, ErrIDColumnNotFound) {
		t.Errorf("Expected ErrIDColumnNotFound, got %v", err)
	}
}

func TestFilterBadHeaders(t *testing.T) {
	for _, v := range []struct {
		Input    string
		Force    bool
		Expected error
	}{
		{"", true, ErrEmptyInput},
		{"", false, nil},
		{"onlyone\nF1\n", true, ErrShortHeader},
		{"onlyone\nF1\n", false, nil},
	} {
		f := New(nil)
		f.ForceFIDIID = v.Force

		_, err := f.Run(strings.NewReader(v.Input), &bytes.Buffer{}, ids("S1"))
		if v.Expected == nil && err != nil {
			t.Errorf("%q (force=%v): unexpected error %v", v.Input, v.Force, err)
		} else if v.Expected != nil && !errors.Is(err, v.Expected) {
			t.Errorf("%q (force=%v): expected %v, got %v", v.Input, v.Force, v.Expected, err)
		}
	}
}
