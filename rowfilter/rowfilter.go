// Package rowfilter streams a tab-delimited table with a header and keeps only
// the rows whose sample ID is in a given set. Kept rows are written exactly as
// they were read.
package rowfilter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	FID = "FID"
	IID = "IID"

	// DefaultIDColumn is where PLINK-style tables keep the IID.
	DefaultIDColumn = 1

	DefaultProgressEvery = 100000
)

var (
	ErrEmptyInput       = errors.New("input has no header line")
	ErrShortHeader      = errors.New("header has fewer than two columns, so FID and IID cannot be set")
	ErrIDColumnNotFound = errors.New("ID column not found in header")
)

// IDs is the membership test applied to each row.
type IDs interface {
	Contains(id string) bool
}

// Counts tallies one pass over a table. Processed includes data lines that
// were too short to carry an ID.
type Counts struct {
	Processed int
	Kept      int
}

func (c Counts) String() string {
	return fmt.Sprintf("%d input -> %d kept", c.Processed, c.Kept)
}

// Filter holds the settings for a pass over one table. The zero value matches
// on column 0 and never reports progress; use New for the usual defaults.
type Filter struct {
	// IDColumn is the 0-based column holding the sample ID. Ignored when
	// IDColumnName is set.
	IDColumn int

	// IDColumnName, if set, selects the ID column by its name in the original
	// header.
	IDColumnName string

	// ForceFIDIID relabels the first two header columns as FID and IID, which
	// BOLT-LMM requires.
	ForceFIDIID bool

	// ProgressEvery is the number of data lines between Progress events. Zero
	// disables them.
	ProgressEvery int

	Observer Observer
}

// New returns a Filter that matches on the IID column, forces the FID/IID
// header and reports progress every DefaultProgressEvery lines.
func New(obs Observer) *Filter {
	return &Filter{
		IDColumn:      DefaultIDColumn,
		ForceFIDIID:   true,
		ProgressEvery: DefaultProgressEvery,
		Observer:      obs,
	}
}

func (f *Filter) observer() Observer {
	if f.Observer == nil {
		return NopObserver{}
	}

	return f.Observer
}

// Run copies the header and every row of r whose ID is in ids to w.
func (f *Filter) Run(r io.Reader, w io.Writer, ids IDs) (Counts, error) {
	var counts Counts
	obs := f.observer()
	br := bufio.NewReaderSize(r, 1024*1024)

	header, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return counts, err
	}

	if header == "" {
		if f.ForceFIDIID {
			return counts, ErrEmptyInput
		}
		return counts, nil
	}

	headerParts := splitLine(header)

	idColumn := f.IDColumn
	if f.IDColumnName != "" {
		idColumn = indexOf(headerParts, f.IDColumnName)
		if idColumn < 0 {
			return counts, fmt.Errorf("%w: %q (header: %v)", ErrIDColumnNotFound, f.IDColumnName, headerParts)
		}
	}

	if idColumn < 0 {
		return counts, fmt.Errorf("ID column must not be negative, got %d", idColumn)
	}

	if f.ForceFIDIID {
		if len(headerParts) < 2 {
			return counts, fmt.Errorf("%w: %q", ErrShortHeader, strings.TrimSpace(header))
		}

		if headerParts[0] != FID || headerParts[1] != IID {
			obs.HeaderAdjusted(HeaderAdjustment{
				Original: [2]string{headerParts[0], headerParts[1]},
				Swapped:  headerParts[0] == IID && headerParts[1] == FID,
			})

			headerParts[0] = FID
			headerParts[1] = IID
			header = strings.Join(headerParts, "\t") + "\n"
		}
	}

	if _, err := io.WriteString(w, header); err != nil {
		return counts, err
	}

	for {
		line, err := br.ReadString('\n')
		if line == "" && err == io.EOF {
			break
		} else if err != nil && err != io.EOF {
			return counts, err
		}

		counts.Processed++

		if parts := splitLine(line); len(parts) > idColumn && ids.Contains(parts[idColumn]) {
			if _, werr := io.WriteString(w, line); werr != nil {
				return counts, werr
			}
			counts.Kept++
		}

		if f.ProgressEvery > 0 && counts.Processed%f.ProgressEvery == 0 {
			obs.Progress(counts)
		}

		if err == io.EOF {
			break
		}
	}

	return counts, nil
}

// splitLine strips surrounding whitespace (including the line ending) and
// splits on tabs.
func splitLine(line string) []string {
	return strings.Split(strings.TrimSpace(line), "\t")
}

func indexOf(fields []string, name string) int {
	for i, v := range fields {
		if v == name {
			return i
		}
	}

	return -1
}
