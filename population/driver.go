// Package population filters per-population copies of sample tables, one
// population at a time, for BOLT-LMM.
package population

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/carbocation/popfilter"
	"github.com/carbocation/popfilter/rowfilter"
)

// ErrKeepFileMissing is the only error that fails a single population without
// aborting the run.
var ErrKeepFileMissing = errors.New("keep file not found")

// Summary is the outcome of filtering one population.
type Summary struct {
	Population string
	KeepIDs    int

	// Withdrawn is the number of keep-file IDs dropped because the participant
	// withdrew. KeepIDs is counted after they are dropped.
	Withdrawn int

	Tables []TableSummary
}

type TableSummary struct {
	TablePaths
	rowfilter.Counts
}

// Missing is the number of keep-file IDs that did not make it into the
// output of table i. Samples with missing data are routinely absent from a
// table, so this is informational.
func (s *Summary) Missing(i int) int {
	return s.KeepIDs - s.Tables[i].Kept
}

// Report is the outcome of a whole run.
type Report struct {
	Total     int
	Succeeded int
	Summaries []*Summary

	// Failed lists failed populations in the order they were run.
	Failed   []string
	Failures map[string]error
}

func (r *Report) OK() bool {
	return r.Succeeded == r.Total
}

type Driver struct {
	Config Config

	// Client is only needed when some path is a gs:// URL.
	Client *storage.Client

	Reporter Reporter

	withdrawn popfilter.IDSet
}

func (d *Driver) reporter() Reporter {
	if d.Reporter == nil {
		return NopReporter{}
	}

	return d.Reporter
}

// RunAll filters every configured population in order. A population whose
// keep file is missing is recorded as failed and the run continues; any other
// error stops the run and is returned along with the partial report.
func (d *Driver) RunAll(ctx context.Context) (*Report, error) {
	report := &Report{
		Total:    len(d.Config.Populations),
		Failures: make(map[string]error),
	}

	for _, name := range d.Config.Populations {
		summary, err := d.Run(ctx, name)
		if errors.Is(err, ErrKeepFileMissing) {
			report.Failed = append(report.Failed, name)
			report.Failures[name] = err
			continue
		} else if err != nil {
			return report, fmt.Errorf("population %s: %w", name, err)
		}

		report.Succeeded++
		report.Summaries = append(report.Summaries, summary)
	}

	return report, nil
}

// Run filters every configured table for one population. If the keep file
// does not exist, no output is created and the returned error wraps
// ErrKeepFileMissing.
func (d *Driver) Run(ctx context.Context, name string) (*Summary, error) {
	rep := d.reporter()
	desc := d.Config.Resolve(name)

	rep.PopulationStarted(desc)

	exists, err := popfilter.Exists(ctx, desc.KeepPath, d.Client)
	if err != nil {
		return nil, err
	}
	if !exists {
		err := fmt.Errorf("%w: %s", ErrKeepFileMissing, desc.KeepPath)
		rep.PopulationFailed(name, err)
		return nil, err
	}

	ids, err := popfilter.LoadKeepIDs(ctx, desc.KeepPath, d.Config.KeepIDColumn, d.Client)
	if err != nil {
		return nil, err
	}

	withdrawn, err := d.withdrawnIDs(ctx)
	if err != nil {
		return nil, err
	}
	nWithdrawn := ids.Remove(withdrawn)

	rep.KeepLoaded(desc.KeepPath, ids.Len())

	summary := &Summary{
		Population: name,
		KeepIDs:    ids.Len(),
		Withdrawn:  nWithdrawn,
	}

	for _, table := range desc.Tables {
		rep.TableStarted(table)

		counts, err := d.filterTable(ctx, table, ids)
		if err != nil {
			return nil, fmt.Errorf("%s table %s: %w", table.Name, table.InputPath, err)
		}

		rep.TableFinished(table, counts)
		summary.Tables = append(summary.Tables, TableSummary{TablePaths: table, Counts: counts})
	}

	rep.PopulationFinished(summary)

	return summary, nil
}

// withdrawnIDs loads the configured withdrawal list once per Driver. With no
// list configured, the set is empty.
func (d *Driver) withdrawnIDs(ctx context.Context) (popfilter.IDSet, error) {
	if d.withdrawn != nil {
		return d.withdrawn, nil
	}

	if d.Config.WithdrawnFile == "" {
		d.withdrawn = popfilter.NewIDSet()
		return d.withdrawn, nil
	}

	path := popfilter.JoinPath(d.Config.SourceDir, d.Config.WithdrawnFile)
	withdrawn, err := popfilter.LoadWithdrawnIDs(ctx, path, d.Client)
	if err != nil {
		return nil, fmt.Errorf("withdrawn sample file %s: %w", path, err)
	}
	d.withdrawn = withdrawn

	return d.withdrawn, nil
}

// sniffSize is how much of each table is inspected to guess its delimiter.
const sniffSize = 64 * 1024

func (d *Driver) filterTable(ctx context.Context, table TablePaths, ids popfilter.IDSet) (counts rowfilter.Counts, err error) {
	f, _, err := popfilter.MaybeOpenSeekerFromGoogleStorage(ctx, table.InputPath, d.Client)
	if err != nil {
		return counts, pfx.Err(err)
	}
	defer f.Close()

	r, _, err := popfilter.MaybeDecompressReadCloser(f)
	if err != nil {
		return counts, pfx.Err(err)
	}
	defer r.Close()

	out, err := popfilter.CreateOutput(ctx, table.OutputPath, d.Client)
	if err != nil {
		return counts, err
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = pfx.Err(cerr)
		}
	}()

	filter := &rowfilter.Filter{
		IDColumn:      d.Config.IDColumn,
		IDColumnName:  d.Config.IDColumnName,
		ForceFIDIID:   table.ForceFIDIID,
		ProgressEvery: d.Config.ProgressEvery,
		Observer:      d.reporter(),
	}

	br := bufio.NewReaderSize(r, sniffSize)
	if sample, _ := br.Peek(sniffSize); len(sample) > 0 {
		if delim := popfilter.SniffDelimiter(sample, '\t'); delim != '\t' {
			d.reporter().SuspiciousDelimiter(table, delim)
		}
	}

	return filter.Run(br, out, ids)
}
