package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/carbocation/popfilter/population"
	"github.com/carbocation/popfilter/rowfilter"
	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
)

var rule = strings.Repeat("=", 60)

// consoleReporter prints the human-readable run summary to out and sends
// diagnostics to the logger (stderr).
type consoleReporter struct {
	out   io.Writer
	table string
}

func (c *consoleReporter) banner(title string) {
	fmt.Fprintf(c.out, "%s\n%s\n%s\n\n", rule, title, rule)
}

func (c *consoleReporter) PopulationStarted(desc population.Descriptor) {
	c.banner("Filter to " + desc.Name)
}

func (c *consoleReporter) PopulationFailed(name string, err error) {
	log.WithField("population", name).Errorln(err)
	fmt.Fprintln(c.out)
}

func (c *consoleReporter) KeepLoaded(path string, nIDs int) {
	fmt.Fprintf(c.out, "Reading sample IDs from: %s\n", path)
	fmt.Fprintf(c.out, "  Samples to keep: %d\n\n", nIDs)
}

func (c *consoleReporter) TableStarted(table population.TablePaths) {
	c.table = table.Name

	fmt.Fprintf(c.out, "Filtering %s file...\n", table.Name)
	fmt.Fprintf(c.out, "  Input:  %s\n", table.InputPath)
	fmt.Fprintf(c.out, "  Output: %s\n", table.OutputPath)
}

func (c *consoleReporter) SuspiciousDelimiter(table population.TablePaths, delim rune) {
	log.WithFields(logrus.Fields{
		"table": table.Name,
		"input": table.InputPath,
	}).Warnf("Input looks %q-delimited; rows are still split on tabs", delim)
}

func (c *consoleReporter) HeaderAdjusted(h rowfilter.HeaderAdjustment) {
	fields := logrus.Fields{
		"table":    c.table,
		"original": h.Original[0] + " " + h.Original[1],
	}

	if h.Swapped {
		log.WithFields(fields).Warnln("Header names IID before FID. Relabeling by position as FID IID; check that the ID column order is what you expect")
		return
	}

	log.WithFields(fields).Infoln("Adjusting header to start with 'FID IID'")
}

func (c *consoleReporter) Progress(counts rowfilter.Counts) {
	log.WithField("table", c.table).Infof("Processed %d samples, kept %d...", counts.Processed, counts.Kept)
}

func (c *consoleReporter) TableFinished(table population.TablePaths, counts rowfilter.Counts) {
	fmt.Fprintf(c.out, "  Complete: %s\n\n", counts)
	c.table = ""
}

func (c *consoleReporter) PopulationFinished(s *population.Summary) {
	c.banner("Filtering Complete for " + s.Population + "!")

	fmt.Fprintln(c.out, "Summary:")
	fmt.Fprintf(c.out, "  %-26s%d\n", "IDs in keep file:", s.KeepIDs)
	if s.Withdrawn > 0 {
		fmt.Fprintf(c.out, "  %-26s%d\n", "Withdrawn (dropped):", s.Withdrawn)
	}
	for _, t := range s.Tables {
		fmt.Fprintf(c.out, "  %-26s%d\n", t.Name+" samples:", t.Kept)
	}
	fmt.Fprintln(c.out)

	for i, t := range s.Tables {
		if t.Kept != s.KeepIDs {
			fmt.Fprintf(c.out, "  Note: %d samples missing from %s file\n", s.Missing(i), t.Name)
			fmt.Fprintln(c.out, "        (normal if some samples have missing data)")
		}
	}
	fmt.Fprintln(c.out)
}

func (c *consoleReporter) finish(report *population.Report) {
	c.banner(fmt.Sprintf("ALL FILTERING COMPLETED: %d/%d populations", report.Succeeded, report.Total))

	if !report.OK() {
		fmt.Fprintln(c.out, "ERROR: Some populations failed to filter")
		for _, name := range report.Failed {
			fmt.Fprintf(c.out, "  %s: %v\n", name, report.Failures[name])
		}
	}
}
