package population

import "github.com/carbocation/popfilter/rowfilter"

// Reporter receives progress and summary events from a Driver. Its
// rowfilter.Observer methods are called while a table is being filtered, in
// between TableStarted and TableFinished.
type Reporter interface {
	rowfilter.Observer

	PopulationStarted(Descriptor)
	KeepLoaded(path string, nIDs int)
	TableStarted(TablePaths)

	// SuspiciousDelimiter is called when a table looks delimited by something
	// other than tabs. Filtering still splits on tabs.
	SuspiciousDelimiter(table TablePaths, delim rune)

	TableFinished(TablePaths, rowfilter.Counts)
	PopulationFinished(*Summary)
	PopulationFailed(name string, err error)
}

type NopReporter struct {
	rowfilter.NopObserver
}

func (NopReporter) PopulationStarted(Descriptor) {}
func (NopReporter) KeepLoaded(string, int) {}
func (NopReporter) TableStarted(TablePaths) {}
func (NopReporter) SuspiciousDelimiter(TablePaths, rune) {}
func (NopReporter) TableFinished(TablePaths, rowfilter.Counts) {}
func (NopReporter) PopulationFinished(*Summary) {}
func (NopReporter) PopulationFailed(string, error) {}
