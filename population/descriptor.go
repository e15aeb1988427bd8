package population

import (
	"strings"

	"github.com/carbocation/popfilter"
)

// TablePaths is where one table is read from and written to for a population.
type TablePaths struct {
	Table
	InputPath  string
	OutputPath string
}

// Descriptor holds every path needed to filter one population.
type Descriptor struct {
	Name     string
	KeepPath string
	Tables   []TablePaths
}

// Resolve derives the descriptor for population name from the configured
// directories and patterns.
func (c Config) Resolve(name string) Descriptor {
	expand := func(pattern string) string {
		return strings.ReplaceAll(pattern, Placeholder, name)
	}

	desc := Descriptor{
		Name:     name,
		KeepPath: popfilter.JoinPath(c.SourceDir, expand(c.KeepPattern)),
		Tables:   make([]TablePaths, 0, len(c.Tables)),
	}

	for _, t := range c.Tables {
		desc.Tables = append(desc.Tables, TablePaths{
			Table:      t,
			InputPath:  popfilter.JoinPath(c.SourceDir, expand(t.Input)),
			OutputPath: popfilter.JoinPath(c.OutputDir, expand(t.Output)),
		})
	}

	return desc
}
