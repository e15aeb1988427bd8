package population

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/carbocation/pfx"
	"github.com/carbocation/popfilter"
	"github.com/carbocation/popfilter/rowfilter"
)

// Placeholder is replaced by the population name in every path pattern.
const Placeholder = "{population}"

// Table names one table that is filtered for every population.
type Table struct {
	Name string `toml:"name"`

	// Input is relative to Config.SourceDir unless absolute or gs://. It may
	// contain Placeholder.
	Input string `toml:"input"`

	// Output is relative to Config.OutputDir unless absolute or gs://. It must
	// contain Placeholder so populations do not overwrite one another.
	Output string `toml:"output"`

	ForceFIDIID bool `toml:"force_fid_iid"`
}

type Config struct {
	SourceDir   string   `toml:"source_dir"`
	OutputDir   string   `toml:"output_dir"`
	Populations []string `toml:"populations"`

	// KeepPattern locates each population's keep file, relative to SourceDir.
	KeepPattern string `toml:"keep_pattern"`

	// WithdrawnFile optionally lists UK Biobank participants who have withdrawn
	// consent, one ID per line. They are dropped from every keep set. Relative
	// to SourceDir.
	WithdrawnFile string `toml:"withdrawn_file"`

	// KeepIDColumn is the 0-based column of the keep file that holds the IID.
	KeepIDColumn int `toml:"keep_id_column"`

	// IDColumn is the 0-based column of each table that holds the IID.
	// IDColumnName, if set, takes precedence and is looked up in the header.
	IDColumn     int    `toml:"id_column"`
	IDColumnName string `toml:"id_column_name"`

	ProgressEvery int `toml:"progress_every"`

	Tables []Table `toml:"tables"`
}

// DefaultConfig reproduces the layout used for the UK Biobank MRI BOLT-LMM
// runs: one keep file per population under sqc/population.20220316, the
// MRIrun2 phenotype table, and the sample QC covariate table.
func DefaultConfig() Config {
	return Config{
		SourceDir:     "ukb21942",
		OutputDir:     "ukb21942/BOLT-LMM_SI-MRI",
		Populations:   []string{"EUR_MM", "EUR_Male", "EUR_Female"},
		KeepPattern:   "sqc/population.20220316/" + Placeholder + ".keep",
		KeepIDColumn:  popfilter.KeepIID,
		IDColumn:      rowfilter.DefaultIDColumn,
		ProgressEvery: rowfilter.DefaultProgressEvery,
		Tables: []Table{
			{
				Name:        "phenotype",
				Input:       "pheno/MRIrun2.tsv.gz",
				Output:      "MRIrun2." + Placeholder + ".tsv.gz",
				ForceFIDIID: true,
			},
			{
				Name:        "covariate",
				Input:       "sqc/sqc.20220316.tsv.gz",
				Output:      "sqc." + Placeholder + ".tsv.gz",
				ForceFIDIID: true,
			},
		},
	}
}

// LoadConfig overlays the TOML file at path onto DefaultConfig. Keys that are
// not part of Config are rejected, since a typo would otherwise silently fall
// back to a default path.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	// A [[tables]] section in the file replaces the default tables entirely.
	config.Tables = nil

	md, err := toml.DecodeFile(popfilter.ExpandHome(path), &config)
	if err != nil {
		return config, pfx.Err(err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return config, fmt.Errorf("%s: unrecognized keys %v", path, undecoded)
	}

	if !md.IsDefined("tables") {
		config.Tables = DefaultConfig().Tables
	}

	return config, config.Validate()
}

// Validate checks that the configuration can produce distinct outputs for
// every population.
func (c Config) Validate() error {
	if len(c.Populations) == 0 {
		return fmt.Errorf("no populations configured")
	}

	if !strings.Contains(c.KeepPattern, Placeholder) {
		return fmt.Errorf("keep_pattern %q must contain %s", c.KeepPattern, Placeholder)
	}

	if c.KeepIDColumn < 0 || c.IDColumn < 0 {
		return fmt.Errorf("ID columns must not be negative (keep_id_column=%d, id_column=%d)", c.KeepIDColumn, c.IDColumn)
	}

	if len(c.Tables) == 0 {
		return fmt.Errorf("no tables configured")
	}

	seen := make(map[string]struct{})
	for i, t := range c.Tables {
		if t.Name == "" || t.Input == "" || t.Output == "" {
			return fmt.Errorf("table %d needs a name, an input and an output: %+v", i, t)
		}
		if _, exists := seen[t.Name]; exists {
			return fmt.Errorf("table name %q is used more than once", t.Name)
		}
		seen[t.Name] = struct{}{}

		if !strings.Contains(t.Output, Placeholder) {
			return fmt.Errorf("output for table %q (%s) must contain %s", t.Name, t.Output, Placeholder)
		}
	}

	return nil
}

// WriteTOML writes c in the format LoadConfig reads.
func (c Config) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// UsesGoogleStorage reports whether any configured location is a gs:// path,
// in which case a storage client is needed.
func (c Config) UsesGoogleStorage() bool {
	paths := []string{c.SourceDir, c.OutputDir, c.KeepPattern, c.WithdrawnFile}
	for _, t := range c.Tables {
		paths = append(paths, t.Input, t.Output)
	}

	for _, p := range paths {
		if popfilter.IsGoogleStoragePath(p) {
			return true
		}
	}

	return false
}
