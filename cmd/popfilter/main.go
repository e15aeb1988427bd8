// popfilter restricts phenotype and covariate tables to the samples of each
// population keep file, producing per-population inputs for BOLT-LMM.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	_ "github.com/carbocation/popfilter/compileinfoprint"
	"github.com/carbocation/popfilter/population"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

func main() {
	var configFile, populations, credentials string
	var dumpConfig, verbose bool

	flag.StringVar(&configFile, "config", "", "Path to a TOML config file. Keys that are not set keep their defaults (see -dump-config).")
	flag.StringVar(&populations, "population", "", "Comma-separated populations to process, overriding the configured list.")
	flag.StringVar(&credentials, "credentials", "", "Optional. Path to a Google service account JSON file, used when any path is a google storage URL (gs://). Default credentials are used otherwise.")
	flag.BoolVar(&dumpConfig, "dump-config", false, "Print the effective configuration as TOML and exit.")
	flag.BoolVar(&verbose, "verbose", false, "Log debug output.")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, `popfilter filters the phenotype and covariate tables down to the samples listed in each
population's keep file (IID in the second column). BOLT-LMM requires the first two header
columns to be FID and IID, so those are relabeled where needed. A population whose keep
file is missing is skipped and makes the exit status 1; any other error stops the run.`)
		flag.PrintDefaults()
	}
	flag.Parse()

	if !isatty.IsTerminal(os.Stderr.Fd()) {
		logrus.StandardLogger().Formatter = &logrus.TextFormatter{DisableTimestamp: true}
	}
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	config := population.DefaultConfig()
	if configFile != "" {
		var err error
		config, err = population.LoadConfig(configFile)
		if err != nil {
			log.Fatalln(err)
		}
	}

	if populations != "" {
		config.Populations = splitList(populations)
		if err := config.Validate(); err != nil {
			log.Fatalln(err)
		}
	}

	if dumpConfig {
		if err := config.WriteTOML(os.Stdout); err != nil {
			log.Fatalln(err)
		}
		return
	}

	var client *storage.Client
	if config.UsesGoogleStorage() {
		var opts []option.ClientOption
		if credentials != "" {
			opts = append(opts, option.WithCredentialsFile(credentials))
		}

		var err error
		client, err = storage.NewClient(context.Background(), opts...)
		if err != nil {
			log.Fatalln(err)
		}
		defer client.Close()
	}

	ok, err := run(context.Background(), config, client, os.Stdout)
	if err != nil {
		log.Fatalln(err)
	}

	if !ok {
		// Deferred calls do not run on os.Exit
		if client != nil {
			client.Close()
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, config population.Config, client *storage.Client, stdout io.Writer) (bool, error) {
	rep := &consoleReporter{out: stdout}

	rep.banner("BOLT-LMM: Filter All Populations")

	driver := &population.Driver{
		Config:   config,
		Client:   client,
		Reporter: rep,
	}

	report, err := driver.RunAll(ctx)
	if err != nil {
		return false, err
	}

	rep.finish(report)

	return report.OK(), nil
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}

	return out
}
