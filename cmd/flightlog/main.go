// Package main implements the flightlog command, a thin sequencing layer
// over the dataset engine: it loads the canonical store, runs one pipeline
// stage (merge, resolve, validate, export, refresh) and persists the result.
// The canonical file is only ever replaced atomically, never written in
// place.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/flightlog/flightlog"
	"github.com/flightlog/flightlog/codec"
	"github.com/flightlog/flightlog/config"
	"github.com/flightlog/flightlog/dataset"
	"github.com/flightlog/flightlog/export"
	"github.com/flightlog/flightlog/geonames"
	"github.com/flightlog/flightlog/logging"
	"github.com/flightlog/flightlog/merge"
	"github.com/flightlog/flightlog/refdata"
	"github.com/flightlog/flightlog/resolve"
	"github.com/flightlog/flightlog/schema"
	"github.com/flightlog/flightlog/validate"
)

var (
	version = "dev"
	commit  = "unknown"
)

func usage() {
	fmt.Fprintf(os.Stderr, "flightlog - personal flight-history dataset engine\n\n")
	fmt.Fprintf(os.Stderr, "Usage: flightlog <command> [options]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  merge      Merge newly parsed rows into the canonical store\n")
	fmt.Fprintf(os.Stderr, "  resolve    Fill missing timezone columns from GeoNames\n")
	fmt.Fprintf(os.Stderr, "  validate   Check stored distances and durations for consistency\n")
	fmt.Fprintf(os.Stderr, "  export     Write the store in a third-party dialect\n")
	fmt.Fprintf(os.Stderr, "  refresh    Update local reference tables\n")
	fmt.Fprintf(os.Stderr, "  version    Show version information\n\n")
	fmt.Fprintf(os.Stderr, "Environment variables:\n")
	fmt.Fprintf(os.Stderr, "  FLIGHTLOG_FLIGHTS_FILE        Canonical dataset path\n")
	fmt.Fprintf(os.Stderr, "  FLIGHTLOG_DATA_DIR            Reference-data directory\n")
	fmt.Fprintf(os.Stderr, "  FLIGHTLOG_GEONAMES_USERNAME   GeoNames account name\n")
	fmt.Fprintf(os.Stderr, "  FLIGHTLOG_LOG_LEVEL           TRACE, DEBUG, INFO, WARN, ERROR\n")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]
	var err error
	switch cmd {
	case "merge":
		err = runMerge(args)
	case "resolve":
		err = runResolve(args)
	case "validate":
		err = runValidate(args)
	case "export":
		err = runExport(args)
	case "refresh":
		err = runRefresh(args)
	case "version":
		fmt.Printf("flightlog %s (%s)\n", version, commit)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "flightlog %s: %v\n", cmd, err)
		os.Exit(1)
	}
}

func loadConfig(fs *flag.FlagSet, args []string) (*config.Config, *logging.Logger, error) {
	configPath := fs.String("config", "", "Path to a YAML configuration file")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.CreateLogger(logging.LogLevelFromString(cfg.LogLevel), os.Stderr)
	return cfg, logger, nil
}

// loadStore reads the canonical dataset, or returns an empty one when the
// file does not exist yet
func loadStore(path string) (*dataset.Dataset, error) {
	s, err := schema.Load("flights")
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return dataset.CreateDataset(s), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return codec.ReadDataset(f, s, &codec.ReaderConf{HeaderLines: 1})
}

// saveStore writes the dataset next to the canonical path and renames it
// into place only once the write has fully succeeded
func saveStore(path string, ds *dataset.Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if err := codec.WriteDataset(tmp, ds); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := time.Parse(flightlog.DateFormat, value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func runMerge(args []string) error {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	in := fs.String("in", "", "CSV file of newly parsed rows (required)")
	after := fs.String("after", "", "Replace-window start date, YYYY-MM-DD")
	before := fs.String("before", "", "Replace-window end date, YYYY-MM-DD")
	cfg, logger, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("-in is required")
	}

	store, err := loadStore(cfg.FlightsFile)
	if err != nil {
		return err
	}
	f, err := os.Open(*in)
	if err != nil {
		return err
	}
	incoming, err := codec.ReadDataset(f, store.Schema(), &codec.ReaderConf{HeaderLines: 1})
	f.Close()
	if err != nil {
		return err
	}

	var window *merge.Window
	afterDate, err := parseDate(*after)
	if err != nil {
		return err
	}
	beforeDate, err := parseDate(*before)
	if err != nil {
		return err
	}
	if afterDate != nil || beforeDate != nil {
		window = &merge.Window{After: afterDate, Before: beforeDate}
	}

	engine := merge.CreateEngine(&merge.EngineConf{Logger: logger})
	merged, err := engine.Merge(store, incoming.Rows(), window)
	if err != nil {
		return err
	}

	// enrich airport details from the reference table when it is present
	if f, err := os.Open(filepath.Join(cfg.DataDir, "airports.csv")); err == nil {
		airports, aerr := refdata.LoadAirports(f)
		f.Close()
		if aerr != nil {
			logger.Warnf("skipping airport enrichment: %v", aerr)
		} else {
			filled := refdata.EnrichAirports(merged, airports)
			logger.Infof("enriched %d row sides from airport reference data", filled)
		}
	}

	if err := saveStore(cfg.FlightsFile, merged); err != nil {
		return err
	}
	fmt.Printf("merged %d incoming rows; store now holds %d flights\n", incoming.NumRows(), merged.NumRows())
	return nil
}

func runResolve(args []string) error {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	cfg, logger, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	if cfg.GeoNames.Username == "" {
		return fmt.Errorf("no GeoNames username configured; set FLIGHTLOG_GEONAMES_USERNAME")
	}

	store, err := loadStore(cfg.FlightsFile)
	if err != nil {
		return err
	}
	client := geonames.CreateClient(&geonames.ClientConf{
		Username:   cfg.GeoNames.Username,
		Timeout:    cfg.GeoNamesTimeout(),
		MaxRetries: cfg.GeoNames.MaxRetries,
		Logger:     logger,
	})
	resolver := resolve.CreateResolver(client, &resolve.ResolverConf{
		Precision: cfg.CoordPrecision,
		Logger:    logger,
	})
	res, err := resolver.Resolve(context.Background(), store)
	if err != nil {
		return err
	}
	if err := saveStore(cfg.FlightsFile, store); err != nil {
		return err
	}
	if res.QuotaReached {
		fmt.Printf("lookup quota exhausted: %d row sides unresolved, rerun later\n", res.Unresolved)
		return nil
	}
	fmt.Printf("resolved %d row sides, %d unresolved\n", res.Resolved, res.Unresolved)
	return nil
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfg, _, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	store, err := loadStore(cfg.FlightsFile)
	if err != nil {
		return err
	}
	validator := validate.CreateValidator(&validate.ValidatorConf{
		DistanceTolerance: cfg.Validation.DistancePct,
		DurationTolerance: cfg.DurationTolerance(),
	})
	findings, err := validator.Validate(store)
	if err != nil {
		return err
	}
	for _, f := range findings {
		fmt.Printf("row %d %s [%s]: expected %s, got %s\n", f.Row, f.Field, f.Severity, f.Expected, f.Actual)
	}
	fmt.Printf("%d findings across %d flights\n", len(findings), store.NumRows())
	return nil
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "openflights", "Export dialect: openflights or myflightpath")
	out := fs.String("out", "", "Output file (required)")
	cfg, logger, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	if *out == "" {
		return fmt.Errorf("-out is required")
	}
	target, err := schema.Load(*format)
	if err != nil {
		return err
	}
	store, err := loadStore(cfg.FlightsFile)
	if err != nil {
		return err
	}
	exporter := export.CreateExporter(&export.ExporterConf{Logger: logger})
	res, err := exporter.Export(store, target)
	if err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.Write(f, res); err != nil {
		return err
	}
	for _, ex := range res.Excluded {
		fmt.Printf("excluded: %v\n", ex.Err)
	}
	fmt.Printf("exported %d rows to %s (%d excluded)\n", len(res.Rows), *out, len(res.Excluded))
	return nil
}

func runRefresh(args []string) error {
	fs := flag.NewFlagSet("refresh", flag.ExitOnError)
	cfg, logger, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	updater := refdata.CreateUpdater(&refdata.UpdaterConf{DataDir: cfg.DataDir, Logger: logger})
	if err := updater.UpdateAll(context.Background()); err != nil {
		return err
	}
	fmt.Printf("reference data updated in %s\n", cfg.DataDir)
	return nil
}
