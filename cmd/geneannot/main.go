// Command geneannot finds the longest open reading frames in a nucleotide
// FASTA file with EMBOSS getorf, looks up the closest PDB structure for each
// one and prints a CSV report.
//
// Usage:
//
//	geneannot [flags] <file.fasta>
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"geneannot/internal/annotate"
	"geneannot/internal/config"
	"geneannot/internal/fasta"
	"geneannot/internal/getorf"
	"geneannot/internal/orf"
	"geneannot/internal/rcsb"
	"geneannot/internal/report"
)

// version is the program version. It can be overridden at build time with -ldflags "-X main.version=..."
var version = "0.1.0"

type options struct {
	configPath string
	getorfPath string
	searchURL  string
	outPath    string
	pretty     bool
	dryRun     bool
	verbose    bool
}

// reportedError marks an error that has already been logged.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "geneannot [flags] <file.fasta>",
		Short: "Annotate the longest ORFs of a FASTA file with PDB homologs",
		Long: `geneannot runs EMBOSS getorf on a nucleotide FASTA file, keeps the three
longest ORFs of at least 150 bp and searches the RCSB PDB for the closest
protein structure of each. The result is printed as CSV with the columns
Start,End,Strand,PDB_ID,E_value, ordered by start position.

Examples:

  # Annotate a sequence
  geneannot contig.fasta

  # Keep a copy of the report and show a table on stderr
  geneannot --out orf_results.csv --pretty contig.fasta`,
		Args:          cobra.ExactArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "path to config.json (optional)")
	f.StringVar(&opts.getorfPath, "getorf", "", "getorf binary (default: getorf in PATH)")
	f.StringVar(&opts.searchURL, "search-url", "", "RCSB search endpoint, query appended (default: "+rcsb.DefaultBaseURL+")")
	f.StringVarP(&opts.outPath, "out", "o", "", "also write the report to this path")
	f.BoolVar(&opts.pretty, "pretty", false, "render the report as a table on stderr")
	f.BoolVar(&opts.dryRun, "dry-run", false, "validate and inspect the input without running getorf or searching")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose (debug) logging")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		var rep reportedError
		if !errors.As(err, &rep) {
			fmt.Fprintln(os.Stderr, "geneannot:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, path string, stdout, stderr io.Writer) error {
	cfg, cfgErr := config.LoadConfig(opts.configPath)
	if cfgErr != nil {
		cfg = &config.Config{}
	}
	// flags override config when provided
	if opts.getorfPath != "" {
		cfg.GetorfPath = opts.getorfPath
	}
	if opts.searchURL != "" {
		cfg.SearchURL = opts.searchURL
	}
	if opts.outPath != "" {
		cfg.ReportPath = opts.outPath
	}

	logger, closeLog := newLogger(stderr, cfg.LogFile, cfg.LogLevel, opts.verbose)
	defer closeLog()
	logger = logger.With("run", uuid.NewString()[:8])

	fail := func(err error) error {
		logger.Error(userMessage(err), "err", err)
		return reportedError{err}
	}
	if cfgErr != nil {
		return fail(fmt.Errorf("load config: %w", cfgErr))
	}
	logger.Debug("loaded config", "getorf_path", cfg.GetorfPath, "search_url", cfg.SearchURL, "log_file", cfg.LogFile, "log_level", cfg.LogLevel, "report_path", cfg.ReportPath)

	input, err := fasta.CheckFilename(path)
	if err != nil {
		return fail(err)
	}
	if _, err := os.Stat(input); err != nil {
		return fail(err)
	}
	if summary, err := fasta.InspectFile(input); err != nil {
		logger.Warn("could not inspect input; passing it to getorf as is", "path", input, "err", err)
	} else if summary.Records == 0 {
		logger.Warn("input has no fasta records", "path", input)
	} else {
		logger.Info("parsed fasta", "path", input, "records", summary.Records, "residues", summary.Residues)
	}
	if opts.dryRun {
		logger.Info("dry-run: skipping getorf and homology search")
		return nil
	}

	runner, err := getorf.New(cfg.GetorfPath, cfg.GetorfTimeout())
	if err != nil {
		return fail(err)
	}
	logger.Debug("getorf path", "path", runner.Path)

	timeout := cfg.HTTPTimeout()
	if timeout <= 0 {
		timeout = rcsb.DefaultTimeout
	}
	p := &annotate.Pipeline{
		Finder:   runner,
		Searcher: rcsb.NewClient(cfg.SearchURL, &http.Client{Timeout: timeout}),
		Logger:   logger,
	}
	start := time.Now()
	rows, err := p.Run(ctx, input)
	if err != nil {
		return fail(err)
	}

	if err := emitReport(rows, cfg.ReportPath, stdout, logger); err != nil {
		return fail(err)
	}
	if opts.pretty {
		fmt.Fprintln(stderr, report.RenderTable(rows))
	}
	logger.Info("annotation finished", "rows", len(rows), "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// emitReport writes the report to a temporary file, prints it and removes it.
// keepPath, when set, receives a copy.
func emitReport(rows []report.Row, keepPath string, stdout io.Writer, logger *log.Logger) error {
	tmp, err := os.CreateTemp("", "orf_results-*.csv")
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer func(p string) {
		_ = os.Remove(p)
		logger.Debug("removed temp file", "path", p)
	}(tmp.Name())

	werr := report.Write(tmp, rows)
	if cerr := tmp.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return fmt.Errorf("write report: %w", werr)
	}

	data, err := os.ReadFile(tmp.Name())
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}
	if keepPath != "" {
		if err := os.WriteFile(keepPath, data, 0o644); err != nil {
			return fmt.Errorf("write report copy: %w", err)
		}
		logger.Info("wrote report", "path", keepPath, "rows", len(rows))
	}
	_, err = stdout.Write(data)
	return err
}

// userMessage is the one-line explanation shown for a fatal error.
func userMessage(err error) string {
	var (
		fe *fasta.FormatError
		pe *orf.ParseError
	)
	switch {
	case errors.As(err, &fe):
		return "input must be a .fasta file"
	case errors.As(err, &pe):
		return "getorf output is missing ORF coordinates"
	case errors.Is(err, getorf.ErrNotFound):
		return "getorf is not installed"
	case errors.Is(err, os.ErrNotExist):
		return "input file not found"
	case errors.Is(err, context.Canceled):
		return "interrupted"
	}
	return "annotation failed"
}
