package annotate

// Package annotate runs the ORF annotation pipeline: find ORFs, keep the
// longest, look up a structural homolog for each and build report rows.

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"geneannot/internal/orf"
	"geneannot/internal/rcsb"
	"geneannot/internal/report"
)

// Finder produces raw getorf output for a FASTA file.
type Finder interface {
	Run(ctx context.Context, input string) (string, error)
}

// Searcher finds the best structural homolog of a protein sequence.
type Searcher interface {
	Search(ctx context.Context, seq string) (rcsb.Hit, error)
}

// Pipeline wires a Finder and a Searcher. Logger may be nil.
type Pipeline struct {
	Finder   Finder
	Searcher Searcher
	Logger   *log.Logger
}

// Run annotates the FASTA at input. Failures before selection are returned;
// failed lookups leave the row without a hit.
func (p *Pipeline) Run(ctx context.Context, input string) ([]report.Row, error) {
	logger := p.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	raw, err := p.Finder.Run(ctx, input)
	if err != nil {
		return nil, err
	}
	records, err := orf.Parse(raw)
	if err != nil {
		return nil, err
	}
	selected := orf.Select(records)
	logger.Info("orfs found", "total", len(records), "selected", len(selected), "min_length", orf.MinLength)

	hits := make([]rcsb.Hit, len(selected))
	for i, rec := range selected {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("annotation cancelled: %w", err)
		}
		seq := rec.Sequence()
		hit, err := p.Searcher.Search(ctx, seq)
		if err != nil {
			logger.Debug("no homolog", "orf", rec.ID, "start", rec.Start, "end", rec.End, "err", err)
		} else {
			logger.Debug("homolog found", "orf", rec.ID, "pdb_id", hit.Identifier, "evalue", hit.EValue.String())
		}
		hits[i] = hit
	}

	rows, err := report.Assemble(selected, hits)
	if err != nil {
		return nil, err
	}
	report.Sort(rows)
	return rows, nil
}
