package report

// Package report builds the per-ORF result table and serializes it as CSV.

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"geneannot/internal/orf"
	"geneannot/internal/rcsb"
)

// Header is the first CSV line of every report.
var Header = []string{"Start", "End", "Strand", "PDB_ID", "E_value"}

// Missing stands in for absent homology fields in the written report.
const Missing = "-"

// Row is one line of the report.
type Row struct {
	Start  int
	End    int
	Strand orf.Strand
	Hit    rcsb.Hit
}

// Assemble pairs each selected ORF with its hit. hits must be aligned with
// records by index.
func Assemble(records []orf.Record, hits []rcsb.Hit) ([]Row, error) {
	if len(records) != len(hits) {
		return nil, fmt.Errorf("assemble report: %d records but %d hits", len(records), len(hits))
	}
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = Row{Start: r.Start, End: r.End, Strand: r.Strand(), Hit: hits[i]}
	}
	return rows, nil
}

// Sort orders rows by start coordinate, keeping the relative order of equal starts.
func Sort(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Start < rows[j].Start })
}

// Fields returns the CSV cells for r.
func (r Row) Fields() []string {
	id, ev := Missing, Missing
	if r.Hit.Found {
		id, ev = r.Hit.Identifier, r.Hit.EValue.String()
	}
	return []string{strconv.Itoa(r.Start), strconv.Itoa(r.End), r.Strand.String(), id, ev}
}

// Write sorts rows by start and writes them with the header to w.
func Write(w io.Writer, rows []Row) error {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	Sort(sorted)

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range sorted {
		if err := cw.Write(r.Fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read parses a report written by Write.
func Read(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)
	lines, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("read report: missing header")
	}
	for i, h := range Header {
		if lines[0][i] != h {
			return nil, fmt.Errorf("read report: unexpected header %v", lines[0])
		}
	}
	rows := make([]Row, 0, len(lines)-1)
	for n, line := range lines[1:] {
		row, err := parseRow(line)
		if err != nil {
			return nil, fmt.Errorf("read report line %d: %w", n+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(line []string) (Row, error) {
	start, err := strconv.Atoi(line[0])
	if err != nil {
		return Row{}, fmt.Errorf("start: %w", err)
	}
	end, err := strconv.Atoi(line[1])
	if err != nil {
		return Row{}, fmt.Errorf("end: %w", err)
	}
	strand, err := orf.ParseStrand(line[2])
	if err != nil {
		return Row{}, err
	}
	row := Row{Start: start, End: end, Strand: strand}
	if line[3] != Missing {
		if _, err := strconv.ParseFloat(line[4], 64); err != nil {
			return Row{}, fmt.Errorf("e-value: %w", err)
		}
		row.Hit = rcsb.Hit{Identifier: line[3], EValue: json.Number(line[4]), Found: true}
	}
	return row, nil
}
