package orf

// Package orf turns the text emitted by EMBOSS getorf into typed records and
// picks the longest candidates for homology search.

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	// MinLength is the inclusive length threshold a record needs to be selected.
	MinLength = 150
	// MaxSelected caps the number of records returned by Select.
	MaxSelected = 3
)

// coordPattern matches the "[start - end]" range getorf writes into every header.
var coordPattern = regexp.MustCompile(`\[([0-9]+) - ([0-9]+)\]`)

// Strand is the reading direction of an ORF relative to the input coordinates.
type Strand int

const (
	Forward Strand = iota
	Reverse
)

func (s Strand) String() string {
	if s == Reverse {
		return "REVERSE"
	}
	return "FORWARD"
}

// ParseStrand accepts the textual form written to reports.
func ParseStrand(s string) (Strand, error) {
	switch s {
	case "FORWARD":
		return Forward, nil
	case "REVERSE":
		return Reverse, nil
	}
	return Forward, fmt.Errorf("unknown strand %q", s)
}

// Record is one ORF as reported by getorf.
type Record struct {
	ID     string
	Header string
	// Block is the raw record text without the leading '>'.
	Block  string
	Start  int
	End    int
	Length int
}

// Strand is Forward when the ORF ends after it starts.
func (r Record) Strand() Strand {
	if r.End > r.Start {
		return Forward
	}
	return Reverse
}

// Sequence returns the record body with line breaks removed.
func (r Record) Sequence() string {
	body := ""
	if i := strings.IndexByte(r.Block, '\n'); i >= 0 {
		body = r.Block[i+1:]
	}
	return collapse(body)
}

// Collapsed returns the whole block, header included, as a single line.
func (r Record) Collapsed() string {
	return collapse(r.Block)
}

func collapse(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", "")
}

// ParseError reports a getorf record whose header carries no coordinate range.
type ParseError struct {
	Index  int // 1-based position of the record in the output
	Header string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("orf record %d: no [start - end] range in header %q", e.Index, e.Header)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse splits getorf output on '>' and builds one Record per block. Text
// before the first '>' is ignored.
func Parse(text string) ([]Record, error) {
	blocks := strings.Split(text, ">")
	if len(blocks) <= 1 {
		return nil, nil
	}
	records := make([]Record, 0, len(blocks)-1)
	for i, block := range blocks[1:] {
		header := block
		if j := strings.IndexByte(block, '\n'); j >= 0 {
			header = block[:j]
		}
		header = strings.TrimRight(header, "\r")

		m := coordPattern.FindStringSubmatch(header)
		if m == nil {
			return nil, &ParseError{Index: i + 1, Header: header}
		}
		start, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, &ParseError{Index: i + 1, Header: header, Err: err}
		}
		end, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, &ParseError{Index: i + 1, Header: header, Err: err}
		}

		var id string
		if fields := strings.Fields(header); len(fields) > 0 {
			id = fields[0]
		}
		records = append(records, Record{
			ID:     id,
			Header: header,
			Block:  block,
			Start:  start,
			End:    end,
			Length: abs(end - start),
		})
	}
	return records, nil
}

// ParseReader reads all of r and parses it with Parse.
func ParseReader(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read orf output: %w", err)
	}
	return Parse(string(data))
}

// Select keeps records of at least MinLength and returns up to MaxSelected of
// them, longest first. Records of equal length keep their input order.
func Select(records []Record) []Record {
	kept := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Length >= MinLength {
			kept = append(kept, r)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Length > kept[j].Length })
	if len(kept) > MaxSelected {
		kept = kept[:MaxSelected]
	}
	return kept
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
