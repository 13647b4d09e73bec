package fasta

// Package fasta validates and inspects the nucleotide FASTA given on the
// command line before it is handed to the ORF finder.

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// Extension is the required, case-sensitive input suffix.
const Extension = ".fasta"

// FormatError reports an input path without the .fasta extension.
type FormatError struct {
	Path string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: file must be in fasta format (expected a %s extension)", e.Path, Extension)
}

// CheckFilename returns path unchanged when it ends in .fasta.
func CheckFilename(path string) (string, error) {
	if filepath.Ext(path) != Extension {
		return "", &FormatError{Path: path}
	}
	return path, nil
}

// Summary describes the records of a FASTA stream.
type Summary struct {
	Records  int
	Residues int
	// Names holds record identifiers in file order.
	Names []string
}

// Inspect counts records and residues in r. Letters are not validated.
func Inspect(r io.Reader) (Summary, error) {
	var s Summary
	sc := seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNAredundant)))
	for sc.Next() {
		seq := sc.Seq()
		s.Records++
		s.Residues += seq.Len()
		s.Names = append(s.Names, seq.Name())
	}
	if err := sc.Error(); err != nil {
		return s, fmt.Errorf("inspect fasta: %w", err)
	}
	return s, nil
}

// InspectFile opens path and calls Inspect.
func InspectFile(path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, err
	}
	defer f.Close()
	return Inspect(f)
}
