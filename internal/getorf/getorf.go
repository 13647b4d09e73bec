package getorf

// Package getorf wraps the EMBOSS getorf binary. The tool writes its ORFs to
// a temporary file that is read back and removed before Run returns.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultBinary is looked up in PATH when no explicit path is configured.
const DefaultBinary = "getorf"

// DefaultTimeout bounds a single getorf invocation.
const DefaultTimeout = 5 * time.Minute

// ErrNotFound means the getorf binary could not be resolved.
var ErrNotFound = errors.New("getorf binary not found")

// Runner invokes getorf.
type Runner struct {
	Path    string
	Timeout time.Duration
}

// New resolves binary (DefaultBinary when empty) in PATH.
func New(binary string, timeout time.Duration) (*Runner, error) {
	if binary == "" {
		binary = DefaultBinary
	}
	p, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s (install EMBOSS or set getorf_path): %v", ErrNotFound, binary, err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{Path: p, Timeout: timeout}, nil
}

// Run finds ORFs in the FASTA at input and returns getorf's raw output.
func (r *Runner) Run(ctx context.Context, input string) (string, error) {
	out, err := os.CreateTemp("", "getorf-*.orf")
	if err != nil {
		return "", fmt.Errorf("create getorf output file: %w", err)
	}
	outPath := out.Name()
	out.Close()
	defer os.Remove(outPath)

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Path, input, "-outseq", outPath, "-auto")
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("getorf failed: %w: %s", err, msg)
		}
		return "", fmt.Errorf("getorf failed: %w", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return "", fmt.Errorf("read getorf output: %w", err)
	}
	return string(data), nil
}
