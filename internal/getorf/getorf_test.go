package getorf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"
)

// fakeGetorf writes a shell script that mimics getorf: it copies body to the
// file named after -outseq and records that path in pathLog.
func fakeGetorf(t *testing.T, body string, exit int) (script, pathLog string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake needs a POSIX shell")
	}
	dir := t.TempDir()
	pathLog = filepath.Join(dir, "outseq.txt")
	bodyFile := filepath.Join(dir, "body.orf")
	if err := os.WriteFile(bodyFile, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	script = filepath.Join(dir, "getorf")
	src := `#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-outseq" ]; then out="$2"; shift; fi
  shift
done
echo "$out" > "` + pathLog + `"
if [ ` + strconv.Itoa(exit) + ` -ne 0 ]; then echo "Error: bad sequence" >&2; exit ` + strconv.Itoa(exit) + `; fi
cat "` + bodyFile + `" > "$out"
`
	if err := os.WriteFile(script, []byte(src), 0o755); err != nil {
		t.Fatal(err)
	}
	return script, pathLog
}

func TestRunReadsOutputAndCleansUp(t *testing.T) {
	body := ">s_1 [1 - 300]\nMKV\n"
	script, pathLog := fakeGetorf(t, body, 0)
	r, err := New(script, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := r.Run(context.Background(), "in.fasta")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != body {
		t.Fatalf("expected %q, got %q", body, got)
	}
	logged, err := os.ReadFile(pathLog)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(strings.TrimSpace(string(logged))); !os.IsNotExist(err) {
		t.Fatalf("getorf output file was not removed: %v", err)
	}
}

func TestRunFailureCleansUp(t *testing.T) {
	script, pathLog := fakeGetorf(t, "", 2)
	r := &Runner{Path: script, Timeout: time.Minute}
	_, err := r.Run(context.Background(), "in.fasta")
	if err == nil || !strings.Contains(err.Error(), "bad sequence") {
		t.Fatalf("expected getorf failure with stderr, got %v", err)
	}
	logged, _ := os.ReadFile(pathLog)
	if _, err := os.Stat(strings.TrimSpace(string(logged))); !os.IsNotExist(err) {
		t.Fatalf("getorf output file was not removed after failure: %v", err)
	}
}

func TestNewMissingBinary(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "no-such-getorf"), 0)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
