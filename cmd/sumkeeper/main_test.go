package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"SumKeeper/internal/checkpoint"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("sumkeeper %v: %v", args, err)
	}
	return out.String()
}

func TestUpdateThenVerify(t *testing.T) {
	root := t.TempDir()
	state := t.TempDir()
	writeFile(t, filepath.Join(root, "d1", "a.txt"), "alpha")
	writeFile(t, filepath.Join(root, "d2", "b.txt"), "beta")

	execute(t, "update", "-s", "-a", "md5", "-t", "2", root)
	for _, d := range []string{"d1", "d2"} {
		if _, err := os.Stat(filepath.Join(root, d, "md5sum.txt")); err != nil {
			t.Fatalf("%s: %v", d, err)
		}
	}

	writeFile(t, filepath.Join(root, "d2", "b.txt"), "bit rot")
	out := execute(t, "verify", "-s", "-a", "md5", "-l", "info", "--state-dir", state, root)
	if !strings.Contains(out, "--- stats ---") {
		t.Fatalf("info level should print the summary:\n%s", out)
	}

	period := checkpoint.PeriodOf(time.Now())
	good, err := os.ReadFile(filepath.Join(state, period.KnownGoodName()))
	if err != nil {
		t.Fatal(err)
	}
	if string(good) != filepath.Join(root, "d1")+"\n" {
		t.Fatalf("known good = %q", good)
	}
	failures, err := os.ReadFile(filepath.Join(state, checkpoint.FailureLogName(filepath.Join(root, "d2"))))
	if err != nil {
		t.Fatal(err)
	}
	if string(failures) != "b.txt\n" {
		t.Fatalf("failure log = %q", failures)
	}
}

func TestRejectsBadOptions(t *testing.T) {
	tests := [][]string{
		{"update", "-a", "crc32", t.TempDir()},
		{"update", "--threads=-1", t.TempDir()},
		{"verify", "-l", "loud", t.TempDir()},
		{"verify", filepath.Join(t.TempDir(), "missing")},
	}
	for _, args := range tests {
		cmd := newRootCmd(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(args)
		if err := cmd.Execute(); err == nil {
			t.Errorf("sumkeeper %v: expected error", args)
		}
	}
}

func TestRepeatedRunsWithDefaults(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)
	writeFile(t, "a.txt", "alpha")
	writeFile(t, "b.txt", "beta")

	execute(t, "update", ".")
	writeFile(t, "b.txt", "bit rot")
	execute(t, "verify", ".")

	logName := checkpoint.FailureLogName(".")
	failures, err := os.ReadFile(logName)
	if err != nil {
		t.Fatal(err)
	}
	if string(failures) != "b.txt\n" {
		t.Fatalf("failure log = %q", failures)
	}

	writeFile(t, "b.txt", "beta")
	execute(t, "update", ".")
	execute(t, "verify", ".")

	sums, err := os.ReadFile("sha256sum.txt")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(sums), logName) {
		t.Fatalf("checksum file lists the failure log:\n%s", sums)
	}
	failures, err = os.ReadFile(logName)
	if err != nil {
		t.Fatal(err)
	}
	if string(failures) != "b.txt\n" {
		t.Fatalf("clean tree added failures: %q", failures)
	}
}
