package filelist

import (
	"errors"
	"slices"
	"testing"

	"github.com/spf13/afero"
)

func writeTree(t *testing.T, fs afero.Fs, files ...string) {
	t.Helper()
	for _, f := range files {
		if err := afero.WriteFile(fs, f, []byte(f), 0o644); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
	}
}

func TestLister_Files(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTree(t, fs,
		"/data/b.txt",
		"/data/a.txt",
		"/data/sha256sum.txt",
		"/data/md5sum.txt",
		"/data/sub/c.txt",
		"/data/sub/sha256sum.txt",
		"/data/cache/tmp.bin",
		"/data/notes.tmp",
	)

	tests := []struct {
		name     string
		excludes []string
		want     []string
	}{
		{
			name: "no excludes skips top-level checksum files only",
			want: []string{"a.txt", "b.txt", "cache/tmp.bin", "notes.tmp", "sub/c.txt", "sub/sha256sum.txt"},
		},
		{
			name:     "file and directory patterns",
			excludes: []string{"**/*.tmp", "cache/"},
			want:     []string{"a.txt", "b.txt", "sub/c.txt", "sub/sha256sum.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(fs, tt.excludes, "")
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			seq, err := l.Files("/data")
			if err != nil {
				t.Fatalf("Files: %v", err)
			}

			got := slices.Collect(seq)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("Files() = %v, want %v", got, tt.want)
			}

			again := slices.Collect(seq)
			if !slices.Equal(again, got) {
				t.Fatalf("second pass = %v, want %v", again, got)
			}
		})
	}
}

func TestLister_EarlyStop(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTree(t, fs, "/d/a", "/d/b", "/d/c")

	l, err := New(fs, nil, "")
	if err != nil {
		t.Fatal(err)
	}
	seq, err := l.Files("/d")
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for rel := range seq {
		got = append(got, rel)
		if len(got) == 2 {
			break
		}
	}
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("got %v", got)
	}
}

func TestLister_InaccessibleDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTree(t, fs, "/d/file")

	l, err := New(fs, nil, "")
	if err != nil {
		t.Fatal(err)
	}

	for _, dir := range []string{"/missing", "/d/file"} {
		if _, err := l.Files(dir); !errors.Is(err, ErrInaccessibleDirectory) {
			t.Errorf("Files(%q) error = %v, want ErrInaccessibleDirectory", dir, err)
		}
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	if _, err := New(afero.NewMemMapFs(), []string{"[abc"}, ""); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

func TestLister_SkipsStateFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTree(t, fs,
		"/data/a.txt",
		"/data/to_check_root.txt",
		"/data/known_good_3_2026.txt",
		"/data/to_check_3_2026.txt",
		"/data/known_good.txt",
		"/data/sub/to_check_root.txt",
		"/data/state/to_check_data_d1.txt",
		"/data/state/b.txt",
	)

	tests := []struct {
		name     string
		stateDir string
		want     []string
	}{
		{
			name:     "no state dir lists everything",
			stateDir: "",
			want: []string{"a.txt", "known_good.txt", "known_good_3_2026.txt", "state/b.txt",
				"state/to_check_data_d1.txt", "sub/to_check_root.txt", "to_check_3_2026.txt", "to_check_root.txt"},
		},
		{
			name:     "state dir is the walked dir",
			stateDir: "/data",
			want:     []string{"a.txt", "known_good.txt", "state/b.txt", "state/to_check_data_d1.txt", "sub/to_check_root.txt"},
		},
		{
			name:     "state dir nested below the walked dir",
			stateDir: "/data/state",
			want: []string{"a.txt", "known_good.txt", "known_good_3_2026.txt", "state/b.txt",
				"sub/to_check_root.txt", "to_check_3_2026.txt", "to_check_root.txt"},
		},
		{
			name:     "state dir outside the walked dir",
			stateDir: "/elsewhere",
			want: []string{"a.txt", "known_good.txt", "known_good_3_2026.txt", "state/b.txt",
				"state/to_check_data_d1.txt", "sub/to_check_root.txt", "to_check_3_2026.txt", "to_check_root.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(fs, nil, tt.stateDir)
			if err != nil {
				t.Fatal(err)
			}
			files, err := l.Files("/data")
			if err != nil {
				t.Fatal(err)
			}
			if got := slices.Collect(files); !slices.Equal(got, tt.want) {
				t.Fatalf("Files() = %v, want %v", got, tt.want)
			}
		})
	}
}
