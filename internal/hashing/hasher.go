package hashing

import (
	"crypto/md5"  // #nosec G501 -- used for file integrity verification only
	"crypto/sha1" // #nosec G505 -- used for file integrity verification only
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/crypto/blake2b"
)

var ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

// Algorithm names match the coreutils tool prefixes: "sha256" -> sha256sum.
var algorithms = map[string]func() (hash.Hash, error){
	"md5":    func() (hash.Hash, error) { return md5.New(), nil },  // #nosec G401 -- used for file integrity verification only
	"sha1":   func() (hash.Hash, error) { return sha1.New(), nil }, // #nosec G401 -- used for file integrity verification only
	"sha224": func() (hash.Hash, error) { return sha256.New224(), nil },
	"sha256": func() (hash.Hash, error) { return sha256.New(), nil },
	"sha384": func() (hash.Hash, error) { return sha512.New384(), nil },
	"sha512": func() (hash.Hash, error) { return sha512.New(), nil },
	"b2":     func() (hash.Hash, error) { return blake2b.New512(nil) },
}

// Algorithms lists the supported algorithm names in sorted order.
func Algorithms() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Normalize returns the canonical lowercase name for algorithm.
func Normalize(algorithm string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(algorithm))
	if _, ok := algorithms[name]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
	return name, nil
}

func New(algorithm string) (hash.Hash, error) {
	name, err := Normalize(algorithm)
	if err != nil {
		return nil, err
	}
	return algorithms[name]()
}

const bufSize = 1 << 20 // 1 MiB

// FileHash streams path through algorithm and returns the lowercase hex
// digest, the same text the coreutils *sum tools print. onProgress, when
// set, receives the bytes read in chunks of at most 1 MiB.
func FileHash(fs afero.Fs, path string, algorithm string, onProgress func(n int64)) (string, error) {
	h, err := New(algorithm)
	if err != nil {
		return "", err
	}

	f, err := fs.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = f.Close()
	}()

	buf := make([]byte, bufSize)
	var pending int64
	flush := func() {
		if pending > 0 && onProgress != nil {
			onProgress(pending)
			pending = 0
		}
	}

	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			if _, werr := h.Write(buf[:n]); werr != nil {
				return "", werr
			}
			pending += int64(n)
			if pending >= bufSize {
				flush()
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return "", rerr
		}
	}
	flush()

	return hex.EncodeToString(h.Sum(nil)), nil
}
