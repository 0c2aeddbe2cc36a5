// Package lockfile renders, writes and reads Move.lock.
//
// A lock file lists one [[package]] table per resolved dependency:
//
//	[[package]]
//	name = "MoveDemo"
//	version = "1.0.0"
//	repository_url = "https://github.com/ea-movey/MoveDemo"
//	rev = "4d0d1f4"
//
// Entries are sorted so the same resolved set always renders to the same
// bytes. The registry's scheme identifier is not recorded.
package lockfile

import (
	"bytes"
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	mm "github.com/Masterminds/semver/v3"

	"github.com/movey-network/movey/pkg/deps"
	"github.com/movey-network/movey/pkg/errors"
)

// Package is one [[package]] entry.
type Package struct {
	Name          string `toml:"name"`
	Version       string `toml:"version"`
	RepositoryURL string `toml:"repository_url"`
	Rev           string `toml:"rev"`
}

// Lock is the decoded content of a lock file.
type Lock struct {
	Packages []Package `toml:"package,omitempty"`
}

// Len returns the number of entries.
func (l *Lock) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Packages)
}

// FromResolved converts resolved records into sorted lock entries.
func FromResolved(resolved deps.Resolved) *Lock {
	pkgs := make([]Package, 0, len(resolved))
	for _, d := range resolved {
		pkgs = append(pkgs, Package{
			Name:          d.Name,
			Version:       d.Version,
			RepositoryURL: d.RepositoryURL,
			Rev:           d.Rev,
		})
	}
	Sort(pkgs)
	return &Lock{Packages: pkgs}
}

// Sort orders entries by name, then version, then rev, then repository URL.
//
// Versions that parse as semantic versions sort before those that do not and
// compare by precedence; ties and unparsable versions fall back to string
// order.
func Sort(pkgs []Package) {
	sort.SliceStable(pkgs, func(i, j int) bool {
		return compare(pkgs[i], pkgs[j]) < 0
	})
}

func compare(a, b Package) int {
	if a.Name != b.Name {
		return cmp.Compare(a.Name, b.Name)
	}
	if c := compareVersion(a.Version, b.Version); c != 0 {
		return c
	}
	if a.Rev != b.Rev {
		return cmp.Compare(a.Rev, b.Rev)
	}
	return cmp.Compare(a.RepositoryURL, b.RepositoryURL)
}

func compareVersion(a, b string) int {
	if a == b {
		return 0
	}
	va, errA := mm.NewVersion(a)
	vb, errB := mm.NewVersion(b)
	switch {
	case errA == nil && errB == nil:
		if c := va.Compare(vb); c != 0 {
			return c
		}
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return cmp.Compare(a, b)
}

// Render produces the lock document for a resolved set. It is pure and
// deterministic: equal sets render to identical strings. An empty set
// renders to an empty document.
func Render(resolved deps.Resolved) (string, error) {
	return Encode(FromResolved(resolved))
}

// Encode writes l as TOML without indentation.
func Encode(l *Lock) (string, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(l); err != nil {
		return "", fmt.Errorf("encode lock: %w", err)
	}
	return buf.String(), nil
}

// Write replaces the file at path with content.
//
// The content goes to a temporary file in the same directory first and is
// renamed into place, so an interrupted write never leaves a truncated lock.
func Write(path, content string) error {
	if err := writeFile(path, content); err != nil {
		return errors.Wrap(errors.ErrCodeWrite, err, "Cannot write to Move.lock file. %v", err)
	}
	return nil
}

func writeFile(path, content string) error {
	dir := filepath.Dir(path)
	temp, err := os.CreateTemp(dir, ".Move.lock.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.WriteString(content); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Chmod(0o644); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Read decodes the lock file at path.
func Read(path string) (*Lock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLockRead, err, "Cannot read Move.lock file. %v", err)
	}
	return Parse(string(data))
}

// Parse decodes lock file text.
func Parse(text string) (*Lock, error) {
	var l Lock
	if _, err := toml.Decode(text, &l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLockRead, err, "Cannot read Move.lock file. %v", err)
	}
	return &l, nil
}
