package lockfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/movey-network/movey/pkg/deps"
	"github.com/movey-network/movey/pkg/errors"
)

func TestRenderMoveDemo(t *testing.T) {
	resolved := deps.Resolved{
		"movedemo-ea": {
			Name:          "MoveDemo",
			Version:       "1.0.0",
			RepositoryURL: "https://github.com/ea-movey/MoveDemo",
			Rev:           "4d0d1f4",
			Scheme:        "movedemo-ea",
		},
	}

	got, err := Render(resolved)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	want := `[[package]]
name = "MoveDemo"
version = "1.0.0"
repository_url = "https://github.com/ea-movey/MoveDemo"
rev = "4d0d1f4"
`
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
	if strings.Contains(got, "scheme") {
		t.Error("lock must not record the scheme")
	}
	if n := strings.Count(got, "[[package]]"); n != 1 {
		t.Errorf("[[package]] blocks = %d, want 1", n)
	}
}

func TestRenderEmpty(t *testing.T) {
	for _, resolved := range []deps.Resolved{nil, {}} {
		got, err := Render(resolved)
		if err != nil {
			t.Fatalf("Render() error: %v", err)
		}
		if got != "" {
			t.Errorf("Render(empty) = %q, want empty document", got)
		}
	}
}

func TestRenderOrder(t *testing.T) {
	resolved := deps.Resolved{
		"z":  {Name: "Zeta", Version: "0.1.0", Scheme: "z"},
		"a2": {Name: "Alpha", Version: "1.10.0", Scheme: "a2"},
		"a1": {Name: "Alpha", Version: "1.2.0", Scheme: "a1"},
		"a3": {Name: "Alpha", Version: "nightly", Scheme: "a3"},
		"a4": {Name: "Alpha", Version: "1.2.0", Rev: "b", Scheme: "a4"},
	}

	lock := FromResolved(resolved)
	var got []string
	for _, p := range lock.Packages {
		got = append(got, p.Name+"@"+p.Version+"#"+p.Rev)
	}

	want := []string{
		"Alpha@1.2.0#",
		"Alpha@1.2.0#b",
		"Alpha@1.10.0#",
		"Alpha@nightly#",
		"Zeta@0.1.0#",
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestRenderTwiceIdentical(t *testing.T) {
	resolved := deps.Resolved{}
	for i := 0; i < 20; i++ {
		s := fmt.Sprintf("pkg%02d-ea", i)
		resolved[s] = deps.Dependency{Name: fmt.Sprintf("Pkg%02d", i), Version: "1.0.0", Scheme: s}
	}

	first, err := Render(resolved)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, err := Render(resolved)
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatalf("render %d differs:\n%s\nvs\n%s", i, again, first)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	pkg := rapid.Custom(func(t *rapid.T) deps.Dependency {
		return deps.Dependency{
			Name:          rapid.SampledFrom([]string{"A", "B", "MoveDemo"}).Draw(t, "name"),
			Version:       rapid.SampledFrom([]string{"1.0.0", "1.2.0", "1.10.0", "v2", "latest", ""}).Draw(t, "version"),
			RepositoryURL: rapid.SampledFrom([]string{"", "https://github.com/x/a", "https://github.com/x/b"}).Draw(t, "url"),
			Rev:           rapid.StringMatching(`[0-9a-f]{0,3}`).Draw(t, "rev"),
		}
	})

	rapid.Check(t, func(t *rapid.T) {
		records := rapid.SliceOfN(pkg, 0, 12).Draw(t, "records")
		shuffled := rapid.Permutation(records).Draw(t, "shuffled")

		a, b := deps.Resolved{}, deps.Resolved{}
		for i, r := range records {
			r.Scheme = fmt.Sprintf("s%d", i)
			a[r.Scheme] = r
		}
		for i, r := range shuffled {
			r.Scheme = fmt.Sprintf("t%d", i)
			b[r.Scheme] = r
		}

		ra, err := Render(a)
		if err != nil {
			t.Fatal(err)
		}
		rb, err := Render(b)
		if err != nil {
			t.Fatal(err)
		}
		if ra != rb {
			t.Fatalf("renders differ:\n%s\nvs\n%s", ra, rb)
		}
		if n := strings.Count(ra, "[[package]]"); n != len(records) {
			t.Fatalf("[[package]] blocks = %d, want %d", n, len(records))
		}
	})
}

func TestWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), deps.LockFile)
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	content, err := Render(deps.Resolved{
		"movedemo-ea": {Name: "MoveDemo", Version: "1.0.0", RepositoryURL: "https://github.com/ea-movey/MoveDemo", Rev: "4d0d1f4"},
		"sui":         {Name: "Sui", Version: "0.1.0", RepositoryURL: "https://github.com/MystenLabs/sui", Rev: "main"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := Write(path, content); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != content {
		t.Errorf("file content = %q, want %q", data, content)
	}

	lock, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if lock.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", lock.Len())
	}
	if lock.Packages[1].Name != "Sui" || lock.Packages[1].Rev != "main" {
		t.Errorf("Packages[1] = %+v", lock.Packages[1])
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, temp file left behind?", len(entries))
	}
}

func TestWriteFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", deps.LockFile)

	err := Write(path, "")
	if !errors.Is(err, errors.ErrCodeWrite) {
		t.Fatalf("Write() error = %v, want WRITE_FAILED", err)
	}
	if msg := errors.UserMessage(err); !strings.HasPrefix(msg, "Cannot write to Move.lock file. ") {
		t.Errorf("UserMessage() = %q", msg)
	}
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Read(filepath.Join(dir, deps.LockFile))
	if !errors.Is(err, errors.ErrCodeLockRead) {
		t.Errorf("Read(missing) error = %v, want LOCK_READ_FAILED", err)
	}

	bad := filepath.Join(dir, "bad.lock")
	if err := os.WriteFile(bad, []byte("[[package]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = Read(bad)
	if !errors.Is(err, errors.ErrCodeLockRead) {
		t.Errorf("Read(bad) error = %v, want LOCK_READ_FAILED", err)
	}
}

func TestParseEmpty(t *testing.T) {
	lock, err := Parse("")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if lock.Len() != 0 {
		t.Errorf("Len() = %d, want 0", lock.Len())
	}
}
