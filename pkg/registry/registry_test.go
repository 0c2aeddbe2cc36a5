package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/movey-network/movey/pkg/deps"
	"github.com/movey-network/movey/pkg/observability"
)

const sampleIndex = `
[[package]]
name = "MoveDemo"
version = "1.0.0"
repository_url = "https://github.com/ea-movey/MoveDemo"
rev = "4d0d1f4"
scheme = "movedemo-ea"

[[package]]
name = "Sui"
version = "0.1.0"
repository_url = "https://github.com/MystenLabs/sui"
rev = "main"
scheme = "0x2@sui/devnet"
`

func writeIndex(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func seededIndex(t *testing.T) *MemoryIndex {
	t.Helper()
	records, err := LoadIndexFile(writeIndex(t, sampleIndex))
	if err != nil {
		t.Fatalf("LoadIndexFile() error: %v", err)
	}
	idx := NewMemoryIndex()
	if err := Seed(context.Background(), idx, records); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}
	return idx
}

func TestLoadIndexFile(t *testing.T) {
	records, err := LoadIndexFile(writeIndex(t, sampleIndex))
	if err != nil {
		t.Fatalf("LoadIndexFile() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Name != "MoveDemo" || records[0].Scheme != "movedemo-ea" || records[0].Rev != "4d0d1f4" {
		t.Errorf("records[0] = %+v", records[0])
	}
}

func TestLoadIndexFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad toml", "[[package]\n", "read index"},
		{"missing scheme", "[[package]]\nname = \"A\"\n", "has no scheme"},
		{"duplicate scheme", "[[package]]\nname = \"A\"\nscheme = \"a\"\n[[package]]\nname = \"B\"\nscheme = \"a\"\n", "duplicate scheme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadIndexFile(writeIndex(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadIndexFile() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	idx := seededIndex(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		scheme deps.Scheme
		want   string
		found  bool
	}{
		{"by id", deps.PlainScheme("movedemo-ea:1.0.0"), "MoveDemo", true},
		{"exact", deps.PlainScheme("movedemo-ea"), "MoveDemo", true},
		{"table id", deps.StructuredScheme(map[string]any{"addr": "0x2", "chain": "sui/devnet"}), "Sui", true},
		{"unknown", deps.PlainScheme("ghost-ea:1.0.0"), "", false},
		{"other version", deps.PlainScheme("movedemo-ea:2.0.0"), "", false},
		{"table other version", deps.StructuredScheme(map[string]any{"namespace": "movedemo-ea", "version": "0.9.0"}), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok, err := Lookup(ctx, idx, tt.scheme)
			if err != nil {
				t.Fatalf("Lookup() error: %v", err)
			}
			if ok != tt.found || d.Name != tt.want {
				t.Errorf("Lookup() = %+v, %v; want %q, %v", d, ok, tt.want, tt.found)
			}
		})
	}
}

func TestLookupReportsHooks(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetIndexHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	idx := seededIndex(t)
	_, _, _ = Lookup(ctx, idx, deps.PlainScheme("movedemo-ea:1.0.0"))
	_, _, _ = Lookup(ctx, idx, deps.PlainScheme("ghost-ea"))
	_, _, _ = Lookup(ctx, failingIndex{}, deps.PlainScheme("movedemo-ea"))

	if hooks.hits != 1 || hooks.misses != 1 || hooks.errors != 1 {
		t.Errorf("hooks = %+v, want one of each", *hooks)
	}
}

func TestMemoryIndexPut(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	if err := idx.Put(ctx, deps.Dependency{Name: "NoScheme"}); err == nil {
		t.Error("Put() without scheme should fail")
	}
	if err := idx.Put(ctx, deps.Dependency{Name: "A", Version: "1.0.0", Scheme: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := idx.Put(ctx, deps.Dependency{Name: "A", Version: "2.0.0", Scheme: "a"}); err != nil {
		t.Fatal(err)
	}

	d, ok, _ := idx.Get(ctx, "a")
	if !ok || d.Version != "2.0.0" {
		t.Errorf("Get() = %+v, %v; want replaced record", d, ok)
	}
	if idx.Len() != 1 {
		t.Errorf("Len() = %d, want 1", idx.Len())
	}
	if idx.Name() != "memory" {
		t.Errorf("Name() = %q", idx.Name())
	}
}

type failingIndex struct{}

func (failingIndex) Get(context.Context, string) (deps.Dependency, bool, error) {
	return deps.Dependency{}, false, errors.New("connection reset")
}
func (failingIndex) Put(context.Context, deps.Dependency) error { return errors.New("read-only") }
func (failingIndex) Name() string                               { return "failing" }
func (failingIndex) Close(context.Context) error                { return nil }

type countingHooks struct {
	observability.NoopIndexHooks
	hits, misses, errors int
}

func (h *countingHooks) OnLookupHit(context.Context, string)          { h.hits++ }
func (h *countingHooks) OnLookupMiss(context.Context, string)         { h.misses++ }
func (h *countingHooks) OnLookupError(context.Context, string, error) { h.errors++ }
