// Package registry implements a development stand-in for the Movey registry.
//
// It serves the one endpoint the resolver uses, POST /api/v1/packages/info,
// from an [Index] of package records. Three backends are provided:
//   - memory: records loaded from a TOML index file
//   - redis: records stored as JSON in one Redis hash
//   - mongo: records stored in a MongoDB collection
//
// # Index file
//
//	[[package]]
//	name = "MoveDemo"
//	version = "1.0.0"
//	repository_url = "https://github.com/ea-movey/MoveDemo"
//	rev = "4d0d1f4"
//	scheme = "movedemo-ea"
//
// # Usage
//
//	records, err := registry.LoadIndexFile("index.toml")
//	idx := registry.NewMemoryIndex()
//	registry.Seed(ctx, idx, records)
//	http.ListenAndServe(":8080", registry.NewHandler(idx, logger, nil))
package registry

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/movey-network/movey/pkg/deps"
	"github.com/movey-network/movey/pkg/observability"
)

// Index is the interface for package record backends.
type Index interface {
	// Get returns the record stored under scheme.
	// Returns false with a nil error if there is none.
	Get(ctx context.Context, scheme string) (deps.Dependency, bool, error)

	// Put stores d under d.Scheme, replacing any previous record.
	Put(ctx context.Context, d deps.Dependency) error

	// Name identifies the backend in logs and metrics.
	Name() string

	// Close releases backend connections.
	Close(ctx context.Context) error
}

// Lookup finds the record for a requested scheme, trying its full string
// form first and its identifier second. A record found by identifier must
// carry the version the scheme pins.
func Lookup(ctx context.Context, idx Index, s deps.Scheme) (deps.Dependency, bool, error) {
	hooks := observability.Index()
	keys := []string{s.String()}
	if id := s.ID(); id != keys[0] {
		keys = append(keys, id)
	}

	for _, key := range keys {
		d, ok, err := idx.Get(ctx, key)
		if err != nil {
			hooks.OnLookupError(ctx, idx.Name(), err)
			return deps.Dependency{}, false, err
		}
		if ok && s.Matches(d) {
			hooks.OnLookupHit(ctx, idx.Name())
			return d, true, nil
		}
	}
	hooks.OnLookupMiss(ctx, idx.Name())
	return deps.Dependency{}, false, nil
}

// indexFile is the on-disk index format.
type indexFile struct {
	Packages []deps.Dependency `toml:"package"`
}

// LoadIndexFile reads package records from a TOML index file.
// Every record needs a scheme, and schemes must be unique.
func LoadIndexFile(path string) ([]deps.Dependency, error) {
	var f indexFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("read index %s: %w", path, err)
	}

	seen := make(map[string]bool, len(f.Packages))
	for i, p := range f.Packages {
		if p.Scheme == "" {
			return nil, fmt.Errorf("index %s: package #%d (%q) has no scheme", path, i+1, p.Name)
		}
		if seen[p.Scheme] {
			return nil, fmt.Errorf("index %s: duplicate scheme %q", path, p.Scheme)
		}
		seen[p.Scheme] = true
	}
	return f.Packages, nil
}

// Seed stores every record in idx.
func Seed(ctx context.Context, idx Index, records []deps.Dependency) error {
	for _, r := range records {
		if err := idx.Put(ctx, r); err != nil {
			return fmt.Errorf("seed %s: %w", r.Scheme, err)
		}
	}
	return nil
}
