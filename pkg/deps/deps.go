package deps

import "context"

// ResolverMovey is the only resolver identifier movey accepts in
// [dependencies.movey] resolver = "...".
const ResolverMovey = "movey"

// Well-known file names in a Move package root.
const (
	ManifestFile = "Move.toml"
	LockFile     = "Move.lock"
)

// Group identifies which manifest table a declaration came from.
type Group string

const (
	GroupPackages Group = "packages" // [dependencies.movey.packages], offchain
	GroupOnchain  Group = "onchain"  // [dependencies.movey.onchain]
)

// Declaration is one dependency as written in the manifest.
type Declaration struct {
	Name   string
	Scheme Scheme
	Group  Group
}

// Declarations holds everything ParseManifest extracted from a manifest.
// Each group is sorted by name; the same name may appear in both groups.
type Declarations struct {
	Resolver string
	Packages []Declaration
	Onchain  []Declaration
}

// Len returns the number of declarations across both groups.
func (d *Declarations) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Packages) + len(d.Onchain)
}

// Dependency is a resolved record as returned by the registry.
//
// Scheme is the registry's own identifier for the record; it is used to
// correlate records with requested schemes and never reaches the lock file.
type Dependency struct {
	Name          string `json:"name" toml:"name"`
	Version       string `json:"version" toml:"version"`
	RepositoryURL string `json:"repository_url" toml:"repository_url"`
	Rev           string `json:"rev" toml:"rev"`
	Scheme        string `json:"scheme" toml:"scheme"`
}

// Resolved maps a record's scheme identifier to the record.
type Resolved map[string]Dependency

// Resolver turns the collected schemes of one manifest into resolved records.
type Resolver interface {
	// Resolve looks up every scheme in one batch. It either returns a record
	// for every scheme or an error; there are no partial results.
	Resolve(ctx context.Context, schemes map[string]Scheme) (Resolved, error)
	// Name returns the resolver's identifier (e.g., "movey").
	Name() string
}
