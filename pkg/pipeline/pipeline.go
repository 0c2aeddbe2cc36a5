// Package pipeline runs the Movey dependency resolution pipeline.
//
// The pipeline is strictly sequential:
//
//  1. Parse: read Move.toml and decode [dependencies.movey]
//  2. Collect: merge the packages and onchain groups into one name → scheme map
//  3. Resolve: look every scheme up in one registry request
//  4. Write: render Move.lock and replace the old file
//
// Any failure stops the run and leaves the existing lock untouched.
//
// # Usage
//
//	runner := pipeline.NewRunner(movey.NewClient(url, version, logger), logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Dir: "."})
//	if err != nil {
//	    fmt.Println(errors.UserMessage(err))
//	}
//	fmt.Println(result.Packages, "packages locked in", result.LockPath)
//
// [Runner.Plan] stops after collecting, for dry runs.
package pipeline

import (
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/movey-network/movey/pkg/deps"
	"github.com/movey-network/movey/pkg/errors"
)

// Options locates the manifest and lock file of one Move package.
type Options struct {
	// Dir is the package root. Defaults to the working directory.
	Dir string

	// ManifestFile defaults to Dir/Move.toml.
	ManifestFile string

	// LockFile defaults to Dir/Move.lock.
	LockFile string

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults fills in default paths.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Dir == "" {
		o.Dir = "."
	}
	if o.ManifestFile == "" {
		o.ManifestFile = filepath.Join(o.Dir, deps.ManifestFile)
	}
	if o.LockFile == "" {
		o.LockFile = filepath.Join(o.Dir, deps.LockFile)
	}
	if filepath.Clean(o.ManifestFile) == filepath.Clean(o.LockFile) {
		return errors.New(errors.ErrCodeInvalidInput, "manifest and lock file must differ: %s", o.LockFile)
	}
	o.validated = true
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Lock is the rendered lock document that was written.
	Lock string

	// LockPath is where the lock was written.
	LockPath string

	// Packages is the number of [[package]] entries.
	Packages int

	// Resolved holds the registry records keyed by scheme.
	Resolved deps.Resolved

	// Overrides lists names declared in both groups.
	Overrides []string

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Declared    int
	Schemes     int
	ParseTime   time.Duration
	ResolveTime time.Duration
	WriteTime   time.Duration
}

// Plan is the outcome of parsing and collecting without contacting the registry.
type Plan struct {
	ManifestPath string
	Declarations *deps.Declarations
	Schemes      map[string]deps.Scheme
	Overrides    []string
}
