package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/movey-network/movey/pkg/deps"
	"github.com/movey-network/movey/pkg/errors"
	"github.com/movey-network/movey/pkg/lockfile"
	"github.com/movey-network/movey/pkg/observability"
)

// Runner executes the pipeline against one resolver.
//
// The Runner keeps no state between runs. Multiple goroutines can use the
// same Runner with different options.
type Runner struct {
	Resolver deps.Resolver
	Logger   *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(resolver deps.Resolver, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Resolver: resolver, Logger: logger}
}

// Plan parses the manifest and collects its schemes.
// It has no network or filesystem side effects beyond reading the manifest.
func (r *Runner) Plan(ctx context.Context, opts Options) (*Plan, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)

	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, opts.ManifestFile)
	start := time.Now()
	d, err := deps.LoadManifest(opts.ManifestFile)
	hooks.OnParseComplete(ctx, opts.ManifestFile, d.Len(), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		ManifestPath: opts.ManifestFile,
		Declarations: d,
		Schemes:      deps.Collect(d),
		Overrides:    deps.Overrides(d),
	}

	logger.Debug("parsed manifest",
		"path", opts.ManifestFile,
		"packages", len(d.Packages),
		"onchain", len(d.Onchain))
	for _, name := range plan.Overrides {
		logger.Warn("dependency declared in both packages and onchain, using onchain", "name", name)
	}
	return plan, nil
}

// Execute runs parse → collect → resolve → write.
// Nothing is written unless every earlier stage succeeded.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if r.Resolver == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no resolver configured")
	}

	// Stage 1: Parse + collect
	parseStart := time.Now()
	plan, err := r.Plan(ctx, opts)
	if err != nil {
		return nil, err
	}
	parseTime := time.Since(parseStart)

	result, err := r.ExecutePlan(ctx, plan, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.ParseTime = parseTime
	return result, nil
}

// ExecutePlan resolves and writes a plan built by [Runner.Plan]. Callers
// that need the manifest validated before they can configure a resolver
// call Plan first, then set Resolver and call ExecutePlan.
func (r *Runner) ExecutePlan(ctx context.Context, plan *Plan, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if r.Resolver == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no resolver configured")
	}
	if plan == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no plan to execute")
	}
	logger := r.logger(opts)
	hooks := observability.Pipeline()

	result := &Result{
		LockPath:  opts.LockFile,
		Overrides: plan.Overrides,
	}
	result.Stats.Declared = plan.Declarations.Len()
	result.Stats.Schemes = len(plan.Schemes)

	// Stage 2: Resolve
	name := r.Resolver.Name()
	hooks.OnResolveStart(ctx, name, len(plan.Schemes))
	resolveStart := time.Now()
	resolved, err := r.Resolver.Resolve(ctx, plan.Schemes)
	result.Stats.ResolveTime = time.Since(resolveStart)
	hooks.OnResolveComplete(ctx, name, len(resolved), result.Stats.ResolveTime, err)
	if err != nil {
		return nil, err
	}
	result.Resolved = resolved

	logger.Info("resolved dependencies",
		"schemes", len(plan.Schemes),
		"records", len(resolved),
		"duration", result.Stats.ResolveTime)

	// Stage 3: Render + write
	hooks.OnWriteStart(ctx, opts.LockFile)
	writeStart := time.Now()
	lock := lockfile.FromResolved(resolved)
	content, err := lockfile.Encode(lock)
	if err == nil {
		err = lockfile.Write(opts.LockFile, content)
	}
	result.Stats.WriteTime = time.Since(writeStart)
	hooks.OnWriteComplete(ctx, opts.LockFile, lock.Len(), result.Stats.WriteTime, err)
	if err != nil {
		if !errors.Is(err, errors.ErrCodeWrite) {
			err = errors.Wrap(errors.ErrCodeWrite, err, "Cannot write to Move.lock file. %v", err)
		}
		return nil, err
	}
	result.Lock = content
	result.Packages = lock.Len()

	logger.Info("wrote lock file",
		"path", opts.LockFile,
		"packages", result.Packages,
		"duration", result.Stats.WriteTime)

	return result, nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	switch {
	case opts.Logger != nil:
		return opts.Logger
	case r.Logger != nil:
		return r.Logger
	default:
		return log.NewWithOptions(io.Discard, log.Options{})
	}
}
