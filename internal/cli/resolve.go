package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/movey-network/movey/pkg/buildinfo"
	"github.com/movey-network/movey/pkg/credential"
	"github.com/movey-network/movey/pkg/integrations/movey"
	"github.com/movey-network/movey/pkg/observability"
	"github.com/movey-network/movey/pkg/observability/prom"
	"github.com/movey-network/movey/pkg/pipeline"
)

type resolveOpts struct {
	dir         string
	registry    string
	dryRun      bool
	metricsFile string
}

func (c *CLI) resolveCommand() *cobra.Command {
	var opts resolveOpts

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve Movey dependencies and write Move.lock",
		Long: `Resolve reads Move.toml in the package directory, sends every dependency
declared under [dependencies.movey] to the registry in one request, and
writes the returned records to Move.lock.

Move.lock is replaced only when every step succeeds.`,
		Example: `  movey resolve
  movey resolve --dir ./examples/MoveDemo
  movey resolve --registry http://localhost:8080 --metrics-file movey.prom
  movey resolve --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.dryRun {
				return c.runPlan(cmd.Context(), opts)
			}
			return c.runResolve(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "d", ".", "Move package root directory")
	cmd.Flags().StringVar(&opts.registry, "registry", "", "registry base URL (default: credential file, $MOVEY_REGISTRY_URL, then "+credential.DefaultRegistryURL+")")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "parse the manifest and show what would be resolved")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics for this run to a textfile")

	return cmd
}

func (c *CLI) runResolve(ctx context.Context, opts resolveOpts) error {
	logger := loggerFromContext(ctx)
	pipeOpts := pipeline.Options{Dir: opts.dir}

	var metrics *prom.Hooks
	if opts.metricsFile != "" {
		metrics = prom.New()
		observability.SetPipelineHooks(metrics)
		observability.SetHTTPHooks(metrics)
		defer observability.Reset()
	}

	// Manifest errors take precedence over credential errors.
	prog := newProgress(logger)
	runner := pipeline.NewRunner(nil, logger)
	plan, err := runner.Plan(ctx, pipeOpts)
	var result *pipeline.Result
	if err == nil {
		result, err = c.resolvePlan(ctx, runner, plan, pipeOpts, opts.registry)
	}

	if metrics != nil {
		if werr := metrics.WriteTextfile(opts.metricsFile); werr != nil {
			logger.Warn("failed to write metrics", "path", opts.metricsFile, "err", werr)
		} else {
			logger.Debug("wrote metrics", "path", opts.metricsFile)
		}
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Resolved %d dependencies", result.Stats.Schemes))

	printSuccess("Wrote %s", result.LockPath)
	printStats(
		fmt.Sprintf("%d declared", result.Stats.Declared),
		fmt.Sprintf("%d packages", result.Packages),
		result.Stats.ResolveTime.Round(time.Millisecond).String(),
	)
	if metrics != nil {
		printFile(opts.metricsFile)
	}
	return nil
}

func (c *CLI) resolvePlan(ctx context.Context, runner *pipeline.Runner, plan *pipeline.Plan, opts pipeline.Options, flag string) (*pipeline.Result, error) {
	url, err := c.registryURL(flag)
	if err != nil {
		return nil, err
	}
	runner.Resolver = movey.NewClient(url, buildinfo.Version, runner.Logger)

	spinner := newSpinner(ctx, os.Stderr, "Resolving dependencies from "+url)
	spinner.Start()
	defer spinner.Stop()
	return runner.ExecutePlan(ctx, plan, opts)
}

// runPlan parses and collects without contacting the registry.
func (c *CLI) runPlan(ctx context.Context, opts resolveOpts) error {
	logger := loggerFromContext(ctx)
	runner := pipeline.NewRunner(nil, logger)

	plan, err := runner.Plan(ctx, pipeline.Options{Dir: opts.dir})
	if err != nil {
		return err
	}

	if len(plan.Schemes) == 0 {
		printInfo("No Movey dependencies declared in %s", plan.ManifestPath)
		return nil
	}

	printInfo("Would resolve %s dependencies from %s",
		StyleNumber.Render(fmt.Sprint(len(plan.Schemes))), plan.ManifestPath)
	names := make([]string, 0, len(plan.Schemes))
	for name := range plan.Schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		printKeyValue(name, plan.Schemes[name].String())
	}
	return nil
}
