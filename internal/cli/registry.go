package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/movey-network/movey/pkg/errors"
	"github.com/movey-network/movey/pkg/observability"
	"github.com/movey-network/movey/pkg/observability/prom"
	"github.com/movey-network/movey/pkg/registry"
)

// Index backends accepted by --backend.
const (
	backendMemory = "memory"
	backendRedis  = "redis"
	backendMongo  = "mongo"
)

const shutdownTimeout = 10 * time.Second

type serveOpts struct {
	index         string
	addr          string
	backend       string
	redisAddr     string
	redisPassword string
	redisDB       int
	redisKey      string
	mongoURI      string
	mongoDatabase string
}

func (c *CLI) registryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Run a local development registry",
	}
	cmd.AddCommand(c.registryServeCommand())
	return cmd
}

func (c *CLI) registryServeCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve package records over the registry API",
		Long: `Serve answers POST /api/v1/packages/info from an index of package records,
so resolve can run against a local registry.

The memory backend requires --index. The redis and mongo backends keep
their records between runs; --index seeds them.`,
		Example: `  movey registry serve --index index.toml
  movey registry serve --backend redis --redis-addr localhost:6379 --index index.toml
  movey resolve --registry http://localhost:8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.index, "index", "", "TOML file of [[package]] records to load")
	cmd.Flags().StringVar(&opts.addr, "addr", defaultServeAddr, "listen address")
	cmd.Flags().StringVar(&opts.backend, "backend", backendMemory, "index backend: memory, redis, or mongo")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "localhost:6379", "Redis address")
	cmd.Flags().StringVar(&opts.redisPassword, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().StringVar(&opts.redisKey, "redis-key", registry.DefaultRedisKey, "Redis hash holding the records")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "mongodb://localhost:27017", "MongoDB connection URI")
	cmd.Flags().StringVar(&opts.mongoDatabase, "mongo-database", registry.DefaultMongoDatabase, "MongoDB database")

	return cmd
}

// openIndex connects the selected backend.
func openIndex(ctx context.Context, opts serveOpts) (registry.Index, error) {
	switch opts.backend {
	case backendMemory:
		if opts.index == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--index is required for the memory backend")
		}
		return registry.NewMemoryIndex(), nil
	case backendRedis:
		return registry.NewRedisIndex(ctx, registry.RedisConfig{
			Addr:     opts.redisAddr,
			Password: opts.redisPassword,
			DB:       opts.redisDB,
			Key:      opts.redisKey,
		})
	case backendMongo:
		return registry.NewMongoIndex(ctx, registry.MongoConfig{
			URI:      opts.mongoURI,
			Database: opts.mongoDatabase,
		})
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown backend %q (want memory, redis, or mongo)", opts.backend)
	}
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	idx, err := openIndex(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := idx.Close(context.Background()); err != nil {
			logger.Warn("close index", "backend", idx.Name(), "err", err)
		}
	}()

	if opts.index != "" {
		prog := newProgress(logger)
		records, err := registry.LoadIndexFile(opts.index)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "%v", err)
		}
		if err := registry.Seed(ctx, idx, records); err != nil {
			return err
		}
		prog.done(fmt.Sprintf("Loaded %d records into %s index", len(records), idx.Name()))
	}

	metrics := prom.New()
	observability.SetIndexHooks(metrics)
	defer observability.Reset()

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           registry.NewHandler(idx, logger, metrics.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	printSuccess("Registry listening on %s", StyleLink.Render(opts.addr))
	printDetail("backend %s · Ctrl+C to stop", idx.Name())

	select {
	case err := <-errCh:
		if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("registry server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown registry server", "err", err)
	}
	printInfo("Registry stopped")
	return nil
}
