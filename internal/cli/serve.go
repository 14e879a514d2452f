package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nbmap/nbmap/internal/server"
	"github.com/nbmap/nbmap/pkg/cache"
	"github.com/nbmap/nbmap/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string // listen address
	mongoURI string // MongoDB connection string for the dataset catalog
	redisURL string // Redis URL for the pipeline cache
	noCache  bool   // disable the pipeline cache
}

// newServeCmd creates the serve command. It runs the render API with
// the local dataset library and file cache by default; --mongo and
// --redis switch to the shared backends.
func newServeCmd() *cobra.Command {
	opts := serveOpts{addr: server.DefaultAddr}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the render API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", "", "MongoDB URI for the dataset catalog (default: local directory store)")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "Redis URL for the pipeline cache (default: local file cache)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the pipeline cache")

	return cmd
}

func runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	st, err := serveStore(ctx, opts)
	if err != nil {
		return err
	}
	defer st.Close()

	c, err := serveCache(ctx, opts)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Addr:   opts.addr,
		Store:  st,
		Cache:  c,
		Logger: logger,
	})
	defer srv.Close()

	return srv.ListenAndServe(ctx)
}

func serveStore(ctx context.Context, opts *serveOpts) (store.Store, error) {
	if opts.mongoURI != "" {
		st, err := store.NewMongoStore(ctx, opts.mongoURI)
		if err != nil {
			return nil, fmt.Errorf("connect dataset catalog: %w", err)
		}
		return st, nil
	}
	return openStore("")
}

func serveCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redisURL != "" {
		c, err := cache.NewRedisCache(ctx, opts.redisURL)
		if err != nil {
			return nil, fmt.Errorf("connect cache: %w", err)
		}
		return c, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewFileCache(dir)
}
