package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cm2kit/pkg/api"
	"github.com/matzehuels/cm2kit/pkg/store"
)

const shutdownTimeout = 10 * time.Second

type serveOpts struct {
	addr    string
	noStore bool
	noCache bool
}

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compile API over HTTP",
		Long: `Serve the compile and decode API. The cache and artifact store come from the
config file and the CM2KIT_REDIS_URL and CM2KIT_MONGO_URI environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&opts.noStore, "no-store", false, "disable the artifact routes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the compile cache")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()
	cfg, err := c.config()
	if err != nil {
		return err
	}
	addr := opts.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var st store.Store
	if !opts.noStore {
		if st, err = c.newStore(ctx, cfg); err != nil {
			return err
		}
		defer st.Close()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.New(runner, st, c.Logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return c.listen(ctx, srv)
}

// listen serves until ctx ends, then shuts down gracefully.
func (c *CLI) listen(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	return nil
}
