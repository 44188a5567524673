package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/scenarioflow/pkg/api"
	"github.com/matzehuels/scenarioflow/pkg/config"
	"github.com/matzehuels/scenarioflow/pkg/observability"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string
	store   string
	metrics bool
}

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve scenarios, layouts and diagrams over HTTP",
		Long: `Serve the scenario API.

Scenarios are stored per user (X-User-ID header) in the configured store:
files under ~/.config/scenarioflow/scenarios by default, MongoDB when
[store] backend = "mongo", or memory for throwaway sessions.

Prometheus metrics are exposed on /metrics unless --metrics=false.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = opts.addr
			}
			if cmd.Flags().Changed("store") {
				c.Config.Store.Backend = opts.store
			}
			if err := c.Config.Validate(); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), opts.metrics)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.store, "store", "", "scenario store: file, mongo, memory")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", true, "expose Prometheus metrics on /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, metrics bool) error {
	srv, err := c.newServer(ctx, metrics)
	if err != nil {
		return err
	}

	defer srv.Close()

	cfg := c.Config.Server
	printInfo("Listening on %s", StyleHighlight.Render(cfg.Addr))
	printDetail("store: %s, cache: %s", c.Config.Store.Backend, c.Config.Cache.Backend)
	return srv.ListenAndServe(ctx, cfg.Addr, cfg.ShutdownTimeout)
}

// newServer wires the configured store, cache and metrics into an API server.
func (c *CLI) newServer(ctx context.Context, metrics bool) (*api.Server, error) {
	st, err := c.newStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", c.Config.Store.Backend, err)
	}
	runner, err := c.newRunner(ctx, false)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("initialize runner: %w", err)
	}

	opts := []api.Option{
		api.WithLogger(c.Logger),
		api.WithDefaultUser(c.Config.Server.DefaultUser),
		api.WithDiagramConfig(c.Config.Diagram),
	}
	if metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		hooks := observability.NewPrometheusHooks(reg)
		observability.SetLayoutHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
		opts = append(opts, api.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	if c.Config.Store.Backend == config.StoreFile {
		c.Logger.Debug("file store", "dir", c.Config.Store.Dir)
	}
	return api.New(st, runner, opts...), nil
}
