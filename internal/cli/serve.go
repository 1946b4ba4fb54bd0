package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexora/casemap/internal/server"
	"github.com/lexora/casemap/pkg/session"
	"github.com/lexora/casemap/pkg/view"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API and viewport sessions over HTTP",
		Long: `Serve the layout API and viewport sessions over HTTP.

Stateless endpoints lay out and render a posted mind map. Sessions hold one
mounted mind map and its viewbox, and take pointer and wheel events so a
browser client can pan, zoom and activate nodes. Idle sessions expire after
server.session_ttl.

Case mind maps are read from source.mongo_uri or source.dir when configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	sessions := session.NewStore(cfg.Server.SessionTTL, cfg.Server.MaxSessions,
		view.WithLayout(cfg.Layout),
		view.WithViewport(cfg.Viewport),
	)
	srv := server.New(runner, sessions, c.Logger, server.Options{
		Layout:   cfg.Layout,
		MaxNodes: maxNodesFromConfig(cfg.Server.MaxNodes),
	})

	printInfo("Serving on %s", StyleHighlight.Render(addr))
	printKeyValue("cache", cfg.Cache.Backend)
	printKeyValue("sessions", fmt.Sprintf("max %d, ttl %s", cfg.Server.MaxSessions, cfg.Server.SessionTTL))
	if runner.Source != nil {
		printKeyValue("source", sourceName(cfg.Source.MongoURI, cfg.Source.Dir))
	}
	return srv.ListenAndServe(ctx, addr)
}

func sourceName(mongoURI, dir string) string {
	if mongoURI != "" {
		return "mongodb"
	}
	return dir
}
