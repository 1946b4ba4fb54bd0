package cli

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lexora/casemap/pkg/pipeline"
	"github.com/lexora/casemap/pkg/view"
)

// viewCommand creates the view command for browsing a mind map in the terminal.
func (c *CLI) viewCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "view [mindmap.json]",
		Short: "Browse a mind map in the terminal",
		Long: `Browse a mind map in the terminal.

Drag the background to pan and scroll to zoom around the cursor. Clicking a
node opens its details; esc closes them. Arrow keys pan, + and - zoom around
the center, r restores the initial viewbox and q quits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), args, flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *CLI) runView(ctx context.Context, args []string, flags layoutFlags) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, err := loadGraph(ctx, runner, args, flags.caseID)
	if err != nil {
		return err
	}

	opts := pipeline.Options{Layout: cfg.Layout, MaxNodes: maxNodesFromConfig(cfg.Server.MaxNodes)}
	flags.apply(&opts)
	positioned, err := runner.Layout(ctx, g, opts)
	if err != nil {
		return err
	}

	v := view.New(view.WithLayout(opts.Layout), view.WithViewport(cfg.Viewport))
	defer v.Close()
	v.SetGraph(positioned)

	model := NewMapViewerModel(v, viewerTitle(args, flags.caseID))
	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	_, err = p.Run()
	return err
}

func viewerTitle(args []string, caseID string) string {
	if caseID != "" {
		return "Case " + caseID
	}
	if len(args) > 0 {
		return filepath.Base(args[0])
	}
	return appName
}
