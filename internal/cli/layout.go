package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/lexora/casemap/pkg/mindmap"
	"github.com/lexora/casemap/pkg/pipeline"
)

// layoutFlags holds the flags shared by commands that lay out a mind map.
type layoutFlags struct {
	caseID     string
	noCache    bool
	radiusStep float64
	maxRadius  float64
	maxNodes   int
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.caseID, "case", "", "load the mind map of this case from the configured source")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&f.radiusStep, "radius-step", 0, "radius added per node (default from config)")
	cmd.Flags().Float64Var(&f.maxRadius, "max-radius", 0, "largest circle radius (default from config)")
	cmd.Flags().IntVar(&f.maxNodes, "max-nodes", 0, "reject larger mind maps, negative disables (default from config)")
}

// apply overlays explicitly set flags onto opts.
func (f *layoutFlags) apply(opts *pipeline.Options) {
	if f.radiusStep > 0 {
		opts.Layout.RadiusStep = f.radiusStep
	}
	if f.maxRadius > 0 {
		opts.Layout.MaxRadius = f.maxRadius
	}
	if f.maxNodes != 0 {
		opts.MaxNodes = f.maxNodes
	}
}

// layoutCommand creates the layout command for positioning a mind map.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags     layoutFlags
		output    string
		showTable bool
	)

	cmd := &cobra.Command{
		Use:   "layout [mindmap.json]",
		Short: "Place every node of a mind map on the radial layout",
		Long: `Place every node of a mind map on the radial layout.

Nodes that already carry both coordinates keep them. The others are spread
evenly on a circle around the canvas center, in input order. The result is
written as mind map JSON with every node positioned.

Results are cached, so laying out the same mind map twice is instant.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args, flags, output, showTable)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&showTable, "table", false, "print the node positions as a table")

	return cmd
}

// runLayout loads the mind map, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, args []string, flags layoutFlags, output string, showTable bool) error {
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

	prog := newProgress(loggerFromContext(ctx))
	positioned, hit, err := runner.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Laid out %d nodes", positioned.NodeCount()))

	if output == "" {
		output = layoutOutputPath(args, flags.caseID)
	}
	if output == "-" {
		data, err := mindmap.Marshal(positioned)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := mindmap.WriteFile(positioned, output); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Layout computed")
	printStats(mapStats{Nodes: positioned.NodeCount(), Edges: positioned.EdgeCount(), Cached: hit})
	printFile(output)
	if showTable {
		printNewline()
		fmt.Fprintln(uiOut, positionTable(positioned.Nodes))
	}
	printNewline()
	printNextStep("Render it", fmt.Sprintf("%s render %s", appName, output))
	return nil
}

// layoutOutputPath derives "<input>.layout.json" or "<case>.layout.json".
func layoutOutputPath(args []string, caseID string) string {
	if len(args) == 0 {
		return caseID + ".layout.json"
	}
	base := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
	return base + ".layout.json"
}

// maxNodesFromConfig maps the config convention (0 disables) onto the
// pipeline one (negative disables, 0 means the default).
func maxNodesFromConfig(n int) int {
	if n == 0 {
		return -1
	}
	return n
}

// positionTable renders node ids, labels and coordinates.
func positionTable(nodes []mindmap.Node) string {
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		x, y := n.Position()
		rows = append(rows, []string{
			n.ID,
			n.DisplayLabel(),
			strconv.FormatFloat(x, 'f', 1, 64),
			strconv.FormatFloat(y, 'f', 1, 64),
		})
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	number := cell.Foreground(colorCyan).Align(lipgloss.Right)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "LABEL", "X", "Y").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return header
			case col >= 2:
				return number
			}
			return cell
		}).
		String()
}
