package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lexora/casemap/pkg/pipeline"
	"github.com/lexora/casemap/pkg/viewport"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	layoutFlags
	output   string  // output file (single format) or base path (multiple)
	formats  string  // comma-separated output formats
	engine   string  // native or graphviz
	viewbox  string  // "x,y,w,h", empty for the configured initial viewbox
	selected string  // node id to highlight
	title    string  // document title
	showIDs  bool    // append node ids to labels (dot)
	scale    float64 // PNG scale factor
	refresh  bool    // ignore cached results
}

// renderCommand creates the render command for generating visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [mindmap.json]",
		Short: "Render a mind map to SVG, PNG, PDF, DOT or JSON",
		Long: `Render a mind map to SVG, PNG, PDF, DOT or JSON.

The mind map is laid out first, then drawn through the given viewbox. Edges
whose endpoints are missing are skipped; a mind map without nodes renders a
placeholder reading "No mind map to display."

PNG and PDF conversion needs rsvg-convert on PATH, or --engine graphviz.`,
		Example: `  # SVG next to the input
  casemap render case.json

  # Zoomed-in PNG and PDF with a node highlighted
  casemap render case.json -f png,pdf --viewbox 250,150,500,300 --selected n3

  # A stored case, through Graphviz
  casemap render --case 8f2c --engine graphviz -o case`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.engine, "engine", pipeline.EngineNative, "render engine: native, graphviz")
	cmd.Flags().StringVar(&opts.viewbox, "viewbox", "", "visible canvas region as x,y,w,h (default from config)")
	cmd.Flags().StringVar(&opts.selected, "selected", "", "id of the node to highlight")
	cmd.Flags().StringVar(&opts.title, "title", "", "document title")
	cmd.Flags().BoolVar(&opts.showIDs, "show-ids", false, "append node ids to labels (dot)")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultPNGScale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

// runRender lays out and renders the mind map, then writes one file per format.
func (c *CLI) runRender(ctx context.Context, args []string, ro renderOpts) error {
	formats := parseFormats(ro.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}
	if err := pipeline.ValidateEngine(ro.engine); err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	vb := cfg.Viewport.Initial
	if ro.viewbox != "" {
		if vb, err = viewport.ParseViewbox(ro.viewbox); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(ctx, cfg, ro.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, err := loadGraph(ctx, runner, args, ro.caseID)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		Layout:   cfg.Layout,
		MaxNodes: maxNodesFromConfig(cfg.Server.MaxNodes),
		Formats:  formats,
		Engine:   ro.engine,
		Viewbox:  &vb,
		Selected: ro.selected,
		Title:    ro.title,
		ShowIDs:  ro.showIDs,
		PNGScale: ro.scale,
		Refresh:  ro.refresh,
	}
	ro.apply(&opts)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(formats, ", ")))
	if !c.verbose() {
		spinner.Start()
	}
	result, err := runner.Execute(ctx, g, opts)
	spinner.Stop()
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(result.Artifacts, formats, renderBasePath(args, ro.caseID, ro.output), ro.output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", strings.Join(formats, ", "))
	printStats(mapStats{Nodes: result.Stats.NodeCount, Edges: result.Stats.EdgeCount, Cached: result.CacheInfo.RenderHit})
	printViewbox(vb)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// verbose reports whether debug logging is on, in which case log lines would
// interleave with the spinner.
func (c *CLI) verbose() bool {
	return c.Logger.GetLevel() <= LogDebug
}

// renderBasePath returns the path artifacts are named after, without extension.
func renderBasePath(args []string, caseID, output string) string {
	switch {
	case output != "":
		return strings.TrimSuffix(output, filepath.Ext(output))
	case len(args) > 0:
		return strings.TrimSuffix(args[0], filepath.Ext(args[0]))
	}
	return caseID
}

// writeArtifacts writes each format to <base>.<format>, JSON to
// <base>.layout.json so it never replaces the input. A single format with an
// explicit output path is written to that path as given.
func writeArtifacts(artifacts map[string][]byte, formats []string, base, output string) ([]string, error) {
	var paths []string
	for _, f := range formats {
		path := base + "." + f
		if f == pipeline.FormatJSON {
			path = base + ".layout.json"
		}
		if len(formats) == 1 && output != "" {
			path = output
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
