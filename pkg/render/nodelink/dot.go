package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/lexora/casemap/pkg/view"
)

// pointsPerInch converts canvas units (treated as points) to Graphviz inches.
const pointsPerInch = 72.0

// Options configures DOT export.
type Options struct {
	// ShowIDs appends the node id under its label.
	ShowIDs bool
}

// ToDOT converts a scene to Graphviz DOT with pinned positions.
// Edges follow the scene, so dangling edges are already excluded.
func ToDOT(s view.Scene, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fillcolor=white, color=\"#6366f1\", penwidth=2, fontsize=14, fixedsize=true, width=%s, height=%s];\n",
		inches(view.DefaultNodeWidth), inches(view.DefaultNodeHeight))
	buf.WriteString("  edge [color=\"#9ca3af\", fontcolor=\"#6b7280\", fontsize=12, arrowsize=0.6];\n")
	buf.WriteString("\n")

	seen := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		if seen[n.ID] || !n.HasPosition() {
			continue
		}
		seen[n.ID] = true
		x, y := n.Position()
		label := n.DisplayLabel()
		if opts.ShowIDs && n.Label != "" {
			label += "\n" + n.ID
		}
		fmt.Fprintf(&buf, "  %q [label=%q, pos=\"%s,%s!\"];\n", n.ID, label, num(x), num(-y))
	}

	buf.WriteString("\n")
	for _, e := range s.Edges {
		if e.Edge.Label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.Edge.Source, e.Edge.Target, e.Edge.Label)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Edge.Source, e.Edge.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders DOT to SVG with the neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.SVG)
}

// RenderPNG renders DOT to PNG with the neato engine.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

func inches(units float64) string {
	return strconv.FormatFloat(units/pointsPerInch, 'f', 3, 64)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
