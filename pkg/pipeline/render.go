package pipeline

import (
	"context"
	"time"

	"github.com/lexora/casemap/pkg/errors"
	"github.com/lexora/casemap/pkg/mindmap"
	"github.com/lexora/casemap/pkg/observability"
	"github.com/lexora/casemap/pkg/render"
	"github.com/lexora/casemap/pkg/render/nodelink"
	"github.com/lexora/casemap/pkg/render/svg"
	"github.com/lexora/casemap/pkg/view"
)

// Render generates artifacts for a positioned graph in the requested formats.
// Unpositioned nodes are left out of the drawing.
func Render(ctx context.Context, g *mindmap.Graph, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	if g == nil {
		g = mindmap.Empty()
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, err := renderFormats(ctx, g, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderFormats(ctx context.Context, g *mindmap.Graph, opts Options) (map[string][]byte, error) {
	scene := SceneOf(g, opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	// SVG feeds PNG and PDF conversion, so render it at most once.
	var svgDoc []byte
	svgOnce := func() ([]byte, error) {
		if svgDoc != nil {
			return svgDoc, nil
		}
		var err error
		svgDoc, err = renderSVG(ctx, g, scene, opts)
		return svgDoc, err
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = svgOnce()
		case FormatPNG:
			if opts.Engine == EngineGraphviz && !g.IsEmpty() {
				data, err = nodelink.RenderPNG(ctx, nodelink.ToDOT(scene, nodelink.Options{ShowIDs: opts.ShowIDs}))
				break
			}
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPNG(ctx, data, opts.PNGScale)
			}
		case FormatPDF:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPDF(ctx, data)
			}
		case FormatJSON:
			data, err = mindmap.Marshal(g)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(scene, nodelink.Options{ShowIDs: opts.ShowIDs}))
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			if errors.GetCode(err) != "" {
				return nil, err
			}
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// SceneOf builds the frame for g at the requested viewbox.
func SceneOf(g *mindmap.Graph, opts Options) view.Scene {
	return view.Scene{
		Viewbox: opts.ViewboxOrDefault(),
		Nodes:   g.Nodes,
		Edges:   mindmap.RenderableEdges(g.Nodes, g.Edges),
	}
}

func renderSVG(ctx context.Context, g *mindmap.Graph, scene view.Scene, opts Options) ([]byte, error) {
	if g.IsEmpty() {
		return svg.RenderEmpty(view.EmptyMessage), nil
	}
	if opts.Engine == EngineGraphviz {
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(scene, nodelink.Options{ShowIDs: opts.ShowIDs}))
	}
	var svgOpts []svg.Option
	if opts.Title != "" {
		svgOpts = append(svgOpts, svg.WithTitle(opts.Title))
	}
	if opts.Selected != "" {
		svgOpts = append(svgOpts, svg.WithSelected(opts.Selected))
	}
	return svg.Render(scene, svgOpts...), nil
}
