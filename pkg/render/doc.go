// Package render provides output conversions shared by the mind-map renderers.
//
// The renderers themselves live in subpackages:
//
//   - [svg]: native SVG sink drawing the interactive view's frame
//   - [nodelink]: Graphviz DOT export and Graphviz-rendered SVG/PNG
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG document using the external
// rsvg-convert tool (from librsvg):
//
//	doc := svg.Render(scene)
//	pdf, err := render.ToPDF(ctx, doc)
//	png, err := render.ToPNG(ctx, doc, 2.0) // 2x scale
package render
