// Package pkg provides the core libraries for casemap, the mind map engine of
// the Lexora legal assistant.
//
// # Overview
//
// A case mind map is a set of labelled nodes and edges extracted from a legal
// conversation. Casemap places the nodes that carry no coordinates on a
// radial layout, keeps a pannable and zoomable viewbox over the canvas, turns
// pointer input into pans, zooms and node activations, and renders the
// visible region.
//
// # Architecture
//
// The typical data flow:
//
//	Case thread (MongoDB) or mind map JSON
//	         ↓
//	    [source] package (load the stored mind map)
//	         ↓
//	    [mindmap/layout] package (radial placement, memoized per graph)
//	         ↓
//	    [view] + [viewport] packages (viewbox, pan/zoom, hit testing)
//	         ↓
//	    [render] packages (SVG, PNG, PDF, DOT, JSON)
//
// # Quick Start
//
// Lay out and render a mind map:
//
//	g, _ := mindmap.ReadFile("case.json")
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, _ := runner.Execute(ctx, g, pipeline.Options{Formats: []string{"svg"}})
//	os.WriteFile("case.svg", result.Artifacts["svg"], 0o644)
//
// Drive a viewport from pointer events:
//
//	v := view.New()
//	v.SetGraph(g)
//	v.OnActivate(func(n mindmap.Node) { fmt.Println("open", n.ID) })
//	v.PointerDown(viewport.Point{X: 100, Y: 100}, bounds)
//	v.PointerMove(viewport.Point{X: 80, Y: 90})
//	v.PointerUp(viewport.Point{X: 80, Y: 90}, bounds)
//
// # Main Packages
//
// ## Domain
//
// [mindmap] - Nodes, edges and graphs; JSON and BSON encoding; lookups that
// tolerate duplicate ids and dangling edges.
//
// [mindmap/layout] - The radial layout and its per-graph memo.
//
// [viewport] - The viewbox controller: pan gestures, zoom to cursor, and the
// screen/canvas coordinate mapping.
//
// [view] - One mounted mind map: layout, viewport and hit testing together,
// with activations published on an [events] bus.
//
// ## Rendering
//
// [render/svg] - Native SVG output for a scene.
//
// [render/nodelink] - DOT output and Graphviz rendering with pinned positions.
//
// [render] - SVG to PDF/PNG conversion.
//
// ## Infrastructure
//
// [pipeline] - Cached layout and render stages shared by the CLI and the HTTP
// server.
//
// [cache] - File, Redis and no-op caches behind one interface.
//
// [session] - Server-side viewport sessions with idle expiry.
//
// [source] - Case mind map loading from MongoDB or a directory.
//
// [config] - TOML configuration with environment overrides.
//
// [observability] - Hooks for pipeline, cache and session events.
//
// [errors] - Coded errors shared by every layer.
//
// [mindmap]: https://pkg.go.dev/github.com/lexora/casemap/pkg/mindmap
// [mindmap/layout]: https://pkg.go.dev/github.com/lexora/casemap/pkg/mindmap/layout
// [viewport]: https://pkg.go.dev/github.com/lexora/casemap/pkg/viewport
// [view]: https://pkg.go.dev/github.com/lexora/casemap/pkg/view
// [events]: https://pkg.go.dev/github.com/lexora/casemap/pkg/events
// [render]: https://pkg.go.dev/github.com/lexora/casemap/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/lexora/casemap/pkg/render/svg
// [render/nodelink]: https://pkg.go.dev/github.com/lexora/casemap/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/lexora/casemap/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/lexora/casemap/pkg/cache
// [session]: https://pkg.go.dev/github.com/lexora/casemap/pkg/session
// [source]: https://pkg.go.dev/github.com/lexora/casemap/pkg/source
// [config]: https://pkg.go.dev/github.com/lexora/casemap/pkg/config
// [observability]: https://pkg.go.dev/github.com/lexora/casemap/pkg/observability
// [errors]: https://pkg.go.dev/github.com/lexora/casemap/pkg/errors
package pkg
