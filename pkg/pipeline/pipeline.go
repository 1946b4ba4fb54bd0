// Package pipeline runs the layout and render stages shared by the CLI and
// the HTTP server.
//
// # Stages
//
//  1. Layout: place every unpositioned node on the radial layout
//  2. Render: produce artifacts (SVG, PNG, PDF, JSON, DOT) for a viewbox
//
// Both stages are cached through a [cache.Cache] under content-addressed
// keys, so the same graph and options are never laid out or rendered twice.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, g, pipeline.Options{Formats: []string{"svg"}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lexora/casemap/pkg/cache"
	"github.com/lexora/casemap/pkg/errors"
	"github.com/lexora/casemap/pkg/mindmap"
	"github.com/lexora/casemap/pkg/mindmap/layout"
	"github.com/lexora/casemap/pkg/viewport"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultMaxNodes rejects graphs too large to lay out interactively.
const DefaultMaxNodes = 5000

// DefaultPNGScale renders PNGs for high-DPI screens.
const DefaultPNGScale = 2.0

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// Render engines.
const (
	// EngineNative draws SVG directly from the scene.
	EngineNative = "native"
	// EngineGraphviz renders through Graphviz with pinned positions.
	EngineGraphviz = "graphviz"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidEngines is the set of supported render engines.
var ValidEngines = map[string]bool{
	EngineNative:   true,
	EngineGraphviz: true,
}

// ContentTypes maps formats to HTTP content types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. It supports JSON for API requests.
type Options struct {
	// Layout options
	Layout   layout.Config `json:"layout"`
	MaxNodes int           `json:"max_nodes,omitempty"` // negative disables the limit

	// Render options
	Formats  []string          `json:"formats,omitempty"`
	Engine   string            `json:"engine,omitempty"`
	Viewbox  *viewport.Viewbox `json:"viewbox,omitempty"` // nil means the default viewbox
	Selected string            `json:"selected,omitempty"`
	Title    string            `json:"title,omitempty"`
	ShowIDs  bool              `json:"show_ids,omitempty"`
	PNGScale float64           `json:"png_scale,omitempty"`
	Refresh  bool              `json:"refresh,omitempty"` // bypass cached results

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the graph with every node positioned.
	Graph *mindmap.Graph

	// GraphHash is the content hash of the input graph.
	GraphHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEngine checks that a render engine is valid.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid engine: %q (must be one of: native, graphviz)", engine)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults for both stages and validates.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults fills an unset layout configuration.
func (o *Options) SetLayoutDefaults() {
	if o.Layout == (layout.Config{}) {
		o.Layout = layout.DefaultConfig()
	}
	if o.MaxNodes == 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets layout defaults and validates them.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Layout.RadiusStep < 0 || o.Layout.MaxRadius < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "layout radius values must not be negative")
	}
	return nil
}

// SetRenderDefaults fills unset render options.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Engine == "" {
		o.Engine = EngineNative
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets render defaults and validates them.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	if o.Viewbox != nil && !o.Viewbox.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "viewbox must have positive width and height")
	}
	return nil
}

// ViewboxOrDefault returns the requested viewbox or the default one.
func (o *Options) ViewboxOrDefault() viewport.Viewbox {
	if o.Viewbox != nil {
		return *o.Viewbox
	}
	return viewport.DefaultViewbox
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		CenterX:    o.Layout.CenterX,
		CenterY:    o.Layout.CenterY,
		RadiusStep: o.Layout.RadiusStep,
		MaxRadius:  o.Layout.MaxRadius,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	vb := o.ViewboxOrDefault()
	return cache.ArtifactKeyOpts{
		Format:   format,
		Engine:   o.Engine,
		ViewboxX: vb.X,
		ViewboxY: vb.Y,
		ViewboxW: vb.W,
		ViewboxH: vb.H,
		Selected: o.Selected,
		Title:    o.Title,
		ShowIDs:  o.ShowIDs,
		Scale:    o.PNGScale,
	}
}
