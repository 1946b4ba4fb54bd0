package cache

// LayoutKeyOpts are the layout parameters that change the computed positions.
type LayoutKeyOpts struct {
	CenterX    float64 `json:"cx"`
	CenterY    float64 `json:"cy"`
	RadiusStep float64 `json:"step"`
	MaxRadius  float64 `json:"max"`
}

// ArtifactKeyOpts are the render parameters that change an artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Engine   string  `json:"engine"`
	ViewboxX float64 `json:"vx"`
	ViewboxY float64 `json:"vy"`
	ViewboxW float64 `json:"vw"`
	ViewboxH float64 `json:"vh"`
	Selected string  `json:"selected,omitempty"`
	Title    string  `json:"title,omitempty"`
	ShowIDs  bool    `json:"ids,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "layout:<hash>" and "artifact:<hash>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey hashes the graph hash together with the layout options.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey hashes the graph hash together with the render options.
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}

var _ Keyer = DefaultKeyer{}
