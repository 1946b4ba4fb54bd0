package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lexora/casemap/pkg/mindmap"
	"github.com/lexora/casemap/pkg/view"
	"github.com/lexora/casemap/pkg/viewport"
)

// Terminal cells are mapped onto a virtual screen of cellWidth x cellHeight
// pixels each, so a 100x30 cell canvas is the 1000x600 default viewbox.
const (
	cellWidth  = 10.0
	cellHeight = 20.0

	headerLines = 2
	footerLines = 1

	defaultCols = 100
	defaultRows = 30 + headerLines + footerLines

	maxLabelWidth = 18
	maxEdgeLabel  = 12

	// keyPanFraction is how far an arrow key moves the viewbox.
	keyPanFraction = 0.1
)

var (
	viewerNodeStyle     = lipgloss.NewStyle().Foreground(colorWhite)
	viewerSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	viewerEdgeStyle     = lipgloss.NewStyle().Foreground(colorDim)
	viewerPanelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorCyan).Padding(0, 1)
)

// =============================================================================
// Detail Panel
// =============================================================================

// detailPanel shows the node a click activated. It is shared by pointer
// between model copies because activations arrive through the view's bus.
type detailPanel struct {
	node mindmap.Node
	open bool
}

func (p *detailPanel) show(n mindmap.Node) {
	p.node = n
	p.open = true
}

func (p *detailPanel) close() { p.open = false }

// =============================================================================
// MapViewerModel - Interactive mind map viewer
// =============================================================================

// MapViewerModel is the bubbletea model for browsing a mind map. Dragging the
// background pans, the wheel zooms to the cursor, and clicking a node opens
// its details.
type MapViewerModel struct {
	Map    *view.View
	Title  string
	Width  int
	Height int

	panel *detailPanel
}

// NewMapViewerModel creates a viewer for v and subscribes to its activations.
func NewMapViewerModel(v *view.View, title string) MapViewerModel {
	panel := &detailPanel{}
	v.OnActivate(panel.show)
	return MapViewerModel{
		Map:    v,
		Title:  title,
		Width:  defaultCols,
		Height: defaultRows,
		panel:  panel,
	}
}

// Selected returns the node shown in the detail panel, if it is open.
func (m MapViewerModel) Selected() (mindmap.Node, bool) {
	return m.panel.node, m.panel.open
}

func (m MapViewerModel) Init() tea.Cmd {
	return nil
}

func (m MapViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.BlurMsg:
		m.Map.PointerLeave()
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
	}
	return m, nil
}

func (m MapViewerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.Map.Controller()
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.panel.close()
	case "up", "k":
		m.panBy(0, -1)
	case "down", "j":
		m.panBy(0, 1)
	case "left", "h":
		m.panBy(-1, 0)
	case "right", "l":
		m.panBy(1, 0)
	case "+", "=":
		m.Map.Wheel(m.center(), -1, m.bounds())
	case "-", "_":
		m.Map.Wheel(m.center(), 1, m.bounds())
	case "r", "0":
		ctrl.Reset()
	}
	return m, nil
}

func (m MapViewerModel) handleMouse(msg tea.MouseMsg) {
	p := cellPoint(msg.X, msg.Y)
	b := m.bounds()
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.Map.Wheel(p, -1, b)
		case tea.MouseButtonWheelDown:
			m.Map.Wheel(p, 1, b)
		case tea.MouseButtonLeft:
			m.Map.PointerDown(p, b)
		}
	case tea.MouseActionMotion:
		m.Map.PointerMove(p)
	case tea.MouseActionRelease:
		m.Map.PointerUp(p, b)
	}
}

// panBy shifts the viewbox by a fraction of its size in the given direction.
func (m MapViewerModel) panBy(dx, dy float64) {
	if m.Map.Empty() {
		return
	}
	ctrl := m.Map.Controller()
	vb := ctrl.Viewbox()
	vb.X += dx * vb.W * keyPanFraction
	vb.Y += dy * vb.H * keyPanFraction
	ctrl.SetViewbox(vb)
}

// canvasSize returns the canvas area in cells.
func (m MapViewerModel) canvasSize() (cols, rows int) {
	cols = max(m.Width, 1)
	rows = max(m.Height-headerLines-footerLines, 1)
	return cols, rows
}

// bounds is the canvas area on the virtual screen.
func (m MapViewerModel) bounds() viewport.Bounds {
	cols, rows := m.canvasSize()
	return viewport.Bounds{
		Left:   0,
		Top:    headerLines * cellHeight,
		Width:  float64(cols) * cellWidth,
		Height: float64(rows) * cellHeight,
	}
}

func (m MapViewerModel) center() viewport.Point {
	b := m.bounds()
	return viewport.Point{X: b.Left + b.Width/2, Y: b.Top + b.Height/2}
}

// cellPoint returns the virtual screen point at the middle of a cell.
func cellPoint(col, row int) viewport.Point {
	return viewport.Point{
		X: (float64(col) + 0.5) * cellWidth,
		Y: (float64(row) + 0.5) * cellHeight,
	}
}

func (m MapViewerModel) View() string {
	var b strings.Builder

	ctrl := m.Map.Controller()
	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("viewbox " + ctrl.Viewbox().String() + " · " + ctrl.State().String()))
	b.WriteString("\n")

	cols, rows := m.canvasSize()
	var canvas []string
	if scene, ok := m.Map.Scene(); ok {
		canvas = m.drawScene(scene, cols, rows)
	} else {
		canvas = strings.Split(lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, StyleDim.Render(view.EmptyMessage)), "\n")
	}
	if node, open := m.Selected(); open {
		canvas = overlayBottom(canvas, m.renderPanel(node, cols))
	}
	b.WriteString(strings.Join(canvas, "\n"))
	b.WriteString("\n")

	b.WriteString(StyleDim.Render("drag pan · wheel/+/- zoom · arrows move · r reset · click details · esc close · q quit"))
	return b.String()
}

// =============================================================================
// Drawing
// =============================================================================

// cellStyle tags a grid cell so runs of equally styled cells render together.
type cellStyle uint8

const (
	cellBlank cellStyle = iota
	cellEdge
	cellNode
	cellSelected
)

type grid struct {
	cols, rows int
	runes      [][]rune
	styles     [][]cellStyle
}

func newGrid(cols, rows int) *grid {
	g := &grid{cols: cols, rows: rows}
	g.runes = make([][]rune, rows)
	g.styles = make([][]cellStyle, rows)
	for r := range g.runes {
		g.runes[r] = []rune(strings.Repeat(" ", cols))
		g.styles[r] = make([]cellStyle, cols)
	}
	return g
}

func (g *grid) set(col, row int, r rune, s cellStyle) {
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return
	}
	g.runes[row][col] = r
	g.styles[row][col] = s
}

func (g *grid) text(col, row int, s string, style cellStyle) {
	for i, r := range []rune(s) {
		g.set(col+i, row, r, style)
	}
}

// line draws a straight line of dots between two cells.
func (g *grid) line(c0, r0, c1, r1 int) {
	steps := max(abs(c1-c0), abs(r1-r0))
	if steps == 0 {
		g.set(c0, r0, '·', cellEdge)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c := int(math.Round(float64(c0) + t*float64(c1-c0)))
		r := int(math.Round(float64(r0) + t*float64(r1-r0)))
		g.set(c, r, '·', cellEdge)
	}
}

func (g *grid) lines() []string {
	out := make([]string, g.rows)
	for r := range g.runes {
		var b strings.Builder
		start := 0
		for c := 1; c <= g.cols; c++ {
			if c < g.cols && g.styles[r][c] == g.styles[r][start] {
				continue
			}
			b.WriteString(renderRun(string(g.runes[r][start:c]), g.styles[r][start]))
			start = c
		}
		out[r] = b.String()
	}
	return out
}

func renderRun(s string, style cellStyle) string {
	switch style {
	case cellEdge:
		return viewerEdgeStyle.Render(s)
	case cellNode:
		return viewerNodeStyle.Render(s)
	case cellSelected:
		return viewerSelectedStyle.Render(s)
	}
	return s
}

// drawScene draws edges first so node labels stay readable on top.
func (m MapViewerModel) drawScene(scene view.Scene, cols, rows int) []string {
	g := newGrid(cols, rows)
	b := m.bounds()
	toCell := func(x, y float64) (int, int, bool) {
		s, ok := viewport.CanvasToScreen(viewport.Point{X: x, Y: y}, scene.Viewbox, b)
		if !ok {
			return 0, 0, false
		}
		return int(math.Floor(s.X / cellWidth)), int(math.Floor((s.Y - b.Top) / cellHeight)), true
	}

	for _, seg := range scene.Edges {
		x0, y0 := seg.From.Position()
		x1, y1 := seg.To.Position()
		c0, r0, ok0 := toCell(x0, y0)
		c1, r1, ok1 := toCell(x1, y1)
		if !ok0 || !ok1 {
			continue
		}
		g.line(c0, r0, c1, r1)
		if seg.Edge.Label != "" {
			mx, my := seg.Midpoint()
			if c, r, ok := toCell(mx, my); ok {
				label := truncate(seg.Edge.Label, maxEdgeLabel)
				g.text(c-len([]rune(label))/2, r, label, cellEdge)
			}
		}
	}

	selected, open := m.Selected()
	for _, n := range scene.Nodes {
		if !n.HasPosition() {
			continue
		}
		c, r, ok := toCell(n.Position())
		if !ok {
			continue
		}
		label := "[" + truncate(n.DisplayLabel(), maxLabelWidth) + "]"
		style := cellNode
		if open && n.ID == selected.ID {
			style = cellSelected
		}
		g.text(c-len([]rune(label))/2, r, label, style)
	}
	return g.lines()
}

func (m MapViewerModel) renderPanel(n mindmap.Node, cols int) string {
	body := StyleTitle.Render(n.DisplayLabel()) + "\n" +
		StyleDim.Render("id    ") + StyleValue.Render(n.ID)
	if n.HasPosition() {
		x, y := n.Position()
		body += "\n" + StyleDim.Render("at    ") + StyleNumber.Render(fmt.Sprintf("%.0f, %.0f", x, y))
	}
	body += "\n" + StyleDim.Render("esc to close")
	return viewerPanelStyle.MaxWidth(cols).Render(body)
}

// overlayBottom replaces the last lines of canvas with panel.
func overlayBottom(canvas []string, panel string) []string {
	panelLines := strings.Split(panel, "\n")
	start := max(len(canvas)-len(panelLines), 0)
	out := append([]string(nil), canvas[:start]...)
	for i := start; i < len(canvas); i++ {
		out = append(out, panelLines[i-start])
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
