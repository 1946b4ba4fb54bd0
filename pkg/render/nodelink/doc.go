// Package nodelink exports mind maps to Graphviz.
//
// [ToDOT] writes a directed graph whose node positions are pinned to the
// computed layout, and [RenderSVG]/[RenderPNG] render it with the neato engine
// through go-graphviz so Graphviz draws nodes where the layout put them rather
// than re-laying them out.
//
// Canvas units map to Graphviz points one to one. Graphviz's y axis points up,
// so y is negated on export.
package nodelink
