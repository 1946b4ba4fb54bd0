// Package mindmap provides the data model for case mind maps.
//
// A mind map is the graph of entities and relationships the assistant extracts
// from a case conversation. It arrives from the AI backend as JSON, is laid out
// by [github.com/lexora/casemap/pkg/mindmap/layout], and is drawn by the
// renderers under pkg/render.
//
// # Core Types
//
//   - [Graph]: the node/edge structure, treated as immutable once received
//   - [Node]: an entity with an optional fixed position
//   - [Edge]: a labeled directed relationship between two nodes
//   - [Segment]: an edge whose endpoints both resolved to positioned nodes
//
// # Wire Format
//
//	{
//	  "nodes": [{"id": "p1", "label": "Plaintiff"}, {"id": "c1", "label": "Contract", "x": 120, "y": 80}],
//	  "edges": [{"source": "p1", "target": "c1", "label": "signed"}]
//	}
//
// Node coordinates are optional. A graph missing its nodes or edges array is
// decoded as the empty graph rather than rejected, since upstream model output
// is occasionally incomplete.
//
// # Identity
//
// A new *Graph value is a new graph. Consumers that cache derived data (such as
// layouts) key it on the pointer, not on content.
package mindmap
