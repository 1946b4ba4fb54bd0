// Package source loads case mind maps from where the assistant stored them.
//
// [FileSource] reads one JSON file per case and is what the CLI and tests use.
// [MongoSource] reads the mind map embedded in a case thread document.
package source

import (
	"context"

	"github.com/lexora/casemap/pkg/mindmap"
)

// Source loads the mind map of a case.
type Source interface {
	// Load returns the mind map for caseID, or a CASE_NOT_FOUND error.
	Load(ctx context.Context, caseID string) (*mindmap.Graph, error)
}

// normalize maps a missing or partial graph to the empty graph.
func normalize(g *mindmap.Graph) *mindmap.Graph {
	if g == nil || g.Nodes == nil || g.Edges == nil {
		return mindmap.Empty()
	}
	return g
}
