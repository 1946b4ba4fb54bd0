package mindmap

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"

	"github.com/lexora/casemap/pkg/errors"
)

// wireGraph distinguishes a missing array from an empty one.
type wireGraph struct {
	Nodes *[]Node `json:"nodes"`
	Edges *[]Edge `json:"edges"`
}

// Unmarshal decodes a mind map from JSON.
//
// Bytes that are not a JSON object yield an INVALID_GRAPH error. A well-formed
// object missing either array decodes to the empty graph.
func Unmarshal(data []byte) (*Graph, error) {
	var w wireGraph
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode mind map")
	}
	return fromWire(w), nil
}

// Decode reads a mind map from r. See [Unmarshal].
func Decode(r io.Reader) (*Graph, error) {
	var w wireGraph
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode mind map")
	}
	return fromWire(w), nil
}

// ReadFile reads a mind map from a JSON file.
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

func fromWire(w wireGraph) *Graph {
	if w.Nodes == nil || w.Edges == nil {
		return Empty()
	}
	return &Graph{Nodes: *w.Nodes, Edges: *w.Edges}
}

// Marshal encodes g as indented JSON. A nil graph encodes as the empty graph.
func Marshal(g *Graph) ([]byte, error) {
	if g == nil {
		g = Empty()
	}
	out := *g
	if out.Nodes == nil {
		out.Nodes = []Node{}
	}
	if out.Edges == nil {
		out.Edges = []Edge{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes g to path as indented JSON.
func WriteFile(g *Graph, path string) error {
	data, err := Marshal(g)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Hash returns the SHA-256 content hash of g's canonical JSON encoding.
func Hash(g *Graph) string {
	data, _ := Marshal(g)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
