package source

import (
	"context"
	"os"
	"path/filepath"

	"github.com/lexora/casemap/pkg/errors"
	"github.com/lexora/casemap/pkg/mindmap"
)

// FileSource reads <Dir>/<caseID>.json.
type FileSource struct {
	Dir string
}

// NewFileSource creates a file source rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

// Load reads and decodes the case file.
func (s *FileSource) Load(ctx context.Context, caseID string) (*mindmap.Graph, error) {
	if err := errors.ValidateCaseID(caseID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.Dir, caseID+".json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeCaseNotFound, "case %q not found", caseID)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read case %q", caseID)
	}
	g, err := mindmap.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return normalize(g), nil
}

var _ Source = (*FileSource)(nil)
