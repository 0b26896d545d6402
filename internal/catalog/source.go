package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/flowerview/flowerview/internal/render"
)

// ErrUnknownClass is returned for a class the catalog does not list.
var ErrUnknownClass = errors.New("class not in catalog")

// Source answers class info lookups from entries loaded into memory.
type Source struct {
	records map[string]string
}

// NewSource builds a Source from entries. A later entry for the same class
// replaces an earlier one.
func NewSource(entries []Entry) *Source {
	records := make(map[string]string, len(entries))
	for _, e := range entries {
		records[e.ClassID] = e.Info
	}
	return &Source{records: records}
}

// Open loads the catalog file at path.
func Open(path string) (*Source, error) {
	entries, err := NewLoader(path).Load()
	if err != nil {
		return nil, err
	}
	slog.Info("Class catalog loaded", "path", path, "classes", len(entries))
	return NewSource(entries), nil
}

// Len returns the number of classes in the catalog.
func (s *Source) Len() int {
	return len(s.records)
}

func (s *Source) ClassInfo(ctx context.Context, classID string) (render.Value, error) {
	if err := ctx.Err(); err != nil {
		return render.Value{}, err
	}
	doc, ok := s.records[classID]
	if !ok {
		return render.Value{}, fmt.Errorf("%w: %s", ErrUnknownClass, classID)
	}
	v, err := render.Parse([]byte(doc))
	if err != nil {
		return render.Value{}, fmt.Errorf("catalog record for %s: %w", classID, err)
	}
	return v, nil
}
