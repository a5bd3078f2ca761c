// Package patch implements the sparse dotted-path update contract.
//
// Every mutation of a stored document is a map from field path to new value.
// A path is either a top-level field name ("teamName") or a dotted path into
// a nested object ("status.brief", "dietary.gf"). Applying a patch merges
// each value at its addressed path and leaves every sibling untouched, which
// is what lets two clients toggle different flags of the same record without
// clobbering each other.
//
// Array-valued fields are the exception: they are always replaced wholesale
// at a top-level key, never spliced by index. Callers read-modify-write the
// full slice and accept the race window that implies.
package patch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyPatch is returned when a patch carries no paths.
	ErrEmptyPatch = errors.New("patch has no fields")

	// ErrBadPath is returned for paths with empty segments.
	ErrBadPath = errors.New("invalid field path")
)

// Patch maps dotted field paths to their new values.
type Patch map[string]any

// Validate checks that the patch is non-empty and every path is well formed:
// no empty paths, no leading/trailing dots, no empty segments.
func (p Patch) Validate() error {
	if len(p) == 0 {
		return ErrEmptyPatch
	}
	for path := range p {
		if path == "" {
			return fmt.Errorf("%w: empty path", ErrBadPath)
		}
		for _, seg := range strings.Split(path, ".") {
			if seg == "" {
				return fmt.Errorf("%w: %q", ErrBadPath, path)
			}
		}
	}
	return nil
}

// Paths returns the field paths the patch touches.
func (p Patch) Paths() []string {
	paths := make([]string, 0, len(p))
	for path := range p {
		paths = append(paths, path)
	}
	return paths
}

// Apply merges the patch into doc in place. Intermediate objects are created
// as needed; an existing non-object value along a path is replaced by an
// object so the leaf can be set. Values at the leaf always overwrite, which
// makes array fields whole-replace by construction.
func Apply(doc map[string]any, p Patch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	for path, value := range p {
		segments := strings.Split(path, ".")
		node := doc
		for _, seg := range segments[:len(segments)-1] {
			child, ok := node[seg].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[seg] = child
			}
			node = child
		}
		node[segments[len(segments)-1]] = value
	}
	return nil
}
