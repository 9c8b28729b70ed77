// ABOUTME: Document loader registry mapping file extensions to loading strategies
// ABOUTME: New formats are added by registering a Loader implementation
package loader

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"

	"github.com/atelier-iris/companion/internal/models"
)

// ErrUnsupported is returned when no loader is registered for a file's
// extension. Callers are expected to skip the file, not abort.
var ErrUnsupported = errors.New("unsupported file extension")

// Loader turns one file into one or more text-bearing source units.
type Loader interface {
	// Load reads the file and returns its source units with provenance.
	Load(path string) ([]models.SourceUnit, error)

	// Extensions returns the lowercased file extensions this loader handles,
	// including the leading dot.
	Extensions() []string
}

// Registry dispatches by file extension (case-insensitive) to a Loader.
type Registry struct {
	loaders map[string]Loader
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{loaders: make(map[string]Loader)}
}

// DefaultRegistry returns a registry with the built-in loaders:
// paginated PDF, plain text (.txt, .py), and markdown.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewPDFLoader())
	r.Register(NewTextLoader())
	r.Register(NewMarkdownLoader())
	return r
}

// Register wires a loader for every extension it reports. Later
// registrations win on conflict.
func (r *Registry) Register(l Loader) {
	for _, ext := range l.Extensions() {
		r.loaders[strings.ToLower(ext)] = l
	}
}

// Load dispatches to the loader registered for the file's extension.
// Returns ErrUnsupported when no loader matches.
func (r *Registry) Load(path string) ([]models.SourceUnit, error) {
	ext := strings.ToLower(filepath.Ext(path))
	l, ok := r.loaders[ext]
	if !ok {
		return nil, ErrUnsupported
	}
	return l.Load(path)
}

// Supports reports whether a loader is registered for the file's extension.
func (r *Registry) Supports(path string) bool {
	_, ok := r.loaders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extensions returns all registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.loaders))
	for ext := range r.loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
