// ABOUTME: Plain-text loader for .txt files and source code
// ABOUTME: Produces a single source unit per file with no page metadata
package loader

import (
	"fmt"
	"os"

	"github.com/atelier-iris/companion/internal/models"
)

// TextLoader reads a whole file as one source unit.
type TextLoader struct{}

// NewTextLoader creates a plain-text loader.
func NewTextLoader() *TextLoader {
	return &TextLoader{}
}

func (l *TextLoader) Extensions() []string {
	return []string{".txt", ".py"}
}

func (l *TextLoader) Load(path string) ([]models.SourceUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return []models.SourceUnit{{
		Content:    string(data),
		SourcePath: path,
	}}, nil
}
