// ABOUTME: Markdown loader splitting files into heading-delimited sections
// ABOUTME: Each top-level section becomes one source unit without page metadata
package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/atelier-iris/companion/internal/models"
)

// MarkdownLoader splits a markdown file on top-level headings so that each
// section embeds and retrieves as a coherent unit. A file without headings
// loads as a single unit.
type MarkdownLoader struct{}

// NewMarkdownLoader creates a markdown loader.
func NewMarkdownLoader() *MarkdownLoader {
	return &MarkdownLoader{}
}

func (l *MarkdownLoader) Extensions() []string {
	return []string{".md"}
}

func (l *MarkdownLoader) Load(path string) ([]models.SourceUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var units []models.SourceUnit
	for _, section := range splitSections(string(data)) {
		if strings.TrimSpace(section) == "" {
			continue
		}
		units = append(units, models.SourceUnit{
			Content:    section,
			SourcePath: path,
		})
	}

	return units, nil
}

// splitSections divides markdown content at # and ## headings. The heading
// line stays with its section so retrieval keeps the topical context.
func splitSections(content string) []string {
	lines := strings.Split(content, "\n")

	var sections []string
	var current []string
	inFence := false

	flush := func() {
		if len(current) > 0 {
			sections = append(sections, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
		}
		// Headings inside code fences are literal text, not structure.
		if !inFence && isTopLevelHeading(trimmed) {
			flush()
		}
		current = append(current, line)
	}
	flush()

	return sections
}

func isTopLevelHeading(line string) bool {
	if strings.HasPrefix(line, "# ") || line == "#" {
		return true
	}
	return strings.HasPrefix(line, "## ") || line == "##"
}
