// ABOUTME: PDF loader producing one source unit per page
// ABOUTME: Page indices are zero-based; unreadable pages are skipped
package loader

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ledongthuc/pdf"

	"github.com/atelier-iris/companion/internal/models"
)

// PDFLoader extracts plain text from PDF files page by page.
type PDFLoader struct{}

// NewPDFLoader creates a PDF loader.
func NewPDFLoader() *PDFLoader {
	return &PDFLoader{}
}

func (l *PDFLoader) Extensions() []string {
	return []string{".pdf"}
}

// Load returns one SourceUnit per page with a zero-based PageIndex.
// Pages whose text extraction fails are skipped, not fatal; a file that
// cannot be opened at all is an error so the pipeline can retry it later.
func (l *PDFLoader) Load(path string) ([]models.SourceUnit, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	var units []models.SourceUnit
	numPages := reader.NumPage()
	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Warn("skipping unreadable pdf page", "path", path, "page", pageNum, "err", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		units = append(units, models.SourceUnit{
			Content:    text,
			SourcePath: path,
			PageIndex:  models.PageRef(pageNum - 1),
		})
	}

	return units, nil
}
