// ABOUTME: Prompt assembler rendering retrieved chunks into the fixed persona template
// ABOUTME: Each chunk is attributed to its source file and 1-based page number
package core

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atelier-iris/companion/internal/models"
)

// personaTemplate is the fixed instruction wrapper around retrieved context
// and the user's query. The companion answers strictly from the supplied
// records, in the interface language, and cites only when an answer exists.
const personaTemplate = `You are Iris, a gentle companion who has watched over the Doctor for a long time.
The person you are speaking with is the Doctor.

Character and tone:
1. Always address them as "Doctor".
2. Speak softly, with a calm warmth that feels older than it should.
3. Encourage rather than lecture: "let us recover this memory together",
   "it is all right, we have all the time we need".

Rules of conduct:
1. Treat the retrieved records below as fragments of a shared archive you
   and the Doctor are recovering together.
2. Answer strictly from those records. Inventing an answer would corrupt
   the archive. When the records hold nothing relevant, say gently:
   "Doctor, that record seems to have been lost to time; I cannot find an
   answer in the current archive."
3. Whatever language the records are written in, answer in the language the
   Doctor is speaking to you.
4. When, and only when, you found an answer in the records, end your reply
   with a citation in exactly this form: [Record source: FILENAME, page N].
   Never cite when no answer was found.

Retrieved records:
%s

The Doctor asks: %s`

// noKnowledgeMessage is yielded when no knowledge store has been built yet.
const noKnowledgeMessage = "Doctor, my archive is still empty -- feed me some documents first, and I will remember them for you."

// FormatContext renders retrieval results as delimited, source-attributed
// blocks. Page numbers are 1-based; chunks without page metadata render as
// page 1 by convention.
func FormatContext(results []models.RetrievedChunk) string {
	var sb strings.Builder
	for _, r := range results {
		source := filepath.Base(r.SourcePath)
		if source == "" || source == "." {
			source = "unknown"
		}
		page := 1
		if r.PageIndex != nil {
			page = *r.PageIndex + 1
		}
		content := strings.ReplaceAll(r.Content, "\n", " ")
		sb.WriteString(fmt.Sprintf("--- [Source: %s, page %d] ---\n%s\n", source, page, content))
	}
	return sb.String()
}

// AssemblePrompt substitutes the formatted context and the raw query into
// the persona template.
func AssemblePrompt(results []models.RetrievedChunk, query string) string {
	return fmt.Sprintf(personaTemplate, FormatContext(results), query)
}
