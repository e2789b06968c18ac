package genai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mikael-ade/transdoc/internal/models"
)

// BuildTabularExtractionPrompt composes the instruction for extracting
// row/column-structured content from an attached document. When a translation
// target is set, the translation instruction rides on the same request; there
// is never a second round trip for AI-extracted documents.
func BuildTabularExtractionPrompt(target models.TranslationTarget) string {
	parts := []string{
		"Extract all row and column structured content from the attached document.",
		"Return ONLY a JSON object with a single field 'data' holding an array of rows,",
		"where each row is an array of cell strings.",
		"The first row should hold the column headers when the document has any.",
		"Use an empty string for blank cells. Never output null.",
	}
	if !target.IsNone() {
		parts = append(parts, translationClause(target))
	}
	return strings.Join(parts, " ")
}

// BuildTextExtractionPrompt composes the instruction for layout-preserving
// extraction of all content as one text block. No schema constrains this
// response; the returned text is used verbatim.
func BuildTextExtractionPrompt(target models.TranslationTarget) string {
	parts := []string{
		"Extract ALL content from the attached document as plain text,",
		"preserving the layout: headings, paragraphs, lists, and tables,",
		"with line breaks where the document has them.",
		"Return only the extracted text, no commentary.",
	}
	if !target.IsNone() {
		parts = append(parts, translationClause(target))
	}
	return strings.Join(parts, " ")
}

// BuildUnitTranslationPrompt composes the per-unit instruction for the native
// spreadsheet path. The unit's full matrix is embedded as JSON request
// content.
func BuildUnitTranslationPrompt(rows [][]string, target models.TranslationTarget) (string, error) {
	matrix, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("marshal unit matrix: %w", err)
	}
	parts := []string{
		fmt.Sprintf("Translate every cell of the following table into %s.", string(target)),
		"Keep the table shape exactly: same number of rows, same cells per row.",
		"Do not translate numbers, dates, codes, or URLs; copy them through unchanged.",
		"Return ONLY a JSON object with a single field 'translatedData' holding the translated array of rows.",
		"Table (JSON array of rows):",
		string(matrix),
	}
	return strings.Join(parts, " "), nil
}

func translationClause(target models.TranslationTarget) string {
	return fmt.Sprintf("Additionally, translate all extracted content into %s before returning it.", string(target))
}
