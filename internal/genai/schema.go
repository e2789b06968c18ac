package genai

// TabularResponseSchema returns the JSON-Schema (draft 2020-12 subset) for a
// tabular extraction response as a generic map. We pass this to the provider
// as a structured output constraint and also use it locally to validate.
func TabularResponseSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"data": matrixProp(),
		},
		"required": []string{"data"},
	}
}

// TranslationResponseSchema returns the schema for a per-unit translation
// response.
func TranslationResponseSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"translatedData": matrixProp(),
		},
		"required": []string{"translatedData"},
	}
}

// matrixProp describes a row-major matrix of cell strings. Rows may have
// different lengths.
func matrixProp() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	}
}
