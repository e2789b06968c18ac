package genai

import (
	"context"

	"github.com/mikael-ade/transdoc/internal/models"
)

// Request is a single structured-generation call. Document is optional; when
// present its bytes are attached inline alongside the instruction. Schema is
// optional; when present the model is asked for JSON and the response is
// expected to validate against it.
type Request struct {
	Instruction string
	Document    *models.RawDocument
	Schema      map[string]any
}

// Generator is the interface the extraction and translation layers depend on.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
