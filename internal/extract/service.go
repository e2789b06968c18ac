// Package extract drives AI-based structured extraction of a single uploaded
// document. Both operations fold an optional translation instruction into the
// extraction request itself, so a document costs exactly one model round trip.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mikael-ade/transdoc/constants"
	"github.com/mikael-ade/transdoc/internal/common"
	"github.com/mikael-ade/transdoc/internal/genai"
	"github.com/mikael-ade/transdoc/internal/models"
)

// ExtractedUnitName is the display name of the single unit an AI tabular
// extraction produces.
const ExtractedUnitName = "Extracted Data"

type Service struct {
	gen    genai.Generator
	logger *slog.Logger
}

func NewService(gen genai.Generator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{gen: gen, logger: logger}
}

// ExtractTabular asks the model for row/column-structured content under the
// {data: [][]string} schema. On any failure the operation aborts whole: no
// partial result is ever returned.
func (s *Service) ExtractTabular(ctx context.Context, doc *models.RawDocument, target models.TranslationTarget) (models.Result, error) {
	if err := checkDocument(doc); err != nil {
		return models.Result{}, err
	}

	start := time.Now()
	s.logger.Info("extract.tabular.start",
		"filename", doc.Filename,
		"kind", string(doc.Kind),
		"bytes", len(doc.Data),
		"target", string(target),
	)

	schema := genai.TabularResponseSchema()
	raw, err := s.gen.Generate(ctx, genai.Request{
		Instruction: genai.BuildTabularExtractionPrompt(target),
		Document:    doc,
		Schema:      schema,
	})
	if err != nil {
		return models.Result{}, wrapGenerateError(err)
	}

	var payload struct {
		Data [][]string `json:"data"`
	}
	if err := genai.DecodeStructured(schema, raw, &payload); err != nil {
		s.logger.Error("extract.tabular.invalid_response",
			"filename", doc.Filename, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return models.Result{}, err
	}

	s.logger.Info("extract.tabular.ok",
		"filename", doc.Filename,
		"rows", len(payload.Data),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return models.TabularResult([]models.Sheet{
		{Name: ExtractedUnitName, Rows: payload.Data},
	}), nil
}

// ExtractText asks the model for a layout-preserving text rendition of the
// whole document. No schema constrains the response; the returned text is the
// result verbatim.
func (s *Service) ExtractText(ctx context.Context, doc *models.RawDocument, target models.TranslationTarget) (models.Result, error) {
	if err := checkDocument(doc); err != nil {
		return models.Result{}, err
	}

	start := time.Now()
	s.logger.Info("extract.text.start",
		"filename", doc.Filename,
		"kind", string(doc.Kind),
		"bytes", len(doc.Data),
		"target", string(target),
	)

	raw, err := s.gen.Generate(ctx, genai.Request{
		Instruction: genai.BuildTextExtractionPrompt(target),
		Document:    doc,
	})
	if err != nil {
		return models.Result{}, wrapGenerateError(err)
	}

	s.logger.Info("extract.text.ok",
		"filename", doc.Filename,
		"text_len", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return models.TextResult(raw), nil
}

func checkDocument(doc *models.RawDocument) error {
	if doc == nil || len(doc.Data) == 0 {
		return fmt.Errorf("%w: no document uploaded", common.ErrInvalidInput)
	}
	if doc.Kind == constants.KindUnsupported {
		return common.ErrUnsupportedDocument
	}
	return nil
}

// wrapGenerateError keeps precondition failures distinguishable and folds
// everything else into the extraction-failed bucket with the underlying
// message preserved for display.
func wrapGenerateError(err error) error {
	if errors.Is(err, common.ErrMissingCredential) {
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrExtractionFailed, err)
}
