// Package export serializes a normalized result into downloadable bytes: an
// xlsx workbook via the tabular codec, or an HTML document wrapped as a
// legacy word-processor stream.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mikael-ade/transdoc/internal/common"
	"github.com/mikael-ade/transdoc/internal/models"
	"github.com/mikael-ade/transdoc/internal/tabular"
)

type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// SpreadsheetBytes encodes one output sheet per unit, in insertion order.
func (s *Service) SpreadsheetBytes(res models.Result) ([]byte, error) {
	if res.Kind != models.ResultTabular || len(res.Sheets) == 0 {
		return nil, common.ErrNoResult
	}
	start := time.Now()
	b, err := tabular.Encode(res.Sheets)
	if err != nil {
		return nil, fmt.Errorf("encode spreadsheet: %w", err)
	}
	s.logger.Info("export.xlsx.ok",
		"sheets", len(res.Sheets),
		"bytes", len(b),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return b, nil
}

// WordBytes renders the result as a UTF-8 HTML document prefixed with a byte
// order mark, which legacy word processors open natively.
func (s *Service) WordBytes(res models.Result) ([]byte, error) {
	if res.IsNone() {
		return nil, common.ErrNoResult
	}
	start := time.Now()
	b := wordDocument(res)
	s.logger.Info("export.word.ok",
		"kind", string(res.Kind),
		"bytes", len(b),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return b, nil
}

// Filename appends a timestamp suffix so repeated downloads never collide.
func Filename(base, ext string) string {
	return fmt.Sprintf("%s_%s.%s", base, time.Now().Format("20060102_150405"), ext)
}
