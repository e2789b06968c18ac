// Package translate fans one structured-translation request out per
// spreadsheet unit. Units are isolated: one malformed or oversized sheet
// never blocks translation of the rest of the workbook.
package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mikael-ade/transdoc/internal/common"
	"github.com/mikael-ade/transdoc/internal/genai"
	"github.com/mikael-ade/transdoc/internal/models"
)

// UnitFailure records one unit's translation failure. Failures are
// diagnostic only; they never abort the batch.
type UnitFailure struct {
	Unit  string // original sheet name
	Index int    // submission index within the batch
	Err   error
}

type Engine struct {
	gen           genai.Generator
	logger        *slog.Logger
	maxConcurrent int
}

func NewEngine(gen genai.Generator, logger *slog.Logger, maxConcurrent int) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}
	return &Engine{gen: gen, logger: logger, maxConcurrent: maxConcurrent}
}

type unitOutcome struct {
	rows [][]string
	err  error
}

// TranslateUnits translates every non-empty unit concurrently and reassembles
// the successes under fresh sequential display names ("unit 1", "unit 2", …)
// in submission order. Completion order never influences naming. An empty
// return means there is nothing to display, not that the batch failed.
func (e *Engine) TranslateUnits(ctx context.Context, units []models.Sheet, target models.TranslationTarget) ([]models.Sheet, []UnitFailure) {
	if target.IsNone() {
		return units, nil
	}

	// Empty units produce no output entry and are not submitted.
	submitted := make([]models.Sheet, 0, len(units))
	for _, u := range units {
		if u.Empty() {
			e.logger.Info("translate.unit.skip_empty", "unit", u.Name)
			continue
		}
		submitted = append(submitted, u)
	}
	if len(submitted) == 0 {
		return nil, nil
	}

	start := time.Now()
	e.logger.Info("translate.batch.start",
		"units", len(submitted),
		"target", string(target),
		"max_concurrent", e.maxConcurrent,
	)

	// Settle-all barrier: every goroutine records its outcome at its
	// submission index and returns nil, so one failure never cancels
	// siblings. Wait is purely a join.
	outcomes := make([]unitOutcome, len(submitted))
	g := new(errgroup.Group)
	g.SetLimit(e.maxConcurrent)
	for i, unit := range submitted {
		i, unit := i, unit
		g.Go(func() error {
			outcomes[i] = e.translateOne(ctx, unit, target)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]models.Sheet, 0, len(submitted))
	var failures []UnitFailure
	for i, oc := range outcomes {
		if oc.err != nil {
			failures = append(failures, UnitFailure{Unit: submitted[i].Name, Index: i, Err: oc.err})
			e.logger.Warn("translate.unit.failed",
				"unit", submitted[i].Name, "index", i, "error", oc.err,
			)
			continue
		}
		out = append(out, models.Sheet{
			Name: fmt.Sprintf("unit %d", len(out)+1),
			Rows: oc.rows,
		})
	}

	e.logger.Info("translate.batch.done",
		"submitted", len(submitted),
		"succeeded", len(out),
		"failed", len(failures),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, failures
}

func (e *Engine) translateOne(ctx context.Context, unit models.Sheet, target models.TranslationTarget) unitOutcome {
	prompt, err := genai.BuildUnitTranslationPrompt(unit.Rows, target)
	if err != nil {
		return unitOutcome{err: fmt.Errorf("%w: %v", common.ErrTranslationFailed, err)}
	}

	schema := genai.TranslationResponseSchema()
	raw, err := e.gen.Generate(ctx, genai.Request{
		Instruction: prompt,
		Schema:      schema,
	})
	if err != nil {
		if errors.Is(err, common.ErrMissingCredential) {
			return unitOutcome{err: err}
		}
		return unitOutcome{err: fmt.Errorf("%w: %v", common.ErrTranslationFailed, err)}
	}

	var payload struct {
		TranslatedData [][]string `json:"translatedData"`
	}
	if err := genai.DecodeStructured(schema, raw, &payload); err != nil {
		return unitOutcome{err: err}
	}
	return unitOutcome{rows: payload.TranslatedData}
}
