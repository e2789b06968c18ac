package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mikael-ade/transdoc/internal/common"
	"github.com/mikael-ade/transdoc/internal/genai"
	"github.com/mikael-ade/transdoc/internal/models"
)

// scriptedGenerator routes each request by a marker cell embedded in the
// unit's matrix, so tests control per-unit outcomes and latency.
type scriptedGenerator struct {
	mu      sync.Mutex
	calls   int
	fail    map[string]error  // marker -> error
	respond map[string]string // marker -> raw response
	delay   map[string]time.Duration
}

func (g *scriptedGenerator) Generate(ctx context.Context, req genai.Request) (string, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()

	for marker, d := range g.delay {
		if strings.Contains(req.Instruction, marker) {
			time.Sleep(d)
		}
	}
	for marker, err := range g.fail {
		if strings.Contains(req.Instruction, marker) {
			return "", err
		}
	}
	for marker, resp := range g.respond {
		if strings.Contains(req.Instruction, marker) {
			return resp, nil
		}
	}
	return "", fmt.Errorf("no script for instruction: %s", req.Instruction)
}

func (g *scriptedGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func translated(rows [][]string) string {
	b, _ := json.Marshal(map[string]any{"translatedData": rows})
	return string(b)
}

func unit(name, marker string) models.Sheet {
	return models.Sheet{Name: name, Rows: [][]string{{marker, "value"}, {"row", "two"}}}
}

func TestTranslateUnits_BatchIsolation(t *testing.T) {
	gen := &scriptedGenerator{
		respond: map[string]string{
			"AAA": translated([][]string{{"un", "deux"}}),
			"CCC": translated([][]string{{"cinq", "six"}}),
		},
		fail: map[string]error{"BBB": errors.New("model overloaded")},
	}
	e := NewEngine(gen, nil, 4)

	units := []models.Sheet{unit("Revenue", "AAA"), unit("Costs", "BBB"), unit("Staff", "CCC")}
	out, failures := e.TranslateUnits(context.Background(), units, "French")

	if len(out) != 2 {
		t.Fatalf("got %d output units, want 2", len(out))
	}
	// Fresh sequential names by submission order; original names discarded.
	if out[0].Name != "unit 1" || out[1].Name != "unit 2" {
		t.Errorf("names = %q, %q; want unit 1, unit 2", out[0].Name, out[1].Name)
	}
	if out[0].Rows[0][0] != "un" || out[1].Rows[0][0] != "cinq" {
		t.Errorf("unit content out of submission order: %v", out)
	}

	if len(failures) != 1 {
		t.Fatalf("got %d failures, want 1", len(failures))
	}
	if failures[0].Unit != "Costs" || failures[0].Index != 1 {
		t.Errorf("failure = %+v, want Costs at index 1", failures[0])
	}
	if !errors.Is(failures[0].Err, common.ErrTranslationFailed) {
		t.Errorf("failure error = %v, want ErrTranslationFailed", failures[0].Err)
	}
}

func TestTranslateUnits_NamingIgnoresCompletionOrder(t *testing.T) {
	// The first submitted unit finishes last; naming must still follow
	// submission order.
	gen := &scriptedGenerator{
		respond: map[string]string{
			"AAA": translated([][]string{{"first"}}),
			"BBB": translated([][]string{{"second"}}),
		},
		delay: map[string]time.Duration{"AAA": 50 * time.Millisecond},
	}
	e := NewEngine(gen, nil, 4)

	out, failures := e.TranslateUnits(context.Background(),
		[]models.Sheet{unit("Slow", "AAA"), unit("Fast", "BBB")}, "German")
	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}
	if len(out) != 2 {
		t.Fatalf("got %d units, want 2", len(out))
	}
	if out[0].Rows[0][0] != "first" || out[1].Rows[0][0] != "second" {
		t.Errorf("completion order leaked into output: %v", out)
	}
}

func TestTranslateUnits_EmptyUnitSkipped(t *testing.T) {
	gen := &scriptedGenerator{
		respond: map[string]string{"AAA": translated([][]string{{"x"}})},
	}
	e := NewEngine(gen, nil, 4)

	units := []models.Sheet{
		unit("Data", "AAA"),
		{Name: "Blank"}, // zero rows: not submitted, not a failure
	}
	out, failures := e.TranslateUnits(context.Background(), units, "French")

	if len(out) != 1 || out[0].Name != "unit 1" {
		t.Errorf("got %v, want single unit 1", out)
	}
	if len(failures) != 0 {
		t.Errorf("empty unit counted as failure: %v", failures)
	}
	if gen.callCount() != 1 {
		t.Errorf("empty unit was submitted: %d calls", gen.callCount())
	}
}

func TestTranslateUnits_AllEmptyOrFailed(t *testing.T) {
	gen := &scriptedGenerator{fail: map[string]error{"AAA": errors.New("boom")}}
	e := NewEngine(gen, nil, 4)

	out, failures := e.TranslateUnits(context.Background(),
		[]models.Sheet{unit("Only", "AAA")}, "French")
	if len(out) != 0 {
		t.Errorf("got %v, want empty output", out)
	}
	if len(failures) != 1 {
		t.Errorf("got %d failures, want 1", len(failures))
	}

	// Nothing submitted at all: empty output, no failures, no calls.
	out, failures = e.TranslateUnits(context.Background(),
		[]models.Sheet{{Name: "Blank"}}, "French")
	if len(out) != 0 || len(failures) != 0 {
		t.Errorf("all-empty batch: out=%v failures=%v", out, failures)
	}
}

func TestTranslateUnits_MalformedPayloadIsUnitFailure(t *testing.T) {
	gen := &scriptedGenerator{
		respond: map[string]string{
			"AAA": `{"wrongField":[["x"]]}`,
			"BBB": translated([][]string{{"ok"}}),
		},
	}
	e := NewEngine(gen, nil, 4)

	out, failures := e.TranslateUnits(context.Background(),
		[]models.Sheet{unit("Bad", "AAA"), unit("Good", "BBB")}, "French")
	if len(out) != 1 || out[0].Name != "unit 1" || out[0].Rows[0][0] != "ok" {
		t.Errorf("got %v, want the single well-formed unit renamed to unit 1", out)
	}
	if len(failures) != 1 || !errors.Is(failures[0].Err, common.ErrInvalidResponse) {
		t.Errorf("failures = %v, want one ErrInvalidResponse", failures)
	}
}

func TestTranslateUnits_NoTargetPassthrough(t *testing.T) {
	gen := &scriptedGenerator{}
	e := NewEngine(gen, nil, 4)

	units := []models.Sheet{unit("Keep", "AAA")}
	out, failures := e.TranslateUnits(context.Background(), units, models.TargetNone)
	if len(failures) != 0 || len(out) != 1 || out[0].Name != "Keep" {
		t.Errorf("no-target batch must pass through untouched: out=%v failures=%v", out, failures)
	}
	if gen.callCount() != 0 {
		t.Errorf("no-target batch issued %d AI calls", gen.callCount())
	}
}
