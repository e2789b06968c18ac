package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mikael-ade/transdoc/internal/common"
	"github.com/mikael-ade/transdoc/internal/genai"
	"github.com/mikael-ade/transdoc/internal/models"
)

// fakeGenerator returns a canned response or error and records the request.
type fakeGenerator struct {
	response string
	err      error
	lastReq  genai.Request
}

func (f *fakeGenerator) Generate(ctx context.Context, req genai.Request) (string, error) {
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func pdfDoc() *models.RawDocument {
	return models.NewRawDocument("report.pdf", "application/pdf", []byte("%PDF-1.4 fake"))
}

func TestExtractTabular_Success(t *testing.T) {
	gen := &fakeGenerator{response: `{"data":[["Name","Age"],["Ann","30"]]}`}
	svc := NewService(gen, nil)

	res, err := svc.ExtractTabular(context.Background(), pdfDoc(), models.TargetNone)
	if err != nil {
		t.Fatalf("ExtractTabular: %v", err)
	}
	if res.Kind != models.ResultTabular {
		t.Fatalf("kind = %v, want tabular", res.Kind)
	}
	if len(res.Sheets) != 1 || res.Sheets[0].Name != ExtractedUnitName {
		t.Errorf("want one unit named %q, got %+v", ExtractedUnitName, res.Sheets)
	}
	if len(res.Sheets[0].Rows) != 2 {
		t.Errorf("rows = %d, want 2", len(res.Sheets[0].Rows))
	}
	if gen.lastReq.Schema == nil {
		t.Error("tabular extraction must be schema-constrained")
	}
	if gen.lastReq.Document == nil {
		t.Error("document payload missing from request")
	}
}

func TestExtractTabular_InvalidResponse(t *testing.T) {
	gen := &fakeGenerator{response: `{"notData":[]}`}
	svc := NewService(gen, nil)

	res, err := svc.ExtractTabular(context.Background(), pdfDoc(), models.TargetNone)
	if !errors.Is(err, common.ErrInvalidResponse) {
		t.Errorf("got %v, want ErrInvalidResponse", err)
	}
	if !res.IsNone() {
		t.Errorf("partial result written on invalid response: %+v", res)
	}
}

func TestExtractTabular_MissingCredentialPassesThrough(t *testing.T) {
	gen := &fakeGenerator{err: common.ErrMissingCredential}
	svc := NewService(gen, nil)

	_, err := svc.ExtractTabular(context.Background(), pdfDoc(), models.TargetNone)
	if !errors.Is(err, common.ErrMissingCredential) {
		t.Errorf("got %v, want ErrMissingCredential", err)
	}
}

func TestExtractTabular_TransportErrorWrapped(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("connection reset")}
	svc := NewService(gen, nil)

	_, err := svc.ExtractTabular(context.Background(), pdfDoc(), models.TargetNone)
	if !errors.Is(err, common.ErrExtractionFailed) {
		t.Errorf("got %v, want ErrExtractionFailed", err)
	}
}

func TestExtractTabular_UnsupportedDocument(t *testing.T) {
	gen := &fakeGenerator{response: `{"data":[]}`}
	svc := NewService(gen, nil)

	doc := models.NewRawDocument("notes.txt", "text/plain", []byte("hello"))
	_, err := svc.ExtractTabular(context.Background(), doc, models.TargetNone)
	if !errors.Is(err, common.ErrUnsupportedDocument) {
		t.Errorf("got %v, want ErrUnsupportedDocument", err)
	}
}

func TestExtractTabular_NilDocument(t *testing.T) {
	svc := NewService(&fakeGenerator{}, nil)
	_, err := svc.ExtractTabular(context.Background(), nil, models.TargetNone)
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestExtractText_Verbatim(t *testing.T) {
	text := "Title\n\nFirst paragraph.\n- item one\n- item two"
	gen := &fakeGenerator{response: text}
	svc := NewService(gen, nil)

	res, err := svc.ExtractText(context.Background(), pdfDoc(), models.TargetNone)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if res.Kind != models.ResultText {
		t.Fatalf("kind = %v, want text", res.Kind)
	}
	if res.Text != text {
		t.Errorf("text not preserved verbatim:\ngot  %q\nwant %q", res.Text, text)
	}
	if gen.lastReq.Schema != nil {
		t.Error("text extraction must not be schema-constrained")
	}
}

func TestExtractText_TranslationRidesSameRequest(t *testing.T) {
	gen := &fakeGenerator{response: "translated text"}
	svc := NewService(gen, nil)

	if _, err := svc.ExtractText(context.Background(), pdfDoc(), models.TranslationTarget("Spanish")); err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(gen.lastReq.Instruction, "Spanish") {
		t.Errorf("instruction should fold translation into the single request: %q", gen.lastReq.Instruction)
	}
}
