package tabular

import (
	"reflect"
	"testing"

	"github.com/mikael-ade/transdoc/internal/models"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	in := []models.Sheet{
		{Name: "Sheet1", Rows: [][]string{
			{"Name", "Age"},
			{"Ann", "30"},
			{"Bob", "41"},
		}},
	}

	b, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n in=%v\nout=%v", in, out)
	}
}

func TestEncodeDecode_RaggedRows(t *testing.T) {
	in := []models.Sheet{
		{Name: "Ragged", Rows: [][]string{
			{"a", "b", "c"},
			{"d"},
			{"e", "f"},
		}},
	}

	b, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("ragged round trip mismatch:\n in=%v\nout=%v", in, out)
	}
}

func TestEncodeDecode_SheetOrderPreserved(t *testing.T) {
	in := []models.Sheet{
		{Name: "Zebra", Rows: [][]string{{"z"}}},
		{Name: "Alpha", Rows: [][]string{{"a"}}},
		{Name: "Middle", Rows: [][]string{{"m"}}},
	}

	b, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d sheets, want 3", len(out))
	}
	for i, want := range []string{"Zebra", "Alpha", "Middle"} {
		if out[i].Name != want {
			t.Errorf("sheet %d = %q, want %q", i, out[i].Name, want)
		}
	}
}

func TestEncode_EmptySheetAllowed(t *testing.T) {
	in := []models.Sheet{
		{Name: "Data", Rows: [][]string{{"x", "y"}}},
		{Name: "Empty"},
	}
	b, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d sheets, want 2", len(out))
	}
	if out[1].Name != "Empty" || len(out[1].Rows) != 0 {
		t.Errorf("empty sheet not preserved: %+v", out[1])
	}
}

func TestEncode_NoSheets(t *testing.T) {
	if _, err := Encode(nil); err == nil {
		t.Error("expected error encoding zero sheets")
	}
}

func TestDecode_Garbage(t *testing.T) {
	if _, err := Decode([]byte("not a workbook")); err == nil {
		t.Error("expected error decoding garbage bytes")
	}
}
