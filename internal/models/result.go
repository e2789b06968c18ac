package models

// Sheet is one named tabular unit: a row-major matrix of cell strings.
// Rows may be ragged; the first row is conventionally a header but is not
// structurally distinguished.
type Sheet struct {
	Name string
	Rows [][]string
}

// Empty reports whether the sheet has no rows at all.
func (s Sheet) Empty() bool { return len(s.Rows) == 0 }

// ResultKind tags which variant of Result is populated.
type ResultKind string

const (
	ResultNone    ResultKind = "NONE"
	ResultTabular ResultKind = "TABULAR"
	ResultText    ResultKind = "TEXT"
)

// Result is the single normalized output of any extraction operation.
// Exactly one variant is populated; sheet order is insertion order and is
// significant for display and export.
type Result struct {
	Kind   ResultKind
	Sheets []Sheet
	Text   string
}

// TabularResult builds a Result holding the given units.
func TabularResult(sheets []Sheet) Result {
	return Result{Kind: ResultTabular, Sheets: sheets}
}

// TextResult builds a Result holding a layout-preserving text block.
func TextResult(text string) Result {
	return Result{Kind: ResultText, Text: text}
}

// IsNone reports whether no extraction has produced a result yet.
func (r Result) IsNone() bool { return r.Kind == ResultNone || r.Kind == "" }
