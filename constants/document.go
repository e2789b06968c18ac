package constants

import (
	"path/filepath"
	"strings"
)

// DocumentKind is the canonical classification of an uploaded document.
type DocumentKind string

// Stable values (these exact strings appear in logs and API responses).
const (
	KindImage       DocumentKind = "IMAGE"
	KindSpreadsheet DocumentKind = "SPREADSHEET"
	KindPDF         DocumentKind = "PDF"
	KindWord        DocumentKind = "WORD"
	KindUnsupported DocumentKind = "UNSUPPORTED"
)

// Word-processing media types we accept (legacy .doc and OOXML .docx).
const (
	MediaTypePDF     = "application/pdf"
	MediaTypeMSWord  = "application/msword"
	MediaTypeOOXMLWP = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var spreadsheetExts = map[string]struct{}{
	"xlsx": {},
	"xls":  {},
}

var wordExts = map[string]struct{}{
	"doc":  {},
	"docx": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ClassifyDocument maps a declared media type and filename to a DocumentKind.
// It is pure and total: every input pair yields exactly one kind.
//
// Media-type rules are checked before filename-extension rules, so a document
// whose declared type and extension disagree follows its media type
// (application/pdf named report.xlsx classifies as PDF).
func ClassifyDocument(mediaType, filename string) DocumentKind {
	mt := strings.ToLower(strings.TrimSpace(mediaType))

	switch {
	case strings.HasPrefix(mt, "image/"):
		return KindImage
	case strings.Contains(mt, "sheet"):
		return KindSpreadsheet
	case mt == MediaTypePDF:
		return KindPDF
	case mt == MediaTypeMSWord, mt == MediaTypeOOXMLWP:
		return KindWord
	}

	ext := NormalizeExt(filepath.Ext(filename))
	if _, ok := spreadsheetExts[ext]; ok {
		return KindSpreadsheet
	}
	if ext == "pdf" {
		return KindPDF
	}
	if _, ok := wordExts[ext]; ok {
		return KindWord
	}
	return KindUnsupported
}
