package models

import "github.com/mikael-ade/transdoc/constants"

// RawDocument is the byte payload of a single upload plus its declared
// metadata. It is owned by the session that received it and is replaced,
// never mutated, on a new upload.
type RawDocument struct {
	Filename  string
	MediaType string
	Data      []byte
	Kind      constants.DocumentKind
}

// NewRawDocument classifies the upload once; the kind is fixed for the
// document's lifetime.
func NewRawDocument(filename, mediaType string, data []byte) *RawDocument {
	return &RawDocument{
		Filename:  filename,
		MediaType: mediaType,
		Data:      data,
		Kind:      constants.ClassifyDocument(mediaType, filename),
	}
}

// TranslationTarget names the language extracted content should be translated
// into. The zero value means "preserve the source language".
type TranslationTarget string

// TargetNone skips translation entirely on the native spreadsheet path.
const TargetNone TranslationTarget = ""

// IsNone reports whether translation is requested.
func (t TranslationTarget) IsNone() bool { return t == TargetNone }
