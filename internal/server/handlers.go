package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mikael-ade/transdoc/constants"
	"github.com/mikael-ade/transdoc/internal/common"
	"github.com/mikael-ade/transdoc/internal/export"
	"github.com/mikael-ade/transdoc/internal/models"
	"github.com/mikael-ade/transdoc/internal/session"
	"github.com/mikael-ade/transdoc/internal/tabular"
)

const spreadsheetMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	filename := sanitizeFilename(header.Filename)
	mediaType := header.Header.Get("Content-Type")
	doc := models.NewRawDocument(filename, mediaType, data)
	if doc.Kind == constants.KindUnsupported {
		jsonError(w, fmt.Sprintf("unsupported file type: %s (%s)", filepath.Ext(filename), mediaType), http.StatusUnsupportedMediaType)
		return
	}

	sess := session.New(doc)
	s.sessions.Put(sess)

	resp := map[string]any{
		"session_id": sess.ID,
		"filename":   filename,
		"kind":       string(doc.Kind),
	}

	// Spreadsheets get a native decoded view immediately; no AI involved.
	if doc.Kind == constants.KindSpreadsheet {
		sheets, err := tabular.Decode(data)
		if err != nil {
			s.sessions.Delete(sess.ID)
			jsonError(w, "failed to read workbook: "+err.Error(), http.StatusBadRequest)
			return
		}
		op := sess.Begin()
		sess.Commit(op, models.TabularResult(sheets))
		names := make([]string, 0, len(sheets))
		for _, sh := range sheets {
			names = append(names, sh.Name)
		}
		resp["sheets"] = names
	}

	s.log.Info("document.uploaded",
		"session_id", sess.ID,
		"filename", filename,
		"kind", string(doc.Kind),
		"bytes", len(data),
	)

	writeJSON(w, http.StatusCreated, resp)
}

type extractRequest struct {
	Mode   string `json:"mode"`   // "tabular" | "text"
	Target string `json:"target"` // empty preserves the source language
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}

	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	target := models.TranslationTarget(strings.TrimSpace(req.Target))

	doc := sess.Document()
	op := sess.Begin()

	var (
		res models.Result
		err error
	)
	switch req.Mode {
	case "tabular":
		res, err = s.extractor.ExtractTabular(r.Context(), doc, target)
	case "text":
		res, err = s.extractor.ExtractText(r.Context(), doc, target)
	default:
		jsonError(w, `mode must be "tabular" or "text"`, http.StatusBadRequest)
		return
	}
	if err != nil {
		s.writeCoreError(w, err)
		return
	}

	if !sess.Commit(op, res) {
		// A newer operation replaced this one while the request was in
		// flight; its result must not be shown.
		jsonError(w, "operation superseded", http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, resultPayload(res))
}

type translateRequest struct {
	Target string `json:"target"`
}

// handleTranslate is the native spreadsheet path: the workbook is decoded
// locally and, when a target is given, each sheet is translated as an
// independent unit.
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}

	doc := sess.Document()
	if doc == nil || doc.Kind != constants.KindSpreadsheet {
		jsonError(w, "translate applies only to spreadsheet uploads", http.StatusBadRequest)
		return
	}

	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	target := models.TranslationTarget(strings.TrimSpace(req.Target))

	sheets, err := tabular.Decode(doc.Data)
	if err != nil {
		jsonError(w, "failed to read workbook: "+err.Error(), http.StatusBadRequest)
		return
	}

	op := sess.Begin()

	if target.IsNone() {
		res := models.TabularResult(sheets)
		if !sess.Commit(op, res) {
			jsonError(w, "operation superseded", http.StatusConflict)
			return
		}
		writeJSON(w, http.StatusOK, resultPayload(res))
		return
	}

	out, failures := s.engine.TranslateUnits(r.Context(), sheets, target)
	if len(out) == 0 && len(failures) > 0 && errors.Is(failures[0].Err, common.ErrMissingCredential) {
		s.writeCoreError(w, common.ErrMissingCredential)
		return
	}

	res := models.TabularResult(out)
	if !sess.Commit(op, res) {
		jsonError(w, "operation superseded", http.StatusConflict)
		return
	}

	payload := resultPayload(res)
	if len(failures) > 0 {
		failed := make([]map[string]any, 0, len(failures))
		for _, f := range failures {
			failed = append(failed, map[string]any{
				"unit":  f.Unit,
				"index": f.Index,
				"error": f.Err.Error(),
			})
		}
		payload["failed_units"] = failed
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, resultPayload(sess.Result()))
}

func (s *Server) handleExportSpreadsheet(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}

	b, err := s.exporter.SpreadsheetBytes(sess.Result())
	if err != nil {
		s.writeCoreError(w, err)
		return
	}
	sendAttachment(w, export.Filename("extracted_data", "xlsx"), spreadsheetMediaType, b)
}

func (s *Server) handleExportWord(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}

	b, err := s.exporter.WordBytes(sess.Result())
	if err != nil {
		s.writeCoreError(w, err)
		return
	}
	sendAttachment(w, export.Filename("extracted_document", "doc"), constants.MediaTypeMSWord, b)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if s.sessions.Get(id) == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	s.sessions.Delete(id)
	s.log.Info("session.reset", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// writeCoreError maps the core error taxonomy onto HTTP statuses.
func (s *Server) writeCoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrMissingCredential):
		jsonError(w, "AI credential is not configured", http.StatusUnauthorized)
	case errors.Is(err, common.ErrUnsupportedDocument):
		jsonError(w, "unsupported document type", http.StatusUnsupportedMediaType)
	case errors.Is(err, common.ErrInvalidInput):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, common.ErrNoResult):
		jsonError(w, "no result to export", http.StatusConflict)
	case errors.Is(err, common.ErrInvalidResponse),
		errors.Is(err, common.ErrExtractionFailed),
		errors.Is(err, common.ErrTranslationFailed):
		jsonError(w, err.Error(), http.StatusBadGateway)
	default:
		jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}

func resultPayload(res models.Result) map[string]any {
	payload := map[string]any{"kind": string(res.Kind)}
	if res.IsNone() {
		payload["kind"] = string(models.ResultNone)
		return payload
	}
	switch res.Kind {
	case models.ResultTabular:
		sheets := make([]map[string]any, 0, len(res.Sheets))
		for _, sh := range res.Sheets {
			sheets = append(sheets, map[string]any{
				"name": sh.Name,
				"rows": sh.Rows,
			})
		}
		payload["sheets"] = sheets
	case models.ResultText:
		payload["text"] = res.Text
	}
	return payload
}

func sendAttachment(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// sanitizeFilename keeps only the base name and drops path traversal noise.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." || name == "/" {
		name = "upload"
	}
	return name
}
