package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/alnah/go-autoformat"
	"github.com/alnah/go-autoformat/internal/ai"
)

// FormatRequest is the body of POST /api/format.
type FormatRequest struct {
	Content string `json:"content"`
	Tone    string `json:"tone,omitempty"`
}

// FormatResponse is the reply of POST /api/format.
type FormatResponse struct {
	Markup         string              `json:"markup"`
	Source         autoformat.Source   `json:"source"`
	Notices        []autoformat.Notice `json:"notices"`
	FallbackReason string              `json:"fallbackReason,omitempty"`
}

// ExportRequest is the body of POST /api/export.
type ExportRequest struct {
	Title           string `json:"title"`
	CustomFilename  string `json:"customFilename"`
	Content         string `json:"content"`
	FormattedMarkup string `json:"formattedMarkup"`
	Kind            string `json:"kind"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleFormatWithAI serves the AI-only contract: any failure is a 500.
func (s *Server) handleFormatWithAI(w http.ResponseWriter, r *http.Request) {
	var req ai.FormatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusInternalServerError, ai.FormatResponse{Error: err.Error()})
		return
	}
	if s.aiClient == nil {
		writeJSON(w, http.StatusInternalServerError, ai.FormatResponse{Error: ai.ErrConfiguration.Error()})
		return
	}

	tone, err := ai.ParseTone(string(req.Tone))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ai.FormatResponse{Error: err.Error()})
		return
	}

	formatted, err := s.aiClient.Format(r.Context(), req.Content, tone)
	if err != nil {
		s.log.Warn("format-with-ai failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ai.FormatResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ai.FormatResponse{FormattedContent: formatted})
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	var req FormatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	rec := &autoformat.NoticeRecorder{}
	ctx := autoformat.ContextWithNotifier(r.Context(), rec)

	res, err := s.formatter.Format(ctx, req.Content, autoformat.Tone(req.Tone))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	resp := FormatResponse{
		Markup:  res.Markup,
		Source:  res.Source,
		Notices: rec.Notices(),
	}
	if resp.Notices == nil {
		resp.Notices = []autoformat.Notice{}
	}
	if res.FallbackErr != nil {
		resp.FallbackReason = res.FallbackErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	doc := autoformat.Document{
		Title:           req.Title,
		RawContent:      req.Content,
		FormattedMarkup: req.FormattedMarkup,
	}
	exportReq, err := autoformat.NewExportRequest(doc, autoformat.ExportKind(req.Kind), req.CustomFilename)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	res, err := s.exporter.Export(r.Context(), exportReq)
	if err != nil {
		s.log.Warn("export failed", "kind", req.Kind, "error", err)
		writeError(w, statusFor(err), err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", res.ContentType)
	h.Set("Content-Length", strconv.Itoa(len(res.Data)))
	h.Set("Content-Disposition", contentDisposition(res.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

// contentDisposition builds an attachment header. Non-ASCII names are
// encoded per RFC 2231 by mime.FormatMediaType.
func contentDisposition(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

// errBadRequest marks malformed request bodies.
var errBadRequest = errors.New("invalid request body")

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}

// statusFor maps library errors to HTTP status codes.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest),
		errors.Is(err, autoformat.ErrEmptyContent),
		errors.Is(err, autoformat.ErrInvalidTone),
		errors.Is(err, autoformat.ErrInvalidExportKind):
		return http.StatusBadRequest
	case errors.Is(err, autoformat.ErrUnsafeMarkup):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, autoformat.ErrBrowserConnect):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, errorResponse{Error: err.Error()})
}
