// Package web serves a small JSON API over the import pipeline: upload
// preview, mapping suggestions, and template listing. It carries no auth;
// access control lives in front of it.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"goship/mapping"
	"goship/parser"
	"goship/reconcile"
	"goship/templates"
)

// uploadLimit bounds multipart uploads accepted by the API.
const uploadLimit = 20 << 20

type Server struct {
	service  *reconcile.Service
	engine   *mapping.Engine
	tplStore templates.Store
	orgID    string
	mux      *http.ServeMux
}

func NewServer(service *reconcile.Service, engine *mapping.Engine, tplStore templates.Store, orgID string) *Server {
	s := &Server{
		service:  service,
		engine:   engine,
		tplStore: tplStore,
		orgID:    orgID,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /api/preview", s.handlePreview)
	s.mux.HandleFunc("POST /api/mapping", s.handleMapping)
	s.mux.HandleFunc("GET /api/templates", s.handleTemplates)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe blocks serving the API until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{Addr: addr, Handler: s.mux}

	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve api: %w", err)
	}
	return nil
}

type previewResponse struct {
	Headers            []string                `json:"headers"`
	TotalRows          int                     `json:"totalRows"`
	SampleRows         []map[string]string     `json:"sampleRows"`
	Warnings           []parser.RowWarning     `json:"warnings"`
	RequiredCandidates []string                `json:"requiredCandidates"`
	RelevantCandidates []string                `json:"relevantCandidates"`
	Signals            parser.Signals          `json:"signals"`
	ProviderUsed       string                  `json:"providerUsed"`
	Mappings           []mapping.ColumnMapping `json:"mappings"`
	MappingWarnings    []mapping.Warning       `json:"mappingWarnings"`
	Duplicates         int                     `json:"duplicates"`
}

// handlePreview runs the full pipeline on an uploaded file without
// committing anything.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(uploadLimit); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, uploadLimit+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read upload")
		return
	}

	result, err := s.service.Run(r.Context(), reconcile.RunInput{
		Data:     data,
		Filename: header.Filename,
		Sheet:    r.FormValue("sheet"),
		OrgID:    s.orgID,
	})
	if err != nil {
		var parseErr *parser.ParseError
		if errors.As(err, &parseErr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"code":  string(parseErr.Code),
				"error": parseErr.Message,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, previewResponse{
		Headers:            result.Sheet.Headers,
		TotalRows:          result.Sheet.TotalRows,
		SampleRows:         result.Sheet.SampleRows,
		Warnings:           result.Sheet.Warnings,
		RequiredCandidates: result.Sheet.RequiredCandidates,
		RelevantCandidates: result.Sheet.RelevantCandidates,
		Signals:            result.Sheet.Signals,
		ProviderUsed:       result.ProviderUsed,
		Mappings:           result.Mappings,
		MappingWarnings:    result.Warnings,
		Duplicates:         result.Duplicates,
	})
}

type mappingRequest struct {
	Headers    []string            `json:"headers"`
	SampleRows []map[string]string `json:"sampleRows"`
	OrgName    string              `json:"orgName"`
}

// handleMapping suggests a column mapping for raw headers without parsing a
// file.
func (s *Server) handleMapping(w http.ResponseWriter, r *http.Request) {
	var req mappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if len(req.Headers) == 0 {
		writeError(w, http.StatusBadRequest, "headers are required")
		return
	}

	result, err := s.engine.Suggest(r.Context(), mapping.Request{
		Headers:    req.Headers,
		SampleRows: req.SampleRows,
		OrgName:    req.OrgName,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"providerUsed": result.ProviderUsed,
		"mappings":     result.Suggestion.Mappings,
		"warnings":     result.Warnings,
	})
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := s.tplStore.ListByOrg(r.Context(), s.orgID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": list})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
