package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/brightbay/salestrack/internal/importer"
	"github.com/brightbay/salestrack/internal/logging"
)

// handleImportPreview analyzes an uploaded workbook and returns the proposed
// changes without applying anything. The client shows the result for review
// and posts the accepted rows back to the commit endpoint.
func (s *Server) handleImportPreview(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	if err := s.imports.Limiter().Acquire(r.Context()); err != nil {
		if errors.Is(err, importer.ErrTooManyImports) {
			s.respondError(w, r, err, http.StatusTooManyRequests)
			return
		}
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	defer s.imports.Limiter().Release()

	logger := logging.WithFields(r.Context(), "file", header.Filename)
	logger.Info("analyzing import", "size", header.Size)

	result, err := s.imports.AnalyzeWorkbook(r.Context(), file)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	logger.Info("import analyzed",
		"total", result.Summary.Total,
		"changed", result.Summary.Changed,
		"unchanged", result.Summary.Unchanged,
		"errored", result.Summary.Errored,
	)

	writeJSON(w, result)
}

// commitRequest is the JSON body for the commit endpoint: the rows the user
// accepted from a preview result.
type commitRequest struct {
	Rows []importer.ImportRow `json:"rows"`
}

// handleImportCommit applies previously previewed rows to the store.
func (s *Server) handleImportCommit(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Rows) == 0 {
		writeError(w, http.StatusBadRequest, "no rows to commit")
		return
	}

	actor := actorFromRequest(r)
	outcome := s.imports.Commit(r.Context(), req.Rows, actor)

	logging.FromContext(r.Context()).Info("import committed",
		"batch_id", outcome.BatchID,
		"applied", outcome.Applied,
		"failed", outcome.Failed,
	)

	writeJSON(w, outcome)
}

// handleImportTemplate serves an empty workbook with the expected column
// headers for download.
func (s *Server) handleImportTemplate(w http.ResponseWriter, r *http.Request) {
	data, err := importer.BuildTemplate()
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("unit_import_template_%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(data)
}

// handleImportStatus returns the current state of the import limiter.
// Used for monitoring and to check if the system can accept more imports.
func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]int{
		"active": s.imports.Limiter().ActiveCount(),
		"max":    s.cfg.Import.MaxConcurrent,
	})
}
