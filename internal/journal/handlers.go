package journal

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/mkjt/ai-journal/internal/parsing"
)

// maxUploadSize bounds multipart form parsing (phone photos can be large)
const maxUploadSize = int64(50 << 20) // 50MB

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// uploadedImage pulls the image file out of a multipart request
func uploadedImage(w http.ResponseWriter, r *http.Request) ([]byte, *multipart.FileHeader, bool) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "Error parsing form")
		return nil, nil, false
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		writeError(w, http.StatusBadRequest, "No file provided")
		return nil, nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "Error reading file")
		return nil, nil, false
	}
	return data, header, true
}

// handleExtract runs OCR and normalization over an uploaded receipt image
// and returns the draft plus merchant suggestions for review
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	data, header, ok := uploadedImage(w, r)
	if !ok {
		return
	}

	result, err := s.service.Extract(r.Context(), data)
	if err != nil {
		slog.Error("Error extracting receipt", "filename", header.Filename, "error", err)
		writeError(w, http.StatusBadGateway, "Text extraction failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handlePersist saves a reviewed draft together with its image
func (s *Server) handlePersist(w http.ResponseWriter, r *http.Request) {
	data, header, ok := uploadedImage(w, r)
	if !ok {
		return
	}

	amount, err := strconv.Atoi(r.FormValue("amount"))
	if err != nil || amount <= 0 {
		writeError(w, http.StatusBadRequest, "An amount must be selected")
		return
	}

	draft := &parsing.Draft{
		Date:           r.FormValue("date"),
		Merchant:       r.FormValue("merchant"),
		Description:    r.FormValue("description"),
		SelectedAmount: amount,
	}

	record, err := s.service.Persist(draft, data, header.Filename)
	if err != nil {
		if errors.Is(err, ErrInvalidDraft) {
			writeError(w, http.StatusBadRequest, "An amount must be selected")
			return
		}
		slog.Error("Error persisting receipt", "filename", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "Saving the receipt failed")
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// handleListRecords returns all persisted records
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.List()
	if err != nil {
		slog.Error("Error listing records", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// handleReplaceAll swaps the whole table for the edited rows
func (s *Server) handleReplaceAll(w http.ResponseWriter, r *http.Request) {
	var records []*Record
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.service.ReplaceAll(records); err != nil {
		slog.Error("Error replacing records", "error", err)
		writeError(w, http.StatusInternalServerError, "Saving changes failed")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// handleGetImage returns the stored image for a record
func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid record ID")
		return
	}

	data, err := s.service.GetImage(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Image not found")
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Write(data)
}

// handleExport streams the full table as a BOM-prefixed CSV download
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+s.service.ExportFilename()+`"`)
	if err := s.service.ExportCSV(w); err != nil {
		// Headers are gone at this point; all we can do is log
		slog.Error("Error exporting records", "error", err)
	}
}
