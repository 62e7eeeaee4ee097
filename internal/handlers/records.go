package handlers

import (
	"net/http"
	"strconv"

	"pinlock/internal/services"
	pkghttp "pinlock/pkg/http"
)

const defaultRecordLimit = 100

// RecordsHandler serves the transfer history.
type RecordsHandler struct {
	records services.RecordRepository
}

func NewRecordsHandler(records services.RecordRepository) *RecordsHandler {
	return &RecordsHandler{records: records}
}

func (h *RecordsHandler) ListUploads(w http.ResponseWriter, r *http.Request) {
	recs, err := h.records.ListUploads(r.Context(), recordLimit(r))
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "uploads": recs})
}

func (h *RecordsHandler) ListDownloads(w http.ResponseWriter, r *http.Request) {
	recs, err := h.records.ListDownloads(r.Context(), recordLimit(r))
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "downloads": recs})
}

func (h *RecordsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	recs, err := h.records.ListTransactions(r.Context(), recordLimit(r))
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "transactions": recs})
}

func recordLimit(r *http.Request) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			return n
		}
	}
	return defaultRecordLimit
}
