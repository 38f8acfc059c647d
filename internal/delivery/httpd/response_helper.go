package httpd

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/juju/errors"
)

// Виды ошибок в ответе
const (
	kindValidation   = "validation"
	kindNotFound     = "not_found"
	kindConflict     = "conflict"
	kindNotSupported = "not_supported"
	kindInternal     = "internal"
)

func getIntQueryParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// getIDParam читает положительный int64 из пути.
func getIDParam(r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	response := map[string]interface{}{
		"error": map[string]interface{}{
			"code":    status,
			"kind":    kind,
			"message": message,
		},
		"success":   false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	writeJSON(w, status, response)
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeSuccessStatus(w, http.StatusOK, data)
}

func writeCreated(w http.ResponseWriter, data interface{}) {
	writeSuccessStatus(w, http.StatusCreated, data)
}

func writeSuccessStatus(w http.ResponseWriter, status int, data interface{}) {
	response := map[string]interface{}{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	writeJSON(w, status, response)
}

// handleServiceError maps error kinds to HTTP statuses. Unexpected errors are
// logged and reported with the fallback message only.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, errors.NotValid):
		writeError(w, http.StatusBadRequest, kindValidation, err.Error())
	case errors.Is(err, errors.NotFound):
		writeError(w, http.StatusNotFound, kindNotFound, err.Error())
	case errors.Is(err, errors.AlreadyExists):
		writeError(w, http.StatusConflict, kindConflict, err.Error())
	case errors.Is(err, errors.NotSupported):
		writeError(w, http.StatusNotImplemented, kindNotSupported, err.Error())
	default:
		h.logger.Error().Err(err).Msg(fallback)
		writeError(w, http.StatusInternalServerError, kindInternal, fallback)
	}
}
