package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"tenantdash/pkg/session"
)

const (
	typeError   string = "error"
	typeMessage string = "message"

	muxVarTenantID string = "tenant_id"
)

func DecodeJSONBody(w http.ResponseWriter, r *http.Request, req any) bool {
	if r.Header.Get("Content-Type") != "application/json" {
		writeError(w, http.StatusBadRequest, typeError, "invalid Content-Type")
		return false
	}

	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, typeError, "bad json")
		return false
	}

	return true
}

func WriteResp(w http.ResponseWriter, logger *slog.Logger, body map[string]any, status int) bool {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to write JSON response", slog.Any("err", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, data any) bool {
	return writeJSONStatus(w, logger, data, http.StatusOK)
}

// writeJSONStatus marshals data before touching w, so a marshal failure
// still leaves room for the error response.
func writeJSONStatus(w http.ResponseWriter, logger *slog.Logger, data any, status int) bool {
	resp, err := json.Marshal(data)
	if err != nil {
		logger.Error("Failed to serialize JSON response", "error", err)
		writeError(w, http.StatusInternalServerError, typeError, "failed json marshal")
		return false
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(resp); err != nil {
		logger.Error("Failed to write response to client", "error", err)
		return false
	}
	return true
}

func getSessionFromContext(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := session.FromContext(r.Context())
	if !ok || s.User.ID == "" {
		writeError(w, http.StatusUnauthorized, typeMessage, "unauthorized")
		return nil, false
	}
	return s, true
}

func writeError(w http.ResponseWriter, status int, field, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{field: msg}); err != nil {
		return
	}
}
