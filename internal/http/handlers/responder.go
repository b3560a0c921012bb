package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	domaingames "github.com/preston-bernstein/matchday-service/internal/domain/games"
	"github.com/preston-bernstein/matchday-service/internal/http/middleware"
	"github.com/preston-bernstein/matchday-service/internal/http/requestutil"
	"github.com/preston-bernstein/matchday-service/internal/logging"
)

const (
	kindUnauthenticated = "UNAUTHENTICATED"
	kindInternal        = "INTERNAL"
	kindUnavailable     = "UNAVAILABLE"

	maxBodyBytes = 64 << 10
)

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, kind, message string, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get(requestutil.RequestIDHeader)
	}
	body := map[string]string{"error": message}
	if kind != "" {
		body["kind"] = kind
	}
	if reqID != "" {
		body["requestId"] = reqID
	}
	writeJSON(w, status, body, logger)
}

// writeServiceError maps a service error onto its HTTP status. Untyped errors are
// logged and reported without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	status, kind := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.Error(logger, "request failed", err)
		writeError(w, r, status, kind, "internal error", logger)
		return
	}
	logging.Debug(logger, "request rejected",
		slog.String(logging.FieldErrorKind, kind),
		slog.Any("err", err),
	)
	writeError(w, r, status, kind, err.Error(), logger)
}

func statusFor(err error) (int, string) {
	switch kind := domaingames.KindOf(err); kind {
	case domaingames.KindNotFound:
		return http.StatusNotFound, string(kind)
	case domaingames.KindForbidden:
		return http.StatusForbidden, string(kind)
	case domaingames.KindInvalidState, domaingames.KindConflict:
		return http.StatusConflict, string(kind)
	case domaingames.KindValidation:
		return http.StatusBadRequest, string(kind)
	default:
		return http.StatusInternalServerError, kindInternal
	}
}

// requireMember resolves the acting member or writes a 401.
func requireMember(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (string, bool) {
	member := requestutil.MemberID(r)
	if member == "" {
		writeError(w, r, http.StatusUnauthorized, kindUnauthenticated, "missing "+requestutil.MemberHeader+" header", logger)
		return "", false
	}
	return member, true
}

// decodeJSON reads an optional JSON body into dest. An empty body leaves dest untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, op string, dest any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return domaingames.Validation(op, "invalid JSON body: %v", err)
	}
	if dec.More() {
		return domaingames.Validation(op, "invalid JSON body: unexpected trailing data")
	}
	return nil
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
