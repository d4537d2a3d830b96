package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/infra-neo/portal-api/internal/upstream"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"error": msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

// handleUpstreamError maps adapter failures to the fixed response shape. An
// upstream 404 on a resource lookup surfaces as a local 404; everything else
// generalizes to 500 so upstream internals never leak to clients. Development
// builds keep the original message for debugging.
func (a *API) handleUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	if ue, ok := upstream.AsError(err); ok {
		switch {
		case ue.NotFound():
			writeError(w, r, http.StatusNotFound, "resource not found")
		case a.cfg.Development():
			writeError(w, r, http.StatusInternalServerError, ue.Error())
		default:
			writeError(w, r, http.StatusInternalServerError, "upstream service error")
		}
		return
	}
	if a.cfg.Development() {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	writeError(w, r, http.StatusInternalServerError, "internal error")
}

func trimStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
