package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/infra-neo/portal-api/internal/auth"
	"github.com/infra-neo/portal-api/internal/enrollment"
)

type enrollDeviceRequest struct {
	DeviceName string `json:"deviceName"`
	OS         string `json:"os"`
}

func (a *API) handleEnrollDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	var req enrollDeviceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := a.enroll.Enroll(r.Context(), id, req.DeviceName, req.OS)
	if err != nil {
		if errors.Is(err, enrollment.ErrDeviceNameRequired) {
			writeError(w, r, http.StatusBadRequest, "device name is required")
			return
		}
		a.handleUpstreamError(w, r, err)
		return
	}

	_ = a.audit.Event(r.Context(), "enrollment.device.create", map[string]any{
		"device_name": req.DeviceName,
		"os":          req.OS,
		"expires_at":  result.ExpiresAt,
	})

	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleEnrollmentStatus(w http.ResponseWriter, r *http.Request) {
	status, err := a.enroll.Status(chi.URLParam(r, "token"))
	if err != nil {
		if errors.Is(err, enrollment.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "enrollment not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, status)
}
