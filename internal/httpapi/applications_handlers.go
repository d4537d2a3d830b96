package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/infra-neo/portal-api/internal/auth"
	"github.com/infra-neo/portal-api/internal/catalog"
)

// handleListApplications returns the catalog entries visible to the caller's
// groups, in catalog order.
func (a *API) handleListApplications(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"applications": a.catalog.Visible(id.Groups),
	})
}

// handleGetApplication returns one catalog entry. Unknown ids are 404; an
// existing entry outside the caller's groups is 403.
func (a *API) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	entry, err := a.catalog.Get(chi.URLParam(r, "appID"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "application not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	if len(catalog.Filter([]catalog.Entry{entry}, id.Groups)) == 0 {
		writeError(w, r, http.StatusForbidden, "application not available to your groups")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"application": entry})
}
