package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/infra-neo/portal-api/internal/netbird"
)

func (a *API) handleListPeers(w http.ResponseWriter, r *http.Request) {
	peers, err := a.mesh.ListPeers(r.Context())
	if err != nil {
		a.handleUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"peers": peers})
}

func (a *API) handleGetPeer(w http.ResponseWriter, r *http.Request) {
	peer, err := a.mesh.GetPeer(r.Context(), chi.URLParam(r, "peerID"))
	if err != nil {
		a.handleUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"peer": peer})
}

func (a *API) handleDeletePeer(w http.ResponseWriter, r *http.Request) {
	peerID := chi.URLParam(r, "peerID")
	if err := a.mesh.DeletePeer(r.Context(), peerID); err != nil {
		a.handleUpstreamError(w, r, err)
		return
	}

	_ = a.audit.Event(r.Context(), "netbird.peer.delete", map[string]any{
		"peer_id": peerID,
	})

	writeJSON(w, http.StatusOK, map[string]any{"message": "peer deleted"})
}

type updatePeerGroupsRequest struct {
	Groups []string `json:"groups"`
}

func (a *API) handleUpdatePeerGroups(w http.ResponseWriter, r *http.Request) {
	var req updatePeerGroupsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Groups == nil {
		writeError(w, r, http.StatusBadRequest, "groups are required")
		return
	}

	peerID := chi.URLParam(r, "peerID")
	peer, err := a.mesh.UpdatePeerGroups(r.Context(), peerID, trimStrings(req.Groups))
	if err != nil {
		a.handleUpstreamError(w, r, err)
		return
	}

	_ = a.audit.Event(r.Context(), "netbird.peer.update_groups", map[string]any{
		"peer_id": peerID,
		"groups":  peer.Groups,
	})

	writeJSON(w, http.StatusOK, map[string]any{"peer": peer})
}

func (a *API) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := a.mesh.ListGroups(r.Context())
	if err != nil {
		a.handleUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": groups})
}

func (a *API) handleListACLs(w http.ResponseWriter, r *http.Request) {
	policies, err := a.mesh.ListPolicies(r.Context())
	if err != nil {
		a.handleUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"acls": policies})
}

type createSetupKeyRequest struct {
	Name          string   `json:"name"`
	AutoGroups    []string `json:"autoGroups"`
	ExpiresInDays int      `json:"expiresInDays"`
	UsageLimit    int      `json:"usageLimit"`
}

func (a *API) handleCreateSetupKey(w http.ResponseWriter, r *http.Request) {
	var req createSetupKeyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, r, http.StatusBadRequest, "setup key name is required")
		return
	}
	if req.ExpiresInDays < 0 {
		writeError(w, r, http.StatusBadRequest, "expiresInDays must be >= 0")
		return
	}
	if req.UsageLimit < 0 {
		writeError(w, r, http.StatusBadRequest, "usageLimit must be >= 0")
		return
	}

	key, err := a.mesh.CreateSetupKey(r.Context(), strings.TrimSpace(req.Name), trimStrings(req.AutoGroups), req.ExpiresInDays, req.UsageLimit)
	if err != nil {
		a.handleUpstreamError(w, r, err)
		return
	}

	_ = a.audit.Event(r.Context(), "netbird.setup_key.create", map[string]any{
		"key_id":      key.ID,
		"name":        key.Name,
		"auto_groups": key.AutoGroups,
		"expires_at":  key.ExpiresAt,
	})

	writeJSON(w, http.StatusCreated, map[string]any{"setupKey": setupKeyView(key)})
}

// setupKeyView shapes the adapter result for clients; the secret value is
// included because creation is the only time it is ever shown.
func setupKeyView(key netbird.SetupKey) map[string]any {
	return map[string]any{
		"id":         key.ID,
		"key":        key.Key,
		"name":       key.Name,
		"expiresAt":  key.ExpiresAt,
		"autoGroups": key.AutoGroups,
		"usageLimit": key.UsageLimit,
		"usedTimes":  key.UsedTimes,
	}
}
