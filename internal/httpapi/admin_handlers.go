package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

func (a *API) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.idp.ListUsers(r.Context())
	if err != nil {
		a.handleUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

type networkStatusResponse struct {
	TotalPeers        int    `json:"totalPeers"`
	ConnectedPeers    int    `json:"connectedPeers"`
	DisconnectedPeers int    `json:"disconnectedPeers"`
	TotalGroups       int    `json:"totalGroups"`
	Timestamp         string `json:"timestamp"`
}

// handleAdminNetworkStatus is the one two-call dispatch: peers and groups are
// fetched and combined by counting connected peers. Either failure fails the
// whole operation.
func (a *API) handleAdminNetworkStatus(w http.ResponseWriter, r *http.Request) {
	peers, err := a.mesh.ListPeers(r.Context())
	if err != nil {
		a.handleUpstreamError(w, r, err)
		return
	}
	groups, err := a.mesh.ListGroups(r.Context())
	if err != nil {
		a.handleUpstreamError(w, r, err)
		return
	}

	connected := 0
	for _, p := range peers {
		if p.Connected {
			connected++
		}
	}

	writeJSON(w, http.StatusOK, networkStatusResponse{
		TotalPeers:        len(peers),
		ConnectedPeers:    connected,
		DisconnectedPeers: len(peers) - connected,
		TotalGroups:       len(groups),
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
	})
}

type createGroupRequest struct {
	Name  string   `json:"name"`
	Peers []string `json:"peers"`
}

func (a *API) handleAdminCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, r, http.StatusBadRequest, "group name is required")
		return
	}

	group, err := a.mesh.CreateGroup(r.Context(), strings.TrimSpace(req.Name), trimStrings(req.Peers))
	if err != nil {
		a.handleUpstreamError(w, r, err)
		return
	}

	_ = a.audit.Event(r.Context(), "netbird.group.create", map[string]any{
		"group_id": group.ID,
		"name":     group.Name,
	})

	writeJSON(w, http.StatusCreated, map[string]any{"group": group})
}

func (a *API) handleAdminLogs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 500 {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = v
	}
	writeJSON(w, http.StatusOK, map[string]any{"logs": a.audit.Recent(limit)})
}
