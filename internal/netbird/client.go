// Package netbird adapts the mesh-VPN control-plane REST API. Every method
// forwards one HTTP call and returns the parsed response; failures surface as
// *upstream.Error without retries.
package netbird

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/infra-neo/portal-api/internal/upstream"
)

const serviceName = "netbird"

// Client talks to one NetBird management API endpoint.
type Client struct {
	api *upstream.Client
	now func() time.Time
}

// New builds a client for the given base URL and personal access token.
func New(baseURL, token string) *Client {
	return &Client{
		api: upstream.NewClient(serviceName, baseURL, token),
		now: time.Now,
	}
}

// ListPeers returns all peers in the network.
func (c *Client) ListPeers(ctx context.Context) ([]Peer, error) {
	var peers []Peer
	if err := c.api.DoJSON(ctx, http.MethodGet, "/peers", nil, &peers); err != nil {
		return nil, err
	}
	return peers, nil
}

// GetPeer returns one peer by id.
func (c *Client) GetPeer(ctx context.Context, id string) (Peer, error) {
	var peer Peer
	if err := c.api.DoJSON(ctx, http.MethodGet, "/peers/"+url.PathEscape(id), nil, &peer); err != nil {
		return Peer{}, err
	}
	return peer, nil
}

// DeletePeer removes a peer from the network.
func (c *Client) DeletePeer(ctx context.Context, id string) error {
	return c.api.DoJSON(ctx, http.MethodDelete, "/peers/"+url.PathEscape(id), nil, nil)
}

// UpdatePeerGroups replaces the group memberships of a peer.
func (c *Client) UpdatePeerGroups(ctx context.Context, id string, groups []string) (Peer, error) {
	body := struct {
		Groups []string `json:"groups"`
	}{Groups: groups}
	var peer Peer
	if err := c.api.DoJSON(ctx, http.MethodPut, "/peers/"+url.PathEscape(id), body, &peer); err != nil {
		return Peer{}, err
	}
	return peer, nil
}

// ListGroups returns all access-control groups.
func (c *Client) ListGroups(ctx context.Context) ([]Group, error) {
	var groups []Group
	if err := c.api.DoJSON(ctx, http.MethodGet, "/groups", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// CreateGroup creates a group with an optional initial peer list. The name
// must be validated by the caller; the control plane owns all other rules.
func (c *Client) CreateGroup(ctx context.Context, name string, peerIDs []string) (Group, error) {
	if strings.TrimSpace(name) == "" {
		return Group{}, errors.New("netbird: group name is required")
	}
	if peerIDs == nil {
		peerIDs = []string{}
	}
	body := struct {
		Name  string   `json:"name"`
		Peers []string `json:"peers"`
	}{Name: name, Peers: peerIDs}
	var group Group
	if err := c.api.DoJSON(ctx, http.MethodPost, "/groups", body, &group); err != nil {
		return Group{}, err
	}
	return group, nil
}

// ListPolicies returns the network ACL rules.
func (c *Client) ListPolicies(ctx context.Context) ([]Policy, error) {
	var policies []Policy
	if err := c.api.DoJSON(ctx, http.MethodGet, "/policies", nil, &policies); err != nil {
		return nil, err
	}
	return policies, nil
}

type createSetupKeyRequest struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	ExpiresIn  int64    `json:"expires_in"`
	AutoGroups []string `json:"auto_groups"`
	UsageLimit int      `json:"usage_limit"`
}

type setupKeyResponse struct {
	ID         string   `json:"id"`
	Key        string   `json:"key"`
	Name       string   `json:"name"`
	AutoGroups []string `json:"auto_groups"`
	UsageLimit int      `json:"usage_limit"`
	UsedTimes  int      `json:"used_times"`
}

// CreateSetupKey creates an enrollment credential. The control plane accepts
// a relative lifetime, so the absolute expiry is computed here before the
// call and is authoritative for callers regardless of the response payload.
func (c *Client) CreateSetupKey(ctx context.Context, name string, autoGroups []string, expiresInDays, usageLimit int) (SetupKey, error) {
	if strings.TrimSpace(name) == "" {
		return SetupKey{}, errors.New("netbird: setup key name is required")
	}
	if expiresInDays <= 0 {
		expiresInDays = 30
	}
	if usageLimit <= 0 {
		usageLimit = 1
	}
	if autoGroups == nil {
		autoGroups = []string{}
	}

	expiresAt := c.now().UTC().Add(time.Duration(expiresInDays) * 24 * time.Hour)

	req := createSetupKeyRequest{
		Name:       name,
		Type:       "reusable",
		ExpiresIn:  int64(expiresInDays) * 24 * 60 * 60,
		AutoGroups: autoGroups,
		UsageLimit: usageLimit,
	}
	var resp setupKeyResponse
	if err := c.api.DoJSON(ctx, http.MethodPost, "/setup-keys", req, &resp); err != nil {
		return SetupKey{}, err
	}

	return SetupKey{
		ID:         resp.ID,
		Key:        resp.Key,
		Name:       resp.Name,
		ExpiresAt:  expiresAt,
		AutoGroups: resp.AutoGroups,
		UsageLimit: resp.UsageLimit,
		UsedTimes:  resp.UsedTimes,
	}, nil
}
