package netbird

import "time"

// Peer is a device enrolled in the mesh network. All fields are owned by the
// control plane; the gateway never persists them.
type Peer struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	IP        string   `json:"ip"`
	Connected bool     `json:"connected"`
	LastSeen  string   `json:"last_seen"`
	OS        string   `json:"os"`
	Version   string   `json:"version"`
	Groups    []string `json:"groups"`
}

// Group is a named collection of peers used for access control.
type Group struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	PeersCount int      `json:"peers_count"`
	Peers      []string `json:"peers,omitempty"`
}

// Policy is a network access-control rule.
type Policy struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Enabled      bool     `json:"enabled"`
	Sources      []string `json:"sources,omitempty"`
	Destinations []string `json:"destinations,omitempty"`
}

// SetupKey is a time- and use-limited credential for enrolling one device.
// ExpiresAt is computed locally from the requested lifetime; single-use
// accounting stays with the control plane.
type SetupKey struct {
	ID         string    `json:"id"`
	Key        string    `json:"key"`
	Name       string    `json:"name"`
	ExpiresAt  time.Time `json:"expires_at"`
	AutoGroups []string  `json:"auto_groups"`
	UsageLimit int       `json:"usage_limit"`
	UsedTimes  int       `json:"used_times"`
}
