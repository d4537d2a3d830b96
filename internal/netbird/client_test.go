package netbird

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infra-neo/portal-api/internal/upstream"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "test-pat")
}

func TestListPeersForwardsToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/peers", r.URL.Path)
		assert.Equal(t, "Bearer test-pat", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]Peer{
			{ID: "p1", Name: "laptop", Connected: true},
			{ID: "p2", Name: "desktop", Connected: false},
		})
	})

	peers, err := c.ListPeers(context.Background())
	require.NoError(t, err)
	require.Len(t, peers, 2)
	assert.Equal(t, "laptop", peers[0].Name)
	assert.True(t, peers[0].Connected)
}

func TestGetPeerNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"peer not found"}`))
	})

	_, err := c.GetPeer(context.Background(), "missing")
	ue, ok := upstream.AsError(err)
	require.True(t, ok)
	assert.True(t, ue.NotFound())
}

func TestUpdatePeerGroupsSendsBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/peers/p1", r.URL.Path)
		var body struct {
			Groups []string `json:"groups"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"developers"}, body.Groups)
		_ = json.NewEncoder(w).Encode(Peer{ID: "p1", Groups: body.Groups})
	})

	peer, err := c.UpdatePeerGroups(context.Background(), "p1", []string{"developers"})
	require.NoError(t, err)
	assert.Equal(t, []string{"developers"}, peer.Groups)
}

func TestCreateGroupValidatesName(t *testing.T) {
	c := New("http://unused", "pat")
	_, err := c.CreateGroup(context.Background(), "  ", nil)
	require.Error(t, err)
}

func TestCreateSetupKeyComputesLocalExpiry(t *testing.T) {
	var sent createSetupKeyRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/setup-keys", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		// Response deliberately omits any expiry field; the local
		// computation must stand on its own.
		_ = json.NewEncoder(w).Encode(setupKeyResponse{
			ID: "sk1", Key: "secret-key", Name: sent.Name,
			AutoGroups: sent.AutoGroups, UsageLimit: sent.UsageLimit,
		})
	})

	frozen := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return frozen }

	key, err := c.CreateSetupKey(context.Background(), "laptop-key", []string{"user-devices"}, 7, 1)
	require.NoError(t, err)

	assert.Equal(t, frozen.Add(7*24*time.Hour), key.ExpiresAt)
	assert.Equal(t, int64(7*24*60*60), sent.ExpiresIn)
	assert.Equal(t, "reusable", sent.Type)
	assert.Equal(t, 1, sent.UsageLimit)
	assert.Equal(t, "secret-key", key.Key)
}

func TestCreateSetupKeyDefaults(t *testing.T) {
	var sent createSetupKeyRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		_ = json.NewEncoder(w).Encode(setupKeyResponse{ID: "sk1", Key: "k"})
	})

	_, err := c.CreateSetupKey(context.Background(), "k", nil, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(30*24*60*60), sent.ExpiresIn)
	assert.Equal(t, 1, sent.UsageLimit)
	assert.NotNil(t, sent.AutoGroups)
}
