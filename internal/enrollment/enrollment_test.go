package enrollment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infra-neo/portal-api/internal/auth"
	"github.com/infra-neo/portal-api/internal/netbird"
)

type fakeKeyCreator struct {
	calls int
	name  string
	key   netbird.SetupKey
	err   error
}

func (f *fakeKeyCreator) CreateSetupKey(_ context.Context, name string, autoGroups []string, expiresInDays, usageLimit int) (netbird.SetupKey, error) {
	f.calls++
	f.name = name
	if f.err != nil {
		return netbird.SetupKey{}, f.err
	}
	if f.key.ExpiresAt.IsZero() {
		f.key.ExpiresAt = time.Now().UTC().Add(time.Duration(expiresInDays) * 24 * time.Hour)
	}
	f.key.AutoGroups = autoGroups
	f.key.UsageLimit = usageLimit
	return f.key, nil
}

func TestEnrollCreatesSingleUseKeyAndRecord(t *testing.T) {
	keys := &fakeKeyCreator{key: netbird.SetupKey{ID: "sk1", Key: "secret-key"}}
	svc := NewService(keys)

	actor := auth.Identity{ID: "u1", Email: "jane@example.com"}
	result, err := svc.Enroll(context.Background(), actor, "laptop", "windows")
	require.NoError(t, err)

	assert.Equal(t, 1, keys.calls)
	assert.True(t, strings.HasPrefix(keys.name, "laptop-"))
	assert.Equal(t, []string{"user-devices"}, keys.key.AutoGroups)
	assert.Equal(t, 1, keys.key.UsageLimit)

	assert.NotEmpty(t, result.EnrollmentToken)
	assert.Equal(t, "secret-key", result.SetupKey)
	assert.Contains(t, result.InstallScript, "secret-key")
	assert.Contains(t, result.InstallScript, "laptop")
	assert.False(t, result.ExpiresAt.IsZero())

	status, err := svc.Status(result.EnrollmentToken)
	require.NoError(t, err)
	assert.Equal(t, "pending", status.Status)
	assert.Equal(t, "laptop", status.DeviceName)
}

func TestEnrollRequiresDeviceName(t *testing.T) {
	keys := &fakeKeyCreator{}
	svc := NewService(keys)

	_, err := svc.Enroll(context.Background(), auth.Identity{ID: "u1"}, "   ", "linux")
	assert.ErrorIs(t, err, ErrDeviceNameRequired)
	assert.Zero(t, keys.calls)
}

func TestEnrollPropagatesUpstreamFailure(t *testing.T) {
	keys := &fakeKeyCreator{err: assert.AnError}
	svc := NewService(keys)

	_, err := svc.Enroll(context.Background(), auth.Identity{ID: "u1"}, "laptop", "")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestStatusUnknownToken(t *testing.T) {
	svc := NewService(&fakeKeyCreator{})
	_, err := svc.Status("no-such-token")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatusExpired(t *testing.T) {
	keys := &fakeKeyCreator{key: netbird.SetupKey{ID: "sk1", Key: "k", ExpiresAt: time.Now().UTC().Add(time.Hour)}}
	svc := NewService(keys)

	result, err := svc.Enroll(context.Background(), auth.Identity{ID: "u1"}, "laptop", "")
	require.NoError(t, err)

	// Move the clock past the key lifetime.
	svc.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }

	status, err := svc.Status(result.EnrollmentToken)
	require.NoError(t, err)
	assert.Equal(t, "expired", status.Status)
}

func TestPruneDropsExpiredRecords(t *testing.T) {
	keys := &fakeKeyCreator{key: netbird.SetupKey{ID: "sk1", Key: "k", ExpiresAt: time.Now().UTC().Add(time.Minute)}}
	svc := NewService(keys)

	first, err := svc.Enroll(context.Background(), auth.Identity{ID: "u1"}, "one", "")
	require.NoError(t, err)

	// A later enrollment after the first expired prunes it from the store.
	svc.now = func() time.Time { return time.Now().UTC().Add(time.Hour) }
	keys.key.ExpiresAt = time.Now().UTC().Add(2 * time.Hour)
	_, err = svc.Enroll(context.Background(), auth.Identity{ID: "u1"}, "two", "")
	require.NoError(t, err)

	_, err = svc.Status(first.EnrollmentToken)
	assert.ErrorIs(t, err, ErrNotFound)
}
