// Package enrollment issues mesh enrollment credentials for user devices and
// tracks their status in memory. Records are transient: a gateway restart
// forgets them, which is acceptable because the setup key itself lives in the
// control plane.
package enrollment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/infra-neo/portal-api/internal/auth"
	"github.com/infra-neo/portal-api/internal/ids"
	"github.com/infra-neo/portal-api/internal/netbird"
)

const (
	// deviceGroup is auto-assigned to every self-enrolled device.
	deviceGroup = "user-devices"

	keyLifetimeDays = 7
	keyUsageLimit   = 1

	defaultMaxRecords = 1024
)

var (
	// ErrDeviceNameRequired rejects enrollment requests without a device name.
	ErrDeviceNameRequired = errors.New("enrollment: device name is required")
	// ErrNotFound is returned for unknown or forgotten enrollment tokens.
	ErrNotFound = errors.New("enrollment: not found")
)

// KeyCreator is the slice of the mesh adapter enrollment needs.
type KeyCreator interface {
	CreateSetupKey(ctx context.Context, name string, autoGroups []string, expiresInDays, usageLimit int) (netbird.SetupKey, error)
}

// Record tracks one initiated enrollment.
type Record struct {
	Token      string
	DeviceName string
	OS         string
	ActorID    string
	ActorEmail string
	SetupKeyID string
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// Result is returned to the enrolling client.
type Result struct {
	EnrollmentToken string    `json:"enrollmentToken"`
	SetupKey        string    `json:"setupKey"`
	InstallScript   string    `json:"installScript"`
	ExpiresAt       time.Time `json:"expiresAt"`
}

// Status describes the current state of one enrollment.
type Status struct {
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	DeviceName string    `json:"deviceName"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// Service creates setup keys through the mesh adapter and tracks enrollments.
type Service struct {
	keys KeyCreator
	now  func() time.Time

	mu      sync.Mutex
	records map[string]Record
	max     int
}

// NewService builds an enrollment service.
func NewService(keys KeyCreator) *Service {
	return &Service{
		keys:    keys,
		now:     time.Now,
		records: make(map[string]Record),
		max:     defaultMaxRecords,
	}
}

// Enroll creates a single-use setup key for the device and records a pending
// enrollment keyed by a fresh token.
func (s *Service) Enroll(ctx context.Context, actor auth.Identity, deviceName, deviceOS string) (Result, error) {
	deviceName = strings.TrimSpace(deviceName)
	if deviceName == "" {
		return Result{}, ErrDeviceNameRequired
	}

	now := s.now().UTC()
	keyName := fmt.Sprintf("%s-%d", deviceName, now.Unix())

	key, err := s.keys.CreateSetupKey(ctx, keyName, []string{deviceGroup}, keyLifetimeDays, keyUsageLimit)
	if err != nil {
		return Result{}, err
	}

	token := ids.New()
	record := Record{
		Token:      token,
		DeviceName: deviceName,
		OS:         strings.TrimSpace(deviceOS),
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		SetupKeyID: key.ID,
		CreatedAt:  now,
		ExpiresAt:  key.ExpiresAt,
	}

	s.mu.Lock()
	s.pruneLocked(now)
	s.records[token] = record
	s.mu.Unlock()

	return Result{
		EnrollmentToken: token,
		SetupKey:        key.Key,
		InstallScript:   InstallScript(key.Key, deviceName),
		ExpiresAt:       key.ExpiresAt,
	}, nil
}

// Status reports the state of one enrollment token.
func (s *Service) Status(token string) (Status, error) {
	s.mu.Lock()
	record, ok := s.records[strings.TrimSpace(token)]
	s.mu.Unlock()
	if !ok {
		return Status{}, ErrNotFound
	}

	if s.now().UTC().After(record.ExpiresAt) {
		return Status{
			Status:     "expired",
			Message:    "The setup key for this enrollment has expired",
			DeviceName: record.DeviceName,
			ExpiresAt:  record.ExpiresAt,
		}, nil
	}
	return Status{
		Status:     "pending",
		Message:    "Waiting for device to connect",
		DeviceName: record.DeviceName,
		ExpiresAt:  record.ExpiresAt,
	}, nil
}

// pruneLocked drops expired records and, if the store is still over capacity,
// the oldest tokens (ULIDs sort by creation time).
func (s *Service) pruneLocked(now time.Time) {
	for token, record := range s.records {
		if now.After(record.ExpiresAt) {
			delete(s.records, token)
		}
	}
	for len(s.records) >= s.max {
		oldest := ""
		for token := range s.records {
			if oldest == "" || token < oldest {
				oldest = token
			}
		}
		delete(s.records, oldest)
	}
}
