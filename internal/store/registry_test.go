// SPDX-License-Identifier: Apache-2.0

package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3x-Projetos/Personal-AI-Infrastructure/models"
)

func newTestRegistry(t *testing.T) (*RegistryStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devices.json")
	s, err := NewRegistryStore(path)
	require.NoError(t, err)
	return s, path
}

func TestRegistryTouchUnknownDevice(t *testing.T) {
	s, _ := newTestRegistry(t)

	err := s.Touch("ghost", time.Now())
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestRegistryTouchUpdatesLastSeen(t *testing.T) {
	s, path := newTestRegistry(t)
	require.NoError(t, s.Register(models.DeviceRecord{
		Name: "laptop",
		Type: models.DeviceLaptop,
		OS:   "linux",
	}))

	now := time.Now().Truncate(time.Second)
	require.NoError(t, s.Touch("laptop", now))

	dev, ok := s.Get("laptop")
	require.True(t, ok)
	assert.True(t, dev.LastSeen.Equal(now))
	assert.Equal(t, models.DeviceActive, dev.Status)

	// Invariants are re-established on disk.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var reg models.DeviceRegistry
	require.NoError(t, json.Unmarshal(data, &reg))
	assert.Equal(t, 1, reg.TotalDevices)
	assert.False(t, reg.LastUpdated.Before(now))
}

func TestRegistryStaleDemotionOnLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.json")
	reg := models.DeviceRegistry{
		Devices: map[string]models.DeviceRecord{
			"laptop": {
				Name:     "laptop",
				Status:   models.DeviceActive,
				LastSeen: time.Now().Add(-30 * 24 * time.Hour),
			},
			"desktop": {
				Name:     "desktop",
				Status:   models.DeviceActive,
				LastSeen: time.Now().Add(-time.Hour),
			},
		},
	}
	data, err := json.Marshal(reg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	s, err := NewRegistryStore(path)
	require.NoError(t, err)

	laptop, _ := s.Get("laptop")
	assert.Equal(t, models.DeviceStale, laptop.Status)
	desktop, _ := s.Get("desktop")
	assert.Equal(t, models.DeviceActive, desktop.Status)
}

func TestRegistryTouchPromotesStale(t *testing.T) {
	s, _ := newTestRegistry(t)
	require.NoError(t, s.Register(models.DeviceRecord{
		Name:     "laptop",
		Status:   models.DeviceStale,
		LastSeen: time.Now().Add(-30 * 24 * time.Hour),
	}))

	require.NoError(t, s.Touch("laptop", time.Now()))

	dev, _ := s.Get("laptop")
	assert.Equal(t, models.DeviceActive, dev.Status)
}

func TestRegistryTouchKeepsInactive(t *testing.T) {
	s, _ := newTestRegistry(t)
	require.NoError(t, s.Register(models.DeviceRecord{
		Name:   "old-vm",
		Status: models.DeviceInactive,
	}))

	require.NoError(t, s.Touch("old-vm", time.Now()))

	dev, _ := s.Get("old-vm")
	assert.Equal(t, models.DeviceInactive, dev.Status)
}

func TestRegistryMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	_, err := NewRegistryStore(path)
	require.Error(t, err)
}
