// SPDX-License-Identifier: Apache-2.0

// Package store holds the persisted state of the synchronization layer: the
// device registry and pending-push queue as whole-file-replace JSON, the
// conflict archive with its append-only resolution log, and the sqlite
// activity log.
//
// Every JSON store is single-writer per device: one hook invocation at a
// time touches the files, so read-modify-write with a full rewrite is safe
// at this scale.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/3x-Projetos/Personal-AI-Infrastructure/models"
)

// staleAfter is how long a device may stay unseen before a registry load
// demotes it from active to stale. Inactive is manual-only and never
// touched here.
const staleAfter = 14 * 24 * time.Hour

// RegistryStore persists the device registry.
type RegistryStore struct {
	path string

	mu   sync.RWMutex
	data models.DeviceRegistry
}

// NewRegistryStore loads the registry at path. A missing file yields an
// empty registry; a malformed file is a data-integrity error and the caller
// treats the registry as absent for this invocation.
func NewRegistryStore(path string) (*RegistryStore, error) {
	s := &RegistryStore{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *RegistryStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = models.DeviceRegistry{Devices: make(map[string]models.DeviceRecord)}
			return nil
		}
		return fmt.Errorf("read registry file: %w", err)
	}

	var reg models.DeviceRegistry
	if err = json.Unmarshal(data, &reg); err != nil {
		return fmt.Errorf("decode registry file: %w", err)
	}
	if reg.Devices == nil {
		reg.Devices = make(map[string]models.DeviceRecord)
	}

	now := time.Now()
	for name, dev := range reg.Devices {
		if dev.Status == models.DeviceActive && now.Sub(dev.LastSeen) > staleAfter {
			dev.Status = models.DeviceStale
			reg.Devices[name] = dev
		}
	}

	s.data = reg
	return nil
}

func (s *RegistryStore) persist() error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create registry dir: %w", err)
		}
	}

	// Re-establish the registry invariants on every write.
	s.data.TotalDevices = len(s.data.Devices)
	for _, dev := range s.data.Devices {
		if dev.LastSeen.After(s.data.LastUpdated) {
			s.data.LastUpdated = dev.LastSeen
		}
	}

	payload, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}

	if err = os.WriteFile(s.path, payload, 0o600); err != nil {
		return fmt.Errorf("write registry file: %w", err)
	}

	return nil
}

// Touch updates last_seen for the named device and promotes it back to
// active unless it was manually demoted to inactive. Returns
// ErrDeviceNotFound when the device has never been registered: the record
// is not created here, registration is a separate flow.
func (s *RegistryStore) Touch(name string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dev, ok := s.data.Devices[name]
	if !ok {
		return ErrDeviceNotFound
	}

	dev.LastSeen = now
	if dev.Status == models.DeviceStale {
		dev.Status = models.DeviceActive
	}
	s.data.Devices[name] = dev
	if now.After(s.data.LastUpdated) {
		s.data.LastUpdated = now
	}

	return s.persist()
}

// Get returns the record for name.
func (s *RegistryStore) Get(name string) (models.DeviceRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dev, ok := s.data.Devices[name]
	return dev, ok
}

// Register creates or replaces a device record. Used by the out-of-band
// registration flow and by tests.
func (s *RegistryStore) Register(dev models.DeviceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dev.FirstSeen.IsZero() {
		dev.FirstSeen = time.Now()
	}
	if dev.Status == "" {
		dev.Status = models.DeviceActive
	}
	s.data.Devices[dev.Name] = dev

	return s.persist()
}
