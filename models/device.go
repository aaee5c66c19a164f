// SPDX-License-Identifier: Apache-2.0

package models

import "time"

// DeviceType classifies the hardware a registered device runs on.
type DeviceType string

const (
	DeviceLaptop  DeviceType = "laptop"
	DeviceDesktop DeviceType = "desktop"
	DeviceVM      DeviceType = "vm"
	DeviceMobile  DeviceType = "mobile"
)

// DeviceStatus is the lifecycle state of a registered device.
//
// A device is active while it checks in regularly, becomes stale when it has
// not been seen for a while, and is inactive only after a manual demotion.
type DeviceStatus string

const (
	DeviceActive   DeviceStatus = "active"
	DeviceStale    DeviceStatus = "stale"
	DeviceInactive DeviceStatus = "inactive"
)

// DeviceRecord describes one device known to the synchronization layer.
// Name is the unique key within a registry.
type DeviceRecord struct {
	Name      string       `json:"name"`
	Type      DeviceType   `json:"type"`
	OS        string       `json:"os"`
	FirstSeen time.Time    `json:"first_seen"`
	LastSeen  time.Time    `json:"last_seen"`
	Providers []string     `json:"providers,omitempty"`
	Status    DeviceStatus `json:"status"`
}

// DeviceRegistry is the synced map of known devices.
//
// Invariants: TotalDevices == len(Devices) and LastUpdated is never earlier
// than the newest LastSeen. The registry store re-establishes both on every
// persist.
type DeviceRegistry struct {
	Devices      map[string]DeviceRecord `json:"devices"`
	TotalDevices int                     `json:"total_devices"`
	LastUpdated  time.Time               `json:"last_updated"`
}
