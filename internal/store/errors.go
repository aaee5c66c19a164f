// SPDX-License-Identifier: Apache-2.0

package store

import "errors"

var (
	// ErrDeviceNotFound indicates the configured device is absent from the
	// registry. Registration is a separate flow; the sync layer only warns.
	ErrDeviceNotFound = errors.New("device not registered")
)
