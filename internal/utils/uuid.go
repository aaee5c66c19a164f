// SPDX-License-Identifier: Apache-2.0

package utils

import "github.com/google/uuid"

// UUIDGenerator produces time-ordered identifiers for activity entries and
// conflict-archive artifacts. V7 keeps archive listings chronological.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
