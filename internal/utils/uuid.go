package utils

import "github.com/google/uuid"

// RunIDGenerator issues the identifier stamped on every result row of one
// pipeline run.
type RunIDGenerator interface {
	Generate() string
}

// UUIDGenerator issues version 7 UUIDs. They sort by creation time, so rows
// of consecutive runs stay ordered.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate falls back to a random v4 id when the v7 clock source fails.
func (UUIDGenerator) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
