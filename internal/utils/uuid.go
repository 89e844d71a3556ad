package utils

import "github.com/google/uuid"

// UUIDGenerator issues time-ordered ids for action requests.
type UUIDGenerator struct {
}

// NewUUIDGenerator creates a UUIDGenerator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a UUIDv7, falling back to a random UUIDv4.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
