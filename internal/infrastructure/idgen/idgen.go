// Package idgen provides the transaction id generators.
package idgen

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/iho/moneybook/internal/usecase"
)

// UUIDGenerator generates random (version 4) UUIDs.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	return uuid.NewString()
}

// ULIDGenerator generates ULID-based IDs, which sort by creation time.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}

// New returns the generator for strategy ("uuid" or "ulid").
func New(strategy string) (usecase.IDGenerator, error) {
	switch strategy {
	case "", "uuid":
		return NewUUIDGenerator(), nil
	case "ulid":
		return NewULIDGenerator(), nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", strategy)
	}
}
