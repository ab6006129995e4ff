package utils

import (
	"caselink-service/internal/pkg/constvars"

	"github.com/google/uuid"
)

// UUIDGenerator is the production identifier source. Components take it
// through the contracts.IDGenerator interface so tests can pin ids.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// GenerateRequestID produces the per-run request identifier carried in
// logging context and the X-Request-ID header.
func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.NewString()
}
