package system

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Clock is the wall clock used in production wiring.
type Clock struct{}

func (Clock) Now() time.Time {
	return time.Now().UTC()
}

// UUIDGenerator issues v4 identifiers for idempotency tokens.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
