package shared

import (
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh identifier for a stored record.
// UUIDv7 puts a millisecond timestamp in front of random bits, which keeps
// ids unique, roughly time ordered and safe to embed in URLs.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Now returns the current time in UTC truncated to microseconds,
// the precision PostgreSQL keeps for timestamptz columns.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
