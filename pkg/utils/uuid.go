package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// NewLineID generates a client-side cart line id, e.g. "item-3f9a1c2b"
func NewLineID() string {
	return "item-" + strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

// NewIdempotencyKey generates a key sent with sale submissions
func NewIdempotencyKey() string {
	return uuid.New().String()
}

// ReceiptNumber builds "R<last 4 chars of sale id>-<last 6 digits of unix ms>".
// An empty sale id is replaced by "0000"; a shorter id is used whole.
func ReceiptNumber(saleID string, at time.Time) string {
	suffix := "0000"
	if saleID != "" {
		suffix = saleID[max(0, len(saleID)-4):]
	}
	ms := fmt.Sprintf("%d", at.UnixMilli())
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return fmt.Sprintf("R%s-%s", suffix, ms)
}
