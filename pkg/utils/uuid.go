package utils

import (
	"strings"

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

// GeneratePixCode generates a simulated PIX copy-and-paste code.
// No real gateway is involved; the code only needs to be globally distinct.
func GeneratePixCode() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "PIX" + strings.ToUpper(hex[:20])
}

// GenerateTransactionCode generates a placeholder transaction identifier
func GenerateTransactionCode() string {
	return "TXN-" + strings.ToUpper(uuid.New().String()[:8])
}
