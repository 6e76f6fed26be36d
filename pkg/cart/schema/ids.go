package schema

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

var cartIDPattern = regexp.MustCompile(`^0x[0-9A-F]{16}$`)

// NewProjectID returns a fresh version-4 UUID string.
func NewProjectID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate project id: %w", err)
	}
	return id.String(), nil
}

// NewCartID returns a random 64-bit value formatted as 0x plus 16 uppercase
// hex digits.
func NewCartID() (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("failed to generate cart id: %w", err)
	}
	return FormatCartID(binary.BigEndian.Uint64(buf[:])), nil
}

// FormatCartID formats v the way cart ids are stored.
func FormatCartID(v uint64) string {
	return fmt.Sprintf("0x%016X", v)
}

// IsCartID reports whether s has the cart id shape.
func IsCartID(s string) bool {
	return cartIDPattern.MatchString(s)
}
