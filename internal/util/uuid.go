package util

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ShortUUID generates a URL-safe id of 22 symbols
func ShortUUID() string {
	u := uuid.New()
	return base64.RawURLEncoding.EncodeToString(u[:])
}

// ShortID returns the first n symbols of a ShortUUID.
func ShortID(n int) (string, error) {
	id := ShortUUID()
	if n <= 0 || n > len(id) {
		return "", fmt.Errorf("id length must be between 1 and %d, got %d", len(id), n)
	}
	return id[:n], nil
}

// NewRequestID builds a trip request id of the form "{unix millis}-{short id}".
func NewRequestID(now time.Time) string {
	suffix, _ := ShortID(6)
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + suffix
}
