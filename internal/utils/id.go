package utils

import (
	"crypto/rand"
	"strconv"
	"time"
)

const (
	roomIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	roomIDLength   = 8
)

// NewRoomID returns a short random room identifier: 8 characters of
// base-36, ~2.8e12 possible values. Uniqueness is best-effort; the
// broker re-checks against the store and regenerates on collision.
func NewRoomID() string {
	buf := make([]byte, roomIDLength)
	if _, err := rand.Read(buf); err != nil {
		// Fallback to a timestamp-derived token if crypto/rand is
		// unavailable.
		s := strconv.FormatInt(time.Now().UnixNano(), 36)
		return s[len(s)-roomIDLength:]
	}

	for i, b := range buf {
		buf[i] = roomIDAlphabet[int(b)%len(roomIDAlphabet)]
	}
	return string(buf)
}
