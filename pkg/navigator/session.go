package navigator

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const (
	sessionPrefix    = "session_"
	sessionSuffixLen = 9
	base36           = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// NewSessionID mints a session identifier of the form
// session_<unix-ms>_<9 base36 chars>. Uniqueness is best effort.
func NewSessionID() string {
	return newSessionID(time.Now(), rand.IntN) //nolint:gosec // identifiers are not secrets
}

func newSessionID(now time.Time, intn func(int) int) string {
	var b strings.Builder
	b.WriteString(sessionPrefix)
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	b.WriteByte('_')
	for range sessionSuffixLen {
		b.WriteByte(base36[intn(len(base36))])
	}
	return b.String()
}
