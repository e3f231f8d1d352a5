package model

import (
	"fmt"
	"strings"
	"time"
)

// deadlineFormats lists the wire formats the API is known to emit. Newer
// deployments produce RFC 3339; Flask's jsonify produces RFC 1123.
var deadlineFormats = []string{
	time.RFC3339,
	time.RFC1123,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a nullable point in time on the wire. The zero value means
// absent and round-trips as JSON null.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t as a Timestamp.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// MarshalJSON encodes the timestamp as an RFC 3339 string, or null when zero.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}

// UnmarshalJSON accepts null, an empty string, or any of the known deadline
// formats.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, format := range deadlineFormats {
		parsed, err := time.Parse(format, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}

	return fmt.Errorf("unrecognized timestamp %q", s)
}
