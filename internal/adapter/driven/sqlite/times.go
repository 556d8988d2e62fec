package sqlite

import (
	"fmt"
	"time"
)

// sqliteTimeLayout matches CURRENT_TIMESTAMP output ("YYYY-MM-DD HH:MM:SS").
const sqliteTimeLayout = "2006-01-02 15:04:05"

// parseTime parses timestamps as stored by SQLite, accepting both the
// CURRENT_TIMESTAMP layout and RFC 3339 written by formatTime.
func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{sqliteTimeLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// formatTime renders a timestamp for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
