package services

import "time"

// Timestamps are stored as fixed-width UTC strings so that the text
// ordering the feed queries rely on matches chronological ordering.
// RFC3339Nano would trim trailing zeros and break that property.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
