package util

import (
	"strconv"
	"time"
)

// FromUnix converts provider epoch seconds to a UTC instant.
func FromUnix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// MonthDayLabel formats t as "M/D" in UTC.
func MonthDayLabel(t time.Time) string {
	t = t.UTC()
	return strconv.Itoa(int(t.Month())) + "/" + strconv.Itoa(t.Day())
}
