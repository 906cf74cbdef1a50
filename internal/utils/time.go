package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04"
)

var hhmmPattern = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseDate parses YYYY-MM-DD in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), time.UTC)
}

// NormalizeTime extracts HH:MM from inputs like "08:00", "8:00" or "08:00 EET".
// Single-digit hours are zero-padded.
func NormalizeTime(t string) (string, error) {
	m := hhmmPattern.FindStringSubmatch(t)
	if len(m) < 3 {
		return "", errors.New("invalid time format (expected HH:MM)")
	}
	hh, err := strconv.Atoi(m[1])
	if err != nil {
		return "", errors.New("invalid time format")
	}
	hhmm := fmt.Sprintf("%02d:%s", hh, m[2])
	if _, err := time.Parse("15:04", hhmm); err != nil {
		return "", errors.New("invalid time format")
	}
	return hhmm, nil
}

// ParseDateTime joins a YYYY-MM-DD date with an HH:MM time in UTC.
func ParseDateTime(date, clock string) (time.Time, error) {
	hhmm, err := NormalizeTime(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.ParseInLocation(layoutDateTime, strings.TrimSpace(date)+" "+hhmm, time.UTC)
}
