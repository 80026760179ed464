package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseClock parses a time of day such as "9:05", "09:05", "10:30 AM" or
// "9:05 pm" into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, ".", "")

	meridiem := ""
	for _, suffix := range []string{"AM", "PM"} {
		if strings.HasSuffix(v, suffix) {
			meridiem = suffix
			v = strings.TrimSpace(strings.TrimSuffix(v, suffix))
		}
	}

	parts := strings.Split(v, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("parse clock %q: expected HH:MM", s)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: hours: %w", s, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: minutes: %w", s, err)
	}
	seconds := 0
	if len(parts) == 3 {
		if seconds, err = strconv.Atoi(parts[2]); err != nil {
			return 0, fmt.Errorf("parse clock %q: seconds: %w", s, err)
		}
	}

	switch meridiem {
	case "AM":
		if hours == 12 {
			hours = 0
		}
	case "PM":
		if hours != 12 {
			hours += 12
		}
	}

	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 || seconds < 0 || seconds > 59 {
		return 0, fmt.Errorf("parse clock %q: out of range", s)
	}

	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second, nil
}

// OnDay anchors a time-of-day offset to the calendar day of day.
func OnDay(day time.Time, offset time.Duration) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, day.Location()).Add(offset)
}

// EndOfDay is the last instant of day's calendar date.
func EndOfDay(day time.Time) time.Time {
	return OnDay(day, 24*time.Hour-time.Nanosecond)
}
