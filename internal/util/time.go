package util

import (
	"fmt"
	"strings"
	"time"
)

var twelveHourLayouts = []string{"3:04PM", "3:04 PM", "03:04PM", "03:04 PM"}

// ParseTimeString parses a wall clock time for today in either 24-hour
// ("23:30") or 12-hour ("11:30PM", "9:45 AM") form.
func ParseTimeString(timeStr string) (time.Time, error) {
	return ParseTimeStringWithNow(timeStr, time.Now())
}

// ParseTimeStringWithNow is ParseTimeString anchored at a caller supplied now.
func ParseTimeStringWithNow(timeStr string, now time.Time) (time.Time, error) {
	timeStr = strings.TrimSpace(strings.ToUpper(timeStr))
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	layouts := append([]string{"15:04"}, twelveHourLayouts...)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, timeStr); err == nil {
			return today.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
		}
	}

	return time.Time{}, fmt.Errorf("Invalid time format: %s\n\nValid formats:\n"+
		"• 24-hour format: HH:MM (e.g., '23:30', '09:45')\n"+
		"• 12-hour format: HH:MM[AM|PM] (e.g., '11:30PM', '9:45 AM')", timeStr)
}

// DurationUntil returns how long until the next occurrence of the clock time.
// A time that has already passed today refers to tomorrow.
func DurationUntil(timeStr string, now time.Time) (time.Duration, error) {
	target, err := ParseTimeStringWithNow(timeStr, now)
	if err != nil {
		return 0, err
	}
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target.Sub(now), nil
}
