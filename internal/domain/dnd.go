package domain

import (
	"fmt"
	"strings"
	"time"
)

const DefaultTimezone = "UTC"

// DndWindow is a recurring weekly do-not-disturb interval. StartTime and
// EndTime are HH:MM wall-clock values in Timezone; EndTime <= StartTime
// means the window ends on the following day.
type DndWindow struct {
	WindowID  string    `json:"windowId"`
	UserID    string    `json:"userId"`
	Days      []string  `json:"days"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"createdAt"`
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday accepts full English day names in any case.
func ParseWeekday(name string) (time.Weekday, error) {
	day, ok := weekdays[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: unknown weekday %q", ErrInvalidWindow, name)
	}
	return day, nil
}

// WeekdayName is the canonical lower-case name stored for a weekday.
func WeekdayName(day time.Weekday) string {
	return strings.ToLower(day.String())
}

// Location resolves the window timezone, defaulting to UTC.
func (w DndWindow) Location() (*time.Location, error) {
	if w.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(w.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", ErrInvalidWindow, w.Timezone)
	}
	return loc, nil
}
