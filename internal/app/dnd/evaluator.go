// Package dnd decides whether an instant falls inside a recurring weekly
// do-not-disturb window.
//
// Windows are half-open: an instant equal to the start is inside, one equal
// to the end is not. Weekdays are taken from the local calendar day in the
// window's timezone. A window whose end is at or before its start runs into
// the next day, so it is also checked against the day before the instant.
//
// Whether a window is overnight is decided on wall-clock minutes, never on
// computed instants, so a DST change cannot flip it. A local time skipped or
// repeated by a DST change is read with the offset in effect before the
// change. A repeated time therefore means its first pass, and a skipped time
// moves forward by the gap: in Europe/Warsaw 02:30 on a spring-forward day is
// 03:30 CEST, and a window lying wholly inside the gap is empty that day.
package dnd

import (
	"fmt"
	"time"

	"github.com/medeiros-dev/notification-decision/internal/domain"
)

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses an HH:MM value.
func ParseClock(value string) (Clock, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: time %q must be HH:MM", domain.ErrInvalidWindow, value)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c Clock) minutes() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) on(year int, month time.Month, day int, loc *time.Location) time.Time {
	return resolve(time.Date(year, month, day, c.Hour, c.Minute, 0, 0, time.UTC), loc)
}

// resolve maps a wall-clock time, carried as a UTC value, to an instant in
// loc. A wall time around a clock change is read with the offset in effect
// before the change: a repeated time resolves to its first pass, and a
// skipped time lands after the gap, moved forward by the gap's length.
func resolve(wall time.Time, loc *time.Location) time.Time {
	offsets := nearbyOffsets(time.Date(wall.Year(), wall.Month(), wall.Day(), wall.Hour(), wall.Minute(), 0, 0, loc))

	var (
		best  time.Time
		found bool
	)
	smallest := offsets[0]
	for _, offset := range offsets {
		smallest = min(smallest, offset)
		t := wall.Add(-time.Duration(offset) * time.Second).In(loc)
		if sameWall(t, wall) && (!found || t.Before(best)) {
			best, found = t, true
		}
	}
	if found {
		return best
	}
	// Skipped: the offset grew across the gap, so the smaller one came first.
	return wall.Add(-time.Duration(smallest) * time.Second).In(loc)
}

// nearbyOffsets returns the UTC offsets, in seconds, of the zone in effect
// at t and of the zones either side of it.
func nearbyOffsets(t time.Time) []int {
	_, offset := t.Zone()
	offsets := []int{offset}
	start, end := t.ZoneBounds()
	if !start.IsZero() {
		_, before := start.Add(-time.Second).Zone()
		offsets = append(offsets, before)
	}
	if !end.IsZero() {
		_, after := end.Zone()
		offsets = append(offsets, after)
	}
	return offsets
}

func sameWall(t, wall time.Time) bool {
	y1, m1, d1 := t.Date()
	y2, m2, d2 := wall.Date()
	return y1 == y2 && m1 == m2 && d1 == d2 && t.Hour() == wall.Hour() && t.Minute() == wall.Minute()
}

type window struct {
	days      map[time.Weekday]bool
	start     Clock
	end       Clock
	loc       *time.Location
	overnight bool
}

func compile(w domain.DndWindow) (window, error) {
	loc, err := w.Location()
	if err != nil {
		return window{}, err
	}
	start, err := ParseClock(w.StartTime)
	if err != nil {
		return window{}, err
	}
	end, err := ParseClock(w.EndTime)
	if err != nil {
		return window{}, err
	}
	days := make(map[time.Weekday]bool, len(w.Days))
	for _, name := range w.Days {
		day, err := domain.ParseWeekday(name)
		if err != nil {
			return window{}, err
		}
		days[day] = true
	}
	return window{
		days:      days,
		start:     start,
		end:       end,
		loc:       loc,
		overnight: end.minutes() <= start.minutes(),
	}, nil
}

// occurrence returns the bounds of the window instance that starts on the
// given local calendar day.
func (w window) occurrence(year int, month time.Month, day int) (time.Time, time.Time) {
	start := w.start.on(year, month, day, w.loc)
	if w.overnight {
		return start, w.end.on(year, month, day+1, w.loc)
	}
	return start, w.end.on(year, month, day, w.loc)
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

func (w window) contains(at time.Time) bool {
	local := at.In(w.loc)
	year, month, day := local.Date()

	if w.days[local.Weekday()] {
		start, end := w.occurrence(year, month, day)
		if within(local, start, end) {
			return true
		}
	}

	// An overnight window opened yesterday may still be running.
	previous := (local.Weekday() + 6) % 7
	if w.overnight && w.days[previous] {
		start, end := w.occurrence(year, month, day-1)
		if within(local, start, end) {
			return true
		}
	}
	return false
}

// Contains reports whether at falls inside an occurrence of w. A window
// with an unknown timezone, weekday or malformed time is an error.
func Contains(w domain.DndWindow, at time.Time) (bool, error) {
	compiled, err := compile(w)
	if err != nil {
		return false, fmt.Errorf("window %s: %w", w.WindowID, err)
	}
	return compiled.contains(at), nil
}

// AnyContains reports whether at falls inside any of the windows.
func AnyContains(windows []domain.DndWindow, at time.Time) (bool, error) {
	for _, w := range windows {
		ok, err := Contains(w, at)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
