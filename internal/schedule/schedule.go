package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrUnparseable means the text does not look like a clock time at all.
	ErrUnparseable = errors.New("unparseable pickup time")
	// ErrOutsideWindow means the time is well-formed but outside pickup hours.
	ErrOutsideWindow = errors.New("pickup time outside business window")
)

// Clock is a time of day without a date.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" (or "H:MM") into a Clock.
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return Clock{}, fmt.Errorf("invalid clock value %q, want HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return Clock{}, fmt.Errorf("invalid hour in clock value %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("invalid minute in clock value %q", s)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// At anchors the clock time on the calendar date of t, in t's location.
func (c Clock) At(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), c.Hour, c.Minute, 0, 0, t.Location())
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Policy is the immutable business-hours rule set: where the café lives,
// which weekdays it is open, the daily pickup window, and the minimum lead
// time between an incoming message and the earliest pickup.
type Policy struct {
	Location    *time.Location
	OpenDays    map[time.Weekday]bool
	WindowStart Clock
	WindowEnd   Clock
	LeadTime    time.Duration
}

// EarliestPickup returns the first feasible pickup instant: at least LeadTime
// after now, on an open weekday, inside the pickup window. Pure function of
// now and the policy.
func (p Policy) EarliestPickup(now time.Time) time.Time {
	candidate := now.In(p.Location).Add(p.LeadTime)
	if !p.OpenDays[candidate.Weekday()] {
		return p.nextOpenStart(candidate)
	}
	if start := p.WindowStart.At(candidate); candidate.Before(start) {
		return start
	}
	if end := p.WindowEnd.At(candidate); candidate.After(end) {
		// Past closing: do not wrap within the same day.
		return p.nextOpenStart(candidate.AddDate(0, 0, 1))
	}
	return candidate
}

// Accepts "7", "07", "7:15", "07:15"; "." also works as minute delimiter.
var timePattern = regexp.MustCompile(`^(\d{1,2})(?:[:.](\d{1,2}))?$`)

// Resolve validates free text as a pickup time relative to now. A requested
// time earlier than the earliest feasible pickup is not an error: it snaps
// forward, because the customer means "as early as possible from then on".
func (p Policy) Resolve(text string, now time.Time) (time.Time, error) {
	m := timePattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return time.Time{}, ErrUnparseable
	}
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if hour > 23 || minute > 59 {
		return time.Time{}, ErrUnparseable
	}

	earliest := p.EarliestPickup(now)
	target := time.Date(earliest.Year(), earliest.Month(), earliest.Day(), hour, minute, 0, 0, p.Location)
	if target.Before(p.WindowStart.At(target)) || target.After(p.WindowEnd.At(target)) {
		return time.Time{}, ErrOutsideWindow
	}
	if target.Before(earliest) {
		target = earliest
	}
	if !p.OpenDays[target.Weekday()] {
		target = p.nextOpenStart(target)
	}
	return target, nil
}

// nextOpenStart walks forward day by day until an open weekday and returns
// its window start. t itself counts when its weekday is open.
func (p Policy) nextOpenStart(t time.Time) time.Time {
	for !p.OpenDays[t.Weekday()] {
		t = t.AddDate(0, 0, 1)
	}
	return p.WindowStart.At(t)
}

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "Montag",
	time.Tuesday:   "Dienstag",
	time.Wednesday: "Mittwoch",
	time.Thursday:  "Donnerstag",
	time.Friday:    "Freitag",
	time.Saturday:  "Samstag",
	time.Sunday:    "Sonntag",
}

// Format renders an instant for display in replies, e.g.
// "Montag, 02.06.2025 um 10:30 Uhr". Display only, never used for comparisons.
func (p Policy) Format(t time.Time) string {
	t = t.In(p.Location)
	return fmt.Sprintf("%s, %s um %s Uhr", weekdayNames[t.Weekday()], t.Format("02.01.2006"), t.Format("15:04"))
}
