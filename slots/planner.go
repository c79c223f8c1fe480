// Package slots computes the bookable time slots for a calendar date from
// the shop's weekly schedule, its date overrides, and the appointments
// already on the books. It is pure: the clock is an explicit parameter and
// repeated calls with identical inputs return identical output.
package slots

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultInterval is the slot length used when the caller passes zero.
const DefaultInterval = 30 * time.Minute

// keyLayout is the canonical minute-precision form used to compare a slot
// against occupied appointment instants.
const keyLayout = "2006-01-02T15:04"

// DayRule is the open/closed flag plus opening window governing one day.
// Start and End are "HH:MM" strings and are not examined when Active is false.
type DayRule struct {
	Active bool   `json:"active"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// Weekly maps weekday index (0=Sunday .. 6=Saturday) to that day's rule.
type Weekly map[int]DayRule

// Overrides maps a calendar date key ("yyyy-MM-dd") to a rule that replaces
// the weekly default for that exact date.
type Overrides map[string]DayRule

// Slot is one bookable unit within a day's window.
type Slot struct {
	Label    string    `json:"time"`  // "HH:MM" display string
	Instant  time.Time `json:"-"`     // absolute timestamp of the slot start
	TakenKey string    `json:"-"`     // canonical comparison key
	Taken    bool      `json:"taken"` // claimed by an existing appointment
}

// DateKey returns the override lookup key for a date.
func DateKey(date time.Time) string {
	return date.Format("2006-01-02")
}

// Key canonicalizes an instant for comparison against occupied instants.
func Key(t time.Time) string {
	return t.Format(keyLayout)
}

// ResolveDayRule picks the rule governing date: a date override always wins,
// otherwise the weekly rule for that weekday, otherwise closed.
func ResolveDayRule(date time.Time, weekly Weekly, overrides Overrides) DayRule {
	if rule, ok := overrides[DateKey(date)]; ok {
		return rule
	}
	if rule, ok := weekly[int(date.Weekday())]; ok {
		return rule
	}
	return DayRule{Active: false}
}

// Generate enumerates the slots for date under rule, stepping by interval
// from the rule's start up to but excluding its end, and marks each slot
// taken when its key appears in occupied.
//
// When the rule's end is not strictly after its start (including equal
// times, which collapse to a 24-hour shift) the window is treated as
// crossing midnight and the end advances one calendar day. The data model
// stores only hour and minute, so end <= start is the sole overnight signal.
//
// When date is the same calendar day as now, slots not strictly after now
// are dropped. Slots on other dates are never cutoff-filtered.
func Generate(date time.Time, rule DayRule, occupied map[string]bool, now time.Time, interval time.Duration) ([]Slot, error) {
	if !rule.Active {
		return nil, nil
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	start, err := parseTimeOnDate(date, rule.Start)
	if err != nil {
		return nil, fmt.Errorf("parse start time: %w", err)
	}
	end, err := parseTimeOnDate(date, rule.End)
	if err != nil {
		return nil, fmt.Errorf("parse end time: %w", err)
	}

	// Overnight shift: the window ends on the following day.
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}

	sameDay := date.Year() == now.Year() && date.YearDay() == now.YearDay()

	var result []Slot
	for cursor := start; cursor.Before(end); cursor = cursor.Add(interval) {
		if sameDay && !cursor.After(now) {
			continue
		}
		key := Key(cursor)
		result = append(result, Slot{
			Label:    cursor.Format("15:04"),
			Instant:  cursor,
			TakenKey: key,
			Taken:    occupied[key],
		})
	}

	return result, nil
}

// DayWindow returns the [from, to) range of instants that can hold a slot
// belonging to date. The upper bound is two days out so that slots rolling
// past midnight under an overnight rule are still caught.
func DayWindow(date time.Time) (time.Time, time.Time) {
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return from, from.AddDate(0, 0, 2)
}

// OccupiedKeys builds the taken-slot lookup from appointment instants,
// keeping only those inside date's window. Instants are canonicalized with
// the same minute-precision key used during slot generation, so comparison
// is exact.
func OccupiedKeys(instants []time.Time, date time.Time) map[string]bool {
	from, to := DayWindow(date)
	keys := make(map[string]bool)
	for _, t := range instants {
		t = t.In(date.Location())
		if t.Before(from) || !t.Before(to) {
			continue
		}
		keys[Key(t)] = true
	}
	return keys
}

func parseTimeOnDate(date time.Time, timeStr string) (time.Time, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("invalid time format: %s", timeStr)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid hour: %w", err)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid minute: %w", err)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location()), nil
}
