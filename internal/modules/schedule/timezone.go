package schedule

import (
	"time"
	_ "time/tzdata"

	"educenter/internal/domain"
)

const clockLayout = "15:04"

// LoadZone returns the named IANA zone, or fallback when name is empty.
func LoadZone(name string, fallback *time.Location) (*time.Location, error) {
	if name == "" {
		if fallback == nil {
			return time.UTC, nil
		}
		return fallback, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, invalidf("unknown time zone %q", name)
	}
	return loc, nil
}

// ResolveInstant combines a calendar date and a wall-clock time (HH:MM) in loc
// into an absolute instant, returned in UTC.
func ResolveInstant(date, clock string, loc *time.Location) (time.Time, error) {
	d, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return time.Time{}, invalidf("date %q is not YYYY-MM-DD", date)
	}
	c, err := time.Parse(clockLayout, clock)
	if err != nil {
		return time.Time{}, invalidf("time %q is not HH:MM", clock)
	}
	t := time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, loc)
	return t.UTC(), nil
}

// ResolveRange resolves a same-day start/end pair. An end at or before the
// start is rejected, so sessions never cross midnight.
func ResolveRange(date, start, end string, loc *time.Location) (time.Time, time.Time, error) {
	s, err := ResolveInstant(date, start, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := ResolveInstant(date, end, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !s.Before(e) {
		return time.Time{}, time.Time{}, invalidf("end %s must be after start %s", end, start)
	}
	return s, e, nil
}
