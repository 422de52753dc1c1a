package schedule

import (
	"fmt"
	"time"

	"educenter/internal/domain"
)

type resourceKey struct {
	role domain.ResourceRole
	id   int64
}

// Conflict is one colliding pair. Proposed is always from the submitted batch;
// Existing is either a stored booking or, when WithinBatch is set, an earlier
// row of the same batch.
type Conflict struct {
	Role        domain.ResourceRole `json:"role"`
	ResourceID  int64               `json:"resource_id"`
	Proposed    domain.Booking      `json:"proposed"`
	Existing    domain.Booking      `json:"existing"`
	WithinBatch bool                `json:"within_batch"`
}

// Message renders the conflict for people, with times in loc.
func (c Conflict) Message(loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	where := "already booked"
	if c.WithinBatch {
		where = fmt.Sprintf("double-booked within the request (row %d)", c.Existing.Index+1)
	}
	return fmt.Sprintf("%s %d is %s %s-%s on %s",
		c.Role, c.ResourceID, where,
		c.Existing.Start.In(loc).Format("15:04"),
		c.Existing.End.In(loc).Format("15:04"),
		c.Existing.Date,
	)
}

type ConflictResult struct {
	Conflicts []Conflict `json:"conflicts"`
}

func (r ConflictResult) HasConflict() bool {
	return len(r.Conflicts) > 0
}

func (r ConflictResult) First() (Conflict, bool) {
	if len(r.Conflicts) == 0 {
		return Conflict{}, false
	}
	return r.Conflicts[0], true
}

// ValidateBooking rejects bookings that cannot take part in a conflict check.
// A zero ResourceID is not an error: it means the role is unassigned.
func ValidateBooking(b domain.Booking) error {
	if !b.Role.Valid() {
		return invalidf("unknown resource role %q", b.Role)
	}
	if b.ResourceID < 0 {
		return invalidf("malformed %s reference %d", b.Role, b.ResourceID)
	}
	if b.Date == "" {
		return invalidf("booking date is required")
	}
	if _, err := time.Parse(domain.DateLayout, b.Date); err != nil {
		return invalidf("booking date %q is not YYYY-MM-DD", b.Date)
	}
	if b.Start.IsZero() || b.End.IsZero() {
		return invalidf("booking start and end are required")
	}
	if !b.Start.Before(b.End) {
		return invalidf("booking must end after it starts (%s >= %s)",
			b.Start.Format(time.RFC3339), b.End.Format(time.RFC3339))
	}
	return nil
}

func overlaps(a, b domain.Booking) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// CheckConflicts reports every proposed booking that overlaps an existing
// booking or another proposed booking for the same resource on the same date.
// Intervals are half-open, so a booking ending at 10:00 does not collide with
// one starting at 10:00. Existing bookings that share a SessionID with a
// proposed booking are treated as the row being replaced and skipped.
func CheckConflicts(proposed, existing []domain.Booking) (ConflictResult, error) {
	for _, b := range proposed {
		if err := ValidateBooking(b); err != nil {
			return ConflictResult{}, err
		}
	}

	replaced := make(map[int64]bool)
	for _, b := range proposed {
		if b.SessionID != 0 {
			replaced[b.SessionID] = true
		}
	}

	stored := make(map[resourceKey][]domain.Booking)
	for _, e := range existing {
		if e.ResourceID == 0 || replaced[e.SessionID] {
			continue
		}
		k := resourceKey{e.Role, e.ResourceID}
		stored[k] = append(stored[k], e)
	}

	result := ConflictResult{Conflicts: []Conflict{}}
	accepted := make(map[resourceKey][]domain.Booking)

	for _, b := range proposed {
		if b.ResourceID == 0 {
			continue
		}
		k := resourceKey{b.Role, b.ResourceID}

		for _, e := range stored[k] {
			if e.Date == b.Date && overlaps(b, e) {
				result.Conflicts = append(result.Conflicts, Conflict{
					Role:       b.Role,
					ResourceID: b.ResourceID,
					Proposed:   b,
					Existing:   e,
				})
			}
		}
		for _, e := range accepted[k] {
			if e.Date == b.Date && overlaps(b, e) {
				result.Conflicts = append(result.Conflicts, Conflict{
					Role:        b.Role,
					ResourceID:  b.ResourceID,
					Proposed:    b,
					Existing:    e,
					WithinBatch: true,
				})
			}
		}
		accepted[k] = append(accepted[k], b)
	}

	return result, nil
}
