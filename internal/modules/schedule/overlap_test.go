package schedule

import (
	"testing"
	"time"

	"educenter/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hcm = mustZone("Asia/Ho_Chi_Minh")

func mustZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func at(date, clock string) time.Time {
	t, err := ResolveInstant(date, clock, hcm)
	if err != nil {
		panic(err)
	}
	return t
}

func booking(role domain.ResourceRole, id int64, date, start, end string) domain.Booking {
	return domain.Booking{Role: role, ResourceID: id, Date: date, Start: at(date, start), End: at(date, end)}
}

func TestCheckConflicts_OverlapSameTeacher(t *testing.T) {
	existing := []domain.Booking{booking(domain.RoleTeacherSlot, 7, "2025-03-10", "09:00", "10:30")}
	existing[0].SessionID = 41
	proposed := []domain.Booking{booking(domain.RoleTeacherSlot, 7, "2025-03-10", "10:00", "11:00")}

	res, err := CheckConflicts(proposed, existing)
	require.NoError(t, err)
	require.True(t, res.HasConflict())

	c, ok := res.First()
	require.True(t, ok)
	assert.Equal(t, domain.RoleTeacherSlot, c.Role)
	assert.Equal(t, int64(7), c.ResourceID)
	assert.Equal(t, int64(41), c.Existing.SessionID)
	assert.False(t, c.WithinBatch)
	assert.Equal(t, "teacher 7 is already booked 09:00-10:30 on 2025-03-10", c.Message(hcm))
}

func TestCheckConflicts_TouchingIntervalsDoNotConflict(t *testing.T) {
	existing := []domain.Booking{booking(domain.RoleRoomSlot, 3, "2025-03-10", "09:00", "10:00")}

	res, err := CheckConflicts([]domain.Booking{booking(domain.RoleRoomSlot, 3, "2025-03-10", "10:00", "11:00")}, existing)
	require.NoError(t, err)
	assert.False(t, res.HasConflict())

	res, err = CheckConflicts([]domain.Booking{booking(domain.RoleRoomSlot, 3, "2025-03-10", "08:00", "09:00")}, existing)
	require.NoError(t, err)
	assert.False(t, res.HasConflict())
}

func TestCheckConflicts_ContainedAndContaining(t *testing.T) {
	existing := []domain.Booking{booking(domain.RoleRoomSlot, 3, "2025-03-10", "09:00", "12:00")}

	inner := booking(domain.RoleRoomSlot, 3, "2025-03-10", "10:00", "11:00")
	outer := booking(domain.RoleRoomSlot, 3, "2025-03-10", "08:00", "13:00")

	for _, p := range []domain.Booking{inner, outer} {
		res, err := CheckConflicts([]domain.Booking{p}, existing)
		require.NoError(t, err)
		assert.True(t, res.HasConflict())
	}
}

func TestCheckConflicts_DifferentResourceOrRoleOrDate(t *testing.T) {
	existing := []domain.Booking{booking(domain.RoleTeacherSlot, 7, "2025-03-10", "09:00", "10:00")}

	cases := map[string]domain.Booking{
		"other teacher":        booking(domain.RoleTeacherSlot, 8, "2025-03-10", "09:00", "10:00"),
		"same id as assistant": booking(domain.RoleAssistantSlot, 7, "2025-03-10", "09:00", "10:00"),
		"same id as room":      booking(domain.RoleRoomSlot, 7, "2025-03-10", "09:00", "10:00"),
		"other date":           booking(domain.RoleTeacherSlot, 7, "2025-03-11", "09:00", "10:00"),
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := CheckConflicts([]domain.Booking{p}, existing)
			require.NoError(t, err)
			assert.False(t, res.HasConflict())
		})
	}
}

func TestCheckConflicts_AbsentResourceSkipped(t *testing.T) {
	existing := []domain.Booking{booking(domain.RoleAssistantSlot, 0, "2025-03-10", "09:00", "10:00")}
	proposed := []domain.Booking{booking(domain.RoleAssistantSlot, 0, "2025-03-10", "09:00", "10:00")}

	res, err := CheckConflicts(proposed, existing)
	require.NoError(t, err)
	assert.False(t, res.HasConflict())
}

func TestCheckConflicts_WithinBatch(t *testing.T) {
	first := booking(domain.RoleRoomSlot, 2, "2025-03-10", "14:00", "15:00")
	second := booking(domain.RoleRoomSlot, 2, "2025-03-10", "14:30", "15:30")
	second.Index = 1

	res, err := CheckConflicts([]domain.Booking{first, second}, nil)
	require.NoError(t, err)
	require.Len(t, res.Conflicts, 1)

	c := res.Conflicts[0]
	assert.True(t, c.WithinBatch)
	assert.Equal(t, 1, c.Proposed.Index)
	assert.Equal(t, 0, c.Existing.Index)
	assert.Contains(t, c.Message(hcm), "within the request (row 1)")
}

func TestCheckConflicts_ReportsEveryCollision(t *testing.T) {
	existing := []domain.Booking{
		booking(domain.RoleTeacherSlot, 7, "2025-03-10", "09:00", "10:00"),
		booking(domain.RoleRoomSlot, 3, "2025-03-10", "09:30", "10:30"),
	}
	proposed := []domain.Booking{
		booking(domain.RoleTeacherSlot, 7, "2025-03-10", "09:15", "10:15"),
		booking(domain.RoleRoomSlot, 3, "2025-03-10", "09:15", "10:15"),
	}

	res, err := CheckConflicts(proposed, existing)
	require.NoError(t, err)
	assert.Len(t, res.Conflicts, 2)
}

func TestCheckConflicts_ReplacedSessionIgnored(t *testing.T) {
	existing := []domain.Booking{booking(domain.RoleTeacherSlot, 7, "2025-03-10", "09:00", "10:00")}
	existing[0].SessionID = 12
	moved := booking(domain.RoleTeacherSlot, 7, "2025-03-10", "09:30", "10:30")
	moved.SessionID = 12

	res, err := CheckConflicts([]domain.Booking{moved}, existing)
	require.NoError(t, err)
	assert.False(t, res.HasConflict())
}

func TestCheckConflicts_InvalidInput(t *testing.T) {
	zero := booking(domain.RoleTeacherSlot, 7, "2025-03-10", "09:00", "10:00")
	zero.End = zero.Start

	backwards := booking(domain.RoleTeacherSlot, 7, "2025-03-10", "09:00", "10:00")
	backwards.Start, backwards.End = backwards.End, backwards.Start

	noDate := booking(domain.RoleTeacherSlot, 7, "2025-03-10", "09:00", "10:00")
	noDate.Date = ""

	badRole := booking("janitor", 7, "2025-03-10", "09:00", "10:00")
	negative := booking(domain.RoleRoomSlot, -1, "2025-03-10", "09:00", "10:00")

	for name, b := range map[string]domain.Booking{
		"zero duration": zero,
		"end before":    backwards,
		"missing date":  noDate,
		"unknown role":  badRole,
		"negative id":   negative,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := CheckConflicts([]domain.Booking{b}, nil)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCheckConflicts_EmptyInputs(t *testing.T) {
	res, err := CheckConflicts(nil, nil)
	require.NoError(t, err)
	assert.False(t, res.HasConflict())
	_, ok := res.First()
	assert.False(t, ok)
}

func TestCheckConflicts_Deterministic(t *testing.T) {
	existing := []domain.Booking{booking(domain.RoleTeacherSlot, 7, "2025-03-10", "09:00", "10:00")}
	proposed := []domain.Booking{booking(domain.RoleTeacherSlot, 7, "2025-03-10", "09:30", "10:30")}

	a, err := CheckConflicts(proposed, existing)
	require.NoError(t, err)
	b, err := CheckConflicts(proposed, existing)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestConflictError_Message(t *testing.T) {
	existing := []domain.Booking{booking(domain.RoleRoomSlot, 3, "2025-03-10", "09:00", "10:00")}
	res, err := CheckConflicts([]domain.Booking{booking(domain.RoleRoomSlot, 3, "2025-03-10", "09:30", "10:30")}, existing)
	require.NoError(t, err)

	cerr := &ConflictError{Result: res, Location: hcm}
	assert.Equal(t, "schedule conflict: room 3 is already booked 09:00-10:00 on 2025-03-10", cerr.Error())
}

func TestCheckConflicts_NoSelfConflict(t *testing.T) {
	res, err := CheckConflicts([]domain.Booking{booking(domain.RoleTeacherSlot, 7, "2025-03-10", "09:00", "10:00")}, nil)
	require.NoError(t, err)
	assert.False(t, res.HasConflict())
}

func TestCheckConflicts_Symmetric(t *testing.T) {
	a := booking(domain.RoleTeacherSlot, 7, "2025-03-10", "10:00", "10:45")
	b := booking(domain.RoleTeacherSlot, 7, "2025-03-10", "10:30", "11:15")
	c := booking(domain.RoleTeacherSlot, 7, "2025-03-10", "11:00", "11:45")

	for _, pair := range [][2]domain.Booking{{a, b}, {b, a}} {
		res, err := CheckConflicts([]domain.Booking{pair[0]}, []domain.Booking{pair[1]})
		require.NoError(t, err)
		assert.True(t, res.HasConflict())
	}
	for _, pair := range [][2]domain.Booking{{a, c}, {c, a}} {
		res, err := CheckConflicts([]domain.Booking{pair[0]}, []domain.Booking{pair[1]})
		require.NoError(t, err)
		assert.False(t, res.HasConflict())
	}
}
