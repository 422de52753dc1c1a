package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"educenter/internal/domain"
	"educenter/internal/pkg/validator"
)

var (
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	rooms     RoomRepository
	employees EmployeeRepository
}

func NewService(rooms RoomRepository, employees EmployeeRepository) *Service {
	return &Service{rooms: rooms, employees: employees}
}

/* ---------- ROOMS ---------- */

func (s *Service) CreateRoom(ctx context.Context, actor domain.Actor, req CreateRoomRequest) (*domain.Room, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	if errs := validator.Validate(req); errs != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, validator.Format(errs))
	}

	room := &domain.Room{
		CenterID: actor.CenterID,
		Name:     strings.TrimSpace(req.Name),
		Capacity: req.Capacity,
		IsActive: true,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Service) ListRooms(ctx context.Context, actor domain.Actor) ([]domain.Room, error) {
	return s.rooms.ListByCenter(ctx, actor.CenterID)
}

/* ---------- EMPLOYEES ---------- */

func (s *Service) CreateEmployee(ctx context.Context, actor domain.Actor, req CreateEmployeeRequest) (*domain.Employee, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	if errs := validator.Validate(req); errs != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, validator.Format(errs))
	}

	e := &domain.Employee{
		CenterID: actor.CenterID,
		Name:     strings.TrimSpace(req.Name),
		Kind:     req.Kind,
		Phone:    req.Phone,
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		IsActive: true,
	}
	if err := s.employees.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) ListEmployees(ctx context.Context, actor domain.Actor, kind domain.EmployeeKind) ([]domain.Employee, error) {
	switch kind {
	case "", domain.EmployeeTeacher, domain.EmployeeAssistant:
	default:
		return nil, fmt.Errorf("%w: unknown employee kind %q", ErrInvalidInput, kind)
	}
	return s.employees.ListByCenter(ctx, actor.CenterID, kind)
}

/* ---------- RESOLUTION ---------- */

// ResolveResources returns the refs that are not active resources of the
// center: teachers and assistants must be employees of that kind, rooms must
// be rooms. Order of the input is kept; duplicates are reported once.
func (s *Service) ResolveResources(ctx context.Context, centerID int64, refs []domain.ResourceRef) ([]domain.ResourceRef, error) {
	wanted := make(map[domain.ResourceRole][]int64)
	seen := make(map[domain.ResourceRef]bool)
	ordered := make([]domain.ResourceRef, 0, len(refs))
	for _, r := range refs {
		if seen[r] {
			continue
		}
		seen[r] = true
		ordered = append(ordered, r)
		wanted[r.Role] = append(wanted[r.Role], r.ID)
	}

	found := make(map[domain.ResourceRef]bool, len(ordered))
	for role, ids := range wanted {
		var (
			existing []int64
			err      error
		)
		switch role {
		case domain.RoleTeacherSlot:
			existing, err = s.employees.ExistingIDs(ctx, centerID, domain.EmployeeTeacher, ids)
		case domain.RoleAssistantSlot:
			existing, err = s.employees.ExistingIDs(ctx, centerID, domain.EmployeeAssistant, ids)
		case domain.RoleRoomSlot:
			existing, err = s.rooms.ExistingIDs(ctx, centerID, ids)
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve %s ids: %w", role, err)
		}
		for _, id := range existing {
			found[domain.ResourceRef{Role: role, ID: id}] = true
		}
	}

	missing := make([]domain.ResourceRef, 0)
	for _, r := range ordered {
		if !found[r] {
			missing = append(missing, r)
		}
	}
	return missing, nil
}
