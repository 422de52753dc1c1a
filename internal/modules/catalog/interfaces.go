package catalog

import (
	"context"

	"educenter/internal/domain"
)

type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	ListByCenter(ctx context.Context, centerID int64) ([]domain.Room, error)
	ExistingIDs(ctx context.Context, centerID int64, ids []int64) ([]int64, error)
}

type EmployeeRepository interface {
	Create(ctx context.Context, e *domain.Employee) error
	ListByCenter(ctx context.Context, centerID int64, kind domain.EmployeeKind) ([]domain.Employee, error)
	ExistingIDs(ctx context.Context, centerID int64, kind domain.EmployeeKind, ids []int64) ([]int64, error)
}
