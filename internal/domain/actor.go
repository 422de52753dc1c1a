package domain

// Actor is the authenticated caller. Every service call is scoped to Actor.CenterID.
type Actor struct {
	UserID   int64
	CenterID int64
	Role     UserRole
}

// CanManage reports whether the actor may change schedules and invoices.
func (a Actor) CanManage() bool {
	return a.Role == RoleAdmin || a.Role == RoleStaff
}
