package database

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"educenter/internal/domain"
)

// Models lists every table the service owns, in dependency order.
func Models() []any {
	return []any{
		&domain.Center{},
		&domain.User{},
		&domain.Room{},
		&domain.Employee{},
		&domain.ClassSession{},
		&domain.Invoice{},
		&domain.LineItem{},
		&domain.Payment{},
	}
}

// Migrate creates the schema. On Postgres it also installs the constraints that
// close the read-then-write races: exclusion constraints that forbid
// overlapping sessions per teacher, assistant and room, and amount checks.
func Migrate(db *gorm.DB) error {
	slog.Info("running database migrations")

	for i, m := range Models() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("migration %d (%T) failed: %w", i+1, m, err)
		}
	}

	if db.Dialector.Name() != "postgres" {
		slog.Info("skipping postgres constraints", "dialect", db.Dialector.Name())
		return nil
	}

	for i, stmt := range postgresConstraints {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("constraint %d failed: %w", i+1, err)
		}
	}

	slog.Info("all migrations completed successfully")
	return nil
}

// Constraint names are matched in repository error translation.
const (
	ConstraintTeacherOverlap   = "excl_sessions_teacher"
	ConstraintAssistantOverlap = "excl_sessions_assistant"
	ConstraintRoomOverlap      = "excl_sessions_room"
)

var postgresConstraints = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	addConstraint("class_sessions", "chk_sessions_range", `CHECK (start_at < end_at)`),
	addConstraint("class_sessions", ConstraintTeacherOverlap,
		`EXCLUDE USING gist (center_id WITH =, teacher_id WITH =, tstzrange(start_at, end_at, '[)') WITH &&)`),
	addConstraint("class_sessions", ConstraintAssistantOverlap,
		`EXCLUDE USING gist (center_id WITH =, assistant_id WITH =, tstzrange(start_at, end_at, '[)') WITH &&) WHERE (assistant_id IS NOT NULL)`),
	addConstraint("class_sessions", ConstraintRoomOverlap,
		`EXCLUDE USING gist (center_id WITH =, room_id WITH =, tstzrange(start_at, end_at, '[)') WITH &&) WHERE (room_id IS NOT NULL)`),
	addConstraint("invoices", "chk_invoices_total", `CHECK (total_amount > 0)`),
	addConstraint("invoices", "chk_invoices_remaining", `CHECK (remaining_amount >= 0)`),
	addConstraint("payments", "chk_payments_amount", `CHECK (amount > 0)`),
}

func addConstraint(table, name, body string) string {
	return fmt.Sprintf(`
DO $$
BEGIN
    IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
        ALTER TABLE %s ADD CONSTRAINT %s %s;
    END IF;
END
$$;`, name, table, name, body)
}
