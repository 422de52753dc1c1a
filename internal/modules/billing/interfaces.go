package billing

import (
	"context"

	"educenter/internal/domain"
)

// InvoiceRepository persists invoices. Mutate and Delete lock the invoice row,
// load its payments and hand it to fn inside one transaction. A payment
// returned by Mutate's fn is appended; the invoice's derived fields are
// written back afterwards.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, centerID, id int64) (*domain.Invoice, error)
	List(ctx context.Context, centerID int64, status domain.InvoiceStatus) ([]domain.Invoice, error)
	Mutate(ctx context.Context, centerID, id int64, fn func(inv *domain.Invoice) (*domain.Payment, error)) (*domain.Invoice, error)
	Delete(ctx context.Context, centerID, id int64, guard func(inv *domain.Invoice) error) error
	ListOverdueCandidates(ctx context.Context, today string) ([]domain.Invoice, error)
}

// ReminderSender delivers an overdue notice for one invoice.
type ReminderSender interface {
	SendOverdueReminder(ctx context.Context, inv domain.Invoice) error
}
