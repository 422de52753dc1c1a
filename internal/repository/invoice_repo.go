package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"educenter/internal/domain"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create inserts the invoice and its line items in one transaction.
func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(inv).Error
	})
}

func (r *InvoiceRepository) GetByID(ctx context.Context, centerID, id int64) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ? AND center_id = ?", id, centerID).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepository) List(ctx context.Context, centerID int64, status domain.InvoiceStatus) ([]domain.Invoice, error) {
	q := r.db.WithContext(ctx).Where("center_id = ?", centerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	out := make([]domain.Invoice, 0)
	if err := q.Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// lockInvoice selects the invoice FOR UPDATE and loads its items and payments.
func lockInvoice(tx *gorm.DB, centerID, id int64) (*domain.Invoice, error) {
	var inv domain.Invoice
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND center_id = ?", id, centerID).
		First(&inv).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("invoice_id = ?", inv.ID).Order("id ASC").Find(&inv.Items).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("invoice_id = ?", inv.ID).Order("id ASC").Find(&inv.Payments).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// Mutate runs fn against the locked invoice. If fn returns a payment it is
// inserted. The invoice's status, paid, remaining and issued_at columns are
// then written back from whatever fn left on inv.
func (r *InvoiceRepository) Mutate(ctx context.Context, centerID, id int64, fn func(inv *domain.Invoice) (*domain.Payment, error)) (*domain.Invoice, error) {
	var out *domain.Invoice
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := lockInvoice(tx, centerID, id)
		if err != nil {
			return err
		}

		p, err := fn(inv)
		if err != nil {
			return err
		}
		if p != nil {
			p.InvoiceID = inv.ID
			if err := tx.Create(p).Error; err != nil {
				return err
			}
			if n := len(inv.Payments); n > 0 && inv.Payments[n-1].ID == 0 {
				inv.Payments[n-1] = *p
			} else {
				inv.Payments = append(inv.Payments, *p)
			}
		}

		inv.UpdatedAt = time.Now().UTC()
		if err := tx.Model(&domain.Invoice{}).
			Where("id = ?", inv.ID).
			Updates(map[string]any{
				"status":           inv.Status,
				"paid_amount":      inv.PaidAmount,
				"remaining_amount": inv.RemainingAmount,
				"issued_at":        inv.IssuedAt,
				"updated_at":       inv.UpdatedAt,
			}).Error; err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the invoice and its line items once guard approves the
// locked invoice.
func (r *InvoiceRepository) Delete(ctx context.Context, centerID, id int64, guard func(inv *domain.Invoice) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := lockInvoice(tx, centerID, id)
		if err != nil {
			return err
		}
		if err := guard(inv); err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", inv.ID).Delete(&domain.LineItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Invoice{}, inv.ID).Error
	})
}

// ListOverdueCandidates returns issued invoices, across all centers, whose due
// date is before today and that still have a balance.
func (r *InvoiceRepository) ListOverdueCandidates(ctx context.Context, today string) ([]domain.Invoice, error) {
	out := make([]domain.Invoice, 0)
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{string(domain.InvoiceSent), string(domain.InvoicePartial)}).
		Where("due_date <> '' AND due_date < ?", today).
		Where("remaining_amount > 0").
		Order("center_id ASC, id ASC").
		Find(&out).Error
	return out, err
}
