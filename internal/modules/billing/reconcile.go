package billing

import (
	"math"

	"educenter/internal/domain"
)

// SumItems returns the invoice total for the given line items and fills in
// each item's Total.
func SumItems(items []domain.LineItem) (int64, error) {
	if len(items) == 0 {
		return 0, invalidf("invoice needs at least one line item")
	}
	var total int64
	for i := range items {
		it := &items[i]
		if it.Quantity <= 0 {
			return 0, invalidf("item %d: quantity must be positive", i+1)
		}
		if it.UnitPrice < 0 {
			return 0, invalidf("item %d: unit price must not be negative", i+1)
		}
		if it.UnitPrice != 0 && it.Quantity > math.MaxInt64/it.UnitPrice {
			return 0, invalidf("item %d: amount is too large", i+1)
		}
		it.Total = it.Quantity * it.UnitPrice
		if total > math.MaxInt64-it.Total {
			return 0, invalidf("invoice total is too large")
		}
		total += it.Total
	}
	if total <= 0 {
		return 0, invalidf("invoice total must be positive, got %d", total)
	}
	return total, nil
}

// Reconciliation is the derived payment state of one invoice.
type Reconciliation struct {
	TotalAmount     int64                `json:"total_amount"`
	PaidAmount      int64                `json:"paid_amount"`
	RemainingAmount int64                `json:"remaining_amount"`
	Status          domain.InvoiceStatus `json:"status"`

	// InvariantViolation is set when payments exceed the total. Remaining is
	// clamped to zero and Overpaid holds the excess.
	InvariantViolation bool  `json:"invariant_violation"`
	Overpaid           int64 `json:"overpaid,omitempty"`
}

// Reconcile derives paid, remaining and status from the full payment history.
// It does not look at dates; see ApplyOverdue.
func Reconcile(total int64, payments []domain.Payment) (Reconciliation, error) {
	if total <= 0 {
		return Reconciliation{}, invalidf("invoice total must be positive, got %d", total)
	}

	var paid int64
	for _, p := range payments {
		paid += p.Amount
	}

	r := Reconciliation{
		TotalAmount: total,
		PaidAmount:  paid,
	}

	switch {
	case paid <= 0:
		r.Status = domain.InvoiceSent
	case paid < total:
		r.Status = domain.InvoicePartial
	default:
		r.Status = domain.InvoicePaid
	}

	if paid > total {
		r.InvariantViolation = true
		r.Overpaid = paid - total
	} else {
		r.RemainingAmount = total - paid
	}
	return r, nil
}

// ApplyOverdue moves an issued, unsettled invoice to overdue once today is
// past its due date. Dates are YYYY-MM-DD so string comparison is calendar order.
func ApplyOverdue(status domain.InvoiceStatus, dueDate, today string, remaining int64) domain.InvoiceStatus {
	if dueDate == "" || remaining <= 0 {
		return status
	}
	if status != domain.InvoiceSent && status != domain.InvoicePartial {
		return status
	}
	if today > dueDate {
		return domain.InvoiceOverdue
	}
	return status
}

// DeriveStatus combines the reconciled status with the invoice's lifecycle:
// a draft with no payments stays draft.
func DeriveStatus(current domain.InvoiceStatus, r Reconciliation) domain.InvoiceStatus {
	if current == domain.InvoiceDraft && r.PaidAmount == 0 {
		return domain.InvoiceDraft
	}
	return r.Status
}
