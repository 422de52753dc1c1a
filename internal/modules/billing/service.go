package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"educenter/internal/domain"
	"educenter/internal/logger"
	"educenter/internal/metrics"
	"educenter/internal/pkg/validator"
)

type Service struct {
	invoices  InvoiceRepository
	reminders ReminderSender
	loc       *time.Location
	now       func() time.Time
}

// NewService builds the billing service. loc decides which calendar day
// "today" is for due-date checks. reminders may be nil.
func NewService(invoices InvoiceRepository, reminders ReminderSender, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		invoices:  invoices,
		reminders: reminders,
		loc:       loc,
		now:       time.Now,
	}
}

func (s *Service) today() string {
	return s.now().In(s.loc).Format(domain.DateLayout)
}

func (s *Service) CreateInvoice(ctx context.Context, actor domain.Actor, req CreateInvoiceRequest) (*domain.Invoice, error) {
	if !actor.CanManage() {
		return nil, ErrForbidden
	}
	if errs := validator.Validate(req); errs != nil {
		return nil, invalidf("%s", validator.Format(errs))
	}

	items := make([]domain.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.LineItem{
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	total, err := SumItems(items)
	if err != nil {
		return nil, err
	}

	now := s.now()
	inv := &domain.Invoice{
		CenterID:        actor.CenterID,
		Number:          newInvoiceNumber(now.In(s.loc)),
		StudentName:     strings.TrimSpace(req.StudentName),
		BillToPhone:     req.BillToPhone,
		Status:          domain.InvoiceDraft,
		DueDate:         req.DueDate,
		TotalAmount:     total,
		RemainingAmount: total,
		Notes:           req.Notes,
		CreatedBy:       actor.UserID,
		Items:           items,
	}
	if req.Issue {
		inv.Status = domain.InvoiceSent
		issued := now.UTC()
		inv.IssuedAt = &issued
	}

	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	logger.WithContext(ctx).Info("invoice created",
		"invoice_id", inv.ID, "number", inv.Number, "total", inv.TotalAmount, "status", inv.Status)
	return inv, nil
}

func newInvoiceNumber(t time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("INV-%s-%s", t.Format("20060102"), suffix)
}

// IssueInvoice moves a draft invoice to sent.
func (s *Service) IssueInvoice(ctx context.Context, actor domain.Actor, id int64) (*domain.Invoice, error) {
	if !actor.CanManage() {
		return nil, ErrForbidden
	}

	inv, err := s.invoices.Mutate(ctx, actor.CenterID, id, func(inv *domain.Invoice) (*domain.Payment, error) {
		if inv.Status != domain.InvoiceDraft {
			return nil, fmt.Errorf("%w: cannot issue a %s invoice", ErrInvalidStatusTransition, inv.Status)
		}
		issued := s.now().UTC()
		inv.IssuedAt = &issued
		inv.Status = domain.InvoiceSent
		_, err := s.settle(ctx, inv)
		return nil, err
	})
	if err != nil {
		return nil, mapNotFound(err)
	}
	return inv, nil
}

// RecordPayment appends a payment under a row lock on the invoice and
// re-derives the invoice balance from the full payment history.
func (s *Service) RecordPayment(ctx context.Context, actor domain.Actor, invoiceID int64, req RecordPaymentRequest) (*PaymentResult, error) {
	if !actor.CanManage() {
		return nil, ErrForbidden
	}
	if req.Amount <= 0 {
		metrics.PaymentsRejected.WithLabelValues("non_positive").Inc()
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	if errs := validator.Validate(req); errs != nil {
		return nil, invalidf("%s", validator.Format(errs))
	}

	paidOn := req.PaidOn
	if paidOn == "" {
		paidOn = s.today()
	}

	var payment *domain.Payment
	inv, err := s.invoices.Mutate(ctx, actor.CenterID, invoiceID, func(inv *domain.Invoice) (*domain.Payment, error) {
		if !inv.Issued() {
			metrics.PaymentsRejected.WithLabelValues("not_issued").Inc()
			return nil, ErrInvoiceNotIssued
		}
		if req.Amount > inv.RemainingAmount {
			metrics.PaymentsRejected.WithLabelValues("exceeds_remaining").Inc()
			return nil, fmt.Errorf("%w: %d exceeds remaining balance %d", ErrInvalidAmount, req.Amount, inv.RemainingAmount)
		}

		payment = &domain.Payment{
			InvoiceID: inv.ID,
			Amount:    req.Amount,
			Method:    req.Method,
			PaidOn:    paidOn,
			Reference: req.Reference,
			CreatedBy: actor.UserID,
		}
		inv.Payments = append(inv.Payments, *payment)

		if _, err := s.settle(ctx, inv); err != nil {
			return nil, err
		}
		return payment, nil
	})
	if err != nil {
		return nil, mapNotFound(err)
	}

	metrics.PaymentsRecorded.WithLabelValues(string(req.Method)).Inc()
	logger.WithContext(ctx).Info("payment recorded",
		"invoice_id", inv.ID, "amount", req.Amount, "method", req.Method,
		"paid", inv.PaidAmount, "remaining", inv.RemainingAmount, "status", inv.Status)

	return &PaymentResult{Invoice: inv, Payment: payment}, nil
}

// ReconcileInvoice recomputes the derived fields from stored payments.
func (s *Service) ReconcileInvoice(ctx context.Context, actor domain.Actor, id int64) (*ReconcileResult, error) {
	if !actor.CanManage() {
		return nil, ErrForbidden
	}

	var rec Reconciliation
	inv, err := s.invoices.Mutate(ctx, actor.CenterID, id, func(inv *domain.Invoice) (*domain.Payment, error) {
		var err error
		rec, err = s.settle(ctx, inv)
		return nil, err
	})
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &ReconcileResult{Invoice: inv, Reconciliation: rec}, nil
}

// settle reconciles inv from inv.Payments and writes the derived fields back
// onto inv, applying the draft rule and the overdue overlay.
func (s *Service) settle(ctx context.Context, inv *domain.Invoice) (Reconciliation, error) {
	rec, err := Reconcile(inv.TotalAmount, inv.Payments)
	if err != nil {
		return rec, err
	}
	if rec.InvariantViolation {
		metrics.InvariantViolations.Inc()
		logger.WithContext(ctx).Error("invoice overpaid",
			"invoice_id", inv.ID, "total", rec.TotalAmount, "paid", rec.PaidAmount, "overpaid", rec.Overpaid)
	}

	status := DeriveStatus(inv.Status, rec)
	inv.Status = ApplyOverdue(status, inv.DueDate, s.today(), rec.RemainingAmount)
	inv.PaidAmount = rec.PaidAmount
	inv.RemainingAmount = rec.RemainingAmount
	return rec, nil
}

func (s *Service) GetInvoice(ctx context.Context, actor domain.Actor, id int64) (*domain.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, actor.CenterID, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return inv, nil
}

func (s *Service) ListInvoices(ctx context.Context, actor domain.Actor, q ListInvoicesQuery) ([]domain.Invoice, error) {
	switch q.Status {
	case "", domain.InvoiceDraft, domain.InvoiceSent, domain.InvoicePartial, domain.InvoicePaid, domain.InvoiceOverdue:
	default:
		return nil, invalidf("unknown status %q", q.Status)
	}
	return s.invoices.List(ctx, actor.CenterID, q.Status)
}

// DeleteInvoice removes an invoice and its line items. Invoices with payments
// are kept.
func (s *Service) DeleteInvoice(ctx context.Context, actor domain.Actor, id int64) error {
	if actor.Role != domain.RoleAdmin {
		return ErrForbidden
	}
	err := s.invoices.Delete(ctx, actor.CenterID, id, func(inv *domain.Invoice) error {
		if len(inv.Payments) > 0 {
			return fmt.Errorf("%w: %d recorded", ErrInvoiceHasPayments, len(inv.Payments))
		}
		return nil
	})
	if err != nil {
		return mapNotFound(err)
	}
	logger.WithContext(ctx).Info("invoice deleted", "invoice_id", id)
	return nil
}

// MarkOverdue moves every issued invoice past its due date with a balance
// left to overdue, and sends a reminder for each one that changed.
func (s *Service) MarkOverdue(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	today := s.today()

	candidates, err := s.invoices.ListOverdueCandidates(ctx, today)
	if err != nil {
		return res, fmt.Errorf("list overdue candidates: %w", err)
	}
	res.Checked = len(candidates)

	log := logger.WithContext(ctx)
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		changed := false
		inv, err := s.invoices.Mutate(ctx, c.CenterID, c.ID, func(inv *domain.Invoice) (*domain.Payment, error) {
			before := inv.Status
			if _, err := s.settle(ctx, inv); err != nil {
				return nil, err
			}
			changed = before != domain.InvoiceOverdue && inv.Status == domain.InvoiceOverdue
			return nil, nil
		})
		if err != nil {
			res.Failed++
			log.Error("overdue update failed", "invoice_id", c.ID, "error", err)
			continue
		}
		if !changed {
			continue
		}

		res.MarkedOverdue++
		metrics.InvoicesMarkedOverdue.Inc()

		if s.reminders == nil || inv.BillToPhone == "" {
			continue
		}
		if err := s.reminders.SendOverdueReminder(ctx, *inv); err != nil {
			log.Warn("overdue reminder failed", "invoice_id", inv.ID, "error", err)
			continue
		}
		res.Reminded++
	}

	log.Info("overdue sweep finished",
		"checked", res.Checked, "marked", res.MarkedOverdue, "reminded", res.Reminded, "failed", res.Failed)
	return res, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvoiceNotFound
	}
	return err
}
