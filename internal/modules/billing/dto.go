package billing

import "educenter/internal/domain"

type LineItemInput struct {
	Description string `json:"description" binding:"required" validate:"required,max=255"`
	Quantity    int64  `json:"quantity" binding:"required" validate:"required,gt=0,lte=100000"`
	UnitPrice   int64  `json:"unit_price" validate:"gte=0,lte=100000000000"`
}

type CreateInvoiceRequest struct {
	StudentName string          `json:"student_name" binding:"required" validate:"required,max=255"`
	BillToPhone string          `json:"bill_to_phone" validate:"omitempty,e164"`
	DueDate     string          `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Notes       string          `json:"notes"`
	Issue       bool            `json:"issue"`
	Items       []LineItemInput `json:"items" binding:"required,min=1,dive" validate:"required,min=1,dive"`
}

type RecordPaymentRequest struct {
	Amount    int64                `json:"amount"`
	Method    domain.PaymentMethod `json:"method" binding:"required" validate:"required,oneof=cash bank_transfer card e_wallet"`
	PaidOn    string               `json:"paid_on" validate:"omitempty,datetime=2006-01-02"`
	Reference string               `json:"reference" validate:"max=128"`
}

type ListInvoicesQuery struct {
	Status domain.InvoiceStatus `form:"status"`
}

type PaymentResult struct {
	Invoice *domain.Invoice `json:"invoice"`
	Payment *domain.Payment `json:"payment"`
}

type ReconcileResult struct {
	Invoice        *domain.Invoice `json:"invoice"`
	Reconciliation Reconciliation  `json:"reconciliation"`
}

// SweepResult summarises one overdue sweep.
type SweepResult struct {
	Checked       int `json:"checked"`
	MarkedOverdue int `json:"marked_overdue"`
	Reminded      int `json:"reminded"`
	Failed        int `json:"failed"`
}
