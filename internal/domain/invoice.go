package domain

import "time"

type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "draft"
	InvoiceSent    InvoiceStatus = "sent"
	InvoicePartial InvoiceStatus = "partial"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
)

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCard         PaymentMethod = "card"
	PaymentEWallet      PaymentMethod = "e_wallet"
)

// Invoice amounts are whole units of the center's currency.
// PaidAmount, RemainingAmount and Status are derived from Payments and are only
// written by the reconciliation path.
type Invoice struct {
	ID              int64         `json:"id" gorm:"primaryKey"`
	CenterID        int64         `json:"center_id" gorm:"not null;index"`
	Number          string        `json:"number" gorm:"size:32;not null;uniqueIndex"`
	StudentName     string        `json:"student_name" gorm:"size:255;not null"`
	BillToPhone     string        `json:"bill_to_phone,omitempty" gorm:"size:32"`
	Status          InvoiceStatus `json:"status" gorm:"size:16;not null;index"`
	DueDate         string        `json:"due_date,omitempty" gorm:"size:10;index"`
	TotalAmount     int64         `json:"total_amount" gorm:"not null"`
	PaidAmount      int64         `json:"paid_amount" gorm:"not null;default:0"`
	RemainingAmount int64         `json:"remaining_amount" gorm:"not null"`
	Notes           string        `json:"notes,omitempty" gorm:"type:text"`
	IssuedAt        *time.Time    `json:"issued_at,omitempty"`
	CreatedBy       int64         `json:"created_by"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	Items    []LineItem `json:"items,omitempty" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Payments []Payment  `json:"payments,omitempty" gorm:"foreignKey:InvoiceID;constraint:OnDelete:RESTRICT"`
}

func (Invoice) TableName() string { return "invoices" }

// Issued reports whether the invoice has left draft.
func (i Invoice) Issued() bool {
	return i.Status != InvoiceDraft
}

type LineItem struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	InvoiceID   int64  `json:"invoice_id" gorm:"not null;index"`
	Description string `json:"description" gorm:"size:255;not null"`
	Quantity    int64  `json:"quantity" gorm:"not null"`
	UnitPrice   int64  `json:"unit_price" gorm:"not null"`
	Total       int64  `json:"total" gorm:"not null"`
}

func (LineItem) TableName() string { return "invoice_items" }

// Payment is append-only: there is no update or delete path.
type Payment struct {
	ID        int64         `json:"id" gorm:"primaryKey"`
	InvoiceID int64         `json:"invoice_id" gorm:"not null;index"`
	Amount    int64         `json:"amount" gorm:"not null"`
	Method    PaymentMethod `json:"method" gorm:"size:32;not null"`
	PaidOn    string        `json:"paid_on" gorm:"size:10;not null"`
	Reference string        `json:"reference,omitempty" gorm:"size:128"`
	CreatedBy int64         `json:"created_by"`
	CreatedAt time.Time     `json:"created_at"`
}

func (Payment) TableName() string { return "payments" }
