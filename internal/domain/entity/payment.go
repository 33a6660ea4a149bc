package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mateusallves/doceria-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Payment is one attempt to settle an order via a specific method. An order
// may accumulate several payments over time, but a partial unique index keeps
// at most one of them Approved.
type Payment struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`

	// Monetary fields stored in cents, excluded from JSON (see MarshalJSON)
	Amount     int64 `gorm:"not null" json:"-"`
	AmountPaid int64 `gorm:"not null;default:0" json:"-"`
	Change     int64 `gorm:"not null;default:0" json:"-"` // cash only

	Method enum.PaymentMethod `gorm:"size:20;not null;index" json:"method"`
	Status enum.PaymentStatus `gorm:"size:20;not null;default:'pendente';index" json:"status"`

	// Card fields
	CardBrand      *string `gorm:"size:50" json:"card_brand,omitempty"`
	CardLastDigits *string `gorm:"size:4" json:"card_last_digits,omitempty"`
	Installments   int     `gorm:"not null;default:1" json:"installments"`

	// PIX / transfer fields
	PixKey  *string `gorm:"size:255" json:"pix_key,omitempty"`
	PixCode *string `gorm:"size:255" json:"pix_code,omitempty"`
	Receipt *string `gorm:"type:text" json:"receipt,omitempty"` // URL or base64 proof

	// Bank slip (boleto) fields
	BarCode       *string `gorm:"size:255" json:"bar_code,omitempty"`
	DigitableLine *string `gorm:"size:255" json:"digitable_line,omitempty"`
	DueDate       *string `gorm:"size:20" json:"due_date,omitempty"`

	// Transaction identifiers, opaque placeholders (no real gateway)
	TransactionCode   *string `gorm:"size:255;index" json:"transaction_code,omitempty"`
	AuthorizationCode *string `gorm:"size:255" json:"authorization_code,omitempty"`
	NSU               *string `gorm:"size:50" json:"nsu,omitempty"`

	Notes          *string `gorm:"type:text" json:"notes,omitempty"`
	RefusalReason  *string `gorm:"size:255" json:"refusal_reason,omitempty"`
	ReversalReason *string `gorm:"size:255" json:"reversal_reason,omitempty"`

	// Recorded on reversal when the caller supplies it; reversals are always
	// full, so this does not affect any balance.
	PartialReversalAmount *int64 `json:"-"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
	ReversedAt *time.Time `json:"reversed_at,omitempty"`

	// Relationships
	Order *Order `gorm:"foreignKey:OrderID" json:"order,omitempty"`
}

// MarshalJSON converts cent amounts to decimals for API responses
func (p Payment) MarshalJSON() ([]byte, error) {
	type Alias Payment
	out := &struct {
		Alias
		Amount                float64  `json:"amount"`
		AmountPaid            float64  `json:"amount_paid"`
		Change                float64  `json:"change"`
		PartialReversalAmount *float64 `json:"partial_reversal_amount,omitempty"`
	}{
		Alias:      Alias(p),
		Amount:     float64(p.Amount) / 100,
		AmountPaid: float64(p.AmountPaid) / 100,
		Change:     float64(p.Change) / 100,
	}
	if p.PartialReversalAmount != nil {
		v := float64(*p.PartialReversalAmount) / 100
		out.PartialReversalAmount = &v
	}
	return json.Marshal(out)
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// PaymentHistory is one append-only row per payment status transition.
// Rows are written in the same transaction as the transition and are never
// updated or deleted.
type PaymentHistory struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PaymentID uuid.UUID `gorm:"type:uuid;not null;index" json:"payment_id"`

	PreviousStatus *enum.PaymentStatus `gorm:"size:20" json:"previous_status,omitempty"`
	NewStatus      enum.PaymentStatus  `gorm:"size:20;not null" json:"new_status"`

	Description *string    `gorm:"size:255" json:"description,omitempty"`
	UserID      *uuid.UUID `gorm:"type:uuid" json:"user_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new history entry
func (h *PaymentHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PaymentHistory model
func (PaymentHistory) TableName() string {
	return "payment_history"
}
