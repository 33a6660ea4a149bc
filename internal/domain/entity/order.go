package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mateusallves/doceria-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Order is the purchase aggregate: one customer's request, its line items,
// delivery data and status
type Order struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	OrderNumber string           `gorm:"size:20;uniqueIndex;not null" json:"order_number"`
	CustomerID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"customer_id"`
	Status      enum.OrderStatus `gorm:"size:20;not null;default:'pendente';index" json:"status"`

	DeliveryType enum.DeliveryType `gorm:"size:20;not null;default:'entrega'" json:"delivery_type"`
	DeliveryDate *string           `gorm:"size:20" json:"delivery_date,omitempty"`
	DeliveryTime *string           `gorm:"size:10" json:"delivery_time,omitempty"`

	// Delivery address snapshot; may differ from the customer record
	DeliveryStreet     *string `gorm:"size:255" json:"delivery_street,omitempty"`
	DeliveryNumber     *string `gorm:"size:20" json:"delivery_number,omitempty"`
	DeliveryComplement *string `gorm:"size:255" json:"delivery_complement,omitempty"`
	DeliveryDistrict   *string `gorm:"size:100" json:"delivery_district,omitempty"`
	DeliveryCity       *string `gorm:"size:100" json:"delivery_city,omitempty"`
	DeliveryState      *string `gorm:"size:2" json:"delivery_state,omitempty"`
	DeliveryZip        *string `gorm:"size:10" json:"delivery_zip,omitempty"`

	// Monetary fields stored in cents, excluded from JSON (see MarshalJSON)
	Subtotal    int64 `gorm:"not null;default:0" json:"-"`
	Discount    int64 `gorm:"not null;default:0" json:"-"`
	DeliveryFee int64 `gorm:"not null;default:0" json:"-"`
	Total       int64 `gorm:"not null;default:0" json:"-"`

	// Payment hint captured at creation; the actual Payment rows live on
	// their own aggregate
	PaymentMethod *enum.PaymentMethod `gorm:"size:20" json:"payment_method,omitempty"`
	ChangeFor     *int64              `json:"-"` // cash: bill the customer will pay with, cents

	Notes *string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Customer *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// MarshalJSON converts cent amounts to decimals for API responses
func (o Order) MarshalJSON() ([]byte, error) {
	type Alias Order
	out := &struct {
		Alias
		Subtotal    float64  `json:"subtotal"`
		Discount    float64  `json:"discount"`
		DeliveryFee float64  `json:"delivery_fee"`
		Total       float64  `json:"total"`
		ChangeFor   *float64 `json:"change_for,omitempty"`
	}{
		Alias:       Alias(o),
		Subtotal:    float64(o.Subtotal) / 100,
		Discount:    float64(o.Discount) / 100,
		DeliveryFee: float64(o.DeliveryFee) / 100,
		Total:       float64(o.Total) / 100,
	}
	if o.ChangeFor != nil {
		v := float64(*o.ChangeFor) / 100
		out.ChangeFor = &v
	}
	return json.Marshal(out)
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// RecomputeTotal re-derives Total from the stored components. Subtotal is the
// sum of item subtotals and is only touched when items change.
func (o *Order) RecomputeTotal() {
	o.Total = o.Subtotal - o.Discount + o.DeliveryFee
}

// FormatOrderNumber renders a sequence as the human-readable order number,
// e.g. PED-2026-0001
func FormatOrderNumber(year, sequence int) string {
	return fmt.Sprintf("PED-%d-%04d", year, sequence)
}

// OrderItem is a line item: a quantity of one product or one kit, with a
// historical name/price snapshot taken at order-creation time
type OrderItem struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`

	// Exactly one of ProductID/KitID is set
	ProductID *uuid.UUID `gorm:"type:uuid;index" json:"product_id,omitempty"`
	KitID     *uuid.UUID `gorm:"type:uuid;index" json:"kit_id,omitempty"`

	// Snapshot fields, immutable after creation
	ItemName        string  `gorm:"size:255;not null" json:"item_name"`
	ItemDescription *string `gorm:"type:text" json:"item_description,omitempty"`

	Quantity  int   `gorm:"not null;default:1" json:"quantity"`
	UnitPrice int64 `gorm:"not null" json:"-"` // cents
	Subtotal  int64 `gorm:"not null" json:"-"` // cents

	Notes *string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// MarshalJSON converts cent amounts to decimals for API responses
func (i OrderItem) MarshalJSON() ([]byte, error) {
	type Alias OrderItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Subtotal  float64 `json:"subtotal"`
	}{
		Alias:     Alias(i),
		UnitPrice: float64(i.UnitPrice) / 100,
		Subtotal:  float64(i.Subtotal) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new order item
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderCounter holds the last issued order-number sequence per calendar year.
// Rows are bumped with an atomic upsert so concurrent order creation never
// hands out the same sequence twice.
type OrderCounter struct {
	Year     int `gorm:"primaryKey"`
	Sequence int `gorm:"not null"`
}

// TableName returns the table name for the OrderCounter model
func (OrderCounter) TableName() string {
	return "order_counters"
}
