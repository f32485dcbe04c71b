// internal/service/order/infrastructure/models.go
package infrastructure

import (
	"database/sql"
	"time"
)

// OrderModel is the Order aggregate root in the orders table.
type OrderModel struct {
	ID             string  `gorm:"primaryKey;size:36"`
	TotalAmount    float64 `gorm:"type:decimal(10,2)"`
	TotalItems     int
	Status         string `gorm:"type:varchar(16);index;default:PENDING"`
	Paid           bool   `gorm:"default:false"`
	PaidAt         sql.NullTime
	StripeChargeID sql.NullString `gorm:"size:64"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Items   []OrderItemModel   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Receipt *OrderReceiptModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel rows exist only under their owning order. Price is the
// catalog snapshot taken at creation time.
type OrderItemModel struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"`
	OrderID   string  `gorm:"size:36;index"`
	ProductID string  `gorm:"size:36"`
	Price     float64 `gorm:"type:decimal(10,2)"`
	Quantity  int
}

func (OrderItemModel) TableName() string {
	return "order_items"
}

// OrderReceiptModel holds at most one receipt per order; the unique index on
// order_id is what makes the reconciliation upsert idempotent.
type OrderReceiptModel struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	OrderID    string `gorm:"size:36;uniqueIndex"`
	ReceiptURL string `gorm:"size:512"`
	CreatedAt  time.Time
}

func (OrderReceiptModel) TableName() string {
	return "order_receipts"
}
