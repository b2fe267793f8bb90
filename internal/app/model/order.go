package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusSeen      OrderStatus = "seen"
	OrderStatusContacted OrderStatus = "contacted"
	OrderStatusSold      OrderStatus = "sold"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPlaced, OrderStatusSeen, OrderStatusContacted,
		OrderStatusSold, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// Order is a customer checkout. Items are a point-in-time snapshot and are
// never re-read from the artwork catalog after creation.
type Order struct {
	ID              string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID         string      `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_id"` // public tracking token
	CustomerName    string      `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerPhone   string      `gorm:"type:varchar(30);not null" json:"customer_phone"`
	CustomerEmail   string      `gorm:"type:varchar(255);not null;index" json:"customer_email"`
	ShippingAddress string      `gorm:"type:text;not null" json:"shipping_address"`
	CustomerMessage string      `gorm:"type:text" json:"customer_message,omitempty"`
	TotalAmount     float64     `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	ItemCount       int         `gorm:"not null" json:"item_count"`
	Items           OrderItems  `gorm:"type:text;not null" json:"items"`
	Status          OrderStatus `gorm:"type:varchar(20);default:'placed';index" json:"status"`
	CreatedAt       time.Time   `gorm:"index" json:"created_at"`
	ReceivedAt      *time.Time  `json:"received_at,omitempty"`
	DeliveredAt     *time.Time  `json:"delivered_at,omitempty"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = newID()
	}
	if o.Status == "" {
		o.Status = OrderStatusPlaced
	}
	return nil
}

// OrderItem snapshots an artwork at checkout time.
type OrderItem struct {
	ArtworkID  string  `json:"artwork_id"`
	Name       string  `json:"name"`
	ArtistID   string  `json:"artist_id"`
	ArtistName string  `json:"artist_name"`
	Image      string  `json:"image,omitempty"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   int     `json:"quantity"`
	LineTotal  float64 `json:"line_total"`
}

type OrderItems []OrderItem

// Value implements driver.Valuer
func (items OrderItems) Value() (driver.Value, error) {
	if items == nil {
		return "[]", nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (items *OrderItems) Scan(value interface{}) error {
	if value == nil {
		*items = nil
		return nil
	}
	raw, err := scanBytes(value)
	if err != nil {
		return fmt.Errorf("failed to scan OrderItems: %w", err)
	}
	return json.Unmarshal(raw, items)
}

// PublicOrder is the view returned to customers tracking their order.
type PublicOrder struct {
	OrderID      string      `json:"order_id"`
	CustomerName string      `json:"customer_name"`
	TotalAmount  float64     `json:"total_amount"`
	ItemCount    int         `json:"item_count"`
	Items        OrderItems  `json:"items"`
	Status       OrderStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	ReceivedAt   *time.Time  `json:"received_at,omitempty"`
	DeliveredAt  *time.Time  `json:"delivered_at,omitempty"`
}

func (o *Order) Public() PublicOrder {
	return PublicOrder{
		OrderID:      o.OrderID,
		CustomerName: o.CustomerName,
		TotalAmount:  o.TotalAmount,
		ItemCount:    o.ItemCount,
		Items:        o.Items,
		Status:       o.Status,
		CreatedAt:    o.CreatedAt,
		ReceivedAt:   o.ReceivedAt,
		DeliveredAt:  o.DeliveredAt,
	}
}
