package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string
type PaymentMethod string

const (
	OrderStatusPending    OrderStatus = "pending"    // Order placed, awaiting seller action
	OrderStatusProcessing OrderStatus = "processing" // Accepted by seller
	OrderStatusShipped    OrderStatus = "shipped"    // Out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // Customer received the item
	OrderStatusCancelled  OrderStatus = "cancelled"  // Cancelled or declined

	PaymentMethodCOD   PaymentMethod = "cod"
	PaymentMethodGCash PaymentMethod = "gcash"
)

// orderTransitions is the single source of truth for allowed status
// moves. Both the seller status update path and the accept/decline
// buttons go through it.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// CanTransition reports whether an order may move from one status to
// another. Equal statuses are not a transition.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RestoresStock reports whether moving from this status to cancelled
// must return the ordered quantities to product stock. Stock is held
// from checkout until the order ships.
func (s OrderStatus) RestoresStock() bool {
	return s == OrderStatusPending || s == OrderStatusProcessing
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(OrderStatusPending):
		return OrderStatusPending, nil
	case string(OrderStatusProcessing):
		return OrderStatusProcessing, nil
	case string(OrderStatusShipped):
		return OrderStatusShipped, nil
	case string(OrderStatusDelivered):
		return OrderStatusDelivered, nil
	case string(OrderStatusCancelled):
		return OrderStatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(PaymentMethodCOD):
		return PaymentMethodCOD, nil
	case string(PaymentMethodGCash):
		return PaymentMethodGCash, nil
	default:
		return "", errors.New("invalid payment method")
	}
}

type Order struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	UserID             uint            `gorm:"index;not null" json:"user_id"`
	User               User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items              []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount        decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_amount"`
	ShippingFee        decimal.Decimal `gorm:"type:decimal(10,2)" json:"shipping_fee"`
	Status             OrderStatus     `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	ShippingAddress    string          `json:"shipping_address"`
	ShippingCity       string          `json:"shipping_city"`
	ShippingPostalCode string          `json:"shipping_postal_code"`
	PaymentMethod      PaymentMethod   `gorm:"type:VARCHAR(20)" json:"payment_method"`
	ContactPhone       string          `json:"contact_phone"`
	ContactEmail       string          `json:"contact_email"`
	OrderRef           string          `gorm:"uniqueIndex" json:"order_ref"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// OrderItem snapshots the purchased line. PriceAtTime is the product
// price at checkout, decoupled from later price edits.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"index" json:"order_id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	PriceAtTime decimal.Decimal `gorm:"type:decimal(10,2)" json:"price_at_time"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	Product     Product         `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
