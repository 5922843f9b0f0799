package models

import "time"

// CartItem is one line of a buyer's cart. The (user, product, size, color)
// tuple is unique; adding the same combination again merges quantities.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_line" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_line" json:"product_id"`
	Size      string    `gorm:"uniqueIndex:idx_cart_line" json:"size"`
	Color     string    `gorm:"uniqueIndex:idx_cart_line" json:"color"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
