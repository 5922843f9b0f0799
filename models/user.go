package models

import "time"

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	Role         string    `gorm:"type:VARCHAR(10);not null" json:"role"` // "buyer" or "seller"
	Address      string    `json:"address"`
	City         string    `json:"city"`
	PostalCode   string    `json:"postal_code"`
	CreatedAt    time.Time `json:"created_at"`
}

// SellerInfo holds the back-office profile for users with the seller role.
// NotificationPreferences is a JSON object keyed by notification type; a
// missing key means that type is enabled.
type SellerInfo struct {
	ID                      uint      `gorm:"primaryKey" json:"id"`
	UserID                  uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	BusinessName            string    `json:"business_name"`
	BusinessAddress         string    `json:"business_address"`
	NotificationPreferences string    `gorm:"type:text" json:"notification_preferences"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

func (SellerInfo) TableName() string {
	return "sellers_info"
}
