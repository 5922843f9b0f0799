package models

import (
	"encoding/json"
	"time"
)

const (
	NotificationOrderStatus  = "order_status"
	NotificationOrderUpdates = "order_updates"
	NotificationLowStock     = "low_stock"
	NotificationNewMessages  = "new_messages"
	NotificationPromotional  = "promotional_emails"
)

type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Type      string    `gorm:"type:VARCHAR(30)" json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationPreferences is the decoded sellers_info preference blob.
type NotificationPreferences map[string]bool

// Enabled treats missing keys as enabled, matching how the preference
// blob is written: only explicitly disabled types carry a false entry.
func (p NotificationPreferences) Enabled(notificationType string) bool {
	enabled, ok := p[notificationType]
	return !ok || enabled
}

// Preferences decodes the stored JSON blob. An empty or malformed blob
// yields all-enabled preferences.
func (s *SellerInfo) Preferences() NotificationPreferences {
	prefs := NotificationPreferences{}
	if s == nil || s.NotificationPreferences == "" {
		return prefs
	}
	_ = json.Unmarshal([]byte(s.NotificationPreferences), &prefs)
	return prefs
}
