package models

import (
	"database/sql/driver"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StringList maps a comma-delimited text column to an ordered []string.
// Products store their available sizes and colors this way; normalizing
// here keeps the delimiter out of every handler.
type StringList []string

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return errors.New("StringList: unsupported column type")
	}
	*l = ParseStringList(raw)
	return nil
}

func (l StringList) Value() (driver.Value, error) {
	return strings.Join(l, ","), nil
}

func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// ParseStringList splits a comma-delimited string, trimming whitespace
// and dropping empty entries.
func ParseStringList(raw string) StringList {
	parts := strings.Split(raw, ",")
	list := make(StringList, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			list = append(list, p)
		}
	}
	if len(list) == 0 {
		return nil
	}
	return list
}

type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	SellerID    uint            `gorm:"index;not null" json:"seller_id"`
	Name        string          `gorm:"not null" json:"name"`
	Brand       string          `json:"brand"`
	Category    string          `gorm:"index" json:"category"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Sizes       StringList      `gorm:"type:text" json:"sizes"`
	Colors      StringList      `gorm:"type:text" json:"colors"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Description string          `gorm:"type:text" json:"description"`
	ImageURL    string          `json:"image_url"`
	Featured    bool            `gorm:"default:false" json:"featured"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
