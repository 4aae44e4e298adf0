package models

import "time"

// PaymentHistory is the audit ledger: one row per verified charge, written
// inside the provisioning transaction and never mutated afterwards except
// for the IsDeleted soft-delete flag.
type PaymentHistory struct {
	BaseModel
	UserID        string        `gorm:"type:uuid;not null;index" json:"user_id"`
	ImpUID        string        `gorm:"size:255;uniqueIndex;not null" json:"imp_uid"`
	MerchantUID   string        `gorm:"size:100;not null" json:"merchant_uid"`
	Amount        int64         `gorm:"not null" json:"amount"`
	Status        PaymentStatus `gorm:"size:20;not null" json:"status"`
	PaymentMethod *string       `gorm:"size:50" json:"payment_method,omitempty"`
	CardName      *string       `gorm:"size:100" json:"card_name,omitempty"`
	CardNumber    *string       `gorm:"size:50" json:"card_number,omitempty"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	ReceiptURL    *string       `gorm:"size:500" json:"receipt_url,omitempty"`
	IsDeleted     bool          `gorm:"not null;default:false" json:"is_deleted"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (PaymentHistory) TableName() string {
	return "payment_histories"
}
