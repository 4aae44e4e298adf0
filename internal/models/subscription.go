package models

import "time"

// Subscribe is one paid subscription period. Rows are appended, never
// updated in place and never deleted: a renewal after expiry inserts a new
// row under its own merchant_uid, keeping the table as an auditable ledger.
// At most one row per user may have IsActive=true at any instant; the
// partial unique indexes created in database.Migrate enforce this at the
// database level.
type Subscribe struct {
	BaseModel
	UserID      string     `gorm:"type:uuid;not null;index" json:"user_id"`
	ImpUID      string     `gorm:"size:255;uniqueIndex;not null" json:"imp_uid"`
	MerchantUID string     `gorm:"size:100;not null" json:"merchant_uid"`
	CustomerUID *string    `gorm:"size:255" json:"customer_uid,omitempty"`
	IsActive    bool       `gorm:"not null;default:false" json:"is_active"`
	StartAt     time.Time  `gorm:"not null" json:"start_at"`
	ExpiresAt   time.Time  `gorm:"not null;index" json:"expires_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Subscribe) TableName() string {
	return "subscribes"
}
