package models

// User is the identity collaborator. The subscription core owns exactly one
// field here: IsPaidUser, a cached projection of "an active subscription row
// exists". It must always be re-derivable from the subscribes table.
type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Nickname     string `json:"nickname"`
	IsPaidUser   bool   `gorm:"default:false" json:"is_paid_user"`

	Subscriptions []Subscribe `gorm:"foreignKey:UserID" json:"-"`
}
