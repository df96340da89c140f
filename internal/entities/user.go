package entities

// User is an account allowed to sign in. Password holds whatever the configured
// password codec produced: the password itself in plain mode, a bcrypt hash
// otherwise.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password string `gorm:"size:255;not null" json:"-"`
}

func (User) TableName() string {
	return "users"
}
