package models

import (
	"time"
)

// User anchors ownership of mood data. Credentials live on UserAuth so the
// identity row itself stays minimal.
type User struct {
	ID    uint      `gorm:"primaryKey" json:"id"`
	Moods []Mood    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Auth  *UserAuth `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// TableName keeps the historical table name.
func (User) TableName() string {
	return "users"
}

// UserAuth holds login credentials and the most recently issued token.
// Passwords are stored as bcrypt hashes only.
type UserAuth struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:128;uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"size:256;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login"`
	Token     string    `gorm:"size:512" json:"-"`
	Active    bool      `gorm:"default:true" json:"active"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
}

func (UserAuth) TableName() string {
	return "user_auth"
}
