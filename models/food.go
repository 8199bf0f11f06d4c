package models

// Food grades the user's eating habits for a date.
type Food struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Date        Date   `gorm:"index" json:"date"`
	Value       int    `gorm:"not null" json:"value"`
	Description string `gorm:"size:256;not null" json:"description"`
	MoodID      uint   `gorm:"index;not null" json:"mood_id"`
	Mood        *Mood  `json:"-"`
}

func (Food) TableName() string {
	return "user_food_habits"
}
