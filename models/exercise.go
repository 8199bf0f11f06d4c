package models

// Exercise records minutes of physical activity for a date.
type Exercise struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Date        Date   `gorm:"index" json:"date"`
	Minutes     int    `gorm:"default:0" json:"minutes"`
	Description string `gorm:"size:256" json:"description"`
	MoodID      uint   `gorm:"index;not null" json:"mood_id"`
	Mood        *Mood  `json:"-"`
}

func (Exercise) TableName() string {
	return "user_exercises"
}
