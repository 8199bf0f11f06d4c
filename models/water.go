package models

// Water records one water intake. Pee tracks whether the intake round-tripped.
type Water struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Date        Date   `gorm:"index" json:"date"`
	Milliliters int    `gorm:"not null" json:"milliliters"`
	Description string `gorm:"size:256" json:"description"`
	Pee         bool   `gorm:"default:false" json:"pee"`
	MoodID      uint   `gorm:"index;not null" json:"mood_id"`
	Mood        *Mood  `json:"-"`
}

func (Water) TableName() string {
	return "user_water_intake"
}
