package models

// Sleep grades a night of sleep and its duration in minutes.
type Sleep struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Date        Date   `gorm:"index" json:"date"`
	Value       int    `gorm:"default:5" json:"value"`
	Minutes     int    `gorm:"default:0" json:"minutes"`
	Description string `gorm:"size:256" json:"description"`
	MoodID      uint   `gorm:"index;not null" json:"mood_id"`
	Mood        *Mood  `json:"-"`
}

func (Sleep) TableName() string {
	return "user_sleep"
}
