package models

// Humor grades the user's humor for a date. HealthBased marks grades that were
// influenced by health issues rather than mood itself.
type Humor struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Date        Date   `gorm:"index" json:"date"`
	Value       int    `gorm:"default:5" json:"value"`
	Description string `gorm:"size:256" json:"description"`
	HealthBased bool   `gorm:"default:false" json:"health_based"`
	MoodID      uint   `gorm:"index;not null" json:"mood_id"`
	Mood        *Mood  `json:"-"`
}

func (Humor) TableName() string {
	return "user_humor"
}
