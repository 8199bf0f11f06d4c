package models

// Mood is the daily aggregate grouping a user's tracked entries for one date.
// One mood exists per user per calendar date; deleting it removes its entries.
type Mood struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	Date   Date `gorm:"index:idx_mood_user_date,unique" json:"date"`
	UserID uint `gorm:"index:idx_mood_user_date,unique;not null" json:"user_id"`

	Humors       []Humor    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"humors"`
	WaterIntakes []Water    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"water_intakes"`
	Exercises    []Exercise `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"exercises"`
	FoodHabits   []Food     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"food_habits"`
	Sleeps       []Sleep    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"sleeps"`
}

func (Mood) TableName() string {
	return "user_mood"
}
