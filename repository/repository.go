package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/moodtrack/moodtrack/models"
)

// Repository translates domain operations into storage calls. All methods run
// against the session handed over by the owning unit of work; commit and
// rollback decisions belong to the caller.
type Repository struct {
	db *gorm.DB
}

// New binds a repository to a storage session.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// first runs a lookup and maps gorm's not-found error to a nil record.
func first[T any](tx *gorm.DB) (*T, error) {
	var record T
	if err := tx.First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Humor

func (r *Repository) AddHumor(humor *models.Humor) error {
	return r.db.Create(humor).Error
}

func (r *Repository) GetHumorByID(id uint) (*models.Humor, error) {
	return first[models.Humor](r.db.Preload("Mood").Where("id = ?", id))
}

func (r *Repository) GetHumorByDate(date models.Date) ([]models.Humor, error) {
	var humors []models.Humor
	err := r.db.Preload("Mood").Where("date = ?", date).Find(&humors).Error
	return humors, err
}

func (r *Repository) UpdateHumor(humor *models.Humor, patch models.HumorPatch) error {
	changes := patch.Changes()
	if len(changes) == 0 {
		return nil
	}
	return r.db.Model(humor).Updates(changes).Error
}

func (r *Repository) DeleteHumor(humor *models.Humor) error {
	return r.db.Delete(humor).Error
}

// Water

func (r *Repository) AddWater(water *models.Water) error {
	return r.db.Create(water).Error
}

func (r *Repository) GetWaterByID(id uint) (*models.Water, error) {
	return first[models.Water](r.db.Preload("Mood").Where("id = ?", id))
}

func (r *Repository) GetWaterByDate(date models.Date) ([]models.Water, error) {
	var intakes []models.Water
	err := r.db.Preload("Mood").Where("date = ?", date).Find(&intakes).Error
	return intakes, err
}

func (r *Repository) UpdateWater(water *models.Water, patch models.WaterPatch) error {
	changes := patch.Changes()
	if len(changes) == 0 {
		return nil
	}
	return r.db.Model(water).Updates(changes).Error
}

func (r *Repository) DeleteWater(water *models.Water) error {
	return r.db.Delete(water).Error
}

// Exercise

func (r *Repository) AddExercise(exercise *models.Exercise) error {
	return r.db.Create(exercise).Error
}

func (r *Repository) GetExerciseByID(id uint) (*models.Exercise, error) {
	return first[models.Exercise](r.db.Preload("Mood").Where("id = ?", id))
}

func (r *Repository) GetExerciseByDate(date models.Date) ([]models.Exercise, error) {
	var exercises []models.Exercise
	err := r.db.Preload("Mood").Where("date = ?", date).Find(&exercises).Error
	return exercises, err
}

func (r *Repository) UpdateExercise(exercise *models.Exercise, patch models.ExercisePatch) error {
	changes := patch.Changes()
	if len(changes) == 0 {
		return nil
	}
	return r.db.Model(exercise).Updates(changes).Error
}

func (r *Repository) DeleteExercise(exercise *models.Exercise) error {
	return r.db.Delete(exercise).Error
}

// Food

func (r *Repository) AddFood(food *models.Food) error {
	return r.db.Create(food).Error
}

func (r *Repository) GetFoodByID(id uint) (*models.Food, error) {
	return first[models.Food](r.db.Preload("Mood").Where("id = ?", id))
}

func (r *Repository) GetFoodByDate(date models.Date) ([]models.Food, error) {
	var foods []models.Food
	err := r.db.Preload("Mood").Where("date = ?", date).Find(&foods).Error
	return foods, err
}

func (r *Repository) UpdateFood(food *models.Food, patch models.FoodPatch) error {
	changes := patch.Changes()
	if len(changes) == 0 {
		return nil
	}
	return r.db.Model(food).Updates(changes).Error
}

func (r *Repository) DeleteFood(food *models.Food) error {
	return r.db.Delete(food).Error
}

// Sleep

func (r *Repository) AddSleep(sleep *models.Sleep) error {
	return r.db.Create(sleep).Error
}

func (r *Repository) GetSleepByID(id uint) (*models.Sleep, error) {
	return first[models.Sleep](r.db.Preload("Mood").Where("id = ?", id))
}

func (r *Repository) GetSleepByDate(date models.Date) ([]models.Sleep, error) {
	var sleeps []models.Sleep
	err := r.db.Preload("Mood").Where("date = ?", date).Find(&sleeps).Error
	return sleeps, err
}

func (r *Repository) UpdateSleep(sleep *models.Sleep, patch models.SleepPatch) error {
	changes := patch.Changes()
	if len(changes) == 0 {
		return nil
	}
	return r.db.Model(sleep).Updates(changes).Error
}

func (r *Repository) DeleteSleep(sleep *models.Sleep) error {
	return r.db.Delete(sleep).Error
}

// Mood. Lookups eagerly load all child collections so serialization does not
// fan out into per-category queries.

func (r *Repository) AddMood(mood *models.Mood) error {
	return r.db.Create(mood).Error
}

func (r *Repository) moodQuery() *gorm.DB {
	return r.db.
		Preload("Humors").
		Preload("WaterIntakes").
		Preload("Exercises").
		Preload("FoodHabits").
		Preload("Sleeps")
}

func (r *Repository) GetMoodByID(id uint) (*models.Mood, error) {
	return first[models.Mood](r.moodQuery().Where("id = ?", id))
}

func (r *Repository) GetMoodByDate(date models.Date) ([]models.Mood, error) {
	var moods []models.Mood
	err := r.moodQuery().Where("date = ?", date).Find(&moods).Error
	return moods, err
}

func (r *Repository) GetMoodByUserAndDate(userID uint, date models.Date) (*models.Mood, error) {
	return first[models.Mood](r.moodQuery().Where("user_id = ? AND date = ?", userID, date))
}

func (r *Repository) DeleteMood(mood *models.Mood) error {
	// Child rows first; sqlite does not enforce the cascade the way postgres does.
	for _, del := range []interface{}{
		&models.Humor{}, &models.Water{}, &models.Exercise{}, &models.Food{}, &models.Sleep{},
	} {
		if err := r.db.Where("mood_id = ?", mood.ID).Delete(del).Error; err != nil {
			return err
		}
	}
	return r.db.Delete(mood).Error
}

// User / UserAuth

func (r *Repository) AddUser(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *Repository) GetUserByID(id uint) (*models.User, error) {
	return first[models.User](r.db.Where("id = ?", id))
}

func (r *Repository) AddUserAuth(auth *models.UserAuth) error {
	return r.db.Create(auth).Error
}

func (r *Repository) GetUserAuthByUsername(username string) (*models.UserAuth, error) {
	return first[models.UserAuth](r.db.Where("username = ?", username))
}

// SetUserAuthToken persists a freshly issued token and refreshes last_login.
func (r *Repository) SetUserAuthToken(auth *models.UserAuth, token string, lastLogin bool) error {
	changes := map[string]interface{}{"token": token}
	if lastLogin {
		changes["last_login"] = nowFunc()
	}
	return r.db.Model(auth).Updates(changes).Error
}

// DeactivateUserAuth flags the credentials as unusable without deleting them.
func (r *Repository) DeactivateUserAuth(auth *models.UserAuth) error {
	return r.db.Model(auth).Update("active", false).Error
}
