package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/moodtrack/moodtrack/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserAuth{},
		&models.Mood{},
		&models.Humor{},
		&models.Water{},
		&models.Exercise{},
		&models.Food{},
		&models.Sleep{},
	))
	return db
}

func seedUserWithMood(t *testing.T, db *gorm.DB, date models.Date) (*models.User, *models.Mood) {
	t.Helper()

	user := &models.User{}
	require.NoError(t, db.Create(user).Error)
	mood := &models.Mood{UserID: user.ID, Date: date}
	require.NoError(t, db.Create(mood).Error)
	return user, mood
}

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestHumorCRUD(t *testing.T) {
	db := openTestDB(t)
	date := mustDate(t, "2024-03-09")
	_, mood := seedUserWithMood(t, db, date)

	uow := NewUnitOfWork(db)
	require.NoError(t, uow.Begin())
	humor := &models.Humor{Date: date, Value: 7, Description: "good day", MoodID: mood.ID}
	require.NoError(t, uow.Repository.AddHumor(humor))
	require.NoError(t, uow.Commit())
	require.NotZero(t, humor.ID)

	require.NoError(t, uow.Begin())
	defer uow.End()

	got, err := uow.Repository.GetHumorByID(humor.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 7, got.Value)
	assert.Equal(t, "good day", got.Description)
	require.NotNil(t, got.Mood, "owning mood must be preloaded for ownership checks")
	assert.Equal(t, mood.UserID, got.Mood.UserID)

	byDate, err := uow.Repository.GetHumorByDate(date)
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, humor.ID, byDate[0].ID)

	newValue := 3
	require.NoError(t, uow.Repository.UpdateHumor(got, models.HumorPatch{Value: &newValue}))
	require.NoError(t, uow.Commit())

	require.NoError(t, uow.Begin())
	updated, err := uow.Repository.GetHumorByID(humor.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Value)
	assert.Equal(t, "good day", updated.Description, "untouched fields survive a patch")

	require.NoError(t, uow.Repository.DeleteHumor(updated))
	require.NoError(t, uow.Commit())

	require.NoError(t, uow.Begin())
	gone, err := uow.Repository.GetHumorByID(humor.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestGetByIDMissingIsNilNotError(t *testing.T) {
	db := openTestDB(t)

	uow := NewUnitOfWork(db)
	require.NoError(t, uow.Begin())
	defer uow.End()

	humor, err := uow.Repository.GetHumorByID(12345)
	require.NoError(t, err)
	assert.Nil(t, humor)

	mood, err := uow.Repository.GetMoodByID(12345)
	require.NoError(t, err)
	assert.Nil(t, mood)
}

func TestEmptyPatchIsNoop(t *testing.T) {
	db := openTestDB(t)
	date := mustDate(t, "2024-03-09")
	_, mood := seedUserWithMood(t, db, date)

	water := &models.Water{Date: date, Milliliters: 500, MoodID: mood.ID}
	require.NoError(t, db.Create(water).Error)

	uow := NewUnitOfWork(db)
	require.NoError(t, uow.Begin())
	defer uow.End()

	require.NoError(t, uow.Repository.UpdateWater(water, models.WaterPatch{}))
	require.NoError(t, uow.Commit())

	var got models.Water
	require.NoError(t, db.First(&got, water.ID).Error)
	assert.Equal(t, 500, got.Milliliters)
}

func TestGetMoodPreloadsChildren(t *testing.T) {
	db := openTestDB(t)
	date := mustDate(t, "2024-03-09")
	_, mood := seedUserWithMood(t, db, date)

	require.NoError(t, db.Create(&models.Humor{Date: date, Value: 5, MoodID: mood.ID}).Error)
	require.NoError(t, db.Create(&models.Water{Date: date, Milliliters: 500, MoodID: mood.ID}).Error)
	require.NoError(t, db.Create(&models.Exercise{Date: date, Minutes: 30, MoodID: mood.ID}).Error)
	require.NoError(t, db.Create(&models.Food{Date: date, Value: 8, Description: "salad", MoodID: mood.ID}).Error)
	require.NoError(t, db.Create(&models.Sleep{Date: date, Value: 6, Minutes: 420, MoodID: mood.ID}).Error)

	uow := NewUnitOfWork(db)
	require.NoError(t, uow.Begin())
	defer uow.End()

	got, err := uow.Repository.GetMoodByID(mood.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Humors, 1)
	assert.Len(t, got.WaterIntakes, 1)
	assert.Len(t, got.Exercises, 1)
	assert.Len(t, got.FoodHabits, 1)
	assert.Len(t, got.Sleeps, 1)
}

func TestGetMoodByUserAndDate(t *testing.T) {
	db := openTestDB(t)
	date := mustDate(t, "2024-03-09")
	user, mood := seedUserWithMood(t, db, date)

	uow := NewUnitOfWork(db)
	require.NoError(t, uow.Begin())
	defer uow.End()

	got, err := uow.Repository.GetMoodByUserAndDate(user.ID, date)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, mood.ID, got.ID)

	other, err := uow.Repository.GetMoodByUserAndDate(user.ID+1, date)
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestDeleteMoodRemovesChildren(t *testing.T) {
	db := openTestDB(t)
	date := mustDate(t, "2024-03-09")
	_, mood := seedUserWithMood(t, db, date)
	require.NoError(t, db.Create(&models.Humor{Date: date, Value: 5, MoodID: mood.ID}).Error)

	uow := NewUnitOfWork(db)
	require.NoError(t, uow.Begin())
	defer uow.End()

	loaded, err := uow.Repository.GetMoodByID(mood.ID)
	require.NoError(t, err)
	require.NoError(t, uow.Repository.DeleteMood(loaded))
	require.NoError(t, uow.Commit())

	var humorCount int64
	require.NoError(t, db.Model(&models.Humor{}).Where("mood_id = ?", mood.ID).Count(&humorCount).Error)
	assert.Zero(t, humorCount)
}

func TestDuplicateMoodPerUserAndDateRejected(t *testing.T) {
	db := openTestDB(t)
	date := mustDate(t, "2024-03-09")
	user, _ := seedUserWithMood(t, db, date)

	err := db.Create(&models.Mood{UserID: user.ID, Date: date}).Error
	assert.Error(t, err)
}

func TestSetUserAuthToken(t *testing.T) {
	db := openTestDB(t)

	user := &models.User{}
	require.NoError(t, db.Create(user).Error)
	auth := &models.UserAuth{Username: "u1", Password: "hash", Active: true, UserID: user.ID}
	require.NoError(t, db.Create(auth).Error)

	before := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(auth).Update("last_login", before).Error)

	uow := NewUnitOfWork(db)
	require.NoError(t, uow.Begin())
	require.NoError(t, uow.Repository.SetUserAuthToken(auth, "rotated", false))
	require.NoError(t, uow.Commit())

	var got models.UserAuth
	require.NoError(t, db.First(&got, auth.ID).Error)
	assert.Equal(t, "rotated", got.Token)
	assert.WithinDuration(t, before, got.LastLogin, time.Minute, "rotation must not touch last_login")

	require.NoError(t, uow.Begin())
	defer uow.End()
	require.NoError(t, uow.Repository.SetUserAuthToken(&got, "login-token", true))
	require.NoError(t, uow.Commit())

	require.NoError(t, db.First(&got, auth.ID).Error)
	assert.Equal(t, "login-token", got.Token)
	assert.WithinDuration(t, time.Now(), got.LastLogin, time.Minute)
}

func TestDeactivateUserAuth(t *testing.T) {
	db := openTestDB(t)

	user := &models.User{}
	require.NoError(t, db.Create(user).Error)
	auth := &models.UserAuth{Username: "u1", Password: "hash", Active: true, UserID: user.ID}
	require.NoError(t, db.Create(auth).Error)

	uow := NewUnitOfWork(db)
	require.NoError(t, uow.Begin())
	defer uow.End()
	require.NoError(t, uow.Repository.DeactivateUserAuth(auth))
	require.NoError(t, uow.Commit())

	var got models.UserAuth
	require.NoError(t, db.First(&got, auth.ID).Error)
	assert.False(t, got.Active)
}
