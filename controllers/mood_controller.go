package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/moodtrack/moodtrack/models"
	"github.com/moodtrack/moodtrack/repository"
	"github.com/moodtrack/moodtrack/utils"
)

// MoodController manages the daily aggregate mood records and their child
// entries.
type MoodController struct {
	db *gorm.DB
}

// NewMoodController creates a MoodController.
func NewMoodController(db *gorm.DB) *MoodController {
	return &MoodController{db: db}
}

type moodChildBodies struct {
	Date        *models.Date  `json:"date"`
	Humors      *humorBody    `json:"humors"`
	WaterIntake *waterBody    `json:"water_intakes"`
	Exercises   *exerciseBody `json:"exercises"`
	FoodHabits  *foodBody     `json:"food_habits"`
	Sleeps      *sleepBody    `json:"sleeps"`
}

type moodPatchBodies struct {
	Humors      *models.HumorPatch    `json:"humors"`
	WaterIntake *models.WaterPatch    `json:"water_intakes"`
	Exercises   *models.ExercisePatch `json:"exercises"`
	FoodHabits  *models.FoodPatch     `json:"food_habits"`
	Sleeps      *models.SleepPatch    `json:"sleeps"`
}

// Get retrieves a single mood with its child entries by id.
//
// `GET` /mood/:id
func (m *MoodController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "mood")
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(m.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the mood.")
		return
	}
	defer uow.End()

	mood, err := uow.Repository.GetMoodByID(id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the mood.")
		return
	}
	if mood == nil {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Mood data with id %d.", id))
		return
	}
	if !authorizeOwner(ctx, mood.UserID, "mood", id) {
		return
	}

	ctx.JSON(http.StatusOK, mood)
}

// GetByDate retrieves the user's moods for a date, keyed by id.
//
// `GET` /mood/date/:date
func (m *MoodController) GetByDate(ctx *gin.Context) {
	date, ok := parseDateParam(ctx)
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(m.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the mood.")
		return
	}
	defer uow.End()

	moods, err := uow.Repository.GetMoodByDate(date)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the mood.")
		return
	}
	if len(moods) == 0 {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Mood data in date %s.", date))
		return
	}

	userID, _ := currentUserID(ctx)
	owned := map[uint]models.Mood{}
	for _, mood := range moods {
		if mood.UserID == userID {
			owned[mood.ID] = mood
		}
	}

	ctx.JSON(http.StatusOK, owned)
}

// Create adds a mood together with one child entry per category. The mood and
// each child are committed independently, in order, so a failure partway
// through leaves the rows already committed in place.
//
// `POST` /mood
func (m *MoodController) Create(ctx *gin.Context) {
	raw, err := io.ReadAll(ctx.Request.Body)
	if err != nil || len(raw) == 0 {
		utils.Error(ctx, http.StatusBadRequest, "Missing request body for mood.")
		return
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil || len(keys) == 0 {
		utils.Error(ctx, http.StatusBadRequest, "Missing request body for mood.")
		return
	}

	allowed := map[string]bool{
		"date": true, "humors": true, "water_intakes": true,
		"exercises": true, "food_habits": true, "sleeps": true,
	}
	for key := range keys {
		if !allowed[key] {
			utils.Error(ctx, http.StatusBadRequest, "Incorrect parameters in request body for mood.")
			return
		}
	}
	for _, key := range []string{"humors", "water_intakes", "exercises", "food_habits"} {
		if _, ok := keys[key]; !ok {
			utils.Error(ctx, http.StatusBadRequest, "Missing Mood parameter.")
			return
		}
	}

	var body moodChildBodies
	if err := json.Unmarshal(raw, &body); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "Missing Mood parameter.")
		return
	}
	if body.Humors == nil || body.WaterIntake == nil || body.Exercises == nil || body.FoodHabits == nil {
		utils.Error(ctx, http.StatusBadRequest, "Missing Mood parameter.")
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "Invalid user.")
		return
	}

	uow := repository.NewUnitOfWork(m.db)
	defer uow.End()

	date := entryDate(body.Date)
	mood := &models.Mood{UserID: userID, Date: date}
	if err := m.commitAdd(uow, func(r *repository.Repository) error {
		return r.AddMood(mood)
	}); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not add the mood.")
		return
	}

	if err := m.commitAdd(uow, func(r *repository.Repository) error {
		return r.AddHumor(&models.Humor{
			Date:        date,
			Value:       body.Humors.Value,
			Description: utils.Sanitize(body.Humors.Description),
			HealthBased: body.Humors.HealthBased,
			MoodID:      mood.ID,
		})
	}); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not add the humors.")
		return
	}

	if err := m.commitAdd(uow, func(r *repository.Repository) error {
		return r.AddWater(&models.Water{
			Date:        date,
			Milliliters: body.WaterIntake.Milliliters,
			Description: utils.Sanitize(body.WaterIntake.Description),
			Pee:         body.WaterIntake.Pee,
			MoodID:      mood.ID,
		})
	}); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not add the water intakes.")
		return
	}

	if err := m.commitAdd(uow, func(r *repository.Repository) error {
		return r.AddExercise(&models.Exercise{
			Date:        date,
			Minutes:     body.Exercises.Minutes,
			Description: utils.Sanitize(body.Exercises.Description),
			MoodID:      mood.ID,
		})
	}); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not add the exercises.")
		return
	}

	if err := m.commitAdd(uow, func(r *repository.Repository) error {
		return r.AddFood(&models.Food{
			Date:        date,
			Value:       body.FoodHabits.Value,
			Description: utils.Sanitize(body.FoodHabits.Description),
			MoodID:      mood.ID,
		})
	}); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not add the food habits.")
		return
	}

	if body.Sleeps != nil {
		if err := m.commitAdd(uow, func(r *repository.Repository) error {
			return r.AddSleep(&models.Sleep{
				Date:        date,
				Value:       body.Sleeps.Value,
				Minutes:     body.Sleeps.Minutes,
				Description: utils.Sanitize(body.Sleeps.Description),
				MoodID:      mood.ID,
			})
		}); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, "The server could not add the sleep.")
			return
		}
	}

	ctx.Status(http.StatusCreated)
}

// commitAdd runs one insert in its own transaction.
func (m *MoodController) commitAdd(uow *repository.UnitOfWork, add func(*repository.Repository) error) error {
	if err := uow.Begin(); err != nil {
		return err
	}
	if err := add(uow.Repository); err != nil {
		return err
	}
	return uow.Commit()
}

// Patch applies per-category partial updates to every existing child entry of
// the mood.
//
// `PATCH` /mood/:id
func (m *MoodController) Patch(ctx *gin.Context) {
	id, ok := parseID(ctx, "mood")
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(m.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the mood.")
		return
	}
	defer uow.End()

	mood, err := uow.Repository.GetMoodByID(id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the mood.")
		return
	}
	if mood == nil {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Mood data with id %d.", id))
		return
	}
	if !authorizeOwner(ctx, mood.UserID, "mood", id) {
		return
	}

	var body moodPatchBodies
	allowed := []string{"humors", "water_intakes", "exercises", "food_habits", "sleeps"}
	if !bindStrict(ctx, &body, allowed, nil, "mood") {
		return
	}
	sanitizePatchDescriptions(&body)

	if err := m.applyChildPatches(uow.Repository, mood, body); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not update the mood.")
		return
	}
	if err := uow.Commit(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not update the mood.")
		return
	}

	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the mood.")
		return
	}
	updated, err := uow.Repository.GetMoodByID(id)
	if err != nil || updated == nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the mood.")
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func sanitizePatchDescriptions(body *moodPatchBodies) {
	clean := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := utils.Sanitize(*s)
		return &v
	}
	if body.Humors != nil {
		body.Humors.Description = clean(body.Humors.Description)
	}
	if body.WaterIntake != nil {
		body.WaterIntake.Description = clean(body.WaterIntake.Description)
	}
	if body.Exercises != nil {
		body.Exercises.Description = clean(body.Exercises.Description)
	}
	if body.FoodHabits != nil {
		body.FoodHabits.Description = clean(body.FoodHabits.Description)
	}
	if body.Sleeps != nil {
		body.Sleeps.Description = clean(body.Sleeps.Description)
	}
}

func (m *MoodController) applyChildPatches(r *repository.Repository, mood *models.Mood, body moodPatchBodies) error {
	if body.Humors != nil {
		for i := range mood.Humors {
			if err := r.UpdateHumor(&mood.Humors[i], *body.Humors); err != nil {
				return err
			}
		}
	}
	if body.WaterIntake != nil {
		for i := range mood.WaterIntakes {
			if err := r.UpdateWater(&mood.WaterIntakes[i], *body.WaterIntake); err != nil {
				return err
			}
		}
	}
	if body.Exercises != nil {
		for i := range mood.Exercises {
			if err := r.UpdateExercise(&mood.Exercises[i], *body.Exercises); err != nil {
				return err
			}
		}
	}
	if body.FoodHabits != nil {
		for i := range mood.FoodHabits {
			if err := r.UpdateFood(&mood.FoodHabits[i], *body.FoodHabits); err != nil {
				return err
			}
		}
	}
	if body.Sleeps != nil {
		for i := range mood.Sleeps {
			if err := r.UpdateSleep(&mood.Sleeps[i], *body.Sleeps); err != nil {
				return err
			}
		}
	}
	return nil
}

// Delete removes a mood and all of its child entries by id.
//
// `DELETE` /mood/:id
func (m *MoodController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "mood")
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(m.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the mood.")
		return
	}
	defer uow.End()

	mood, err := uow.Repository.GetMoodByID(id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the mood.")
		return
	}
	if mood == nil {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Mood data with id %d.", id))
		return
	}
	if !authorizeOwner(ctx, mood.UserID, "mood", id) {
		return
	}

	if err := uow.Repository.DeleteMood(mood); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not delete the mood.")
		return
	}
	if err := uow.Commit(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not delete the mood.")
		return
	}

	ctx.Status(http.StatusNoContent)
}

// DeleteByDate removes all of the user's moods for a date, all-or-nothing.
//
// `DELETE` /mood/date/:date
func (m *MoodController) DeleteByDate(ctx *gin.Context) {
	date, ok := parseDateParam(ctx)
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(m.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the mood.")
		return
	}
	defer uow.End()

	moods, err := uow.Repository.GetMoodByDate(date)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the mood.")
		return
	}
	if len(moods) == 0 {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Mood data in date %s.", date))
		return
	}

	userID, _ := currentUserID(ctx)
	for i := range moods {
		if moods[i].UserID != userID {
			utils.Error(ctx, http.StatusForbidden,
				fmt.Sprintf("Invalid user for mood %d.", moods[i].ID))
			_ = uow.Rollback()
			return
		}
		if err := uow.Repository.DeleteMood(&moods[i]); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, "The server could not delete the moods.")
			return
		}
	}
	if err := uow.Commit(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not delete the moods.")
		return
	}

	ctx.Status(http.StatusNoContent)
}
