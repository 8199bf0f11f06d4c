package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/moodtrack/moodtrack/models"
	"github.com/moodtrack/moodtrack/repository"
	"github.com/moodtrack/moodtrack/utils"
)

// ExerciseController manages exercise entries.
type ExerciseController struct {
	db *gorm.DB
}

// NewExerciseController creates an ExerciseController.
func NewExerciseController(db *gorm.DB) *ExerciseController {
	return &ExerciseController{db: db}
}

type exerciseBody struct {
	Date        *models.Date `json:"date"`
	Minutes     int          `json:"minutes"`
	Description string       `json:"description"`
}

// Get retrieves a single exercise entry by id.
//
// `GET` /exercises/:id
func (e *ExerciseController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "exercise")
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(e.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the exercise.")
		return
	}
	defer uow.End()

	exercise, err := uow.Repository.GetExerciseByID(id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the exercise.")
		return
	}
	if exercise == nil {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Exercises data with id %d.", id))
		return
	}
	if !authorizeOwner(ctx, exercise.Mood.UserID, "exercise", id) {
		return
	}

	ctx.JSON(http.StatusOK, exercise)
}

// GetByDate retrieves the user's exercise entries for a date, keyed by id.
//
// `GET` /exercises/date/:date
func (e *ExerciseController) GetByDate(ctx *gin.Context) {
	date, ok := parseDateParam(ctx)
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(e.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the exercise.")
		return
	}
	defer uow.End()

	exercises, err := uow.Repository.GetExerciseByDate(date)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the exercise.")
		return
	}
	if len(exercises) == 0 {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Exercises data in date %s.", date))
		return
	}

	userID, _ := currentUserID(ctx)
	owned := map[uint]models.Exercise{}
	for _, exercise := range exercises {
		if exercise.Mood.UserID == userID {
			owned[exercise.ID] = exercise
		}
	}

	ctx.JSON(http.StatusOK, owned)
}

// Create adds an exercise entry.
//
// `POST` /exercises
func (e *ExerciseController) Create(ctx *gin.Context) {
	var body exerciseBody
	allowed := []string{"date", "minutes", "description"}
	required := []string{"minutes", "description"}
	if !bindStrict(ctx, &body, allowed, required, "exercise") {
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "Invalid user.")
		return
	}

	uow := repository.NewUnitOfWork(e.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not add the exercise.")
		return
	}
	defer uow.End()

	date := entryDate(body.Date)
	mood, err := moodForDate(uow, userID, date)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not add the exercise.")
		return
	}

	exercise := &models.Exercise{
		Date:        date,
		Minutes:     body.Minutes,
		Description: utils.Sanitize(body.Description),
		MoodID:      mood.ID,
	}
	if err := uow.Repository.AddExercise(exercise); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not add the exercise.")
		return
	}
	if err := uow.Commit(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not add the exercise.")
		return
	}

	ctx.Status(http.StatusCreated)
}

// Patch merge-updates an exercise entry.
//
// `PATCH` /exercises/:id
func (e *ExerciseController) Patch(ctx *gin.Context) {
	id, ok := parseID(ctx, "exercise")
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(e.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the exercise.")
		return
	}
	defer uow.End()

	exercise, err := uow.Repository.GetExerciseByID(id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the exercise.")
		return
	}
	if exercise == nil {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Exercises data with id %d.", id))
		return
	}
	if !authorizeOwner(ctx, exercise.Mood.UserID, "exercise", id) {
		return
	}

	var patch models.ExercisePatch
	if !bindStrict(ctx, &patch, []string{"minutes", "description"}, nil, "exercise") {
		return
	}
	if patch.Description != nil {
		clean := utils.Sanitize(*patch.Description)
		patch.Description = &clean
	}

	if err := uow.Repository.UpdateExercise(exercise, patch); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not update the exercise.")
		return
	}
	if err := uow.Commit(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not update the exercise.")
		return
	}

	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the exercise.")
		return
	}
	updated, err := uow.Repository.GetExerciseByID(id)
	if err != nil || updated == nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the exercise.")
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// Delete removes an exercise entry by id.
//
// `DELETE` /exercises/:id
func (e *ExerciseController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "exercise")
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(e.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the exercise.")
		return
	}
	defer uow.End()

	exercise, err := uow.Repository.GetExerciseByID(id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the exercise.")
		return
	}
	if exercise == nil {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Exercises data with id %d.", id))
		return
	}
	if !authorizeOwner(ctx, exercise.Mood.UserID, "exercise", id) {
		return
	}

	if err := uow.Repository.DeleteExercise(exercise); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not delete the exercise.")
		return
	}
	if err := uow.Commit(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not delete the exercise.")
		return
	}

	ctx.Status(http.StatusNoContent)
}

// DeleteByDate removes all of the user's exercise entries for a date,
// all-or-nothing.
//
// `DELETE` /exercises/date/:date
func (e *ExerciseController) DeleteByDate(ctx *gin.Context) {
	date, ok := parseDateParam(ctx)
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(e.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the exercise.")
		return
	}
	defer uow.End()

	exercises, err := uow.Repository.GetExerciseByDate(date)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the exercise.")
		return
	}
	if len(exercises) == 0 {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Exercises data in date %s.", date))
		return
	}

	userID, _ := currentUserID(ctx)
	for i := range exercises {
		if exercises[i].Mood.UserID != userID {
			utils.Error(ctx, http.StatusForbidden,
				fmt.Sprintf("Invalid user for exercise %d.", exercises[i].ID))
			_ = uow.Rollback()
			return
		}
		if err := uow.Repository.DeleteExercise(&exercises[i]); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, "The server could not delete the exercises.")
			return
		}
	}
	if err := uow.Commit(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not delete the exercises.")
		return
	}

	ctx.Status(http.StatusNoContent)
}
