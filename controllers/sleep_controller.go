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

// SleepController manages sleep entries.
type SleepController struct {
	db *gorm.DB
}

// NewSleepController creates a SleepController.
func NewSleepController(db *gorm.DB) *SleepController {
	return &SleepController{db: db}
}

type sleepBody struct {
	Date        *models.Date `json:"date"`
	Value       int          `json:"value"`
	Minutes     int          `json:"minutes"`
	Description string       `json:"description"`
}

// Get retrieves a single sleep entry by id.
//
// `GET` /sleep/:id
func (s *SleepController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "sleep")
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(s.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the sleep.")
		return
	}
	defer uow.End()

	sleep, err := uow.Repository.GetSleepByID(id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the sleep.")
		return
	}
	if sleep == nil {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Sleep data with id %d.", id))
		return
	}
	if !authorizeOwner(ctx, sleep.Mood.UserID, "sleep", id) {
		return
	}

	ctx.JSON(http.StatusOK, sleep)
}

// GetByDate retrieves the user's sleep entries for a date, keyed by id.
//
// `GET` /sleep/date/:date
func (s *SleepController) GetByDate(ctx *gin.Context) {
	date, ok := parseDateParam(ctx)
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(s.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the sleep.")
		return
	}
	defer uow.End()

	sleeps, err := uow.Repository.GetSleepByDate(date)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the sleep.")
		return
	}
	if len(sleeps) == 0 {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Sleep data in date %s.", date))
		return
	}

	userID, _ := currentUserID(ctx)
	owned := map[uint]models.Sleep{}
	for _, sleep := range sleeps {
		if sleep.Mood.UserID == userID {
			owned[sleep.ID] = sleep
		}
	}

	ctx.JSON(http.StatusOK, owned)
}

// Create adds a sleep entry.
//
// `POST` /sleep
func (s *SleepController) Create(ctx *gin.Context) {
	var body sleepBody
	allowed := []string{"date", "value", "minutes", "description"}
	required := []string{"value", "minutes", "description"}
	if !bindStrict(ctx, &body, allowed, required, "sleep") {
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "Invalid user.")
		return
	}

	uow := repository.NewUnitOfWork(s.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not add the sleep.")
		return
	}
	defer uow.End()

	date := entryDate(body.Date)
	mood, err := moodForDate(uow, userID, date)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not add the sleep.")
		return
	}

	sleep := &models.Sleep{
		Date:        date,
		Value:       body.Value,
		Minutes:     body.Minutes,
		Description: utils.Sanitize(body.Description),
		MoodID:      mood.ID,
	}
	if err := uow.Repository.AddSleep(sleep); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not add the sleep.")
		return
	}
	if err := uow.Commit(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not add the sleep.")
		return
	}

	ctx.Status(http.StatusCreated)
}

// Patch merge-updates a sleep entry.
//
// `PATCH` /sleep/:id
func (s *SleepController) Patch(ctx *gin.Context) {
	id, ok := parseID(ctx, "sleep")
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(s.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the sleep.")
		return
	}
	defer uow.End()

	sleep, err := uow.Repository.GetSleepByID(id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the sleep.")
		return
	}
	if sleep == nil {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Sleep data with id %d.", id))
		return
	}
	if !authorizeOwner(ctx, sleep.Mood.UserID, "sleep", id) {
		return
	}

	var patch models.SleepPatch
	if !bindStrict(ctx, &patch, []string{"value", "minutes", "description"}, nil, "sleep") {
		return
	}
	if patch.Description != nil {
		clean := utils.Sanitize(*patch.Description)
		patch.Description = &clean
	}

	if err := uow.Repository.UpdateSleep(sleep, patch); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not update the sleep.")
		return
	}
	if err := uow.Commit(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not update the sleep.")
		return
	}

	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the sleep.")
		return
	}
	updated, err := uow.Repository.GetSleepByID(id)
	if err != nil || updated == nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the sleep.")
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// Delete removes a sleep entry by id.
//
// `DELETE` /sleep/:id
func (s *SleepController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "sleep")
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(s.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the sleep.")
		return
	}
	defer uow.End()

	sleep, err := uow.Repository.GetSleepByID(id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the sleep.")
		return
	}
	if sleep == nil {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Sleep data with id %d.", id))
		return
	}
	if !authorizeOwner(ctx, sleep.Mood.UserID, "sleep", id) {
		return
	}

	if err := uow.Repository.DeleteSleep(sleep); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not delete the sleep.")
		return
	}
	if err := uow.Commit(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not delete the sleep.")
		return
	}

	ctx.Status(http.StatusNoContent)
}

// DeleteByDate removes all of the user's sleep entries for a date,
// all-or-nothing.
//
// `DELETE` /sleep/date/:date
func (s *SleepController) DeleteByDate(ctx *gin.Context) {
	date, ok := parseDateParam(ctx)
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(s.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the sleep.")
		return
	}
	defer uow.End()

	sleeps, err := uow.Repository.GetSleepByDate(date)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the sleep.")
		return
	}
	if len(sleeps) == 0 {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Sleep data in date %s.", date))
		return
	}

	userID, _ := currentUserID(ctx)
	for i := range sleeps {
		if sleeps[i].Mood.UserID != userID {
			utils.Error(ctx, http.StatusForbidden,
				fmt.Sprintf("Invalid user for sleep %d.", sleeps[i].ID))
			_ = uow.Rollback()
			return
		}
		if err := uow.Repository.DeleteSleep(&sleeps[i]); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, "The server could not delete the sleep.")
			return
		}
	}
	if err := uow.Commit(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not delete the sleep.")
		return
	}

	ctx.Status(http.StatusNoContent)
}
