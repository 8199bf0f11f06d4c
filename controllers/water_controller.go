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

// WaterController manages water intake entries.
type WaterController struct {
	db *gorm.DB
}

// NewWaterController creates a WaterController.
func NewWaterController(db *gorm.DB) *WaterController {
	return &WaterController{db: db}
}

type waterBody struct {
	Date        *models.Date `json:"date"`
	Milliliters int          `json:"milliliters"`
	Description string       `json:"description"`
	Pee         bool         `json:"pee"`
}

// Get retrieves a single water intake by id.
//
// `GET` /water-intake/:id
func (w *WaterController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "water intake")
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(w.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the water intake.")
		return
	}
	defer uow.End()

	water, err := uow.Repository.GetWaterByID(id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the water intake.")
		return
	}
	if water == nil {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Water Intake data with id %d.", id))
		return
	}
	if !authorizeOwner(ctx, water.Mood.UserID, "water intake", id) {
		return
	}

	ctx.JSON(http.StatusOK, water)
}

// GetByDate retrieves the user's water intakes for a date, keyed by id.
//
// `GET` /water-intake/date/:date
func (w *WaterController) GetByDate(ctx *gin.Context) {
	date, ok := parseDateParam(ctx)
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(w.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the water intake.")
		return
	}
	defer uow.End()

	intakes, err := uow.Repository.GetWaterByDate(date)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the water intake.")
		return
	}
	if len(intakes) == 0 {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Water Intake data in date %s.", date))
		return
	}

	userID, _ := currentUserID(ctx)
	owned := map[uint]models.Water{}
	for _, water := range intakes {
		if water.Mood.UserID == userID {
			owned[water.ID] = water
		}
	}

	ctx.JSON(http.StatusOK, owned)
}

// Create adds a water intake entry.
//
// `POST` /water-intake
func (w *WaterController) Create(ctx *gin.Context) {
	var body waterBody
	allowed := []string{"date", "milliliters", "description", "pee"}
	required := []string{"milliliters", "description", "pee"}
	if !bindStrict(ctx, &body, allowed, required, "water intake") {
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "Invalid user.")
		return
	}

	uow := repository.NewUnitOfWork(w.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not add the water intake.")
		return
	}
	defer uow.End()

	date := entryDate(body.Date)
	mood, err := moodForDate(uow, userID, date)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not add the water intake.")
		return
	}

	water := &models.Water{
		Date:        date,
		Milliliters: body.Milliliters,
		Description: utils.Sanitize(body.Description),
		Pee:         body.Pee,
		MoodID:      mood.ID,
	}
	if err := uow.Repository.AddWater(water); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not add the water intake.")
		return
	}
	if err := uow.Commit(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not add the water intake.")
		return
	}

	ctx.Status(http.StatusCreated)
}

// Patch merge-updates a water intake entry.
//
// `PATCH` /water-intake/:id
func (w *WaterController) Patch(ctx *gin.Context) {
	id, ok := parseID(ctx, "water intake")
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(w.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the water intake.")
		return
	}
	defer uow.End()

	water, err := uow.Repository.GetWaterByID(id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the water intake.")
		return
	}
	if water == nil {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Water Intake data with id %d.", id))
		return
	}
	if !authorizeOwner(ctx, water.Mood.UserID, "water intake", id) {
		return
	}

	var patch models.WaterPatch
	if !bindStrict(ctx, &patch, []string{"milliliters", "description", "pee"}, nil, "water intake") {
		return
	}
	if patch.Description != nil {
		clean := utils.Sanitize(*patch.Description)
		patch.Description = &clean
	}

	if err := uow.Repository.UpdateWater(water, patch); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not update the water intake.")
		return
	}
	if err := uow.Commit(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not update the water intake.")
		return
	}

	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the water intake.")
		return
	}
	updated, err := uow.Repository.GetWaterByID(id)
	if err != nil || updated == nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the water intake.")
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// Delete removes a water intake by id.
//
// `DELETE` /water-intake/:id
func (w *WaterController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "water intake")
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(w.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the water intake.")
		return
	}
	defer uow.End()

	water, err := uow.Repository.GetWaterByID(id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the water intake.")
		return
	}
	if water == nil {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Water Intake data with id %d.", id))
		return
	}
	if !authorizeOwner(ctx, water.Mood.UserID, "water intake", id) {
		return
	}

	if err := uow.Repository.DeleteWater(water); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not delete the water intake.")
		return
	}
	if err := uow.Commit(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not delete the water intake.")
		return
	}

	ctx.Status(http.StatusNoContent)
}

// DeleteByDate removes all of the user's water intakes for a date,
// all-or-nothing.
//
// `DELETE` /water-intake/date/:date
func (w *WaterController) DeleteByDate(ctx *gin.Context) {
	date, ok := parseDateParam(ctx)
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(w.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the water intake.")
		return
	}
	defer uow.End()

	intakes, err := uow.Repository.GetWaterByDate(date)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the water intake.")
		return
	}
	if len(intakes) == 0 {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Water Intake data in date %s.", date))
		return
	}

	userID, _ := currentUserID(ctx)
	for i := range intakes {
		if intakes[i].Mood.UserID != userID {
			utils.Error(ctx, http.StatusForbidden,
				fmt.Sprintf("Invalid user for water intake %d.", intakes[i].ID))
			_ = uow.Rollback()
			return
		}
		if err := uow.Repository.DeleteWater(&intakes[i]); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, "The server could not delete the water intakes.")
			return
		}
	}
	if err := uow.Commit(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not delete the water intakes.")
		return
	}

	ctx.Status(http.StatusNoContent)
}
