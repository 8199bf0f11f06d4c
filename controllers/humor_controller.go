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

// HumorController manages humor entries.
type HumorController struct {
	db *gorm.DB
}

// NewHumorController creates a HumorController.
func NewHumorController(db *gorm.DB) *HumorController {
	return &HumorController{db: db}
}

type humorBody struct {
	Date        *models.Date `json:"date"`
	Value       int          `json:"value"`
	Description string       `json:"description"`
	HealthBased bool         `json:"health_based"`
}

// Get retrieves a single humor entry by id.
//
// `GET` /humor/:id
func (h *HumorController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "humor")
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(h.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the humor.")
		return
	}
	defer uow.End()

	humor, err := uow.Repository.GetHumorByID(id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the humor.")
		return
	}
	if humor == nil {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Humor data with id %d.", id))
		return
	}
	if !authorizeOwner(ctx, humor.Mood.UserID, "humor", id) {
		return
	}

	ctx.JSON(http.StatusOK, humor)
}

// GetByDate retrieves the authenticated user's humor entries for a date,
// keyed by id.
//
// `GET` /humor/date/:date
func (h *HumorController) GetByDate(ctx *gin.Context) {
	date, ok := parseDateParam(ctx)
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(h.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the humor.")
		return
	}
	defer uow.End()

	humors, err := uow.Repository.GetHumorByDate(date)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the humor.")
		return
	}
	if len(humors) == 0 {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Humor data in date %s.", date))
		return
	}

	userID, _ := currentUserID(ctx)
	owned := map[uint]models.Humor{}
	for _, humor := range humors {
		if humor.Mood.UserID == userID {
			owned[humor.ID] = humor
		}
	}

	ctx.JSON(http.StatusOK, owned)
}

// Create adds a humor entry, resolving or creating the day's mood.
//
// `POST` /humor
func (h *HumorController) Create(ctx *gin.Context) {
	var body humorBody
	allowed := []string{"date", "value", "description", "health_based"}
	required := []string{"value", "description", "health_based"}
	if !bindStrict(ctx, &body, allowed, required, "humor") {
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "Invalid user.")
		return
	}

	uow := repository.NewUnitOfWork(h.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not add the humor.")
		return
	}
	defer uow.End()

	date := entryDate(body.Date)
	mood, err := moodForDate(uow, userID, date)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not add the humor.")
		return
	}

	humor := &models.Humor{
		Date:        date,
		Value:       body.Value,
		Description: utils.Sanitize(body.Description),
		HealthBased: body.HealthBased,
		MoodID:      mood.ID,
	}
	if err := uow.Repository.AddHumor(humor); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not add the humor.")
		return
	}
	if err := uow.Commit(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not add the humor.")
		return
	}

	ctx.Status(http.StatusCreated)
}

// Patch merge-updates a humor entry.
//
// `PATCH` /humor/:id
func (h *HumorController) Patch(ctx *gin.Context) {
	id, ok := parseID(ctx, "humor")
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(h.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the humor.")
		return
	}
	defer uow.End()

	humor, err := uow.Repository.GetHumorByID(id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the humor.")
		return
	}
	if humor == nil {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Humor data with id %d.", id))
		return
	}
	if !authorizeOwner(ctx, humor.Mood.UserID, "humor", id) {
		return
	}

	var patch models.HumorPatch
	if !bindStrict(ctx, &patch, []string{"value", "description", "health_based"}, nil, "humor") {
		return
	}
	if patch.Description != nil {
		clean := utils.Sanitize(*patch.Description)
		patch.Description = &clean
	}

	if err := uow.Repository.UpdateHumor(humor, patch); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not update the humor.")
		return
	}
	if err := uow.Commit(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not update the humor.")
		return
	}

	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the humor.")
		return
	}
	updated, err := uow.Repository.GetHumorByID(id)
	if err != nil || updated == nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the humor.")
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// Delete removes a humor entry by id.
//
// `DELETE` /humor/:id
func (h *HumorController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "humor")
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(h.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the humor.")
		return
	}
	defer uow.End()

	humor, err := uow.Repository.GetHumorByID(id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the humor.")
		return
	}
	if humor == nil {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Humor data with id %d.", id))
		return
	}
	if !authorizeOwner(ctx, humor.Mood.UserID, "humor", id) {
		return
	}

	if err := uow.Repository.DeleteHumor(humor); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not delete the humor.")
		return
	}
	if err := uow.Commit(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not delete the humor.")
		return
	}

	ctx.Status(http.StatusNoContent)
}

// DeleteByDate removes all of the user's humor entries for a date. A foreign
// entry in the set aborts the whole delete with 403; the open transaction is
// rolled back so nothing partial persists.
//
// `DELETE` /humor/date/:date
func (h *HumorController) DeleteByDate(ctx *gin.Context) {
	date, ok := parseDateParam(ctx)
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(h.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the humor.")
		return
	}
	defer uow.End()

	humors, err := uow.Repository.GetHumorByDate(date)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the humor.")
		return
	}
	if len(humors) == 0 {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Humor data in date %s.", date))
		return
	}

	userID, _ := currentUserID(ctx)
	for i := range humors {
		if humors[i].Mood.UserID != userID {
			utils.Error(ctx, http.StatusForbidden,
				fmt.Sprintf("Invalid user for humor %d.", humors[i].ID))
			_ = uow.Rollback()
			return
		}
		if err := uow.Repository.DeleteHumor(&humors[i]); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, "The server could not delete the humors.")
			return
		}
	}
	if err := uow.Commit(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not delete the humors.")
		return
	}

	ctx.Status(http.StatusNoContent)
}
