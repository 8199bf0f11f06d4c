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

// FoodController manages food habit entries.
type FoodController struct {
	db *gorm.DB
}

// NewFoodController creates a FoodController.
func NewFoodController(db *gorm.DB) *FoodController {
	return &FoodController{db: db}
}

type foodBody struct {
	Date        *models.Date `json:"date"`
	Value       int          `json:"value"`
	Description string       `json:"description"`
}

// Get retrieves a single food habit entry by id.
//
// `GET` /food/:id
func (f *FoodController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "food habit")
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(f.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the food habits.")
		return
	}
	defer uow.End()

	food, err := uow.Repository.GetFoodByID(id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the food habits.")
		return
	}
	if food == nil {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Food Habits data with id %d.", id))
		return
	}
	if !authorizeOwner(ctx, food.Mood.UserID, "food habit", id) {
		return
	}

	ctx.JSON(http.StatusOK, food)
}

// GetByDate retrieves the user's food habit entries for a date, keyed by id.
//
// `GET` /food/date/:date
func (f *FoodController) GetByDate(ctx *gin.Context) {
	date, ok := parseDateParam(ctx)
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(f.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the food habits.")
		return
	}
	defer uow.End()

	foods, err := uow.Repository.GetFoodByDate(date)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the food habits.")
		return
	}
	if len(foods) == 0 {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Food Habits data in date %s.", date))
		return
	}

	userID, _ := currentUserID(ctx)
	owned := map[uint]models.Food{}
	for _, food := range foods {
		if food.Mood.UserID == userID {
			owned[food.ID] = food
		}
	}

	ctx.JSON(http.StatusOK, owned)
}

// Create adds a food habit entry.
//
// `POST` /food
func (f *FoodController) Create(ctx *gin.Context) {
	var body foodBody
	allowed := []string{"date", "value", "description"}
	required := []string{"value", "description"}
	if !bindStrict(ctx, &body, allowed, required, "food habit") {
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "Invalid user.")
		return
	}

	uow := repository.NewUnitOfWork(f.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not add the food habits.")
		return
	}
	defer uow.End()

	date := entryDate(body.Date)
	mood, err := moodForDate(uow, userID, date)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not add the food habits.")
		return
	}

	food := &models.Food{
		Date:        date,
		Value:       body.Value,
		Description: utils.Sanitize(body.Description),
		MoodID:      mood.ID,
	}
	if err := uow.Repository.AddFood(food); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not add the food habits.")
		return
	}
	if err := uow.Commit(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not add the food habits.")
		return
	}

	ctx.Status(http.StatusCreated)
}

// Patch merge-updates a food habit entry.
//
// `PATCH` /food/:id
func (f *FoodController) Patch(ctx *gin.Context) {
	id, ok := parseID(ctx, "food habit")
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(f.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the food habits.")
		return
	}
	defer uow.End()

	food, err := uow.Repository.GetFoodByID(id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the food habits.")
		return
	}
	if food == nil {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Food Habits data with id %d.", id))
		return
	}
	if !authorizeOwner(ctx, food.Mood.UserID, "food habit", id) {
		return
	}

	var patch models.FoodPatch
	if !bindStrict(ctx, &patch, []string{"value", "description"}, nil, "food habit") {
		return
	}
	if patch.Description != nil {
		clean := utils.Sanitize(*patch.Description)
		patch.Description = &clean
	}

	if err := uow.Repository.UpdateFood(food, patch); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not update the food habits.")
		return
	}
	if err := uow.Commit(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not update the food habits.")
		return
	}

	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the food habits.")
		return
	}
	updated, err := uow.Repository.GetFoodByID(id)
	if err != nil || updated == nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the food habits.")
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// Delete removes a food habit entry by id.
//
// `DELETE` /food/:id
func (f *FoodController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "food habit")
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(f.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the food habits.")
		return
	}
	defer uow.End()

	food, err := uow.Repository.GetFoodByID(id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the food habits.")
		return
	}
	if food == nil {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Food Habits data with id %d.", id))
		return
	}
	if !authorizeOwner(ctx, food.Mood.UserID, "food habit", id) {
		return
	}

	if err := uow.Repository.DeleteFood(food); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not delete the food habits.")
		return
	}
	if err := uow.Commit(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not delete the food habits.")
		return
	}

	ctx.Status(http.StatusNoContent)
}

// DeleteByDate removes all of the user's food habit entries for a date,
// all-or-nothing.
//
// `DELETE` /food/date/:date
func (f *FoodController) DeleteByDate(ctx *gin.Context) {
	date, ok := parseDateParam(ctx)
	if !ok {
		return
	}

	uow := repository.NewUnitOfWork(f.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the food habits.")
		return
	}
	defer uow.End()

	foods, err := uow.Repository.GetFoodByDate(date)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not fetch the food habits.")
		return
	}
	if len(foods) == 0 {
		utils.Error(ctx, http.StatusNotFound, fmt.Sprintf("No Food Habits data in date %s.", date))
		return
	}

	userID, _ := currentUserID(ctx)
	for i := range foods {
		if foods[i].Mood.UserID != userID {
			utils.Error(ctx, http.StatusForbidden,
				fmt.Sprintf("Invalid user for food habit %d.", foods[i].ID))
			_ = uow.Rollback()
			return
		}
		if err := uow.Repository.DeleteFood(&foods[i]); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, "The server could not delete the food habits.")
			return
		}
	}
	if err := uow.Commit(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not delete the food habits.")
		return
	}

	ctx.Status(http.StatusNoContent)
}
