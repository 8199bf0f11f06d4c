package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/moodtrack/moodtrack/middleware"
	"github.com/moodtrack/moodtrack/models"
	"github.com/moodtrack/moodtrack/repository"
	"github.com/moodtrack/moodtrack/utils"
)

// currentUserID reads the identity the auth middleware resolved.
func currentUserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(middleware.ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// authorizeOwner is the single ownership check every resource goes through.
// Existence is confirmed before this runs, so a mismatch is always 403.
func authorizeOwner(ctx *gin.Context, ownerID uint, label string, id uint) bool {
	userID, ok := currentUserID(ctx)
	if !ok || userID != ownerID {
		utils.Error(ctx, http.StatusForbidden, fmt.Sprintf("Invalid user for %s %d.", label, id))
		return false
	}
	return true
}

// parseID reads the :id route param.
func parseID(ctx *gin.Context, label string) (uint, bool) {
	raw := ctx.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, fmt.Sprintf("Invalid %s id %s.", label, raw))
		return 0, false
	}
	return uint(id), true
}

// parseDateParam reads the :date route param as YYYY-MM-DD.
func parseDateParam(ctx *gin.Context) (models.Date, bool) {
	raw := ctx.Param("date")
	date, err := models.ParseDate(raw)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest,
			fmt.Sprintf("Date %s is malformed! Correct format is YYYY-MM-DD.", raw))
		return models.Date{}, false
	}
	return date, true
}

// bindStrict decodes the request body into dst, enforcing the endpoint's
// allow-list: an empty body, a key outside allowed, or a missing required key
// all write a 400 and return false.
func bindStrict(ctx *gin.Context, dst interface{}, allowed, required []string, label string) bool {
	raw, err := io.ReadAll(ctx.Request.Body)
	if err != nil || len(raw) == 0 {
		utils.Error(ctx, http.StatusBadRequest, fmt.Sprintf("Missing request body for %s.", label))
		return false
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil || len(keys) == 0 {
		utils.Error(ctx, http.StatusBadRequest, fmt.Sprintf("Missing request body for %s.", label))
		return false
	}

	allowedSet := map[string]bool{}
	for _, key := range allowed {
		allowedSet[key] = true
	}
	for key := range keys {
		if !allowedSet[key] {
			utils.Error(ctx, http.StatusBadRequest,
				fmt.Sprintf("Incorrect parameters in request body for %s.", label))
			return false
		}
	}
	for _, key := range required {
		if _, ok := keys[key]; !ok {
			utils.Error(ctx, http.StatusBadRequest, fmt.Sprintf("Missing %s parameter.", label))
			return false
		}
	}

	if dst != nil {
		if err := json.Unmarshal(raw, dst); err != nil {
			utils.Error(ctx, http.StatusBadRequest,
				fmt.Sprintf("Incorrect parameters in request body for %s.", label))
			return false
		}
	}
	return true
}

// moodForDate resolves the user's mood row for a date, creating it on first
// use. The create is flushed so the generated id is usable for attaching
// children inside the same transaction.
func moodForDate(uow *repository.UnitOfWork, userID uint, date models.Date) (*models.Mood, error) {
	mood, err := uow.Repository.GetMoodByUserAndDate(userID, date)
	if err != nil {
		return nil, err
	}
	if mood != nil {
		return mood, nil
	}

	mood = &models.Mood{UserID: userID, Date: date}
	if err := uow.Repository.AddMood(mood); err != nil {
		return nil, err
	}
	if err := uow.Flush(); err != nil {
		return nil, err
	}
	return mood, nil
}

// entryDate defaults a missing body date to today.
func entryDate(d *models.Date) models.Date {
	if d == nil || d.IsZero() {
		return models.Today()
	}
	return *d
}
