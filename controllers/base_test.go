package controllers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodtrack/moodtrack/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func contextWithBody(body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	return ctx, w
}

func TestBindStrictEmptyBody(t *testing.T) {
	ctx, w := contextWithBody("")

	ok := bindStrict(ctx, nil, []string{"value"}, nil, "humor")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing request body for humor.")
}

func TestBindStrictUnknownKey(t *testing.T) {
	ctx, w := contextWithBody(`{"value": 5, "extra": 1}`)

	ok := bindStrict(ctx, nil, []string{"value"}, nil, "humor")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Incorrect parameters in request body for humor.")
}

func TestBindStrictMissingRequiredKey(t *testing.T) {
	ctx, w := contextWithBody(`{"value": 5}`)

	ok := bindStrict(ctx, nil, []string{"value", "description"}, []string{"value", "description"}, "humor")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing humor parameter.")
}

func TestBindStrictDecodesIntoTarget(t *testing.T) {
	ctx, w := contextWithBody(`{"value": 5, "description": "ok", "health_based": true}`)

	var body humorBody
	allowed := []string{"date", "value", "description", "health_based"}
	required := []string{"value", "description", "health_based"}
	ok := bindStrict(ctx, &body, allowed, required, "humor")
	require.True(t, ok, w.Body.String())
	assert.Equal(t, 5, body.Value)
	assert.Equal(t, "ok", body.Description)
	assert.True(t, body.HealthBased)
	assert.Nil(t, body.Date)
}

func TestBindStrictRejectsWrongTypes(t *testing.T) {
	ctx, w := contextWithBody(`{"value": "five"}`)

	var body humorBody
	ok := bindStrict(ctx, &body, []string{"value"}, nil, "humor")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseDateParam(t *testing.T) {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Params = gin.Params{{Key: "date", Value: "2024-03-09"}}

	date, ok := parseDateParam(ctx)
	require.True(t, ok)
	assert.Equal(t, "2024-03-09", date.String())

	w = httptest.NewRecorder()
	ctx, _ = gin.CreateTestContext(w)
	ctx.Params = gin.Params{{Key: "date", Value: "tomorrow"}}

	_, ok = parseDateParam(ctx)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Date tomorrow is malformed! Correct format is YYYY-MM-DD.")
}

func TestParseID(t *testing.T) {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Params = gin.Params{{Key: "id", Value: "42"}}

	id, ok := parseID(ctx, "humor")
	require.True(t, ok)
	assert.Equal(t, uint(42), id)

	w = httptest.NewRecorder()
	ctx, _ = gin.CreateTestContext(w)
	ctx.Params = gin.Params{{Key: "id", Value: "abc"}}

	_, ok = parseID(ctx, "humor")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEntryDate(t *testing.T) {
	assert.Equal(t, models.Today().String(), entryDate(nil).String())

	d := models.NewDate(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-03-09", entryDate(&d).String())

	var zero models.Date
	assert.Equal(t, models.Today().String(), entryDate(&zero).String())
}
