package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/moodtrack/moodtrack/config"
	"github.com/moodtrack/moodtrack/models"
	"github.com/moodtrack/moodtrack/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.SetForTesting(config.AppConfig{
		JWTSecret:      "test-secret",
		AuthTTLMinutes: 5,
	})
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.UserAuth{}))
	return db
}

func seedAuth(t *testing.T, db *gorm.DB, username string, active bool) *models.UserAuth {
	t.Helper()

	user := &models.User{}
	require.NoError(t, db.Create(user).Error)
	auth := &models.UserAuth{Username: username, Password: "hash", Active: active, UserID: user.ID}
	require.NoError(t, db.Create(auth).Error)
	if !active {
		require.NoError(t, db.Model(auth).Update("active", false).Error)
	}
	return auth
}

func authTestRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.GET("/protected", AuthRequired(db), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"user_id":  ctx.GetUint(ContextUserIDKey),
			"username": ctx.GetString(ContextUsernameKey),
		})
	})
	return r
}

func doRequest(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMissingHeader(t *testing.T) {
	r := authTestRouter(openTestDB(t))

	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authorization header missing")
}

func TestAuthBadHeaderFormat(t *testing.T) {
	r := authTestRouter(openTestDB(t))

	w := doRequest(r, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid authorization header format")

	w = doRequest(r, "Bearerabc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, "Bearer ")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "empty bearer token")
}

func TestAuthMalformedToken(t *testing.T) {
	r := authTestRouter(openTestDB(t))

	w := doRequest(r, "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "malformed token")
}

func TestAuthExpiredToken(t *testing.T) {
	db := openTestDB(t)
	seedAuth(t, db, "u1", true)
	r := authTestRouter(db)

	token, err := utils.GenerateToken(1, "u1", -time.Minute)
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token expired")
}

func TestAuthUnknownUser(t *testing.T) {
	db := openTestDB(t)
	r := authTestRouter(db)

	token, err := utils.GenerateToken(1, "ghost", 5*time.Minute)
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid user")
}

func TestAuthInactiveUser(t *testing.T) {
	db := openTestDB(t)
	auth := seedAuth(t, db, "u1", false)
	r := authTestRouter(db)

	token, err := utils.GenerateToken(auth.UserID, "u1", 5*time.Minute)
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid user")
}

func TestAuthRevokedToken(t *testing.T) {
	db := openTestDB(t)
	auth := seedAuth(t, db, "u1", true)
	r := authTestRouter(db)

	token, err := utils.GenerateToken(auth.UserID, "u1", 5*time.Minute)
	require.NoError(t, err)
	utils.BlacklistToken(token, time.Now().Add(5*time.Minute))

	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token revoked")
}

func TestAuthSuccessRotatesToken(t *testing.T) {
	db := openTestDB(t)
	auth := seedAuth(t, db, "u1", true)
	r := authTestRouter(db)

	token, err := utils.GenerateToken(auth.UserID, "u1", 5*time.Minute)
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"u1"`)

	rotated := w.Header().Get("X-Auth-Token")
	require.NotEmpty(t, rotated)
	assert.NotEqual(t, token, rotated)

	// The rotated token is persisted on the auth row and accepted next time.
	var stored models.UserAuth
	require.NoError(t, db.First(&stored, auth.ID).Error)
	assert.Equal(t, rotated, stored.Token)

	w = doRequest(r, "Bearer "+rotated)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Auth-Token"))
}
