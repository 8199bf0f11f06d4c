package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/moodtrack/moodtrack/config"
	"github.com/moodtrack/moodtrack/models"
	"github.com/moodtrack/moodtrack/repository"
	"github.com/moodtrack/moodtrack/utils"
)

// LoginController handles registration, credential login and logout.
type LoginController struct {
	db *gorm.DB
}

// NewLoginController creates a LoginController.
func NewLoginController(db *gorm.DB) *LoginController {
	return &LoginController{db: db}
}

type credentialsBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks credentials, mints a token, persists it and returns it.
//
// `POST` /login
func (l *LoginController) Login(ctx *gin.Context) {
	var body credentialsBody
	if !bindStrict(ctx, &body, []string{"username", "password"}, []string{"username", "password"}, "login") {
		return
	}

	uow := repository.NewUnitOfWork(l.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not process the login.")
		return
	}
	defer uow.End()

	auth, err := uow.Repository.GetUserAuthByUsername(body.Username)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not process the login.")
		return
	}
	if auth == nil {
		utils.Error(ctx, http.StatusNotFound,
			fmt.Sprintf("No User data with username %s.", body.Username))
		return
	}

	if !utils.CheckPassword(auth.Password, body.Password) {
		utils.Error(ctx, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	ttl := time.Duration(config.Get().AuthTTLMinutes) * time.Minute
	token, err := utils.GenerateToken(auth.UserID, auth.Username, ttl)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not process the login.")
		return
	}

	if err := uow.Repository.SetUserAuthToken(auth, token, true); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not process the login.")
		return
	}
	if err := uow.Commit(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not process the login.")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token})
	utils.Sugar.Infow("login successful", "username", auth.Username)
}

// Register creates a User plus its UserAuth pair. Duplicate usernames are
// rejected with 403, surfaced from the storage unique constraint.
//
// `POST` /register
func (l *LoginController) Register(ctx *gin.Context) {
	var body credentialsBody
	if !bindStrict(ctx, &body, []string{"username", "password"}, []string{"username", "password"}, "register") {
		return
	}

	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "Could not add new user to database.")
		return
	}

	uow := repository.NewUnitOfWork(l.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "Could not add new user to database.")
		return
	}
	defer uow.End()

	user := &models.User{}
	if err := uow.Repository.AddUser(user); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "Could not add new user to database.")
		return
	}
	if err := uow.Flush(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "Could not add new user to database.")
		return
	}

	auth := &models.UserAuth{
		Username:  body.Username,
		Password:  hash,
		CreatedAt: time.Now(),
		LastLogin: time.Now(),
		Active:    true,
		UserID:    user.ID,
	}
	if err := uow.Repository.AddUserAuth(auth); err != nil {
		if isDuplicateKey(err) {
			utils.Error(ctx, http.StatusForbidden,
				fmt.Sprintf("Username %s already exists.", body.Username))
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "Could not add new user to database.")
		return
	}
	if err := uow.Commit(); err != nil {
		if isDuplicateKey(err) {
			utils.Error(ctx, http.StatusForbidden,
				fmt.Sprintf("Username %s already exists.", body.Username))
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "Could not add new user to database.")
		return
	}

	ctx.Status(http.StatusNoContent)
	utils.Sugar.Infow("register successful", "username", body.Username)
}

// Logout deactivates the credentials and revokes the presented token.
//
// `POST` /logout
func (l *LoginController) Logout(ctx *gin.Context) {
	username := ctx.GetString("username")

	uow := repository.NewUnitOfWork(l.db)
	if err := uow.Begin(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not process the logout.")
		return
	}
	defer uow.End()

	auth, err := uow.Repository.GetUserAuthByUsername(username)
	if err != nil || auth == nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not process the logout.")
		return
	}

	if err := uow.Repository.DeactivateUserAuth(auth); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not process the logout.")
		return
	}
	if err := uow.Commit(); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "The server could not process the logout.")
		return
	}

	// Both the presented token and the one just rotated for this response die here.
	ttl := time.Duration(config.Get().AuthTTLMinutes) * time.Minute
	if header := ctx.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 {
			utils.BlacklistToken(strings.TrimSpace(parts[1]), time.Now().Add(ttl))
		}
	}
	if rotated := ctx.Writer.Header().Get("X-Auth-Token"); rotated != "" {
		utils.BlacklistToken(rotated, time.Now().Add(ttl))
	}

	ctx.Status(http.StatusNoContent)
	utils.Sugar.Infow("logout successful", "username", username)
}

// isDuplicateKey detects a unique-constraint violation. The string fallback
// covers drivers that predate gorm's error translation.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToUpper(err.Error())
	return strings.Contains(msg, "UNIQUE") || strings.Contains(msg, "DUPLICATE")
}
