package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/moodtrack/moodtrack/config"
	"github.com/moodtrack/moodtrack/repository"
	"github.com/moodtrack/moodtrack/utils"
)

const (
	// ContextUserIDKey is the key used to store the authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
)

// AuthRequired authenticates the request via its bearer token and rotates the
// token for the response. Login and register routes are mounted outside this
// middleware and skip the check entirely.
//
// Every authenticated response carries a fresh short-lived token in the
// X-Auth-Token header, persisted to the user's auth row in one commit before
// the handler runs. Clients must always present the most recent token once the
// previous one expires.
func AuthRequired(db *gorm.DB) gin.HandlerFunc {
	ttl := time.Duration(config.Get().AuthTTLMinutes) * time.Minute

	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, "authorization header missing")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, "invalid authorization header format")
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Error(ctx, http.StatusUnauthorized, "empty bearer token")
			ctx.Abort()
			return
		}

		if utils.IsTokenBlacklisted(tokenString) {
			utils.Error(ctx, http.StatusUnauthorized, "token revoked")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				utils.Error(ctx, http.StatusUnauthorized, "token expired")
			case errors.Is(err, jwt.ErrTokenMalformed):
				utils.Error(ctx, http.StatusUnauthorized, "malformed token")
			default:
				utils.Error(ctx, http.StatusUnauthorized, "invalid token")
			}
			ctx.Abort()
			return
		}

		uow := repository.NewUnitOfWork(db)
		if err := uow.Begin(); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, "the server could not authenticate the request")
			ctx.Abort()
			return
		}
		defer uow.End()

		auth, err := uow.Repository.GetUserAuthByUsername(claims.Username)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, "the server could not authenticate the request")
			ctx.Abort()
			return
		}
		if auth == nil || !auth.Active {
			utils.Error(ctx, http.StatusUnauthorized, "invalid user")
			ctx.Abort()
			return
		}

		// Token rotation: one mint, one commit, header set before the handler
		// writes the response body.
		refreshed, err := utils.GenerateToken(auth.UserID, auth.Username, ttl)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, "the server could not refresh the token")
			ctx.Abort()
			return
		}
		if err := uow.Repository.SetUserAuthToken(auth, refreshed, false); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, "the server could not refresh the token")
			ctx.Abort()
			return
		}
		if err := uow.Commit(); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, "the server could not refresh the token")
			ctx.Abort()
			return
		}
		ctx.Header("X-Auth-Token", refreshed)

		ctx.Set(ContextUserIDKey, auth.UserID)
		ctx.Set(ContextUsernameKey, auth.Username)
		ctx.Next()
	}
}
