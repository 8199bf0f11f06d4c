package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/moodtrack/moodtrack/config"
	"github.com/moodtrack/moodtrack/controllers"
	"github.com/moodtrack/moodtrack/middleware"
	"github.com/moodtrack/moodtrack/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(utils.GinLogger())
	r.Use(utils.GinRecovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Auth-Token"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	loginController := controllers.NewLoginController(db)
	humorController := controllers.NewHumorController(db)
	waterController := controllers.NewWaterController(db)
	exerciseController := controllers.NewExerciseController(db)
	foodController := controllers.NewFoodController(db)
	sleepController := controllers.NewSleepController(db)
	moodController := controllers.NewMoodController(db)

	public := r.Group("")
	public.Use(middleware.RateLimit())
	public.POST("/login", loginController.Login)
	public.POST("/register", loginController.Register)

	protected := r.Group("")
	protected.Use(middleware.AuthRequired(db))
	protected.POST("/logout", loginController.Logout)

	humor := protected.Group("/humor")
	humor.POST("", humorController.Create)
	humor.GET("/:id", humorController.Get)
	humor.PATCH("/:id", humorController.Patch)
	humor.DELETE("/:id", humorController.Delete)
	humor.GET("/date/:date", humorController.GetByDate)
	humor.DELETE("/date/:date", humorController.DeleteByDate)

	water := protected.Group("/water-intake")
	water.POST("", waterController.Create)
	water.GET("/:id", waterController.Get)
	water.PATCH("/:id", waterController.Patch)
	water.DELETE("/:id", waterController.Delete)
	water.GET("/date/:date", waterController.GetByDate)
	water.DELETE("/date/:date", waterController.DeleteByDate)

	exercises := protected.Group("/exercises")
	exercises.POST("", exerciseController.Create)
	exercises.GET("/:id", exerciseController.Get)
	exercises.PATCH("/:id", exerciseController.Patch)
	exercises.DELETE("/:id", exerciseController.Delete)
	exercises.GET("/date/:date", exerciseController.GetByDate)
	exercises.DELETE("/date/:date", exerciseController.DeleteByDate)

	food := protected.Group("/food")
	food.POST("", foodController.Create)
	food.GET("/:id", foodController.Get)
	food.PATCH("/:id", foodController.Patch)
	food.DELETE("/:id", foodController.Delete)
	food.GET("/date/:date", foodController.GetByDate)
	food.DELETE("/date/:date", foodController.DeleteByDate)

	sleep := protected.Group("/sleep")
	sleep.POST("", sleepController.Create)
	sleep.GET("/:id", sleepController.Get)
	sleep.PATCH("/:id", sleepController.Patch)
	sleep.DELETE("/:id", sleepController.Delete)
	sleep.GET("/date/:date", sleepController.GetByDate)
	sleep.DELETE("/date/:date", sleepController.DeleteByDate)

	mood := protected.Group("/mood")
	mood.POST("", moodController.Create)
	mood.GET("/:id", moodController.Get)
	mood.PATCH("/:id", moodController.Patch)
	mood.DELETE("/:id", moodController.Delete)
	mood.GET("/date/:date", moodController.GetByDate)
	mood.DELETE("/date/:date", moodController.DeleteByDate)

	return r
}
