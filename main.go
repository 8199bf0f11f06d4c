package main

import (
	"github.com/moodtrack/moodtrack/config"
	"github.com/moodtrack/moodtrack/models"
	"github.com/moodtrack/moodtrack/routes"
	"github.com/moodtrack/moodtrack/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.UserAuth{},
		&models.Mood{},
		&models.Humor{},
		&models.Water{},
		&models.Exercise{},
		&models.Food{},
		&models.Sleep{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
