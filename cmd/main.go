package main

import (
	"context"
	"log"

	"github.com/sakamer71/healthcheck/config"
	"github.com/sakamer71/healthcheck/controllers"
	"github.com/sakamer71/healthcheck/routes"
	"github.com/sakamer71/healthcheck/services"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	settings, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	loc, err := settings.ReferenceLocation()
	if err != nil {
		log.Fatalf("load reference timezone: %v", err)
	}

	db, err := config.OpenDB(settings.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	ctx := context.Background()
	llm, err := services.NewLLMGateway(ctx, settings)
	if err != nil {
		log.Fatalf("initialize llm gateway: %v", err)
	}
	log.Printf("using llm model %q", settings.Models.Default)

	var images services.ImageSearcher
	if settings.ImageSearch.Enabled {
		images = services.NewImageService()
	}

	nutrition := services.NewNutritionService()
	store := services.NewTransactionService(db, loc)

	meal := controllers.NewMealController(llm, nutrition, images, store, settings.Nutrition)
	analytics := controllers.NewAnalyticsController(store)
	profile := controllers.NewProfileController(llm, nutrition)

	r := routes.SetupRouter(meal, analytics, profile, settings.Server.StaticDir)
	if err := r.Run(settings.Server.Addr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
