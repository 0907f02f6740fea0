package routes

import (
	"github.com/sakamer71/healthcheck/controllers"
	"github.com/sakamer71/healthcheck/middlewares"

	"github.com/gin-gonic/gin"
)

func SetupRouter(
	meal *controllers.MealController,
	analytics *controllers.AnalyticsController,
	profile *controllers.ProfileController,
	staticDir string,
) *gin.Engine {
	r := gin.Default()
	r.Use(middlewares.RequestID())

	if staticDir != "" {
		r.Static("/static", staticDir)
	}

	api := r.Group("/api")
	{
		api.GET("/calorie_count/*query", meal.AnalyzeMeal)
		api.DELETE("/meal/:id", meal.DeleteMeal)

		api.GET("/daily_totals/", analytics.GetDailyTotals)
		api.GET("/daily_meals/", analytics.GetDailyMeals)
		api.GET("/historical_totals/", analytics.GetHistoricalTotals)

		api.POST("/calculate-rda", profile.CalculateRDA)
	}

	return r
}
