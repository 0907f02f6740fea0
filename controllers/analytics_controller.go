package controllers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/sakamer71/healthcheck/services"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	Store *services.TransactionService
}

func NewAnalyticsController(store *services.TransactionService) *AnalyticsController {
	return &AnalyticsController{Store: store}
}

// GetDailyTotals handles GET /api/daily_totals/. Empty days answer with the
// "no data" sentinel the frontend expects rather than a row of zeros.
func (h *AnalyticsController) GetDailyTotals(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	day, ok := optionalDate(c, "target_date", h.Store.Location())
	if !ok {
		return
	}

	totals, count, err := h.Store.DailyTotals(c.Request.Context(), userID, day)
	if err != nil {
		respondError(c, err)
		return
	}
	if count == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "no data"})
		return
	}
	c.JSON(http.StatusOK, totals)
}

// GetDailyMeals handles GET /api/daily_meals/.
func (h *AnalyticsController) GetDailyMeals(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	day, ok := optionalDate(c, "date", h.Store.Location())
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if total, err := h.Store.CountByUser(ctx, userID); err == nil {
		log.Printf("user %s has %d transactions in total", userID, total)
	}

	meals, err := h.Store.DailyMeals(ctx, userID, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meals)
}

// GetHistoricalTotals handles GET /api/historical_totals/.
func (h *AnalyticsController) GetHistoricalTotals(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	days, err := strconv.Atoi(c.DefaultQuery("days", "14"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer"})
		return
	}

	series, err := h.Store.HistoricalTotals(c.Request.Context(), userID, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// --- helpers ---

func requireUserID(c *gin.Context) (string, bool) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return "", false
	}
	return userID, true
}

// optionalDate parses an optional YYYY-MM-DD query parameter in the
// reference timezone. Absent means nil (today).
func optionalDate(c *gin.Context, param string, loc *time.Location) (*time.Time, bool) {
	v := c.Query(param)
	if v == "" {
		return nil, true
	}
	d, err := time.ParseInLocation("2006-01-02", v, loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param + ": expected YYYY-MM-DD"})
		return nil, false
	}
	return &d, true
}
