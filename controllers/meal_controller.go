package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/sakamer71/healthcheck/services"

	"github.com/gin-gonic/gin"
)

type MealController struct {
	LLM       services.LLMGateway
	Nutrition *services.NutritionService
	Images    services.ImageSearcher
	Store     *services.TransactionService
	Nutrients []string
}

func NewMealController(
	llm services.LLMGateway,
	nutrition *services.NutritionService,
	images services.ImageSearcher,
	store *services.TransactionService,
	nutrients []string,
) *MealController {
	return &MealController{
		LLM:       llm,
		Nutrition: nutrition,
		Images:    images,
		Store:     store,
		Nutrients: nutrients,
	}
}

// AnalyzeMeal handles GET /api/calorie_count/*query. It prompts the LLM,
// normalizes the response, attaches a best-effort image URL, and persists a
// transaction when user_id is supplied.
func (h *MealController) AnalyzeMeal(c *gin.Context) {
	query := strings.TrimPrefix(c.Param("query"), "/")
	if strings.TrimSpace(query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meal description required"})
		return
	}
	ctx := c.Request.Context()

	prompt := services.BuildMealPrompt(h.Nutrients, query)
	raw, err := h.LLM.SendPrompt(ctx, prompt)
	if err != nil {
		respondError(c, err)
		return
	}

	rec, err := h.Nutrition.NormalizeMeal(raw, query)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.Images != nil {
		name, _ := rec["name"].(string)
		if name == "" {
			name = query
		}
		imageURL, err := h.Images.SearchMealImage(ctx, name)
		if err != nil {
			respondError(c, err)
			return
		}
		if imageURL != "" {
			rec["image_url"] = imageURL
		}
	}

	if userID := c.Query("user_id"); userID != "" {
		tx, err := h.Store.Add(ctx, userID, services.RecordFromMap(rec))
		if err != nil {
			respondError(c, err)
			return
		}
		rec["id"] = tx.ID
		log.Printf("stored transaction %d for user %s (%s)", tx.ID, userID, tx.Name)
	}

	c.JSON(http.StatusOK, rec)
}

// DeleteMeal handles DELETE /api/meal/:id. A missing or foreign transaction
// is a 404 with success=false, not a server error.
func (h *MealController) DeleteMeal(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal id"})
		return
	}
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	ok, err := h.Store.DeleteMeal(c.Request.Context(), uint(id), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// respondError maps the service error kinds onto status codes: client input
// problems are 400, collaborator failures (including unparsable LLM output)
// are 502, everything else is a 500 with the message included. This is an
// internal tool; the message stays visible.
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	var uerr *services.UpstreamError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Msg})
	case errors.Is(err, services.ErrInvalidLLMResponse), errors.As(err, &uerr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
