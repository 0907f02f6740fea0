package controllers

import (
	"net/http"
	"time"

	"github.com/sakamer71/healthcheck/models"
	"github.com/sakamer71/healthcheck/services"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	LLM       services.LLMGateway
	Nutrition *services.NutritionService
}

func NewProfileController(llm services.LLMGateway, nutrition *services.NutritionService) *ProfileController {
	return &ProfileController{LLM: llm, Nutrition: nutrition}
}

// CalculateRDA handles POST /api/calculate-rda: profile in, recommended
// daily allowances out. A response missing any required field is a server
// error, not something to default away.
func (h *ProfileController) CalculateRDA(c *gin.Context) {
	var profile models.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prompt, err := services.BuildRDAPrompt(profile, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	raw, err := h.LLM.SendPrompt(c.Request.Context(), prompt)
	if err != nil {
		respondError(c, err)
		return
	}

	rda, err := h.Nutrition.NormalizeRDA(raw)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rda)
}
