package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/sakamer71/healthcheck/models"
	"github.com/sakamer71/healthcheck/utils"
)

// BuildMealPrompt produces the extraction prompt for a free-text meal
// description. The nutrient list comes from configuration so the prompt and
// the normalizer always agree on the expected field set.
func BuildMealPrompt(nutrients []string, query string) string {
	return fmt.Sprintf(
		"For the following meal, tell me the nutritional value for each category of [%s]: %s  "+
			"Where possible, return integer values. Respond **only** with the JSON object, without any "+
			"additional text, code blocks, or formatting. Do not include language identifiers or backticks. "+
			"Ensure the output is valid JSON.",
		strings.Join(nutrients, ", "), query,
	)
}

// BuildRDAPrompt produces the recommended-daily-allowance prompt for a user
// profile. The day count is computed from now, so the prompt for the same
// profile changes across days; that is expected, not a bug.
func BuildRDAPrompt(p models.Profile, now time.Time) (string, error) {
	target, err := time.Parse("2006-01-02", p.TargetDate)
	if err != nil {
		return "", NewValidationError("invalid targetDate %q: expected YYYY-MM-DD", p.TargetDate)
	}
	days := utils.DaysUntil(now, target)

	var bmiNote string
	if bmi, err := utils.CalculateBMI(p.HeightCm, p.WeightKg); err == nil {
		bmiNote = fmt.Sprintf(" (BMI %.1f, %s)", bmi, utils.BMICategory(bmi))
	}

	gender := p.Gender
	if gender == "" {
		gender = "unknown"
	}

	return fmt.Sprintf(
		"Calculate RDA. Age: %dy, Gender: %s, Height: %.0fcm, Weight: %.1fkg%s, Target: %.1fkg in %d days, Activity: %s.\n\n"+
			"Respond with ONLY a valid JSON object in this EXACT format, with NO additional text or formatting:\n"+
			`{"calories": 2000, "protein": 50, "fat": 70, "fiber": 25, "carbohydrates": 300}`+"\n\n"+
			"Replace the example numbers with calculated values based on the profile.",
		p.Age, gender, p.HeightCm, p.WeightKg, bmiNote, p.TargetWeightKg, days, p.ActivityLevel,
	), nil
}
