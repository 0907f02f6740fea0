package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sakamer71/healthcheck/models"
)

// nutrientFields are the canonical numeric fields of a meal record.
var nutrientFields = []string{
	"calories", "total_fat", "carbohydrates", "protein", "fiber", "sugars", "sodium",
}

// rdaFields are the required fields of a calculate-rda response.
var rdaFields = []string{"calories", "protein", "fat", "fiber", "carbohydrates"}

// combinedServing is the serving_size sentinel used when a query matched
// multiple food items and the record was collapsed into one.
const combinedServing = "combined serving"

// healthEncouragement is the default health_analysis message when the LLM
// did not provide one.
const healthEncouragement = "Keep logging your meals - every entry counts!"

// mealAliases maps lowercased key variants to canonical field names.
// Canonical names map to themselves so casing variants are recognized too.
// Keys not in this table pass through unchanged.
var mealAliases = map[string]string{
	"name": "name", "meal": "name", "food": "name",

	"calories": "calories", "calorie": "calories", "kcal": "calories",
	"total_fat": "total_fat", "total fat": "total_fat", "totalfat": "total_fat", "fat": "total_fat",
	"carbohydrates": "carbohydrates", "carbohydrate": "carbohydrates", "carbs": "carbohydrates",
	"protein": "protein", "proteins": "protein",
	"fiber": "fiber", "fibre": "fiber",
	"sugars": "sugars", "sugar": "sugars",
	"sodium": "sodium",

	"serving_size": "serving_size", "serving size": "serving_size", "servingsize": "serving_size",
	"health_analysis": "health_analysis", "health analysis": "health_analysis", "healthanalysis": "health_analysis",
}

// rdaAliases is the same idea for RDA responses, where "fat" (not
// "total_fat") is the canonical name.
var rdaAliases = map[string]string{
	"calories": "calories", "calorie": "calories",
	"protein": "protein", "proteins": "protein",
	"fat": "fat", "total_fat": "fat", "total fat": "fat",
	"fiber": "fiber", "fibre": "fiber",
	"carbohydrates": "carbohydrates", "carbohydrate": "carbohydrates", "carbs": "carbohydrates",
}

// NutritionService turns raw LLM text into canonical nutrition records.
type NutritionService struct{}

func NewNutritionService() *NutritionService { return &NutritionService{} }

// NormalizeMeal parses and normalizes a meal-analysis response. The returned
// map has every canonical field present (numerics default to 0, strings to
// "", health_analysis to an encouragement placeholder); unrecognized keys
// are preserved as-is. query is the original meal text, used as the record
// name when a multi-item response is collapsed.
//
// NormalizeMeal either returns a fully normalized record or an error, never
// a partial one. It is idempotent on its own output.
func (s *NutritionService) NormalizeMeal(raw, query string) (map[string]any, error) {
	rec, err := parseLLMJSON(raw)
	if err != nil {
		return nil, err
	}
	rec = applyAliases(rec, mealAliases)
	if hasMappedNutrient(rec) {
		rec = collapseMultiItem(rec, query)
		rec = applyAliases(rec, mealAliases)
	}
	fillMealDefaults(rec)
	normalizeHealthAnalysis(rec)
	return rec, nil
}

// NormalizeRDA parses and normalizes a calculate-rda response. All required
// RDA fields must be present and numeric after aliasing; a missing field is
// a plain error (server-side failure, not client input).
func (s *NutritionService) NormalizeRDA(raw string) (map[string]any, error) {
	rec, err := parseLLMJSON(raw)
	if err != nil {
		return nil, err
	}
	rec = applyAliases(rec, rdaAliases)
	for _, f := range rdaFields {
		n, ok := numberValue(rec[f])
		if !ok {
			return nil, fmt.Errorf("missing required field %q in RDA response", f)
		}
		rec[f] = n
	}
	return rec, nil
}

// RecordFromMap extracts the persisted subset of a normalized meal record.
func RecordFromMap(rec map[string]any) models.NutritionRecord {
	out := models.NutritionRecord{}
	out.Name, _ = rec["name"].(string)
	out.ServingSize, _ = rec["serving_size"].(string)
	out.Calories, _ = numberValue(rec["calories"])
	out.TotalFat, _ = numberValue(rec["total_fat"])
	out.Carbohydrates, _ = numberValue(rec["carbohydrates"])
	out.Protein, _ = numberValue(rec["protein"])
	out.Fiber, _ = numberValue(rec["fiber"])
	out.Sugars, _ = numberValue(rec["sugars"])
	out.Sodium, _ = numberValue(rec["sodium"])
	return out
}

// parseLLMJSON trims the raw text, strips a fenced code block if the model
// ignored the "no backticks" instruction, and unmarshals the result.
func parseLLMJSON(raw string) (map[string]any, error) {
	cleaned := stripCodeFence(strings.TrimSpace(raw))
	var rec map[string]any
	if err := json.Unmarshal([]byte(cleaned), &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLLMResponse, err)
	}
	return rec, nil
}

// stripCodeFence removes a surrounding ``` block, tolerating an optional
// language tag on the opening fence.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// applyAliases rewrites recognized key variants to canonical names and
// passes everything else through untouched.
func applyAliases(rec map[string]any, aliases map[string]string) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		if canon, ok := aliases[strings.ToLower(strings.TrimSpace(k))]; ok {
			out[canon] = v
		} else {
			out[k] = v
		}
	}
	return out
}

// hasMappedNutrient reports whether any nutrient value is itself a mapping,
// which means the query matched multiple food items.
func hasMappedNutrient(rec map[string]any) bool {
	for _, f := range nutrientFields {
		if _, ok := rec[f].(map[string]any); ok {
			return true
		}
	}
	return false
}

// collapseMultiItem sums per-item nutrient mappings into single scalars and
// relabels the record as one combined entry named after the original query.
func collapseMultiItem(rec map[string]any, query string) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	for _, f := range nutrientFields {
		m, ok := rec[f].(map[string]any)
		if !ok {
			continue
		}
		var sum float64
		for _, item := range m {
			if n, ok := numberValue(item); ok {
				sum += n
			}
		}
		out[f] = sum
	}
	out["name"] = query
	out["serving_size"] = combinedServing
	return out
}

// fillMealDefaults guarantees every canonical field is present: numerics
// default to 0, the string fields to "".
func fillMealDefaults(rec map[string]any) {
	for _, f := range nutrientFields {
		if n, ok := numberValue(rec[f]); ok {
			rec[f] = n
		} else {
			rec[f] = float64(0)
		}
	}
	for _, f := range []string{"name", "serving_size"} {
		if _, ok := rec[f].(string); !ok {
			rec[f] = ""
		}
	}
}

// normalizeHealthAnalysis default-fills the health_analysis block and
// coerces a string-typed is_healthy flag. An unrecognized non-boolean value
// is deliberately left as-is rather than rejected or defaulted.
func normalizeHealthAnalysis(rec map[string]any) {
	ha, ok := rec["health_analysis"].(map[string]any)
	if !ok {
		rec["health_analysis"] = map[string]any{"message": healthEncouragement}
		return
	}
	if _, ok := ha["message"].(string); !ok {
		ha["message"] = healthEncouragement
	}
	if v, present := ha["is_healthy"]; present {
		if b, coerced := coerceBool(v); coerced {
			ha["is_healthy"] = b
		}
	}
}

// coerceBool reports (value, true) for booleans and the strings
// "true"/"false" in any casing, and (false, false) for anything else.
func coerceBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// numberValue coerces JSON scalars to float64. Numeric strings count; maps,
// nil and everything else do not.
func numberValue(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		n, err := t.Float64()
		return n, err == nil
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return n, err == nil
	}
	return 0, false
}
