package models

// NutritionRecord is the canonical structured meal entry produced by the
// response normalizer. Every field is guaranteed present after normalization.
type NutritionRecord struct {
	Name          string  `json:"name"`
	Calories      float64 `json:"calories"`
	TotalFat      float64 `json:"total_fat"`
	Carbohydrates float64 `json:"carbohydrates"`
	Protein       float64 `json:"protein"`
	Fiber         float64 `json:"fiber"`
	Sugars        float64 `json:"sugars"`
	Sodium        float64 `json:"sodium"`
	ServingSize   string  `json:"serving_size"`
}

// Profile is the body of a calculate-rda request. Field names follow the
// frontend payload.
type Profile struct {
	Age            int     `json:"age"`
	HeightCm       float64 `json:"heightCm"`
	WeightKg       float64 `json:"weightKg"`
	TargetWeightKg float64 `json:"targetWeightKg"`
	TargetDate     string  `json:"targetDate"`
	ActivityLevel  string  `json:"activityLevel"`
	Gender         string  `json:"gender"`
}
