package models

// Transaction is one persisted meal entry. Timestamps are UTC unix seconds;
// day attribution happens at query time in the reference timezone.
type Transaction struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	UserID        string  `gorm:"index;not null" json:"user_id"`
	Timestamp     int64   `gorm:"index;not null" json:"timestamp"`
	Name          string  `gorm:"not null" json:"name"`
	Calories      float64 `json:"calories"`
	TotalFat      float64 `json:"total_fat"`
	Carbohydrates float64 `json:"carbohydrates"`
	Protein       float64 `json:"protein"`
	Fiber         float64 `json:"fiber"`
	Sugars        float64 `json:"sugars"`
	Sodium        float64 `json:"sodium"`
	ServingSize   string  `json:"serving_size"`
}

// DailyTotals holds the per-nutrient sums for one user and one calendar day.
type DailyTotals struct {
	Calories      float64 `json:"calories"`
	TotalFat      float64 `json:"total_fat"`
	Carbohydrates float64 `json:"carbohydrates"`
	Protein       float64 `json:"protein"`
	Fiber         float64 `json:"fiber"`
	Sugars        float64 `json:"sugars"`
	Sodium        float64 `json:"sodium"`
}

// DailyTotalsEntry is one day of a historical series.
type DailyTotalsEntry struct {
	Date string `json:"date"`
	DailyTotals
}
