package services

import (
	"context"
	"time"

	"github.com/sakamer71/healthcheck/models"

	"gorm.io/gorm"
)

// maxHistoryDays caps the historical_totals window.
const maxHistoryDays = 90

// totalsSelect sums every nutrient column in one query. COALESCE keeps
// empty days at zero instead of NULL.
const totalsSelect = `
COALESCE(SUM(calories), 0)      AS calories,
COALESCE(SUM(total_fat), 0)     AS total_fat,
COALESCE(SUM(carbohydrates), 0) AS carbohydrates,
COALESCE(SUM(protein), 0)       AS protein,
COALESCE(SUM(fiber), 0)         AS fiber,
COALESCE(SUM(sugars), 0)        AS sugars,
COALESCE(SUM(sodium), 0)        AS sodium`

// MealView is a transaction as returned by the daily-meals listing: the
// stored UTC timestamp untouched, plus a rendering in the reference
// timezone for display.
type MealView struct {
	models.Transaction
	LocalTime string `json:"local_time"`
}

// TransactionService owns all persistence of meal transactions and the
// day-boundary arithmetic over them. Calendar days are defined in loc, the
// fixed reference timezone; stored timestamps are UTC unix seconds.
type TransactionService struct {
	db  *gorm.DB
	loc *time.Location
}

func NewTransactionService(db *gorm.DB, loc *time.Location) *TransactionService {
	return &TransactionService{db: db, loc: loc}
}

// Location exposes the reference timezone for request-date parsing.
func (s *TransactionService) Location() *time.Location { return s.loc }

// Add persists a normalized record for a user, stamped with the current UTC
// time.
func (s *TransactionService) Add(ctx context.Context, userID string, rec models.NutritionRecord) (*models.Transaction, error) {
	tx := &models.Transaction{
		UserID:        userID,
		Timestamp:     time.Now().UTC().Unix(),
		Name:          rec.Name,
		Calories:      rec.Calories,
		TotalFat:      rec.TotalFat,
		Carbohydrates: rec.Carbohydrates,
		Protein:       rec.Protein,
		Fiber:         rec.Fiber,
		Sugars:        rec.Sugars,
		Sodium:        rec.Sodium,
		ServingSize:   rec.ServingSize,
	}
	if err := s.db.WithContext(ctx).Create(tx).Error; err != nil {
		return nil, err
	}
	return tx, nil
}

// dayRangeUTC converts a calendar day in the reference timezone to the UTC
// unix-second range [start, end] covering it. Going through wall-clock
// instants in loc keeps day boundaries correct across DST transitions,
// where the UTC offset is not constant.
func (s *TransactionService) dayRangeUTC(day time.Time) (int64, int64) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc)
	end := start.AddDate(0, 0, 1).Add(-time.Second)
	return start.Unix(), end.Unix()
}

// targetDay resolves an optional requested date, defaulting to today in the
// reference timezone.
func (s *TransactionService) targetDay(day *time.Time) time.Time {
	if day != nil {
		return day.In(s.loc)
	}
	return time.Now().In(s.loc)
}

// DailyTotals sums each nutrient over the user's transactions within one
// calendar day. An empty day yields zero totals and a zero count, never an
// error.
func (s *TransactionService) DailyTotals(ctx context.Context, userID string, day *time.Time) (models.DailyTotals, int64, error) {
	startUTC, endUTC := s.dayRangeUTC(s.targetDay(day))

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("user_id = ? AND timestamp BETWEEN ? AND ?", userID, startUTC, endUTC).
		Count(&count).Error; err != nil {
		return models.DailyTotals{}, 0, err
	}

	var totals models.DailyTotals
	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Select(totalsSelect).
		Where("user_id = ? AND timestamp BETWEEN ? AND ?", userID, startUTC, endUTC).
		Scan(&totals).Error; err != nil {
		return models.DailyTotals{}, 0, err
	}
	return totals, count, nil
}

// HistoricalTotals returns one DailyTotals per calendar day for the `days`
// consecutive days ending today, oldest first.
func (s *TransactionService) HistoricalTotals(ctx context.Context, userID string, days int) ([]models.DailyTotalsEntry, error) {
	if days < 1 || days > maxHistoryDays {
		return nil, NewValidationError("days must be between 1 and %d, got %d", maxHistoryDays, days)
	}

	end := time.Now().In(s.loc)
	start := end.AddDate(0, 0, -(days - 1))

	out := make([]models.DailyTotalsEntry, 0, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		totals, _, err := s.DailyTotals(ctx, userID, &d)
		if err != nil {
			return nil, err
		}
		out = append(out, models.DailyTotalsEntry{
			Date:        d.Format("2006-01-02"),
			DailyTotals: totals,
		})
	}
	return out, nil
}

// DailyMeals lists the user's transactions for one calendar day, newest
// first. The stored timestamp stays UTC; LocalTime is display-only.
func (s *TransactionService) DailyMeals(ctx context.Context, userID string, day *time.Time) ([]MealView, error) {
	startUTC, endUTC := s.dayRangeUTC(s.targetDay(day))

	var rows []models.Transaction
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND timestamp BETWEEN ? AND ?", userID, startUTC, endUTC).
		Order("timestamp DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]MealView, 0, len(rows))
	for _, row := range rows {
		out = append(out, MealView{
			Transaction: row,
			LocalTime:   time.Unix(row.Timestamp, 0).In(s.loc).Format("2006-01-02 15:04:05"),
		})
	}
	return out, nil
}

// DeleteMeal removes the transaction with the given id if it belongs to
// userID. A non-matching pair is a false result, not an error.
func (s *TransactionService) DeleteMeal(ctx context.Context, mealID uint, userID string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", mealID, userID).
		Delete(&models.Transaction{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountByUser reports the user's total transaction count, used for
// diagnostics on the listing path.
func (s *TransactionService) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
