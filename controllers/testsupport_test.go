package controllers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sakamer71/healthcheck/controllers"
	"github.com/sakamer71/healthcheck/models"
	"github.com/sakamer71/healthcheck/routes"
	"github.com/sakamer71/healthcheck/services"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) SendPrompt(ctx context.Context, prompt string) (string, error) {
	return s.response, s.err
}

type stubImages struct {
	url string
	err error
}

func (s *stubImages) SearchMealImage(ctx context.Context, mealName string) (string, error) {
	return s.url, s.err
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	store  *services.TransactionService
	llm    *stubLLM
	images *stubImages
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Transaction{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("load test timezone: %v", err)
	}

	llm := &stubLLM{}
	images := &stubImages{}
	nutrition := services.NewNutritionService()
	store := services.NewTransactionService(db, loc)
	nutrients := []string{"calories", "total_fat", "carbohydrates", "protein", "fiber", "sugars", "sodium"}

	meal := controllers.NewMealController(llm, nutrition, images, store, nutrients)
	analytics := controllers.NewAnalyticsController(store)
	profile := controllers.NewProfileController(llm, nutrition)

	return &testEnv{
		router: routes.SetupRouter(meal, analytics, profile, ""),
		db:     db,
		store:  store,
		llm:    llm,
		images: images,
	}
}

func (e *testEnv) request(t *testing.T, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, target, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) insert(t *testing.T, userID string, ts int64, calories float64) uint {
	t.Helper()
	tx := &models.Transaction{
		UserID:    userID,
		Timestamp: ts,
		Name:      "fixture meal",
		Calories:  calories,
	}
	if err := e.db.Create(tx).Error; err != nil {
		t.Fatalf("insert fixture: %v", err)
	}
	return tx.ID
}
