package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/sakamer71/healthcheck/models"
	"github.com/sakamer71/healthcheck/services"
)

const appleJSON = `{"name": "apple", "calories": 95, "total_fat": 0.3, "carbohydrates": 25,
	"protein": 0.5, "fiber": 4.4, "sugars": 19, "sodium": 2, "serving_size": "1 medium"}`

func TestAnalyzeMealPersistsTransaction(t *testing.T) {
	env := newTestEnv(t)
	env.llm.response = appleJSON
	env.images.url = "https://cdn.example.com/apple.jpg"

	w := env.request(t, http.MethodGet, "/api/calorie_count/apple?user_id=u1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var rec map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if rec["calories"] != float64(95) {
		t.Errorf("calories = %v, want 95", rec["calories"])
	}
	if rec["image_url"] != "https://cdn.example.com/apple.jpg" {
		t.Errorf("image_url = %v", rec["image_url"])
	}
	if _, ok := rec["id"]; !ok {
		t.Error("response should carry the stored transaction id")
	}

	var count int64
	env.db.Model(&models.Transaction{}).Where("user_id = ?", "u1").Count(&count)
	if count != 1 {
		t.Errorf("stored transactions = %d, want 1", count)
	}
}

func TestAnalyzeMealWithoutUserSkipsPersistence(t *testing.T) {
	env := newTestEnv(t)
	env.llm.response = appleJSON

	w := env.request(t, http.MethodGet, "/api/calorie_count/apple", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var count int64
	env.db.Model(&models.Transaction{}).Count(&count)
	if count != 0 {
		t.Errorf("stored transactions = %d, want 0 without user_id", count)
	}
}

func TestAnalyzeMealInvalidLLMResponse(t *testing.T) {
	env := newTestEnv(t)
	env.llm.response = "Sure! Here's the info you asked for."

	w := env.request(t, http.MethodGet, "/api/calorie_count/mystery%20meal?user_id=u1", nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502 for unparsable LLM output", w.Code)
	}

	var count int64
	env.db.Model(&models.Transaction{}).Count(&count)
	if count != 0 {
		t.Error("nothing should be persisted when normalization fails")
	}
}

func TestAnalyzeMealUpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	env.llm.err = &services.UpstreamError{Op: "llm call", Err: fmt.Errorf("connection reset")}

	w := env.request(t, http.MethodGet, "/api/calorie_count/apple", nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502 for an LLM gateway failure", w.Code)
	}
}

func TestDeleteMealWrongUser(t *testing.T) {
	env := newTestEnv(t)
	id := env.insert(t, "owner", time.Now().Unix(), 100)

	w := env.request(t, http.MethodDelete, fmt.Sprintf("/api/meal/%d?user_id=intruder", id), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for a foreign transaction", w.Code)
	}

	var count int64
	env.db.Model(&models.Transaction{}).Where("id = ?", id).Count(&count)
	if count != 1 {
		t.Error("record should remain intact after a refused delete")
	}
}

func TestDeleteMealSuccess(t *testing.T) {
	env := newTestEnv(t)
	id := env.insert(t, "u1", time.Now().Unix(), 100)

	w := env.request(t, http.MethodDelete, fmt.Sprintf("/api/meal/%d?user_id=u1", id), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var count int64
	env.db.Model(&models.Transaction{}).Where("id = ?", id).Count(&count)
	if count != 0 {
		t.Error("record should be gone after delete")
	}
}

func TestDeleteMealRequiresUserID(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodDelete, "/api/meal/1", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 without user_id", w.Code)
	}
}
