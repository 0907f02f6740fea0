package controllers_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"
)

func rdaProfileBody(targetDate string) string {
	return `{"age": 34, "heightCm": 180, "weightKg": 85, "targetWeightKg": 78,
		"targetDate": "` + targetDate + `", "activityLevel": "moderate"}`
}

func TestCalculateRDA(t *testing.T) {
	env := newTestEnv(t)
	env.llm.response = `{"calories": 2000, "protein": 50, "fat": 70, "fiber": 25, "carbohydrates": 300}`

	target := time.Now().AddDate(0, 3, 0).Format("2006-01-02")
	w := env.request(t, http.MethodPost, "/api/calculate-rda", strings.NewReader(rdaProfileBody(target)))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var rda map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &rda); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, f := range []string{"calories", "protein", "fat", "fiber", "carbohydrates"} {
		if _, ok := rda[f]; !ok {
			t.Errorf("RDA response missing field %q", f)
		}
	}
}

func TestCalculateRDARejectsBadTargetDate(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/calculate-rda", strings.NewReader(rdaProfileBody("sometime soon")))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for a malformed targetDate", w.Code)
	}
}

func TestCalculateRDAMissingRequiredField(t *testing.T) {
	env := newTestEnv(t)
	env.llm.response = `{"calories": 2000, "protein": 50, "fiber": 25, "carbohydrates": 300}`

	target := time.Now().AddDate(0, 3, 0).Format("2006-01-02")
	w := env.request(t, http.MethodPost, "/api/calculate-rda", strings.NewReader(rdaProfileBody(target)))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 when the LLM omits a required RDA field", w.Code)
	}
}

func TestCalculateRDAUnparsableResponse(t *testing.T) {
	env := newTestEnv(t)
	env.llm.response = "You should aim for about 2000 kcal."

	target := time.Now().AddDate(0, 3, 0).Format("2006-01-02")
	w := env.request(t, http.MethodPost, "/api/calculate-rda", strings.NewReader(rdaProfileBody(target)))
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502 for unparsable LLM output", w.Code)
	}
}
