package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExtractImageURLs(t *testing.T) {
	page := `<html><body>
		<img src="https://cdn.example.com/photos/pizza.jpg">
		<img src="https://cdn.example.com/photos/pizza.jpg">
		<img src="https://www.google.com/logos/doodle.png">
		"https://images.example.net/salad.png"
	</body></html>`

	urls := extractImageURLs(page)
	if len(urls) != 2 {
		t.Fatalf("len(urls) = %d, want 2 (deduplicated, search-engine assets filtered): %v", len(urls), urls)
	}
	for _, u := range urls {
		if strings.Contains(u, "google.com") {
			t.Errorf("search-engine asset leaked through: %s", u)
		}
	}
}

func TestSearchMealImageReturnsResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<img src="https://cdn.example.com/ramen.jpg">`))
	}))
	defer srv.Close()

	s := NewImageService()
	s.baseURL = srv.URL

	got, err := s.SearchMealImage(context.Background(), "ramen")
	if err != nil {
		t.Fatalf("SearchMealImage() error = %v", err)
	}
	if got != "https://cdn.example.com/ramen.jpg" {
		t.Errorf("SearchMealImage() = %q", got)
	}
}

func TestSearchMealImageNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>nothing here</body></html>`))
	}))
	defer srv.Close()

	s := NewImageService()
	s.baseURL = srv.URL

	got, err := s.SearchMealImage(context.Background(), "void")
	if err != nil {
		t.Fatalf("SearchMealImage() error = %v", err)
	}
	if got != "" {
		t.Errorf("SearchMealImage() = %q, want empty for no results", got)
	}
}

func TestSearchMealImageUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewImageService()
	s.baseURL = srv.URL

	_, err := s.SearchMealImage(context.Background(), "blocked")
	var uerr *UpstreamError
	if !errors.As(err, &uerr) {
		t.Fatalf("SearchMealImage() error = %v, want UpstreamError", err)
	}
}
