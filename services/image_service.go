package services

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"
)

const imageSearchBaseURL = "https://www.google.com/search"

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// imageURLPattern matches direct image URLs embedded in the results page.
var imageURLPattern = regexp.MustCompile(`https://[^"'\\\s]+?\.(?:jpg|jpeg|png|gif)`)

// ImageSearcher finds a representative image URL for a meal name. An empty
// URL with a nil error means no result.
type ImageSearcher interface {
	SearchMealImage(ctx context.Context, mealName string) (string, error)
}

// ImageService scrapes an image search results page for meal photos.
// Best-effort by design: correctness of the results is out of scope.
type ImageService struct {
	client  *http.Client
	baseURL string
}

func NewImageService() *ImageService {
	return &ImageService{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: imageSearchBaseURL,
	}
}

// SearchMealImage returns a random image URL from the first few results for
// "<mealName> food", or "" when nothing usable was found.
func (s *ImageService) SearchMealImage(ctx context.Context, mealName string) (string, error) {
	u := fmt.Sprintf("%s?q=%s&tbm=isch", s.baseURL, url.QueryEscape(mealName+" food"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("create image search request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &UpstreamError{Op: "image search", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{Op: "image search", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UpstreamError{Op: "image search", Err: err}
	}

	images := extractImageURLs(string(body))
	if len(images) == 0 {
		return "", nil
	}
	if len(images) > 5 {
		images = images[:5]
	}
	return images[rand.Intn(len(images))], nil
}

// extractImageURLs pulls deduplicated candidate image URLs out of the page,
// skipping icons and anything hosted on the search engine itself.
func extractImageURLs(page string) []string {
	seen := map[string]struct{}{}
	for _, m := range imageURLPattern.FindAllString(page, -1) {
		if strings.Contains(m, "google.com") {
			continue
		}
		seen[m] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for u := range seen {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}
