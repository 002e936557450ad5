package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"example.com/roi-estimator/backend/internal/cache"
	"example.com/roi-estimator/backend/internal/cms"
	"example.com/roi-estimator/backend/internal/models"
)

type stubCMSClient struct {
	logos      []models.ClientLogo
	posts      []models.Post
	products   []models.Product
	references []models.Reference

	logoCalls int
}

func (s *stubCMSClient) ClientLogos(ctx context.Context) ([]models.ClientLogo, error) {
	s.logoCalls++
	return s.logos, nil
}

func (s *stubCMSClient) Posts(ctx context.Context, postType models.PostType) ([]models.Post, error) {
	return s.posts, nil
}

func (s *stubCMSClient) Products(ctx context.Context) ([]models.Product, error) {
	return s.products, nil
}

func (s *stubCMSClient) References(ctx context.Context, productSlug string) ([]models.Reference, error) {
	return s.references, nil
}

func newTestContentService(client cms.Client) *cms.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return cms.NewService(client, cache.NewMemoryStore(), time.Minute, logger)
}

// TestContentLogos проверяет выдачу логотипов клиентов.
func TestContentLogos(t *testing.T) {
	client := &stubCMSClient{logos: []models.ClientLogo{{Name: "Acme", Website: "https://acme.example"}}}
	handler := NewContentHandler(newTestContentService(client))

	c, rec := newTestContext(http.MethodGet, "/api/v1/content/logos", "")
	if err := handler.Logos(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var payload map[string][]models.ClientLogo
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payload["logos"]) != 1 || payload["logos"][0].Name != "Acme" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

// TestContentPostsInvalidType проверяет отказ на неизвестном типе публикации.
func TestContentPostsInvalidType(t *testing.T) {
	handler := NewContentHandler(newTestContentService(&stubCMSClient{}))

	c, rec := newTestContext(http.MethodGet, "/api/v1/content/posts?type=podcast", "")
	if err := handler.Posts(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

// TestContentPostsEmptyFallback проверяет пустой список вместо null в ответе.
func TestContentPostsEmptyFallback(t *testing.T) {
	handler := NewContentHandler(newTestContentService(&stubCMSClient{}))

	c, rec := newTestContext(http.MethodGet, "/api/v1/content/posts", "")
	if err := handler.Posts(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := rec.Body.String()
	if body == "" || body == "null" {
		t.Fatalf("unexpected body: %q", body)
	}

	var payload map[string][]models.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload["posts"] == nil {
		t.Fatal("expected empty posts array, got null")
	}
}

// TestMapPostType проверяет маппинг типов публикаций.
func TestMapPostType(t *testing.T) {
	value, ok := mapPostType("blog")
	if !ok || value != models.PostTypeBlog {
		t.Fatalf("expected blog, got %v (ok=%v)", value, ok)
	}

	value, ok = mapPostType("Success_Story")
	if !ok || value != models.PostTypeSuccessStory {
		t.Fatalf("expected success_story, got %v (ok=%v)", value, ok)
	}

	if _, ok := mapPostType("podcast"); ok {
		t.Fatal("expected invalid post type")
	}
}
