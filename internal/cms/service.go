package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"example.com/roi-estimator/backend/internal/cache"
	"example.com/roi-estimator/backend/internal/models"
)

// Теги кэша: TagContent объединяет все коллекции, остальные
// позволяют инвалидировать коллекции по отдельности.
const (
	TagContent    = "content"
	TagLogos      = "logos"
	TagPosts      = "posts"
	TagProducts   = "products"
	TagReferences = "references"
)

type Service struct {
	client Client
	store  cache.Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewService создает сервис контента поверх CMS-клиента и кэша.
func NewService(client Client, store cache.Store, ttl time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		client: client,
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// ClientLogos возвращает логотипы клиентов; при сбое CMS отдает пустой список.
func (s *Service) ClientLogos(ctx context.Context) []models.ClientLogo {
	const key = "content:logos"

	var cached []models.ClientLogo
	if s.lookup(ctx, key, &cached) {
		return cached
	}

	logos, err := s.client.ClientLogos(ctx)
	if err != nil {
		s.logger.Error("cms fetch failed", slog.String("collection", "logos"), slog.String("error", err.Error()))
		return []models.ClientLogo{}
	}
	if logos == nil {
		logos = []models.ClientLogo{}
	}

	s.remember(ctx, key, logos, TagContent, TagLogos)

	return logos
}

// Posts возвращает публикации с фильтром по типу; при сбое CMS отдает пустой список.
func (s *Service) Posts(ctx context.Context, postType models.PostType) []models.Post {
	key := "content:posts"
	if postType != "" {
		key = fmt.Sprintf("content:posts:%s", postType)
	}

	var cached []models.Post
	if s.lookup(ctx, key, &cached) {
		return cached
	}

	posts, err := s.client.Posts(ctx, postType)
	if err != nil {
		s.logger.Error("cms fetch failed", slog.String("collection", "posts"), slog.String("error", err.Error()))
		return []models.Post{}
	}
	if posts == nil {
		posts = []models.Post{}
	}

	s.remember(ctx, key, posts, TagContent, TagPosts)

	return posts
}

// Products возвращает карточки продуктов; при сбое CMS отдает пустой список.
func (s *Service) Products(ctx context.Context) []models.Product {
	const key = "content:products"

	var cached []models.Product
	if s.lookup(ctx, key, &cached) {
		return cached
	}

	products, err := s.client.Products(ctx)
	if err != nil {
		s.logger.Error("cms fetch failed", slog.String("collection", "products"), slog.String("error", err.Error()))
		return []models.Product{}
	}
	if products == nil {
		products = []models.Product{}
	}

	s.remember(ctx, key, products, TagContent, TagProducts)

	return products
}

// References возвращает истории клиентов с фильтром по продукту;
// при сбое CMS отдает пустой список.
func (s *Service) References(ctx context.Context, productSlug string) []models.Reference {
	key := "content:references"
	if productSlug != "" {
		key = fmt.Sprintf("content:references:%s", productSlug)
	}

	var cached []models.Reference
	if s.lookup(ctx, key, &cached) {
		return cached
	}

	references, err := s.client.References(ctx, productSlug)
	if err != nil {
		s.logger.Error("cms fetch failed", slog.String("collection", "references"), slog.String("error", err.Error()))
		return []models.Reference{}
	}
	if references == nil {
		references = []models.Reference{}
	}

	s.remember(ctx, key, references, TagContent, TagReferences)

	return references
}

// Invalidate сбрасывает кэш по тегам; без тегов сбрасывает весь контент.
func (s *Service) Invalidate(ctx context.Context, tags ...string) (int, error) {
	if len(tags) == 0 {
		tags = []string{TagContent}
	}

	return s.store.Invalidate(ctx, tags...)
}

func (s *Service) lookup(ctx context.Context, key string, target any) bool {
	payload, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return false
	}

	if err := json.Unmarshal(payload, target); err != nil {
		s.logger.Warn("cache entry is corrupted", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}

	return true
}

func (s *Service) remember(ctx context.Context, key string, value any, tags ...string) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := s.store.Set(ctx, key, payload, s.ttl, tags...); err != nil {
		s.logger.Warn("cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
