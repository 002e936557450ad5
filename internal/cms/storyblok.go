package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"example.com/roi-estimator/backend/internal/models"
)

// StoryblokClient calls the Storyblok Content Delivery API (v2).
type StoryblokClient struct {
	token      string
	version    string
	perPage    int
	httpClient *resty.Client
}

type storyblokStoriesResponse struct {
	Stories []storyblokStory `json:"stories"`
}

type storyblokStory struct {
	Name             string          `json:"name"`
	Slug             string          `json:"slug"`
	FirstPublishedAt string          `json:"first_published_at"`
	Content          json.RawMessage `json:"content"`
}

type storyblokAsset struct {
	Filename string `json:"filename"`
	Alt      string `json:"alt,omitempty"`
}

type storyblokLogoContent struct {
	Name    string         `json:"name"`
	Website string         `json:"website"`
	Image   storyblokAsset `json:"image"`
}

type storyblokPostContent struct {
	Title     string         `json:"title"`
	Type      string         `json:"type"`
	Excerpt   string         `json:"excerpt"`
	Author    string         `json:"author"`
	HeroImage storyblokAsset `json:"hero_image"`
}

type storyblokProductContent struct {
	Name     string         `json:"name"`
	Tagline  string         `json:"tagline"`
	Icon     storyblokAsset `json:"icon"`
	Features []string       `json:"features"`
}

type storyblokReferenceContent struct {
	Company  string         `json:"company"`
	Industry string         `json:"industry"`
	Quote    string         `json:"quote"`
	Logo     storyblokAsset `json:"logo"`
	Products []string       `json:"products"`
}

// NewStoryblokClient создает клиент Storyblok с заданными параметрами.
func NewStoryblokClient(token, baseURL, version string, timeout time.Duration, perPage int) *StoryblokClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &StoryblokClient{
		token:      token,
		version:    version,
		perPage:    perPage,
		httpClient: client,
	}
}

// ClientLogos загружает логотипы клиентов из раздела logos.
func (c *StoryblokClient) ClientLogos(ctx context.Context) ([]models.ClientLogo, error) {
	stories, err := c.fetchStories(ctx, "logos/", nil)
	if err != nil {
		return nil, err
	}

	logos := make([]models.ClientLogo, 0, len(stories))
	for _, story := range stories {
		var content storyblokLogoContent
		if err := json.Unmarshal(story.Content, &content); err != nil {
			return nil, fmt.Errorf("storyblok logo %s: %w", story.Slug, err)
		}

		name := content.Name
		if strings.TrimSpace(name) == "" {
			name = story.Name
		}

		logos = append(logos, models.ClientLogo{
			Name:     name,
			ImageURL: content.Image.Filename,
			Website:  content.Website,
		})
	}

	return logos, nil
}

// Posts загружает публикации из раздела posts с фильтром по типу.
func (c *StoryblokClient) Posts(ctx context.Context, postType models.PostType) ([]models.Post, error) {
	params := map[string]string{}
	if postType != "" {
		params["filter_query[type][in]"] = string(postType)
	}

	stories, err := c.fetchStories(ctx, "posts/", params)
	if err != nil {
		return nil, err
	}

	posts := make([]models.Post, 0, len(stories))
	for _, story := range stories {
		var content storyblokPostContent
		if err := json.Unmarshal(story.Content, &content); err != nil {
			return nil, fmt.Errorf("storyblok post %s: %w", story.Slug, err)
		}

		title := content.Title
		if strings.TrimSpace(title) == "" {
			title = story.Name
		}

		posts = append(posts, models.Post{
			Slug:         story.Slug,
			Title:        title,
			Type:         models.PostType(content.Type),
			Excerpt:      content.Excerpt,
			Author:       content.Author,
			HeroImageURL: content.HeroImage.Filename,
			PublishedAt:  parseStoryblokTime(story.FirstPublishedAt),
		})
	}

	return posts, nil
}

// Products загружает карточки продуктов из раздела products.
func (c *StoryblokClient) Products(ctx context.Context) ([]models.Product, error) {
	stories, err := c.fetchStories(ctx, "products/", nil)
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(stories))
	for _, story := range stories {
		var content storyblokProductContent
		if err := json.Unmarshal(story.Content, &content); err != nil {
			return nil, fmt.Errorf("storyblok product %s: %w", story.Slug, err)
		}

		name := content.Name
		if strings.TrimSpace(name) == "" {
			name = story.Name
		}

		products = append(products, models.Product{
			Slug:     story.Slug,
			Name:     name,
			Tagline:  content.Tagline,
			IconURL:  content.Icon.Filename,
			Features: content.Features,
		})
	}

	return products, nil
}

// References загружает истории клиентов из раздела references с фильтром по продукту.
func (c *StoryblokClient) References(ctx context.Context, productSlug string) ([]models.Reference, error) {
	params := map[string]string{}
	if productSlug != "" {
		params["filter_query[products][any_in_array]"] = productSlug
	}

	stories, err := c.fetchStories(ctx, "references/", params)
	if err != nil {
		return nil, err
	}

	references := make([]models.Reference, 0, len(stories))
	for _, story := range stories {
		var content storyblokReferenceContent
		if err := json.Unmarshal(story.Content, &content); err != nil {
			return nil, fmt.Errorf("storyblok reference %s: %w", story.Slug, err)
		}

		company := content.Company
		if strings.TrimSpace(company) == "" {
			company = story.Name
		}

		references = append(references, models.Reference{
			Slug:     story.Slug,
			Company:  company,
			Industry: content.Industry,
			Quote:    content.Quote,
			LogoURL:  content.Logo.Filename,
			Products: content.Products,
		})
	}

	return references, nil
}

func (c *StoryblokClient) fetchStories(ctx context.Context, startsWith string, extra map[string]string) ([]storyblokStory, error) {
	if strings.TrimSpace(c.token) == "" {
		return nil, errors.New("storyblok token is missing")
	}

	request := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("token", c.token).
		SetQueryParam("version", c.version).
		SetQueryParam("starts_with", startsWith).
		SetQueryParam("per_page", fmt.Sprintf("%d", resolvePerPage(c.perPage)))

	for key, value := range extra {
		request.SetQueryParam(key, value)
	}

	var parsed storyblokStoriesResponse
	response, err := request.SetResult(&parsed).Get("/v2/cdn/stories")
	if err != nil {
		return nil, fmt.Errorf("storyblok request failed: %w", err)
	}

	if response.IsError() {
		return nil, fmt.Errorf("storyblok api error: status %d: %s", response.StatusCode(), strings.TrimSpace(response.String()))
	}

	return parsed.Stories, nil
}

func parseStoryblokTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}

	return parsed
}
