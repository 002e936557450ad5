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

// ContentfulClient calls the Contentful Content Delivery API.
type ContentfulClient struct {
	token       string
	spaceID     string
	environment string
	perPage     int
	httpClient  *resty.Client
}

type contentfulEntriesResponse struct {
	Items    []contentfulEntry  `json:"items"`
	Includes contentfulIncludes `json:"includes"`
}

type contentfulEntry struct {
	Sys    contentfulSys   `json:"sys"`
	Fields json.RawMessage `json:"fields"`
}

type contentfulSys struct {
	ID string `json:"id"`
}

type contentfulIncludes struct {
	Assets []contentfulAsset `json:"Asset"`
}

type contentfulAsset struct {
	Sys    contentfulSys `json:"sys"`
	Fields struct {
		File struct {
			URL string `json:"url"`
		} `json:"file"`
	} `json:"fields"`
}

type contentfulLink struct {
	Sys struct {
		ID string `json:"id"`
	} `json:"sys"`
}

type contentfulLogoFields struct {
	Name    string         `json:"name"`
	Website string         `json:"website"`
	Image   contentfulLink `json:"image"`
}

type contentfulPostFields struct {
	Slug        string         `json:"slug"`
	Title       string         `json:"title"`
	Type        string         `json:"type"`
	Excerpt     string         `json:"excerpt"`
	Author      string         `json:"author"`
	HeroImage   contentfulLink `json:"heroImage"`
	PublishedAt string         `json:"publishedAt"`
}

type contentfulProductFields struct {
	Slug     string         `json:"slug"`
	Name     string         `json:"name"`
	Tagline  string         `json:"tagline"`
	Icon     contentfulLink `json:"icon"`
	Features []string       `json:"features"`
}

type contentfulReferenceFields struct {
	Slug     string         `json:"slug"`
	Company  string         `json:"company"`
	Industry string         `json:"industry"`
	Quote    string         `json:"quote"`
	Logo     contentfulLink `json:"logo"`
	Products []string       `json:"products"`
}

// NewContentfulClient создает клиент Contentful с заданными параметрами.
func NewContentfulClient(token, baseURL, spaceID, environment string, timeout time.Duration, perPage int) *ContentfulClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &ContentfulClient{
		token:       token,
		spaceID:     spaceID,
		environment: environment,
		perPage:     perPage,
		httpClient:  client,
	}
}

// ClientLogos загружает логотипы клиентов (content_type=clientLogo).
func (c *ContentfulClient) ClientLogos(ctx context.Context) ([]models.ClientLogo, error) {
	parsed, err := c.fetchEntries(ctx, "clientLogo", nil)
	if err != nil {
		return nil, err
	}

	assets := indexAssets(parsed.Includes.Assets)

	logos := make([]models.ClientLogo, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		var fields contentfulLogoFields
		if err := json.Unmarshal(item.Fields, &fields); err != nil {
			return nil, fmt.Errorf("contentful logo %s: %w", item.Sys.ID, err)
		}

		logos = append(logos, models.ClientLogo{
			Name:     fields.Name,
			ImageURL: assets[fields.Image.Sys.ID],
			Website:  fields.Website,
		})
	}

	return logos, nil
}

// Posts загружает публикации (content_type=post) с фильтром по типу.
func (c *ContentfulClient) Posts(ctx context.Context, postType models.PostType) ([]models.Post, error) {
	params := map[string]string{}
	if postType != "" {
		params["fields.type"] = string(postType)
	}

	parsed, err := c.fetchEntries(ctx, "post", params)
	if err != nil {
		return nil, err
	}

	assets := indexAssets(parsed.Includes.Assets)

	posts := make([]models.Post, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		var fields contentfulPostFields
		if err := json.Unmarshal(item.Fields, &fields); err != nil {
			return nil, fmt.Errorf("contentful post %s: %w", item.Sys.ID, err)
		}

		posts = append(posts, models.Post{
			Slug:         fields.Slug,
			Title:        fields.Title,
			Type:         models.PostType(fields.Type),
			Excerpt:      fields.Excerpt,
			Author:       fields.Author,
			HeroImageURL: assets[fields.HeroImage.Sys.ID],
			PublishedAt:  parseContentfulTime(fields.PublishedAt),
		})
	}

	return posts, nil
}

// Products загружает карточки продуктов (content_type=product).
func (c *ContentfulClient) Products(ctx context.Context) ([]models.Product, error) {
	parsed, err := c.fetchEntries(ctx, "product", nil)
	if err != nil {
		return nil, err
	}

	assets := indexAssets(parsed.Includes.Assets)

	products := make([]models.Product, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		var fields contentfulProductFields
		if err := json.Unmarshal(item.Fields, &fields); err != nil {
			return nil, fmt.Errorf("contentful product %s: %w", item.Sys.ID, err)
		}

		products = append(products, models.Product{
			Slug:     fields.Slug,
			Name:     fields.Name,
			Tagline:  fields.Tagline,
			IconURL:  assets[fields.Icon.Sys.ID],
			Features: fields.Features,
		})
	}

	return products, nil
}

// References загружает истории клиентов (content_type=reference) с фильтром по продукту.
func (c *ContentfulClient) References(ctx context.Context, productSlug string) ([]models.Reference, error) {
	params := map[string]string{}
	if productSlug != "" {
		params["fields.products"] = productSlug
	}

	parsed, err := c.fetchEntries(ctx, "reference", params)
	if err != nil {
		return nil, err
	}

	assets := indexAssets(parsed.Includes.Assets)

	references := make([]models.Reference, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		var fields contentfulReferenceFields
		if err := json.Unmarshal(item.Fields, &fields); err != nil {
			return nil, fmt.Errorf("contentful reference %s: %w", item.Sys.ID, err)
		}

		references = append(references, models.Reference{
			Slug:     fields.Slug,
			Company:  fields.Company,
			Industry: fields.Industry,
			Quote:    fields.Quote,
			LogoURL:  assets[fields.Logo.Sys.ID],
			Products: fields.Products,
		})
	}

	return references, nil
}

func (c *ContentfulClient) fetchEntries(ctx context.Context, contentType string, extra map[string]string) (contentfulEntriesResponse, error) {
	if strings.TrimSpace(c.token) == "" {
		return contentfulEntriesResponse{}, errors.New("contentful access token is missing")
	}
	if strings.TrimSpace(c.spaceID) == "" {
		return contentfulEntriesResponse{}, errors.New("contentful space id is missing")
	}

	request := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("access_token", c.token).
		SetQueryParam("content_type", contentType).
		SetQueryParam("include", "1").
		SetQueryParam("limit", fmt.Sprintf("%d", resolvePerPage(c.perPage)))

	for key, value := range extra {
		request.SetQueryParam(key, value)
	}

	endpoint := fmt.Sprintf("/spaces/%s/environments/%s/entries", c.spaceID, c.environment)

	var parsed contentfulEntriesResponse
	response, err := request.SetResult(&parsed).Get(endpoint)
	if err != nil {
		return contentfulEntriesResponse{}, fmt.Errorf("contentful request failed: %w", err)
	}

	if response.IsError() {
		return contentfulEntriesResponse{}, fmt.Errorf("contentful api error: status %d: %s", response.StatusCode(), strings.TrimSpace(response.String()))
	}

	return parsed, nil
}

// indexAssets строит индекс ссылок на файлы по идентификатору ассета.
func indexAssets(assets []contentfulAsset) map[string]string {
	index := make(map[string]string, len(assets))
	for _, asset := range assets {
		url := asset.Fields.File.URL
		if strings.HasPrefix(url, "//") {
			url = "https:" + url
		}
		index[asset.Sys.ID] = url
	}

	return index
}

func parseContentfulTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}

	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed
	}

	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		return parsed
	}

	return time.Time{}
}
