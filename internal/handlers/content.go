package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"example.com/roi-estimator/backend/internal/cms"
	"example.com/roi-estimator/backend/internal/models"
)

type ContentHandler struct {
	Content *cms.Service
}

// NewContentHandler создает обработчик маркетингового контента.
func NewContentHandler(content *cms.Service) *ContentHandler {
	return &ContentHandler{Content: content}
}

// Logos возвращает логотипы клиентов для витрины.
func (h *ContentHandler) Logos(c echo.Context) error {
	logos := h.Content.ClientLogos(c.Request().Context())
	return c.JSON(http.StatusOK, map[string][]models.ClientLogo{"logos": logos})
}

// Posts возвращает публикации с необязательным фильтром по типу.
func (h *ContentHandler) Posts(c echo.Context) error {
	var postType models.PostType

	if raw := strings.TrimSpace(c.QueryParam("type")); raw != "" {
		mapped, ok := mapPostType(raw)
		if !ok {
			return badRequest(c, "invalid post type")
		}
		postType = mapped
	}

	posts := h.Content.Posts(c.Request().Context(), postType)
	return c.JSON(http.StatusOK, map[string][]models.Post{"posts": posts})
}

// Products возвращает карточки продуктов.
func (h *ContentHandler) Products(c echo.Context) error {
	products := h.Content.Products(c.Request().Context())
	return c.JSON(http.StatusOK, map[string][]models.Product{"products": products})
}

// References возвращает истории клиентов с необязательным фильтром по продукту.
func (h *ContentHandler) References(c echo.Context) error {
	productSlug := strings.TrimSpace(c.QueryParam("product"))

	references := h.Content.References(c.Request().Context(), productSlug)
	return c.JSON(http.StatusOK, map[string][]models.Reference{"references": references})
}

func mapPostType(value string) (models.PostType, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "blog":
		return models.PostTypeBlog, true
	case "success_story":
		return models.PostTypeSuccessStory, true
	default:
		return "", false
	}
}
