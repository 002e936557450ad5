package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"example.com/roi-estimator/backend/internal/cms"
	"example.com/roi-estimator/backend/internal/events"
)

const signatureHeader = "X-Webhook-Signature"

type WebhookHandler struct {
	Secret  string
	Content *cms.Service
	Events  *events.Hub
}

// NewWebhookHandler создает обработчик вебхуков CMS.
func NewWebhookHandler(secret string, content *cms.Service, hub *events.Hub) *WebhookHandler {
	return &WebhookHandler{Secret: secret, Content: content, Events: hub}
}

type webhookPayload struct {
	Tags []string `json:"tags"`
}

// HandleCMS проверяет подпись вебхука и сбрасывает кэш контента по тегам.
func (h *WebhookHandler) HandleCMS(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return badRequest(c, "invalid payload")
	}

	if !verifySignature(h.Secret, body, c.Request().Header.Get(signatureHeader)) {
		return unauthorized(c)
	}

	var payload webhookPayload
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			return badRequest(c, "invalid payload")
		}
	}

	invalidated, err := h.Content.Invalidate(c.Request().Context(), payload.Tags...)
	if err != nil {
		return serverError(c)
	}

	publishContentInvalidated(h.Events, payload.Tags, invalidated)

	return c.JSON(http.StatusOK, map[string]int{"invalidated": invalidated})
}

// verifySignature сверяет HMAC-SHA256 подпись тела запроса в hex-формате.
func verifySignature(secret string, body []byte, signature string) bool {
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

func publishContentInvalidated(hub *events.Hub, tags []string, invalidated int) {
	if hub == nil {
		return
	}

	if len(tags) == 0 {
		tags = []string{cms.TagContent}
	}

	hub.Publish(events.Event{
		Type: events.TypeContentInvalidated,
		Data: map[string]interface{}{
			"tags":        tags,
			"invalidated": invalidated,
		},
	})
}
