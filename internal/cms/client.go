// Package cms получает маркетинговый контент из headless CMS
// и отдает его через кэш с фолбэком на пустые коллекции.
package cms

import (
	"context"

	"example.com/roi-estimator/backend/internal/models"
)

const defaultPerPage = 100

type Client interface {
	ClientLogos(ctx context.Context) ([]models.ClientLogo, error)
	Posts(ctx context.Context, postType models.PostType) ([]models.Post, error)
	Products(ctx context.Context) ([]models.Product, error)
	References(ctx context.Context, productSlug string) ([]models.Reference, error)
}

func resolvePerPage(value int) int {
	if value > 0 {
		return value
	}

	return defaultPerPage
}
