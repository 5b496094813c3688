package inventory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductMetadata is the subset of product catalog data query enrichment
// needs: name/SKU for display, nothing transactional.
type ProductMetadata struct {
	ProductID uuid.UUID
	SKU       string
	Name      string
}

// ProductMetadataProvider is the external product catalog port: query
// handlers enrich stock/location lookups with product metadata fetched
// through it, tolerating a failure or a miss by degrading to nil rather
// than failing the query.
type ProductMetadataProvider interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductMetadata, error)
}

// NoOpProductMetadataProvider is the default ProductMetadataProvider: no
// product catalog service is wired up, so every lookup degrades to nil,
// the same outcome a real provider's not-found/timeout path would produce.
type NoOpProductMetadataProvider struct {
	logger *zap.Logger
}

// NewNoOpProductMetadataProvider creates a NoOpProductMetadataProvider.
func NewNoOpProductMetadataProvider(logger *zap.Logger) *NoOpProductMetadataProvider {
	return &NoOpProductMetadataProvider{logger: logger}
}

// GetProduct implements ProductMetadataProvider.
func (p *NoOpProductMetadataProvider) GetProduct(_ context.Context, productID uuid.UUID) (*ProductMetadata, error) {
	p.logger.Debug("no product metadata provider wired, degrading to nil", zap.String("product_id", productID.String()))
	return nil, nil
}

var _ ProductMetadataProvider = (*NoOpProductMetadataProvider)(nil)
