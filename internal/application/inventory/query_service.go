package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/location"
	"github.com/wms/backend/internal/domain/restock"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/stockitem"
)

// QueryService implements the read-model query surface: every method
// returns DTOs only, never domain aggregates, and enriches results with
// external metadata where available, tolerating an enrichment failure by
// degrading to nulls rather than failing the query.
type QueryService struct {
	scope    TransactionScope
	products ProductMetadataProvider
	logger   *zap.Logger
}

// NewQueryService creates a new QueryService.
func NewQueryService(scope TransactionScope, products ProductMetadataProvider, logger *zap.Logger) *QueryService {
	return &QueryService{scope: scope, products: products, logger: logger}
}

// LocationDetailDTO is a LocationDTO enriched with its reconstructed
// hierarchy path, e.g. "/WH1/Z1/B1".
type LocationDetailDTO struct {
	LocationDTO
	Path string `json:"path"`
}

// GetLocation returns a Location by id with its hierarchy path
// reconstructed from the ancestor chain.
func (q *QueryService) GetLocation(ctx context.Context, id uuid.UUID) (*LocationDetailDTO, error) {
	var dto LocationDetailDTO
	err := q.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		loc, err := repos.Locations.FindByID(ctx, id)
		if err != nil {
			return shared.NewExternalError("failed to find location", err)
		}
		if loc == nil {
			return shared.NewNotFoundError("location not found")
		}

		chain, err := repos.Locations.FindAncestorChain(ctx, id)
		if err != nil {
			return shared.NewExternalError("failed to load ancestor chain", err)
		}
		byID := make(map[uuid.UUID]*location.Location, len(chain))
		for _, a := range chain {
			byID[a.ID] = a
		}
		path := location.GeneratePath(loc, func(pid uuid.UUID) (location.Ancestor, bool) {
			a, ok := byID[pid]
			if !ok {
				return nil, false
			}
			return a, true
		})

		dto = LocationDetailDTO{LocationDTO: ToLocationDTO(loc), Path: path}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// ListLocations returns a page of Locations matching filter.
func (q *QueryService) ListLocations(ctx context.Context, filter location.Filter) (shared.Paginated[LocationDTO], error) {
	var result shared.Paginated[LocationDTO]
	err := q.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		page, err := repos.Locations.List(ctx, filter)
		if err != nil {
			return shared.NewExternalError("failed to list locations", err)
		}
		result = mapPaginated(page, func(l *location.Location) LocationDTO { return ToLocationDTO(l) })
		return nil
	})
	return result, err
}

// GetAvailableLocations returns every AVAILABLE/RESERVED location of the
// given type (or every type, if nil) with room remaining.
func (q *QueryService) GetAvailableLocations(ctx context.Context, locationType *location.Type) ([]LocationDTO, error) {
	var dtos []LocationDTO
	err := q.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		locs, err := repos.Locations.FindAvailable(ctx, locationType)
		if err != nil {
			return shared.NewExternalError("failed to find available locations", err)
		}
		dtos = make([]LocationDTO, 0, len(locs))
		for _, l := range locs {
			dtos = append(dtos, ToLocationDTO(l))
		}
		return nil
	})
	return dtos, err
}

// GetLocationHierarchy returns every Location at the given tier (WAREHOUSE,
// ZONE, AISLE, RACK, BIN); nil returns every tier.
func (q *QueryService) GetLocationHierarchy(ctx context.Context, level *location.Type) ([]LocationDTO, error) {
	var dtos []LocationDTO
	err := q.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		page, err := repos.Locations.List(ctx, location.Filter{LocationType: level, Filter: shared.Filter{Page: 1, PageSize: maxPageSize}})
		if err != nil {
			return shared.NewExternalError("failed to list location hierarchy", err)
		}
		dtos = make([]LocationDTO, 0, len(page.Items))
		for _, l := range page.Items {
			dtos = append(dtos, ToLocationDTO(l))
		}
		return nil
	})
	return dtos, err
}

// maxPageSize bounds unpaginated hierarchy/listing queries; a real
// deployment would page these, but the query contract here returns the
// whole tier/classification/consignment list at once.
const maxPageSize = 10000

// StockItemDetailDTO is a StockItemDTO enriched with product metadata,
// nil when no metadata provider is wired or the lookup misses.
type StockItemDetailDTO struct {
	StockItemDTO
	Product *ProductMetadata `json:"product,omitempty"`
}

// GetStockItem returns a StockItem by id, enriched with product metadata.
func (q *QueryService) GetStockItem(ctx context.Context, id uuid.UUID) (*StockItemDetailDTO, error) {
	var dto StockItemDetailDTO
	err := q.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		item, err := repos.StockItems.FindByID(ctx, id)
		if err != nil {
			return shared.NewExternalError("failed to find stock item", err)
		}
		if item == nil {
			return shared.NewNotFoundError("stock item not found")
		}
		dto = StockItemDetailDTO{StockItemDTO: ToStockItemDTO(item), Product: q.enrichProduct(ctx, item.ProductID)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// enrichProduct fetches product metadata, degrading to nil on any error:
// enrichment failures swallow to partial data rather than failing the query.
func (q *QueryService) enrichProduct(ctx context.Context, productID uuid.UUID) *ProductMetadata {
	meta, err := q.products.GetProduct(ctx, productID)
	if err != nil {
		q.logger.Warn("product metadata enrichment failed, degrading to nil", zap.String("product_id", productID.String()), zap.Error(err))
		return nil
	}
	return meta
}

// GetStockItems returns a page of StockItems matching filter.
func (q *QueryService) GetStockItems(ctx context.Context, filter stockitem.Filter) (shared.Paginated[StockItemDTO], error) {
	var result shared.Paginated[StockItemDTO]
	err := q.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		page, err := repos.StockItems.List(ctx, filter)
		if err != nil {
			return shared.NewExternalError("failed to list stock items", err)
		}
		result = mapPaginated(page, func(s *stockitem.StockItem) StockItemDTO { return ToStockItemDTO(s) })
		return nil
	})
	return result, err
}

// GetStockItemsByClassification returns every StockItem currently bearing
// the given classification.
func (q *QueryService) GetStockItemsByClassification(ctx context.Context, classification stockitem.Classification) ([]StockItemDTO, error) {
	var dtos []StockItemDTO
	err := q.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		items, err := repos.StockItems.FindByClassification(ctx, classification)
		if err != nil {
			return shared.NewExternalError("failed to find stock items by classification", err)
		}
		dtos = make([]StockItemDTO, 0, len(items))
		for _, s := range items {
			dtos = append(dtos, ToStockItemDTO(s))
		}
		return nil
	})
	return dtos, err
}

// GetFEFOStockItems returns a product's stock items (optionally scoped to
// a location) ordered the way the FEFO assignment pass would consume
// them: earliest expiration first, nulls last.
func (q *QueryService) GetFEFOStockItems(ctx context.Context, productID uuid.UUID, locationID *uuid.UUID) ([]StockItemDTO, error) {
	var dtos []StockItemDTO
	err := q.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		items, err := repos.StockItems.FindByProductAndLocation(ctx, productID, locationID)
		if err != nil {
			return shared.NewExternalError("failed to find stock items for product", err)
		}
		sort.SliceStable(items, func(i, j int) bool {
			a, b := items[i].ExpirationDate, items[j].ExpirationDate
			if a == nil && b == nil {
				return items[i].CreatedAt.Before(items[j].CreatedAt)
			}
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return a.Before(*b)
		})
		dtos = make([]StockItemDTO, 0, len(items))
		for _, s := range items {
			dtos = append(dtos, ToStockItemDTO(s))
		}
		return nil
	})
	return dtos, err
}

// GetExpiringStock returns every stock item expiring before the given
// instant, optionally narrowed to a single classification.
func (q *QueryService) GetExpiringStock(ctx context.Context, before time.Time, classification *stockitem.Classification) ([]StockItemDTO, error) {
	var dtos []StockItemDTO
	err := q.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		items, err := repos.StockItems.FindExpiring(ctx, before, classification)
		if err != nil {
			return shared.NewExternalError("failed to find expiring stock", err)
		}
		dtos = make([]StockItemDTO, 0, len(items))
		for _, s := range items {
			dtos = append(dtos, ToStockItemDTO(s))
		}
		return nil
	})
	return dtos, err
}

// StockExpirationSummaryDTO reports the classification breakdown for a
// product, optionally scoped to a single location.
type StockExpirationSummaryDTO struct {
	ProductID  uuid.UUID                         `json:"product_id"`
	LocationID *uuid.UUID                        `json:"location_id,omitempty"`
	Counts     map[stockitem.Classification]int  `json:"counts"`
	TotalUnits int                                `json:"total_units"`
}

// CheckStockExpiration summarizes the classification breakdown of a
// product's stock, optionally scoped to one location.
func (q *QueryService) CheckStockExpiration(ctx context.Context, productID uuid.UUID, locationID *uuid.UUID) (*StockExpirationSummaryDTO, error) {
	var dto StockExpirationSummaryDTO
	err := q.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		items, err := repos.StockItems.FindByProductAndLocation(ctx, productID, locationID)
		if err != nil {
			return shared.NewExternalError("failed to find stock items for product", err)
		}
		counts := make(map[stockitem.Classification]int)
		total := 0
		for _, s := range items {
			counts[s.Classification]++
			total += s.Quantity
		}
		dto = StockExpirationSummaryDTO{ProductID: productID, LocationID: locationID, Counts: counts, TotalUnits: total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// StockLevelDTO reports the aggregate quantity for a product, optionally
// scoped to one location.
type StockLevelDTO struct {
	ProductID         uuid.UUID  `json:"product_id"`
	LocationID        *uuid.UUID `json:"location_id,omitempty"`
	TotalQuantity     int        `json:"total_quantity"`
	AvailableQuantity int        `json:"available_quantity"`
}

// GetStockLevels sums quantity/available-quantity across every matching
// StockItem for a product, optionally scoped to one location.
func (q *QueryService) GetStockLevels(ctx context.Context, productID uuid.UUID, locationID *uuid.UUID) (*StockLevelDTO, error) {
	var dto StockLevelDTO
	err := q.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		items, err := repos.StockItems.FindByProductAndLocation(ctx, productID, locationID)
		if err != nil {
			return shared.NewExternalError("failed to find stock items for product", err)
		}
		dto = StockLevelDTO{ProductID: productID, LocationID: locationID}
		for _, s := range items {
			dto.TotalQuantity += s.Quantity
			dto.AvailableQuantity += s.AvailableQuantity()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// ListRestockRequests returns a page of RestockRequests matching filter.
func (q *QueryService) ListRestockRequests(ctx context.Context, filter restock.Filter) (shared.Paginated[RestockRequestDTO], error) {
	var result shared.Paginated[RestockRequestDTO]
	err := q.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		page, err := repos.Restocks.List(ctx, filter)
		if err != nil {
			return shared.NewExternalError("failed to list restock requests", err)
		}
		result = mapPaginated(page, func(r *restock.RestockRequest) RestockRequestDTO { return ToRestockRequestDTO(r) })
		return nil
	})
	return result, err
}

// ConsignmentDTO is a read-model projection over the stock items received
// together under one supplier consignment, grouped by ConsignmentID: no
// Consignment aggregate is persisted separately, so this view is derived
// at query time from the StockItem rows that carry a consignmentId.
type ConsignmentDTO struct {
	ConsignmentID  uuid.UUID   `json:"consignment_id"`
	ProductID      uuid.UUID   `json:"product_id"`
	StockItemIDs   []uuid.UUID `json:"stock_item_ids"`
	TotalQuantity  int         `json:"total_quantity"`
	ReceivedAt     time.Time   `json:"received_at"`
}

// ListConsignments groups a product's stock items by ConsignmentID; nil
// productID lists every consignment in the tenant's stock.
func (q *QueryService) ListConsignments(ctx context.Context, productID *uuid.UUID) ([]ConsignmentDTO, error) {
	var dtos []ConsignmentDTO
	err := q.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		filter := stockitem.Filter{ProductID: productID, Filter: shared.Filter{Page: 1, PageSize: maxPageSize}}
		page, err := repos.StockItems.List(ctx, filter)
		if err != nil {
			return shared.NewExternalError("failed to list stock items", err)
		}

		byConsignment := make(map[uuid.UUID]*ConsignmentDTO)
		order := make([]uuid.UUID, 0)
		for _, s := range page.Items {
			c, ok := byConsignment[s.ConsignmentID]
			if !ok {
				c = &ConsignmentDTO{ConsignmentID: s.ConsignmentID, ProductID: s.ProductID, ReceivedAt: s.CreatedAt}
				byConsignment[s.ConsignmentID] = c
				order = append(order, s.ConsignmentID)
			}
			c.StockItemIDs = append(c.StockItemIDs, s.ID)
			c.TotalQuantity += s.Quantity
			if s.CreatedAt.Before(c.ReceivedAt) {
				c.ReceivedAt = s.CreatedAt
			}
		}

		dtos = make([]ConsignmentDTO, 0, len(order))
		for _, id := range order {
			dtos = append(dtos, *byConsignment[id])
		}
		return nil
	})
	return dtos, err
}

// mapPaginated converts a shared.Paginated[*T] to a shared.Paginated[D] via
// toDTO, preserving paging metadata.
func mapPaginated[T any, D any](page shared.Paginated[*T], toDTO func(*T) D) shared.Paginated[D] {
	items := make([]D, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, toDTO(item))
	}
	return shared.Paginated[D]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}
