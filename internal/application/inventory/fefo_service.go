package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/fefo"
	"github.com/wms/backend/internal/domain/location"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/stockitem"
)

// FEFOService runs the First-Expired-First-Out assignment pass: it pulls
// every unassigned StockItem for a product and every available BIN, runs
// the pure fefo.Assign algorithm, and applies the resulting assignments to
// both aggregates within one transaction.
type FEFOService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewFEFOService creates a new FEFOService.
func NewFEFOService(scope TransactionScope, logger *zap.Logger) *FEFOService {
	return &FEFOService{scope: scope, logger: logger}
}

// AssignLocationsFEFO assigns unassigned stock of productID to available
// BIN locations, earliest-expiry first.
func (s *FEFOService) AssignLocationsFEFO(ctx context.Context, productID uuid.UUID) (*AssignLocationsFEFOResult, error) {
	var result AssignLocationsFEFOResult

	err := s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		items, err := repos.StockItems.FindUnassigned(ctx, productID)
		if err != nil {
			return shared.NewExternalError("failed to find unassigned stock items", err)
		}
		if len(items) == 0 {
			result = AssignLocationsFEFOResult{Assigned: map[uuid.UUID]uuid.UUID{}}
			return nil
		}

		binType := location.TypeBin
		bins, err := repos.Locations.FindAvailable(ctx, &binType)
		if err != nil {
			return shared.NewExternalError("failed to find available bin locations", err)
		}

		requests := make([]fefo.Request, 0, len(items))
		for i, item := range items {
			requests = append(requests, fefo.Request{
				StockItemID:    item.ID,
				Quantity:       item.AvailableQuantity(),
				ExpirationDate: item.ExpirationDate,
				Classification: item.Classification,
				SequenceNo:     i,
			})
		}

		candidates := make([]fefo.Candidate, 0, len(bins))
		for _, bin := range bins {
			candidates = append(candidates, fefo.Candidate{
				LocationID:        bin.ID,
				LocationType:      bin.LocationType,
				Status:            bin.Status,
				Barcode:           bin.Barcode,
				RemainingCapacity: bin.Capacity.Remaining(),
			})
		}

		assignment := fefo.Assign(requests, candidates, time.Now())

		locationByID := make(map[uuid.UUID]*location.Location, len(bins))
		for _, bin := range bins {
			locationByID[bin.ID] = bin
		}
		itemByID := make(map[uuid.UUID]*stockitem.StockItem, len(items))
		for _, item := range items {
			itemByID[item.ID] = item
		}

		for stockItemID, locationID := range assignment.Assignments {
			item := itemByID[stockItemID]
			bin := locationByID[locationID]

			qty := item.AvailableQuantity()
			if err := bin.AssignStock(item.ID, qty); err != nil {
				return err
			}
			if err := item.AssignLocation(locationID, qty); err != nil {
				return err
			}

			if err := repos.Locations.Save(ctx, bin); err != nil {
				return shared.NewExternalError("failed to save location", err)
			}
			if err := repos.StockItems.Save(ctx, item); err != nil {
				return shared.NewExternalError("failed to save stock item", err)
			}
			if err := repos.SaveEvents(ctx, bin, item); err != nil {
				return shared.NewExternalError("failed to save assignment events", err)
			}
		}

		result = AssignLocationsFEFOResult{
			Assigned:   assignment.Assignments,
			Unassigned: assignment.Unassigned,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
