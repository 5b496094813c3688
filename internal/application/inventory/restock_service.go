package inventory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/restock"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/tenantctx"
)

// RestockService orchestrates the RestockRequest lifecycle: manual status
// transitions driven by the external purchasing system, and the
// generate-or-refresh logic a StockLevelBelowMinimum reaction invokes.
type RestockService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewRestockService creates a new RestockService.
func NewRestockService(scope TransactionScope, logger *zap.Logger) *RestockService {
	return &RestockService{scope: scope, logger: logger}
}

// MarkRestockSent transitions a PENDING request to SENT_TO_D365, recording
// the external order reference it was sent under.
func (s *RestockService) MarkRestockSent(ctx context.Context, id uuid.UUID, orderReference string) (*RestockRequestDTO, error) {
	return s.mutate(ctx, id, func(r *restock.RestockRequest) error {
		return r.MarkSentToD365(orderReference)
	})
}

// MarkRestockFulfilled transitions a SENT_TO_D365 request to FULFILLED.
func (s *RestockService) MarkRestockFulfilled(ctx context.Context, id uuid.UUID) (*RestockRequestDTO, error) {
	return s.mutate(ctx, id, func(r *restock.RestockRequest) error {
		return r.MarkAsFulfilled()
	})
}

// CancelRestock transitions any non-FULFILLED request to CANCELLED.
func (s *RestockService) CancelRestock(ctx context.Context, id uuid.UUID, reason string) (*RestockRequestDTO, error) {
	return s.mutate(ctx, id, func(r *restock.RestockRequest) error {
		return r.Cancel(reason)
	})
}

func (s *RestockService) mutate(ctx context.Context, id uuid.UUID, fn func(*restock.RestockRequest) error) (*RestockRequestDTO, error) {
	tc, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}

	var dto RestockRequestDTO
	err = s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		r, err := repos.Restocks.FindByID(ctx, id)
		if err != nil {
			return shared.NewExternalError("failed to find restock request", err)
		}
		if r == nil {
			return shared.NewNotFoundError("restock request not found")
		}
		if err := tenantctx.CheckTenant(tc, r.TenantID); err != nil {
			return err
		}

		if err := fn(r); err != nil {
			return err
		}

		if err := repos.Restocks.Save(ctx, r); err != nil {
			return shared.NewExternalError("failed to save restock request", err)
		}
		if err := repos.SaveEvents(ctx, r); err != nil {
			return shared.NewExternalError("failed to save restock request events", err)
		}

		dto = ToRestockRequestDTO(r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// GenerateOrUpdateFromThresholdBreach is the reaction to a
// StockLevelBelowMinimum event: it looks for an already-active request for
// the (productId, locationId) pair and refreshes its levels, or opens a new
// one if none exists. It is invoked by the restock reactor rather than
// through an HTTP command, so it runs within whatever Tenant Context the
// caller has already established in ctx.
func (s *RestockService) GenerateOrUpdateFromThresholdBreach(ctx context.Context, productID uuid.UUID, locationID *uuid.UUID, current, minimum int, maximum *int) (*RestockRequestDTO, error) {
	tc, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}

	var dto RestockRequestDTO
	err = s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		existing, err := repos.Restocks.FindActiveFor(ctx, productID, locationID)
		if err != nil {
			return shared.NewExternalError("failed to find active restock request", err)
		}

		if existing != nil {
			if err := existing.RefreshLevels(current, minimum, maximum); err != nil {
				return err
			}
			if err := repos.Restocks.Save(ctx, existing); err != nil {
				return shared.NewExternalError("failed to save restock request", err)
			}
			if err := repos.SaveEvents(ctx, existing); err != nil {
				return shared.NewExternalError("failed to save restock request events", err)
			}
			dto = ToRestockRequestDTO(existing)
			return nil
		}

		r, err := restock.New(tc.TenantID, productID, locationID, current, minimum, maximum)
		if err != nil {
			return err
		}
		if err := repos.Restocks.Save(ctx, r); err != nil {
			return shared.NewExternalError("failed to save restock request", err)
		}
		if err := repos.SaveEvents(ctx, r); err != nil {
			return shared.NewExternalError("failed to save restock request events", err)
		}
		dto = ToRestockRequestDTO(r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}
