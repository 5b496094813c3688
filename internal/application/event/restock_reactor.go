// Package event holds application-layer reactions to domain events: code
// that runs after commit, off the request path, driven by the outbox
// delivery pipeline rather than a command handler.
package event

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wms/backend/internal/application/inventory"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/tenantctx"
	"github.com/wms/backend/internal/domain/threshold"
)

// StockAlertNotifier is notified of threshold breaches a RestockRequest
// was generated or refreshed for. The default implementation just logs;
// a real deployment could swap in an email/Slack/D365-ticket notifier
// without touching RestockReactor.
type StockAlertNotifier interface {
	NotifyBelowMinimum(ctx context.Context, evt *threshold.StockLevelBelowMinimumEvent, restockID string) error
}

// LoggingStockAlertNotifier is the default StockAlertNotifier: it records
// the breach at warn level and does nothing else.
type LoggingStockAlertNotifier struct {
	logger *zap.Logger
}

// NewLoggingStockAlertNotifier creates a LoggingStockAlertNotifier.
func NewLoggingStockAlertNotifier(logger *zap.Logger) *LoggingStockAlertNotifier {
	return &LoggingStockAlertNotifier{logger: logger}
}

// NotifyBelowMinimum implements StockAlertNotifier.
func (n *LoggingStockAlertNotifier) NotifyBelowMinimum(_ context.Context, evt *threshold.StockLevelBelowMinimumEvent, restockID string) error {
	n.logger.Warn("stock level below minimum",
		zap.String("product_id", evt.ProductID.String()),
		zap.Int("current_quantity", evt.CurrentQuantity),
		zap.Int("minimum", evt.Minimum),
		zap.String("restock_request_id", restockID),
	)
	return nil
}

var _ StockAlertNotifier = (*LoggingStockAlertNotifier)(nil)

// RestockReactor subscribes to StockLevelBelowMinimum and generates or
// refreshes the RestockRequest for the breaching (productId, locationId)
// pair, per the restock package's dedup rule. It runs post-commit with no
// natural request-scoped Tenant Context, so it builds a system-level one
// from the event's own tenant id.
type RestockReactor struct {
	restocks *inventory.RestockService
	notifier StockAlertNotifier
	logger   *zap.Logger
}

// NewRestockReactor creates a RestockReactor.
func NewRestockReactor(restocks *inventory.RestockService, notifier StockAlertNotifier, logger *zap.Logger) *RestockReactor {
	return &RestockReactor{restocks: restocks, notifier: notifier, logger: logger}
}

// EventTypes implements shared.EventHandler.
func (r *RestockReactor) EventTypes() []string {
	return []string{threshold.EventTypeStockLevelBelowMinimum}
}

// Handle implements shared.EventHandler.
func (r *RestockReactor) Handle(ctx context.Context, evt shared.DomainEvent) error {
	breach, ok := evt.(*threshold.StockLevelBelowMinimumEvent)
	if !ok {
		return fmt.Errorf("restock reactor: unexpected event type %T", evt)
	}
	if !breach.EnableAutoRestock {
		return nil
	}

	sysCtx := tenantctx.WithContext(ctx, tenantctx.TenantContext{
		TenantID: breach.TenantID(),
		Roles:    []string{"system"},
	})

	dto, err := r.restocks.GenerateOrUpdateFromThresholdBreach(sysCtx, breach.ProductID, breach.LocationID, breach.CurrentQuantity, breach.Minimum, breach.Maximum)
	if err != nil {
		r.logger.Error("failed to generate restock request from threshold breach",
			zap.String("product_id", breach.ProductID.String()),
			zap.Error(err),
		)
		return err
	}

	return r.notifier.NotifyBelowMinimum(ctx, breach, dto.ID.String())
}

var _ shared.EventHandler = (*RestockReactor)(nil)
