package router

import (
	"github.com/gin-gonic/gin"

	"github.com/wms/backend/internal/interfaces/http/handler"
)

// InventoryRoutes registers every warehouse-core HTTP route: locations,
// stock items, movements, restock requests and thresholds. All routes
// require an authenticated, tenant-scoped request.
type InventoryRoutes struct {
	Locations  *handler.LocationHandler
	StockItems *handler.StockItemHandler
	Movements  *handler.MovementHandler
	Restocks   *handler.RestockHandler
	Thresholds *handler.ThresholdHandler
	Middleware []gin.HandlerFunc
}

// RegisterRoutes implements router.RouteRegistrar.
func (ir *InventoryRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("")
	if len(ir.Middleware) > 0 {
		group.Use(ir.Middleware...)
	}

	locations := group.Group("/locations")
	{
		locations.POST("", ir.Locations.CreateLocation)
		locations.GET("", ir.Locations.ListLocations)
		locations.GET("/available", ir.Locations.GetAvailableLocations)
		locations.GET("/hierarchy", ir.Locations.GetLocationHierarchy)
		locations.GET("/:id", ir.Locations.GetLocation)
		locations.PATCH("/:id/status", ir.Locations.UpdateLocationStatus)
		locations.POST("/:id/block", ir.Locations.BlockLocation)
		locations.POST("/:id/unblock", ir.Locations.UnblockLocation)
		locations.POST("/:id/reserve", ir.Locations.ReserveLocation)
		locations.POST("/:id/release", ir.Locations.ReleaseLocation)
	}

	stockItems := group.Group("/stock-items")
	{
		stockItems.POST("", ir.StockItems.CreateStockItem)
		stockItems.GET("", ir.StockItems.ListStockItems)
		stockItems.GET("/classification/:classification", ir.StockItems.GetStockItemsByClassification)
		stockItems.GET("/expiring", ir.StockItems.GetExpiringStock)
		stockItems.GET("/expiration-check", ir.StockItems.CheckStockExpiration)
		stockItems.GET("/levels", ir.StockItems.GetStockLevels)
		stockItems.GET("/fefo-order", ir.StockItems.GetFEFOStockItems)
		stockItems.POST("/fefo-assign", ir.StockItems.AssignLocationsFEFO)
		stockItems.GET("/consignments", ir.StockItems.ListConsignments)
		stockItems.GET("/:id", ir.StockItems.GetStockItem)
		stockItems.PATCH("/:id/expiration-date", ir.StockItems.UpdateStockItemExpirationDate)
	}

	movements := group.Group("/movements")
	{
		movements.POST("", ir.Movements.CreateMovement)
		movements.POST("/:id/complete", ir.Movements.CompleteMovement)
		movements.POST("/:id/cancel", ir.Movements.CancelMovement)
	}

	restocks := group.Group("/restock-requests")
	{
		restocks.GET("", ir.Restocks.ListRestockRequests)
		restocks.POST("/:id/sent", ir.Restocks.MarkRestockSent)
		restocks.POST("/:id/fulfill", ir.Restocks.MarkRestockFulfilled)
		restocks.POST("/:id/cancel", ir.Restocks.CancelRestock)
	}

	thresholds := group.Group("/thresholds")
	{
		thresholds.PUT("", ir.Thresholds.ConfigureThreshold)
	}
}

var _ RouteRegistrar = (*InventoryRoutes)(nil)
