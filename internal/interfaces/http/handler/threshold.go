package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wms/backend/internal/application/inventory"
)

// ThresholdHandler handles stock level threshold HTTP requests.
type ThresholdHandler struct {
	BaseHandler
	thresholds *inventory.ThresholdService
}

// NewThresholdHandler creates a new ThresholdHandler.
func NewThresholdHandler(thresholds *inventory.ThresholdService) *ThresholdHandler {
	return &ThresholdHandler{thresholds: thresholds}
}

// ConfigureThresholdRequest is the request body for configuring a threshold.
type ConfigureThresholdRequest struct {
	ProductID         string `json:"product_id" binding:"required,uuid"`
	LocationID        *string `json:"location_id"`
	Minimum           int    `json:"minimum" binding:"gte=0"`
	Maximum           *int   `json:"maximum"`
	EnableAutoRestock bool   `json:"enable_auto_restock"`
}

// ThresholdResponse is the API representation of a StockLevelThreshold.
type ThresholdResponse struct {
	ID                string  `json:"id"`
	ProductID         string  `json:"product_id"`
	LocationID        *string `json:"location_id,omitempty"`
	Minimum           int     `json:"minimum"`
	Maximum           *int    `json:"maximum,omitempty"`
	EnableAutoRestock bool    `json:"enable_auto_restock"`
	Version           int     `json:"version"`
}

func toThresholdResponse(d inventory.ThresholdDTO) ThresholdResponse {
	resp := ThresholdResponse{
		ID:                d.ID.String(),
		ProductID:         d.ProductID.String(),
		Minimum:           d.Minimum,
		Maximum:           d.Maximum,
		EnableAutoRestock: d.EnableAutoRestock,
		Version:           d.Version,
	}
	if d.LocationID != nil {
		s := d.LocationID.String()
		resp.LocationID = &s
	}
	return resp
}

// ConfigureThreshold godoc
// @ID           configureThreshold
// @Summary      Create or update a stock level threshold for a product
// @Tags         thresholds
// @Accept       json
// @Produce      json
// @Param        request body ConfigureThresholdRequest true "Threshold"
// @Success      200 {object} APIResponse[ThresholdResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /thresholds [put]
func (h *ThresholdHandler) ConfigureThreshold(c *gin.Context) {
	var req ConfigureThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product_id")
		return
	}
	locationID, err := parseOptionalUUIDBody(req.LocationID)
	if err != nil {
		h.BadRequest(c, "Invalid location_id")
		return
	}

	dto, err := h.thresholds.ConfigureThreshold(c.Request.Context(), inventory.ConfigureThresholdCommand{
		ProductID:         productID,
		LocationID:        locationID,
		Minimum:           req.Minimum,
		Maximum:           req.Maximum,
		EnableAutoRestock: req.EnableAutoRestock,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toThresholdResponse(*dto))
}
