package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wms/backend/internal/application/inventory"
	"github.com/wms/backend/internal/domain/movement"
)

// MovementHandler handles stock movement HTTP requests.
type MovementHandler struct {
	BaseHandler
	movements *inventory.MovementService
}

// NewMovementHandler creates a new MovementHandler.
func NewMovementHandler(movements *inventory.MovementService) *MovementHandler {
	return &MovementHandler{movements: movements}
}

// CreateMovementRequest is the request body for initiating a StockMovement.
// Exactly one of StockItemID or ProductID must be set: callers that know
// the stock item directly pass StockItemID, others let the service resolve
// it from ProductID and SourceLocationID.
type CreateMovementRequest struct {
	StockItemID           *string         `json:"stock_item_id"`
	ProductID             *string         `json:"product_id"`
	SourceLocationID      *string         `json:"source_location_id"`
	DestinationLocationID *string         `json:"destination_location_id" binding:"required"`
	Quantity              int             `json:"quantity" binding:"required,gt=0"`
	Reason                movement.Reason `json:"reason" binding:"required"`
}

// MovementResponse is the API representation of a StockMovement.
type MovementResponse struct {
	ID                    string          `json:"id"`
	StockItemID           string          `json:"stock_item_id"`
	ProductID             string          `json:"product_id"`
	SourceLocationID      *string         `json:"source_location_id,omitempty"`
	DestinationLocationID *string         `json:"destination_location_id,omitempty"`
	Quantity              int             `json:"quantity"`
	Reason                movement.Reason `json:"reason"`
	Status                movement.Status `json:"status"`
	InitiatedAt           time.Time       `json:"initiated_at"`
	CompletedAt           *time.Time      `json:"completed_at,omitempty"`
	CancelledAt           *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason          string          `json:"cancel_reason,omitempty"`
	Version               int             `json:"version"`
}

func toMovementResponse(d inventory.MovementDTO) MovementResponse {
	resp := MovementResponse{
		ID:           d.ID.String(),
		StockItemID:  d.StockItemID.String(),
		ProductID:    d.ProductID.String(),
		Quantity:     d.Quantity,
		Reason:       d.Reason,
		Status:       d.Status,
		InitiatedAt:  d.InitiatedAt,
		CompletedAt:  d.CompletedAt,
		CancelledAt:  d.CancelledAt,
		CancelReason: d.CancelReason,
		Version:      d.Version,
	}
	if d.SourceLocationID != nil {
		s := d.SourceLocationID.String()
		resp.SourceLocationID = &s
	}
	if d.DestinationLocationID != nil {
		s := d.DestinationLocationID.String()
		resp.DestinationLocationID = &s
	}
	return resp
}

func parseOptionalUUIDBody(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// CreateMovement godoc
// @ID           createMovement
// @Summary      Initiate a stock movement
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        request body CreateMovementRequest true "Movement"
// @Success      201 {object} APIResponse[MovementResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /movements [post]
func (h *MovementHandler) CreateMovement(c *gin.Context) {
	var req CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	stockItemID, err := parseOptionalUUIDBody(req.StockItemID)
	if err != nil {
		h.BadRequest(c, "Invalid stock_item_id")
		return
	}
	productID, err := parseOptionalUUIDBody(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product_id")
		return
	}
	sourceLocationID, err := parseOptionalUUIDBody(req.SourceLocationID)
	if err != nil {
		h.BadRequest(c, "Invalid source_location_id")
		return
	}
	destinationLocationID, err := parseOptionalUUIDBody(req.DestinationLocationID)
	if err != nil {
		h.BadRequest(c, "Invalid destination_location_id")
		return
	}

	dto, err := h.movements.CreateStockMovement(c.Request.Context(), inventory.CreateMovementCommand{
		StockItemID:           stockItemID,
		ProductID:             productID,
		SourceLocationID:      sourceLocationID,
		DestinationLocationID: destinationLocationID,
		Quantity:              req.Quantity,
		Reason:                req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toMovementResponse(*dto))
}

// CompleteMovement godoc
// @ID           completeMovement
// @Summary      Complete a stock movement
// @Tags         movements
// @Produce      json
// @Param        id path string true "Movement ID" format(uuid)
// @Success      200 {object} APIResponse[MovementResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /movements/{id}/complete [post]
func (h *MovementHandler) CompleteMovement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid movement ID")
		return
	}

	dto, err := h.movements.CompleteStockMovement(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toMovementResponse(*dto))
}

// CancelMovementRequest is the body of a movement cancellation request.
type CancelMovementRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CancelMovement godoc
// @ID           cancelMovement
// @Summary      Cancel a stock movement
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        id path string true "Movement ID" format(uuid)
// @Param        request body CancelMovementRequest true "Cancel reason"
// @Success      200 {object} APIResponse[MovementResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /movements/{id}/cancel [post]
func (h *MovementHandler) CancelMovement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid movement ID")
		return
	}
	var req CancelMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	dto, err := h.movements.CancelStockMovement(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toMovementResponse(*dto))
}
