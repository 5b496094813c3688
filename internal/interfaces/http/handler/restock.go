package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wms/backend/internal/application/inventory"
	"github.com/wms/backend/internal/domain/restock"
	"github.com/wms/backend/internal/domain/shared"
)

// RestockHandler handles restock request HTTP requests.
type RestockHandler struct {
	BaseHandler
	restocks *inventory.RestockService
	query    *inventory.QueryService
}

// NewRestockHandler creates a new RestockHandler.
func NewRestockHandler(restocks *inventory.RestockService, query *inventory.QueryService) *RestockHandler {
	return &RestockHandler{restocks: restocks, query: query}
}

// RestockRequestResponse is the API representation of a RestockRequest.
type RestockRequestResponse struct {
	ID                string           `json:"id"`
	ProductID         string           `json:"product_id"`
	LocationID        *string          `json:"location_id,omitempty"`
	CurrentQuantity   int              `json:"current_quantity"`
	MinimumQuantity   int              `json:"minimum_quantity"`
	MaximumQuantity   *int             `json:"maximum_quantity,omitempty"`
	RequestedQuantity int              `json:"requested_quantity"`
	Priority          restock.Priority `json:"priority"`
	Status            restock.Status   `json:"status"`
	OrderReference    string           `json:"order_reference,omitempty"`
	Version           int              `json:"version"`
}

// RestockRequestListResponse is a paginated list of restock requests.
type RestockRequestListResponse struct {
	Items      []RestockRequestResponse `json:"items"`
	Total      int64                    `json:"total"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"page_size"`
	TotalPages int                      `json:"total_pages"`
}

func toRestockRequestResponse(d inventory.RestockRequestDTO) RestockRequestResponse {
	resp := RestockRequestResponse{
		ID:                d.ID.String(),
		ProductID:         d.ProductID.String(),
		CurrentQuantity:   d.CurrentQuantity,
		MinimumQuantity:   d.MinimumQuantity,
		MaximumQuantity:   d.MaximumQuantity,
		RequestedQuantity: d.RequestedQuantity,
		Priority:          d.Priority,
		Status:            d.Status,
		OrderReference:    d.OrderReference,
		Version:           d.Version,
	}
	if d.LocationID != nil {
		s := d.LocationID.String()
		resp.LocationID = &s
	}
	return resp
}

// ListRestockRequests godoc
// @ID           listRestockRequests
// @Summary      List restock requests
// @Tags         restock
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Param        product_id query string false "Product ID filter" format(uuid)
// @Param        location_id query string false "Location ID filter" format(uuid)
// @Param        status query string false "Status filter"
// @Param        priority query string false "Priority filter"
// @Success      200 {object} APIResponse[RestockRequestListResponse]
// @Security     BearerAuth
// @Router       /restock-requests [get]
func (h *RestockHandler) ListRestockRequests(c *gin.Context) {
	page, pageSize := parsePagination(c)
	filter := restock.Filter{Filter: shared.Filter{Page: page, PageSize: pageSize}}

	if pid, err := parseOptionalUUIDQuery(c, "product_id"); err != nil {
		h.BadRequest(c, "Invalid product_id")
		return
	} else {
		filter.ProductID = pid
	}
	if lid, err := parseOptionalUUIDQuery(c, "location_id"); err != nil {
		h.BadRequest(c, "Invalid location_id")
		return
	} else {
		filter.LocationID = lid
	}
	if st := c.Query("status"); st != "" {
		s := restock.Status(st)
		filter.Status = &s
	}
	if pr := c.Query("priority"); pr != "" {
		p := restock.Priority(pr)
		filter.Priority = &p
	}

	result, err := h.query.ListRestockRequests(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]RestockRequestResponse, len(result.Items))
	for i, d := range result.Items {
		items[i] = toRestockRequestResponse(d)
	}
	h.Success(c, RestockRequestListResponse{
		Items: items, Total: result.Total, Page: result.Page,
		PageSize: result.PageSize, TotalPages: result.TotalPages,
	})
}

// MarkRestockSentRequest is the body for marking a restock request sent.
type MarkRestockSentRequest struct {
	OrderReference string `json:"order_reference" binding:"required"`
}

// MarkRestockSent godoc
// @ID           markRestockSent
// @Summary      Mark a restock request sent to the supplier system
// @Tags         restock
// @Accept       json
// @Produce      json
// @Param        id path string true "Restock Request ID" format(uuid)
// @Param        request body MarkRestockSentRequest true "Order reference"
// @Success      200 {object} APIResponse[RestockRequestResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /restock-requests/{id}/sent [post]
func (h *RestockHandler) MarkRestockSent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid restock request ID")
		return
	}
	var req MarkRestockSentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	dto, err := h.restocks.MarkRestockSent(c.Request.Context(), id, req.OrderReference)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toRestockRequestResponse(*dto))
}

// MarkRestockFulfilled godoc
// @ID           markRestockFulfilled
// @Summary      Mark a restock request fulfilled
// @Tags         restock
// @Produce      json
// @Param        id path string true "Restock Request ID" format(uuid)
// @Success      200 {object} APIResponse[RestockRequestResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /restock-requests/{id}/fulfill [post]
func (h *RestockHandler) MarkRestockFulfilled(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid restock request ID")
		return
	}

	dto, err := h.restocks.MarkRestockFulfilled(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toRestockRequestResponse(*dto))
}

// CancelRestockRequest is the body for cancelling a restock request.
type CancelRestockRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CancelRestock godoc
// @ID           cancelRestock
// @Summary      Cancel a restock request
// @Tags         restock
// @Accept       json
// @Produce      json
// @Param        id path string true "Restock Request ID" format(uuid)
// @Param        request body CancelRestockRequest true "Cancel reason"
// @Success      200 {object} APIResponse[RestockRequestResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /restock-requests/{id}/cancel [post]
func (h *RestockHandler) CancelRestock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid restock request ID")
		return
	}
	var req CancelRestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	dto, err := h.restocks.CancelRestock(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toRestockRequestResponse(*dto))
}
