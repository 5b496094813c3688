package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wms/backend/internal/application/inventory"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/stockitem"
)

// StockItemHandler handles stock item HTTP requests.
type StockItemHandler struct {
	BaseHandler
	stockItems *inventory.StockItemService
	fefo       *inventory.FEFOService
	query      *inventory.QueryService
}

// NewStockItemHandler creates a new StockItemHandler.
func NewStockItemHandler(stockItems *inventory.StockItemService, fefo *inventory.FEFOService, query *inventory.QueryService) *StockItemHandler {
	return &StockItemHandler{stockItems: stockItems, fefo: fefo, query: query}
}

// CreateStockItemRequest is the request body for receiving a StockItem.
type CreateStockItemRequest struct {
	ProductID      string     `json:"product_id" binding:"required,uuid"`
	ConsignmentID  string     `json:"consignment_id" binding:"required,uuid"`
	Quantity       int        `json:"quantity" binding:"required,gt=0"`
	ExpirationDate *time.Time `json:"expiration_date"`
}

// StockItemResponse is the API representation of a StockItem.
type StockItemResponse struct {
	ID                string                     `json:"id"`
	ProductID         string                     `json:"product_id"`
	ConsignmentID     string                     `json:"consignment_id"`
	LocationID        *string                    `json:"location_id,omitempty"`
	Quantity          int                        `json:"quantity"`
	AllocatedQuantity int                        `json:"allocated_quantity"`
	AvailableQuantity int                        `json:"available_quantity"`
	ExpirationDate    *time.Time                 `json:"expiration_date,omitempty"`
	Classification    stockitem.Classification   `json:"classification"`
	Version           int                        `json:"version"`
	CreatedAt         time.Time                  `json:"created_at"`
	UpdatedAt         time.Time                  `json:"updated_at"`
}

// StockItemDetailResponse enriches StockItemResponse with product metadata.
type StockItemDetailResponse struct {
	StockItemResponse
	Product *inventory.ProductMetadata `json:"product,omitempty"`
}

// StockItemListResponse is a paginated list of stock items.
type StockItemListResponse struct {
	Items      []StockItemResponse `json:"items"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	TotalPages int                 `json:"total_pages"`
}

func toStockItemResponse(d inventory.StockItemDTO) StockItemResponse {
	resp := StockItemResponse{
		ID:                d.ID.String(),
		ProductID:         d.ProductID.String(),
		ConsignmentID:     d.ConsignmentID.String(),
		Quantity:          d.Quantity,
		AllocatedQuantity: d.AllocatedQuantity,
		AvailableQuantity: d.AvailableQuantity,
		ExpirationDate:    d.ExpirationDate,
		Classification:    d.Classification,
		Version:           d.Version,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
	if d.LocationID != nil {
		s := d.LocationID.String()
		resp.LocationID = &s
	}
	return resp
}

// CreateStockItem godoc
// @ID           createStockItem
// @Summary      Receive a new stock item
// @Tags         stock-items
// @Accept       json
// @Produce      json
// @Param        request body CreateStockItemRequest true "Stock item"
// @Success      201 {object} APIResponse[StockItemResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock-items [post]
func (h *StockItemHandler) CreateStockItem(c *gin.Context) {
	var req CreateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product_id")
		return
	}
	consignmentID, err := uuid.Parse(req.ConsignmentID)
	if err != nil {
		h.BadRequest(c, "Invalid consignment_id")
		return
	}

	dto, err := h.stockItems.CreateStockItem(c.Request.Context(), inventory.CreateStockItemCommand{
		ProductID:      productID,
		ConsignmentID:  consignmentID,
		Quantity:       req.Quantity,
		ExpirationDate: req.ExpirationDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toStockItemResponse(*dto))
}

// GetStockItem godoc
// @ID           getStockItem
// @Summary      Get a stock item by ID, enriched with product metadata
// @Tags         stock-items
// @Produce      json
// @Param        id path string true "Stock Item ID" format(uuid)
// @Success      200 {object} APIResponse[StockItemDetailResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock-items/{id} [get]
func (h *StockItemHandler) GetStockItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID")
		return
	}

	detail, err := h.query.GetStockItem(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, StockItemDetailResponse{
		StockItemResponse: toStockItemResponse(detail.StockItemDTO),
		Product:           detail.Product,
	})
}

// ListStockItems godoc
// @ID           listStockItems
// @Summary      List stock items
// @Tags         stock-items
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Param        product_id query string false "Product ID filter" format(uuid)
// @Param        location_id query string false "Location ID filter" format(uuid)
// @Param        classification query string false "Classification filter"
// @Success      200 {object} APIResponse[StockItemListResponse]
// @Security     BearerAuth
// @Router       /stock-items [get]
func (h *StockItemHandler) ListStockItems(c *gin.Context) {
	page, pageSize := parsePagination(c)
	filter := stockitem.Filter{Filter: shared.Filter{Page: page, PageSize: pageSize}}

	if pid := c.Query("product_id"); pid != "" {
		id, err := uuid.Parse(pid)
		if err != nil {
			h.BadRequest(c, "Invalid product_id")
			return
		}
		filter.ProductID = &id
	}
	if lid := c.Query("location_id"); lid != "" {
		id, err := uuid.Parse(lid)
		if err != nil {
			h.BadRequest(c, "Invalid location_id")
			return
		}
		filter.LocationID = &id
	}
	if cl := c.Query("classification"); cl != "" {
		classification := stockitem.Classification(cl)
		filter.Classification = &classification
	}

	result, err := h.query.GetStockItems(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]StockItemResponse, len(result.Items))
	for i, d := range result.Items {
		items[i] = toStockItemResponse(d)
	}
	h.Success(c, StockItemListResponse{
		Items: items, Total: result.Total, Page: result.Page,
		PageSize: result.PageSize, TotalPages: result.TotalPages,
	})
}

// GetStockItemsByClassification godoc
// @ID           getStockItemsByClassification
// @Summary      List stock items of a given classification
// @Tags         stock-items
// @Produce      json
// @Param        classification path string true "Classification"
// @Success      200 {object} APIResponse[[]StockItemResponse]
// @Security     BearerAuth
// @Router       /stock-items/classification/{classification} [get]
func (h *StockItemHandler) GetStockItemsByClassification(c *gin.Context) {
	classification := stockitem.Classification(c.Param("classification"))

	dtos, err := h.query.GetStockItemsByClassification(c.Request.Context(), classification)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]StockItemResponse, len(dtos))
	for i, d := range dtos {
		items[i] = toStockItemResponse(d)
	}
	h.Success(c, items)
}

// GetExpiringStock godoc
// @ID           getExpiringStock
// @Summary      List stock items expiring before a given instant
// @Tags         stock-items
// @Produce      json
// @Param        before query string true "RFC3339 instant"
// @Param        classification query string false "Classification filter"
// @Success      200 {object} APIResponse[[]StockItemResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock-items/expiring [get]
func (h *StockItemHandler) GetExpiringStock(c *gin.Context) {
	beforeStr := c.Query("before")
	before, err := time.Parse(time.RFC3339, beforeStr)
	if err != nil {
		h.BadRequest(c, "Invalid before parameter, expected RFC3339")
		return
	}

	var classification *stockitem.Classification
	if cl := c.Query("classification"); cl != "" {
		v := stockitem.Classification(cl)
		classification = &v
	}

	dtos, err := h.query.GetExpiringStock(c.Request.Context(), before, classification)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]StockItemResponse, len(dtos))
	for i, d := range dtos {
		items[i] = toStockItemResponse(d)
	}
	h.Success(c, items)
}

// CheckStockExpirationResponse reports the classification breakdown for a product.
type CheckStockExpirationResponse struct {
	ProductID  string         `json:"product_id"`
	LocationID *string        `json:"location_id,omitempty"`
	Counts     map[stockitem.Classification]int `json:"counts"`
	TotalUnits int            `json:"total_units"`
}

// CheckStockExpiration godoc
// @ID           checkStockExpiration
// @Summary      Summarize classification breakdown of a product's stock
// @Tags         stock-items
// @Produce      json
// @Param        product_id query string true "Product ID" format(uuid)
// @Param        location_id query string false "Location ID" format(uuid)
// @Success      200 {object} APIResponse[CheckStockExpirationResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock-items/expiration-check [get]
func (h *StockItemHandler) CheckStockExpiration(c *gin.Context) {
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product_id")
		return
	}
	locationID, err := parseOptionalUUIDQuery(c, "location_id")
	if err != nil {
		h.BadRequest(c, "Invalid location_id")
		return
	}

	summary, err := h.query.CheckStockExpiration(c.Request.Context(), productID, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := CheckStockExpirationResponse{
		ProductID:  summary.ProductID.String(),
		Counts:     summary.Counts,
		TotalUnits: summary.TotalUnits,
	}
	if summary.LocationID != nil {
		s := summary.LocationID.String()
		resp.LocationID = &s
	}
	h.Success(c, resp)
}

// GetStockLevelsResponse reports aggregate quantity for a product.
type GetStockLevelsResponse struct {
	ProductID         string  `json:"product_id"`
	LocationID        *string `json:"location_id,omitempty"`
	TotalQuantity     int     `json:"total_quantity"`
	AvailableQuantity int     `json:"available_quantity"`
}

// GetStockLevels godoc
// @ID           getStockLevels
// @Summary      Get aggregate stock level for a product
// @Tags         stock-items
// @Produce      json
// @Param        product_id query string true "Product ID" format(uuid)
// @Param        location_id query string false "Location ID" format(uuid)
// @Success      200 {object} APIResponse[GetStockLevelsResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock-items/levels [get]
func (h *StockItemHandler) GetStockLevels(c *gin.Context) {
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product_id")
		return
	}
	locationID, err := parseOptionalUUIDQuery(c, "location_id")
	if err != nil {
		h.BadRequest(c, "Invalid location_id")
		return
	}

	level, err := h.query.GetStockLevels(c.Request.Context(), productID, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := GetStockLevelsResponse{
		ProductID:         level.ProductID.String(),
		TotalQuantity:     level.TotalQuantity,
		AvailableQuantity: level.AvailableQuantity,
	}
	if level.LocationID != nil {
		s := level.LocationID.String()
		resp.LocationID = &s
	}
	h.Success(c, resp)
}

// UpdateExpirationDateRequest is the body for updating a stock item's expiration date.
type UpdateExpirationDateRequest struct {
	ExpirationDate *time.Time `json:"expiration_date"`
}

// UpdateStockItemExpirationDate godoc
// @ID           updateStockItemExpirationDate
// @Summary      Update a stock item's expiration date
// @Tags         stock-items
// @Accept       json
// @Produce      json
// @Param        id path string true "Stock Item ID" format(uuid)
// @Param        request body UpdateExpirationDateRequest true "New expiration date"
// @Success      200 {object} APIResponse[StockItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock-items/{id}/expiration-date [patch]
func (h *StockItemHandler) UpdateStockItemExpirationDate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID")
		return
	}
	var req UpdateExpirationDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	dto, err := h.stockItems.UpdateStockItemExpirationDate(c.Request.Context(), id, req.ExpirationDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toStockItemResponse(*dto))
}

// AssignLocationsFEFOResponse reports the outcome of a FEFO assignment pass.
type AssignLocationsFEFOResponse struct {
	Assigned   map[string]string `json:"assigned"`
	Unassigned []string          `json:"unassigned"`
}

// AssignLocationsFEFO godoc
// @ID           assignLocationsFEFO
// @Summary      Run a FEFO assignment pass for a product's unassigned stock
// @Tags         stock-items
// @Produce      json
// @Param        product_id query string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[AssignLocationsFEFOResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock-items/fefo-assign [post]
func (h *StockItemHandler) AssignLocationsFEFO(c *gin.Context) {
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product_id")
		return
	}

	result, err := h.fefo.AssignLocationsFEFO(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := AssignLocationsFEFOResponse{
		Assigned:   make(map[string]string, len(result.Assigned)),
		Unassigned: make([]string, len(result.Unassigned)),
	}
	for stockItemID, locationID := range result.Assigned {
		resp.Assigned[stockItemID.String()] = locationID.String()
	}
	for i, id := range result.Unassigned {
		resp.Unassigned[i] = id.String()
	}
	h.Success(c, resp)
}

// GetFEFOStockItems godoc
// @ID           getFEFOStockItems
// @Summary      List a product's stock items in FEFO consumption order
// @Tags         stock-items
// @Produce      json
// @Param        product_id query string true "Product ID" format(uuid)
// @Param        location_id query string false "Location ID" format(uuid)
// @Success      200 {object} APIResponse[[]StockItemResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock-items/fefo-order [get]
func (h *StockItemHandler) GetFEFOStockItems(c *gin.Context) {
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product_id")
		return
	}
	locationID, err := parseOptionalUUIDQuery(c, "location_id")
	if err != nil {
		h.BadRequest(c, "Invalid location_id")
		return
	}

	dtos, err := h.query.GetFEFOStockItems(c.Request.Context(), productID, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]StockItemResponse, len(dtos))
	for i, d := range dtos {
		items[i] = toStockItemResponse(d)
	}
	h.Success(c, items)
}

// ListConsignmentsResponse is a list of consignment projections.
type ListConsignmentsResponse struct {
	Items []ConsignmentResponse `json:"items"`
}

// ConsignmentResponse is the API representation of a consignment projection.
type ConsignmentResponse struct {
	ConsignmentID  string    `json:"consignment_id"`
	ProductID      string    `json:"product_id"`
	StockItemIDs   []string  `json:"stock_item_ids"`
	TotalQuantity  int       `json:"total_quantity"`
	ReceivedAt     time.Time `json:"received_at"`
}

// ListConsignments godoc
// @ID           listConsignments
// @Summary      List consignment projections derived from received stock items
// @Tags         stock-items
// @Produce      json
// @Param        product_id query string false "Product ID" format(uuid)
// @Success      200 {object} APIResponse[ListConsignmentsResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock-items/consignments [get]
func (h *StockItemHandler) ListConsignments(c *gin.Context) {
	productID, err := parseOptionalUUIDQuery(c, "product_id")
	if err != nil {
		h.BadRequest(c, "Invalid product_id")
		return
	}

	dtos, err := h.query.ListConsignments(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]ConsignmentResponse, len(dtos))
	for i, d := range dtos {
		ids := make([]string, len(d.StockItemIDs))
		for j, id := range d.StockItemIDs {
			ids[j] = id.String()
		}
		items[i] = ConsignmentResponse{
			ConsignmentID: d.ConsignmentID.String(),
			ProductID:     d.ProductID.String(),
			StockItemIDs:  ids,
			TotalQuantity: d.TotalQuantity,
			ReceivedAt:    d.ReceivedAt,
		}
	}
	h.Success(c, ListConsignmentsResponse{Items: items})
}

func parseOptionalUUIDQuery(c *gin.Context, key string) (*uuid.UUID, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
