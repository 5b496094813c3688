package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wms/backend/internal/application/inventory"
	"github.com/wms/backend/internal/domain/location"
	"github.com/wms/backend/internal/domain/shared"
)

// LocationHandler handles warehouse location HTTP requests.
type LocationHandler struct {
	BaseHandler
	locations *inventory.LocationService
	query     *inventory.QueryService
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(locations *inventory.LocationService, query *inventory.QueryService) *LocationHandler {
	return &LocationHandler{locations: locations, query: query}
}

// CreateLocationRequest is the request body for creating a Location.
type CreateLocationRequest struct {
	LocationType     location.Type `json:"location_type" binding:"required"`
	ParentLocationID *string       `json:"parent_location_id"`
	Code             string        `json:"code" binding:"required"`
	Name             string        `json:"name" binding:"required"`
	Barcode          string        `json:"barcode"`
	MaxCapacity      *int          `json:"max_capacity"`
}

// LocationResponse is the API representation of a Location.
type LocationResponse struct {
	ID               string          `json:"id"`
	ParentLocationID *string         `json:"parent_location_id,omitempty"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	Barcode          string          `json:"barcode"`
	LocationType     location.Type   `json:"location_type"`
	Zone             string          `json:"zone,omitempty"`
	Aisle            string          `json:"aisle,omitempty"`
	Rack             string          `json:"rack,omitempty"`
	Level            string          `json:"level,omitempty"`
	Status           location.Status `json:"status"`
	CapacityCurrent  int             `json:"capacity_current"`
	CapacityMaximum  *int            `json:"capacity_maximum,omitempty"`
	Description      string          `json:"description,omitempty"`
	Version          int             `json:"version"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// LocationDetailResponse adds the resolved hierarchy path to LocationResponse.
type LocationDetailResponse struct {
	LocationResponse
	Path string `json:"path"`
}

// LocationListResponse is a paginated list of locations.
type LocationListResponse struct {
	Items      []LocationResponse `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

func toLocationResponse(d inventory.LocationDTO) LocationResponse {
	resp := LocationResponse{
		ID:              d.ID.String(),
		Code:            d.Code,
		Name:            d.Name,
		Barcode:         d.Barcode,
		LocationType:    d.LocationType,
		Zone:            d.Zone,
		Aisle:           d.Aisle,
		Rack:            d.Rack,
		Level:           d.Level,
		Status:          d.Status,
		CapacityCurrent: d.CapacityCurrent,
		CapacityMaximum: d.CapacityMaximum,
		Description:     d.Description,
		Version:         d.Version,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if d.ParentLocationID != nil {
		s := d.ParentLocationID.String()
		resp.ParentLocationID = &s
	}
	return resp
}

// CreateLocation godoc
// @ID           createLocation
// @Summary      Create a warehouse location
// @Tags         locations
// @Accept       json
// @Produce      json
// @Param        request body CreateLocationRequest true "Location"
// @Success      201 {object} APIResponse[LocationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /locations [post]
func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	cmd := inventory.CreateLocationCommand{
		LocationType: req.LocationType,
		Code:         req.Code,
		Name:         req.Name,
		Barcode:      req.Barcode,
		MaxCapacity:  req.MaxCapacity,
	}
	if req.ParentLocationID != nil && *req.ParentLocationID != "" {
		id, err := uuid.Parse(*req.ParentLocationID)
		if err != nil {
			h.BadRequest(c, "Invalid parent_location_id")
			return
		}
		cmd.ParentLocationID = &id
	}

	dto, err := h.locations.CreateLocation(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toLocationResponse(*dto))
}

// GetLocation godoc
// @ID           getLocation
// @Summary      Get a location by ID, including its resolved hierarchy path
// @Tags         locations
// @Produce      json
// @Param        id path string true "Location ID" format(uuid)
// @Success      200 {object} APIResponse[LocationDetailResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /locations/{id} [get]
func (h *LocationHandler) GetLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID")
		return
	}

	detail, err := h.query.GetLocation(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, LocationDetailResponse{
		LocationResponse: toLocationResponse(detail.LocationDTO),
		Path:             detail.Path,
	})
}

// ListLocations godoc
// @ID           listLocations
// @Summary      List locations
// @Tags         locations
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Param        location_type query string false "Location type filter"
// @Success      200 {object} APIResponse[LocationListResponse]
// @Security     BearerAuth
// @Router       /locations [get]
func (h *LocationHandler) ListLocations(c *gin.Context) {
	page, pageSize := parsePagination(c)
	filter := location.Filter{Filter: shared.Filter{Page: page, PageSize: pageSize}}
	if lt := c.Query("location_type"); lt != "" {
		t := location.Type(lt)
		filter.LocationType = &t
	}
	if st := c.Query("status"); st != "" {
		s := location.Status(st)
		filter.Status = &s
	}

	result, err := h.query.ListLocations(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]LocationResponse, len(result.Items))
	for i, d := range result.Items {
		items[i] = toLocationResponse(d)
	}
	h.Success(c, LocationListResponse{
		Items: items, Total: result.Total, Page: result.Page,
		PageSize: result.PageSize, TotalPages: result.TotalPages,
	})
}

// GetAvailableLocations godoc
// @ID           getAvailableLocations
// @Summary      List available locations of a given type
// @Tags         locations
// @Produce      json
// @Param        location_type query string false "Location type filter"
// @Success      200 {object} APIResponse[[]LocationResponse]
// @Security     BearerAuth
// @Router       /locations/available [get]
func (h *LocationHandler) GetAvailableLocations(c *gin.Context) {
	var locType *location.Type
	if lt := c.Query("location_type"); lt != "" {
		t := location.Type(lt)
		locType = &t
	}

	dtos, err := h.query.GetAvailableLocations(c.Request.Context(), locType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]LocationResponse, len(dtos))
	for i, d := range dtos {
		items[i] = toLocationResponse(d)
	}
	h.Success(c, items)
}

// GetLocationHierarchy godoc
// @ID           getLocationHierarchy
// @Summary      List the full location hierarchy, optionally filtered to a level
// @Tags         locations
// @Produce      json
// @Param        level query string false "Location type level"
// @Success      200 {object} APIResponse[[]LocationResponse]
// @Security     BearerAuth
// @Router       /locations/hierarchy [get]
func (h *LocationHandler) GetLocationHierarchy(c *gin.Context) {
	var level *location.Type
	if lv := c.Query("level"); lv != "" {
		t := location.Type(lv)
		level = &t
	}

	dtos, err := h.query.GetLocationHierarchy(c.Request.Context(), level)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]LocationResponse, len(dtos))
	for i, d := range dtos {
		items[i] = toLocationResponse(d)
	}
	h.Success(c, items)
}

// UpdateLocationStatusRequest is the body of a location status transition.
type UpdateLocationStatusRequest struct {
	Status location.Status `json:"status" binding:"required"`
	Reason string          `json:"reason"`
}

// UpdateLocationStatus godoc
// @ID           updateLocationStatus
// @Summary      Transition a location's status
// @Tags         locations
// @Accept       json
// @Produce      json
// @Param        id path string true "Location ID" format(uuid)
// @Param        request body UpdateLocationStatusRequest true "Status transition"
// @Success      200 {object} APIResponse[LocationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /locations/{id}/status [patch]
func (h *LocationHandler) UpdateLocationStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID")
		return
	}
	var req UpdateLocationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	dto, err := h.locations.UpdateLocationStatus(c.Request.Context(), id, req.Status, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toLocationResponse(*dto))
}

// BlockLocationRequest is the body of a location block request.
type BlockLocationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// BlockLocation godoc
// @ID           blockLocation
// @Summary      Block a location
// @Tags         locations
// @Accept       json
// @Produce      json
// @Param        id path string true "Location ID" format(uuid)
// @Param        request body BlockLocationRequest true "Block reason"
// @Success      200 {object} APIResponse[LocationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /locations/{id}/block [post]
func (h *LocationHandler) BlockLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID")
		return
	}
	var req BlockLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	dto, err := h.locations.BlockLocation(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toLocationResponse(*dto))
}

// UnblockLocation godoc
// @ID           unblockLocation
// @Summary      Unblock a location, restoring it to AVAILABLE
// @Tags         locations
// @Produce      json
// @Param        id path string true "Location ID" format(uuid)
// @Success      200 {object} APIResponse[LocationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /locations/{id}/unblock [post]
func (h *LocationHandler) UnblockLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID")
		return
	}

	dto, err := h.locations.UnblockLocation(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toLocationResponse(*dto))
}

// ReserveLocation godoc
// @ID           reserveLocation
// @Summary      Reserve a location ahead of a putaway plan
// @Tags         locations
// @Produce      json
// @Param        id path string true "Location ID" format(uuid)
// @Success      200 {object} APIResponse[LocationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /locations/{id}/reserve [post]
func (h *LocationHandler) ReserveLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID")
		return
	}

	dto, err := h.locations.ReserveLocation(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toLocationResponse(*dto))
}

// ReleaseLocation godoc
// @ID           releaseLocation
// @Summary      Release a reserved location back to AVAILABLE
// @Tags         locations
// @Produce      json
// @Param        id path string true "Location ID" format(uuid)
// @Success      200 {object} APIResponse[LocationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /locations/{id}/release [post]
func (h *LocationHandler) ReleaseLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid location ID")
		return
	}

	dto, err := h.locations.ReleaseLocation(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toLocationResponse(*dto))
}
