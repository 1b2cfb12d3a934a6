package handler

import (
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/application/service"
	"github.com/ordino-pos/ordino-api/internal/domain/repository"
	"github.com/ordino-pos/ordino-api/internal/presentation/http/dto/response"
)

// MenuHandler handles menu section and item HTTP requests
type MenuHandler struct {
	menuService *service.MenuService
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(menuService *service.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// CreateSection handles creating a menu section
func (h *MenuHandler) CreateSection(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	section, err := h.menuService.CreateSection(c.Request.Context(), req.Name, GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Section created successfully", section)
}

// ListSections handles listing menu sections
func (h *MenuHandler) ListSections(c *gin.Context) {
	withItems := c.DefaultQuery("with_items", "false") == "true"

	sections, err := h.menuService.ListSections(c.Request.Context(), withItems)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sections retrieved successfully", sections)
}

// CreateItem handles creating a menu item
func (h *MenuHandler) CreateItem(c *gin.Context) {
	var req struct {
		SectionID   uuid.UUID `json:"section_id" binding:"required"`
		Name        string    `json:"name" binding:"required"`
		Price       float64   `json:"price" binding:"required"`
		Description string    `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.menuService.CreateItem(c.Request.Context(), &service.CreateItemInput{
		SectionID:   req.SectionID,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
	}, GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Item created successfully", item)
}

// GetItem handles getting a single menu item
func (h *MenuHandler) GetItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	item, err := h.menuService.GetItem(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item retrieved successfully", item)
}

// ListItems handles listing menu items with filtering
func (h *MenuHandler) ListItems(c *gin.Context) {
	params := &repository.ItemFilterParams{
		Search: c.Query("search"),
	}

	if sectionIDStr := c.Query("section_id"); sectionIDStr != "" {
		if sectionID, err := uuid.Parse(sectionIDStr); err == nil {
			params.SectionID = &sectionID
		}
	}
	if minStr := c.Query("min_price"); minStr != "" {
		if min, err := strconv.ParseFloat(minStr, 64); err == nil {
			cents := int64(math.Round(min * 100))
			params.MinPrice = &cents
		}
	}
	if maxStr := c.Query("max_price"); maxStr != "" {
		if max, err := strconv.ParseFloat(maxStr, 64); err == nil {
			cents := int64(math.Round(max * 100))
			params.MaxPrice = &cents
		}
	}

	items, err := h.menuService.ListItems(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Items retrieved successfully", items)
}

// UpdateItem handles updating a menu item
func (h *MenuHandler) UpdateItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Price       *float64 `json:"price"`
		Description *string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.menuService.UpdateItem(c.Request.Context(), id, &service.UpdateItemInput{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
	}, GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item updated successfully", item)
}

// DeleteItem handles removing a menu item
func (h *MenuHandler) DeleteItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	if err := h.menuService.DeleteItem(c.Request.Context(), id, GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item deleted successfully", nil)
}

// PriceHistory handles listing an item's price history
func (h *MenuHandler) PriceHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	history, err := h.menuService.PriceHistory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Price history retrieved successfully", history)
}

// PriceAt handles getting the item's price effective at a given date
func (h *MenuHandler) PriceAt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	at := time.Now()
	if atStr := c.Query("at"); atStr != "" {
		parsed, err := time.Parse(time.RFC3339, atStr)
		if err != nil {
			response.BadRequest(c, "Invalid date, expected RFC3339")
			return
		}
		at = parsed
	}

	record, err := h.menuService.PriceAt(c.Request.Context(), id, at)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Price retrieved successfully", record)
}
