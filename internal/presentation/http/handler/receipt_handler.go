package handler

import (
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/application/service"
	"github.com/ordino-pos/ordino-api/internal/domain/enum"
	"github.com/ordino-pos/ordino-api/internal/domain/repository"
	"github.com/ordino-pos/ordino-api/internal/presentation/http/dto/response"
	"github.com/ordino-pos/ordino-api/pkg/pagination"
)

// ReceiptHandler handles receipt HTTP requests
type ReceiptHandler struct {
	receiptService     *service.ReceiptService
	receiptItemService *service.ReceiptItemService
	discountEngine     *service.DiscountEngine
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(
	receiptService *service.ReceiptService,
	receiptItemService *service.ReceiptItemService,
	discountEngine *service.DiscountEngine,
) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService:     receiptService,
		receiptItemService: receiptItemService,
		discountEngine:     discountEngine,
	}
}

// Create handles opening a new receipt
func (h *ReceiptHandler) Create(c *gin.Context) {
	var req struct {
		IsDelivery  bool       `json:"is_delivery"`
		PhoneNumber string     `json:"phone_number"`
		Location    string     `json:"location"`
		TableID     *uuid.UUID `json:"table_id"`
		Notes       string     `json:"notes"`
		Items       []struct {
			ItemID   uuid.UUID `json:"item_id" binding:"required"`
			Quantity int       `json:"quantity" binding:"required"`
			Notes    string    `json:"notes"`
		} `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.ReceiptItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.ReceiptItemInput{
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
			Notes:    item.Notes,
		}
	}

	receipt, err := h.receiptService.Create(c.Request.Context(), &service.CreateReceiptInput{
		IsDelivery:  req.IsDelivery,
		PhoneNumber: req.PhoneNumber,
		Location:    req.Location,
		TableID:     req.TableID,
		Notes:       req.Notes,
		Items:       items,
	}, GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receipt created successfully", receipt)
}

// List handles listing receipts with filters
func (h *ReceiptHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.ReceiptFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
	}

	if completedStr := c.Query("completed"); completedStr != "" {
		completed := completedStr == "true"
		params.Completed = &completed
	}
	if deliveryStr := c.Query("is_delivery"); deliveryStr != "" {
		isDelivery := deliveryStr == "true"
		params.IsDelivery = &isDelivery
	}
	if tableIDStr := c.Query("table_id"); tableIDStr != "" {
		if tableID, err := uuid.Parse(tableIDStr); err == nil {
			params.TableID = &tableID
		}
	}
	if startDateStr := c.Query("start_date"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			params.StartDate = &startDate
		}
	}
	if endDateStr := c.Query("end_date"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			params.EndDate = &endDate
		}
	}

	result, err := h.receiptService.FindAll(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Receipts retrieved successfully", result)
}

// Get handles getting a single receipt with items, discounts and totals
func (h *ReceiptHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	receipt, err := h.receiptService.FindOne(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}

// GetTotals handles recomputing a receipt's totals
func (h *ReceiptHandler) GetTotals(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	totals, err := h.receiptService.CalculateTotal(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Totals calculated successfully", totals)
}

// Complete handles checking out a receipt
func (h *ReceiptHandler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	// The body is optional; completing without a quick discount sends none
	var req struct {
		QuickDiscount *float64 `json:"quick_discount"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	var quickDiscount *int64
	if req.QuickDiscount != nil {
		cents := int64(math.Round(*req.QuickDiscount * 100))
		quickDiscount = &cents
	}

	receipt, err := h.receiptService.Complete(c.Request.Context(), id, quickDiscount, GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt completed successfully", receipt)
}

// ApplyDiscount handles applying a discount code to a receipt
func (h *ReceiptHandler) ApplyDiscount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.discountEngine.ApplyDiscount(c.Request.Context(), req.Code, id, GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount applied successfully", result)
}

// UpdateItemStatus handles moving a receipt item through the kitchen workflow
func (h *ReceiptHandler) UpdateItemStatus(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt item ID")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	change, err := h.receiptItemService.UpdateStatus(c.Request.Context(), receiptID, itemID, enum.ItemStatus(req.Status), GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item status updated successfully", change)
}
