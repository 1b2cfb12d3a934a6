package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ordino-pos/ordino-api/internal/application/service"
	"github.com/ordino-pos/ordino-api/internal/domain/enum"
	"github.com/ordino-pos/ordino-api/internal/presentation/http/dto/response"
)

// DiscountHandler handles discount management HTTP requests
type DiscountHandler struct {
	discountService *service.DiscountService
}

// NewDiscountHandler creates a new discount handler
func NewDiscountHandler(discountService *service.DiscountService) *DiscountHandler {
	return &DiscountHandler{discountService: discountService}
}

// Create handles creating a discount
func (h *DiscountHandler) Create(c *gin.Context) {
	var req struct {
		Code        string    `json:"code" binding:"required"`
		Name        string    `json:"name" binding:"required"`
		Type        string    `json:"type" binding:"required"`
		Amount      float64   `json:"amount"`
		Percentage  float64   `json:"percentage"`
		MaxReceipts *int      `json:"max_receipts"`
		StartDate   time.Time `json:"start_date" binding:"required"`
		EndDate     time.Time `json:"end_date" binding:"required"`
		Items       []struct {
			ItemID      uuid.UUID `json:"item_id" binding:"required"`
			MinQuantity int       `json:"min_quantity"`
		} `json:"items"`
		Conditions []struct {
			ConditionType string `json:"condition_type" binding:"required"`
			Value         string `json:"value" binding:"required"`
		} `json:"conditions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.DiscountItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.DiscountItemInput{
			ItemID:      item.ItemID,
			MinQuantity: item.MinQuantity,
		}
	}
	conditions := make([]service.DiscountConditionInput, len(req.Conditions))
	for i, cond := range req.Conditions {
		conditions[i] = service.DiscountConditionInput{
			ConditionType: enum.ConditionType(cond.ConditionType),
			Value:         cond.Value,
		}
	}

	discount, err := h.discountService.Create(c.Request.Context(), &service.CreateDiscountInput{
		Code:        req.Code,
		Name:        req.Name,
		Type:        enum.DiscountType(req.Type),
		Amount:      req.Amount,
		Percentage:  req.Percentage,
		MaxReceipts: req.MaxReceipts,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Items:       items,
		Conditions:  conditions,
	}, GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Discount created successfully", discount)
}

// List handles listing discounts
func (h *DiscountHandler) List(c *gin.Context) {
	discounts, err := h.discountService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discounts retrieved successfully", discounts)
}

// Get handles getting a single discount
func (h *DiscountHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid discount ID")
		return
	}

	discount, err := h.discountService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount retrieved successfully", discount)
}

// Update handles modifying a discount
func (h *DiscountHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid discount ID")
		return
	}

	var req struct {
		Name        *string    `json:"name"`
		Amount      *float64   `json:"amount"`
		Percentage  *float64   `json:"percentage"`
		MaxReceipts *int       `json:"max_receipts"`
		StartDate   *time.Time `json:"start_date"`
		EndDate     *time.Time `json:"end_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	discount, err := h.discountService.Update(c.Request.Context(), id, &service.UpdateDiscountInput{
		Name:        req.Name,
		Amount:      req.Amount,
		Percentage:  req.Percentage,
		MaxReceipts: req.MaxReceipts,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}, GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount updated successfully", discount)
}

// ToggleActive handles flipping a discount's active flag
func (h *DiscountHandler) ToggleActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid discount ID")
		return
	}

	discount, err := h.discountService.ToggleActive(c.Request.Context(), id, GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount toggled successfully", discount)
}

// Delete handles removing a discount
func (h *DiscountHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid discount ID")
		return
	}

	if err := h.discountService.Delete(c.Request.Context(), id, GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount deleted successfully", nil)
}
