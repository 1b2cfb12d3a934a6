package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ordino-pos/ordino-api/internal/application/service"
	"github.com/ordino-pos/ordino-api/internal/presentation/http/dto/response"
)

// KitchenHandler handles kitchen display HTTP requests
type KitchenHandler struct {
	kitchenService *service.KitchenService
}

// NewKitchenHandler creates a new kitchen handler
func NewKitchenHandler(kitchenService *service.KitchenService) *KitchenHandler {
	return &KitchenHandler{kitchenService: kitchenService}
}

// PendingItems handles listing outstanding items, oldest first
func (h *KitchenHandler) PendingItems(c *gin.Context) {
	items, err := h.kitchenService.PendingItems(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Pending items retrieved successfully", items)
}

// Queue handles the grouped kitchen ticket view
func (h *KitchenHandler) Queue(c *gin.Context) {
	tickets, err := h.kitchenService.Queue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Kitchen queue retrieved successfully", tickets)
}
