package inventory

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicnexus/clinic-api/internal/handler"
	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/service/inventory"
	"github.com/clinicnexus/clinic-api/internal/service/stock"
)

type Handler struct {
	service  *inventory.Service
	stockSvc *stock.Service
}

func NewHandler(service *inventory.Service, stockSvc *stock.Service) *Handler {
	return &Handler{service: service, stockSvc: stockSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	items := r.Group("/inventory")
	{
		items.POST("", h.CreateItem)
		items.GET("", h.ListItems)
		items.POST("/sweep", h.Sweep)
		items.GET("/:id", h.GetItem)
		items.PUT("/:id", h.UpdateItem)
		items.DELETE("/:id", h.DeleteItem)
		items.POST("/:id/restock", h.Restock)
	}
}

func (h *Handler) CreateItem(c *gin.Context) {
	var req model.CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) GetItem(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(item))
}

func (h *Handler) ListItems(c *gin.Context) {
	filters := &model.InventoryFilters{
		Category: c.Query("category"),
		LowStock: c.Query("low_stock") == "true",
		Expired:  c.Query("expired") == "true",
	}

	items, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(items))
}

func (h *Handler) UpdateItem(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) DeleteItem(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": id}))
}

// Sweep triggers a full inventory scan. The result is 200 even when some
// items failed: partial progress is the point of the sweep.
func (h *Handler) Sweep(c *gin.Context) {
	result := h.stockSvc.Sweep(c.Request.Context())
	if !result.OK {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(result.Message))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) Restock(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	var req model.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result := h.stockSvc.Restock(c.Request.Context(), id, req.Quantity, req.SupplierInfo)
	if !result.OK {
		c.JSON(http.StatusConflict, handler.NewErrorResponse(result.Message))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}
