package visit

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicnexus/clinic-api/internal/handler"
	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/service/visit"
)

type Handler struct {
	service *visit.Service
}

func NewHandler(service *visit.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/visits", h.ProcessVisit)
}

func (h *Handler) ProcessVisit(c *gin.Context) {
	var req model.ProcessVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result := h.service.ProcessVisit(c.Request.Context(), &req)
	if !result.OK {
		c.JSON(http.StatusConflict, handler.NewErrorResponse(result.Message))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}
