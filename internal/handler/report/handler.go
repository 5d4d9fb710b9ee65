package report

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicnexus/clinic-api/internal/handler"
	"github.com/clinicnexus/clinic-api/internal/service/report"
)

type Handler struct {
	service *report.Service
}

func NewHandler(service *report.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	reports := r.Group("/reports")
	{
		reports.GET("/revenue", h.Revenue)
		reports.GET("/appointments", h.AppointmentVolume)
		reports.GET("/doctors", h.DoctorLoad)
		reports.GET("/low-stock", h.LowStock)
	}
}

func (h *Handler) Revenue(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	result, err := h.service.Revenue(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) AppointmentVolume(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	rows, err := h.service.AppointmentVolume(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(rows))
}

func (h *Handler) DoctorLoad(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	rows, err := h.service.DoctorLoad(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(rows))
}

func (h *Handler) LowStock(c *gin.Context) {
	rows, err := h.service.LowStock(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(rows))
}

// parseRange reads the from/to query params, defaulting to the last 30
// days.
func parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	from, err := time.Parse("2006-01-02", c.DefaultQuery("from", now.AddDate(0, 0, -30).Format("2006-01-02")))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid from date"))
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse("2006-01-02", c.DefaultQuery("to", now.Format("2006-01-02")))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid to date"))
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
