package appointment

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicnexus/clinic-api/internal/handler"
	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/service/appointment"
	"github.com/clinicnexus/clinic-api/internal/service/scheduling"
	"github.com/clinicnexus/clinic-api/internal/service/stock"
)

type Handler struct {
	service   *appointment.Service
	scheduler *scheduling.Service
	stockSvc  *stock.Service
}

func NewHandler(service *appointment.Service, scheduler *scheduling.Service, stockSvc *stock.Service) *Handler {
	return &Handler{service: service, scheduler: scheduler, stockSvc: stockSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("/schedule", h.ScheduleAppointment)
		appointments.GET("/slots", h.AvailableSlots)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", h.UpdateAppointment)
		appointments.POST("/:id/cancel", h.CancelAppointment)
		appointments.DELETE("/:id", h.DeleteAppointment)
		appointments.POST("/:id/usage", h.RecordUsage)
	}
}

// ScheduleAppointment runs the booking workflow. A rejected booking is a
// 409 carrying the workflow's reason, not an error payload.
func (h *Handler) ScheduleAppointment(c *gin.Context) {
	var req model.ScheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result := h.scheduler.ScheduleAppointment(c.Request.Context(), &req)
	if !result.OK {
		c.JSON(http.StatusConflict, handler.NewErrorResponse(result.Message))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(result))
}

func (h *Handler) AvailableSlots(c *gin.Context) {
	doctorID, ok := parseQueryID(c, "doctor_id")
	if !ok {
		return
	}
	dateStr, ok := handler.ParseDateQuery(c, "date")
	if !ok {
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid date"))
		return
	}

	slots, err := h.scheduler.AvailableTimeSlots(c.Request.Context(), doctorID, date)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"doctor_id": doctorID,
		"date":      dateStr,
		"slots":     slots,
	}))
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	apt, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	filters := &model.AppointmentFilters{
		Status: model.AppointmentStatus(c.Query("status")),
	}
	if id, ok := optionalQueryID(c, "patient_id"); ok {
		filters.PatientID = id
	}
	if id, ok := optionalQueryID(c, "doctor_id"); ok {
		filters.DoctorID = id
	}
	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid date"))
			return
		}
		filters.Date = &date
	}

	apts, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(apts))
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateAppointmentRequest
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

func (h *Handler) CancelAppointment(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"canceled": id}))
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
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

func (h *Handler) RecordUsage(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	var req model.RecordUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result := h.stockSvc.RecordUsage(c.Request.Context(), id, req.ItemsUsed)
	if !result.OK {
		c.JSON(http.StatusConflict, handler.NewErrorResponse(result.Message))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func parseQueryID(c *gin.Context, name string) (int64, bool) {
	id, ok := optionalQueryID(c, name)
	if !ok {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("missing or invalid "+name))
		return 0, false
	}
	return id, true
}

func optionalQueryID(c *gin.Context, name string) (int64, bool) {
	value := c.Query(name)
	if value == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
