package staff

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicnexus/clinic-api/internal/handler"
	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/service/roster"
	"github.com/clinicnexus/clinic-api/internal/service/staff"
)

type Handler struct {
	service   *staff.Service
	rosterSvc *roster.Service
}

func NewHandler(service *staff.Service, rosterSvc *roster.Service) *Handler {
	return &Handler{service: service, rosterSvc: rosterSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	members := r.Group("/staff")
	{
		members.POST("", h.CreateStaff)
		members.GET("", h.ListStaff)
		members.GET("/coverage", h.Coverage)
		members.GET("/:id", h.GetStaff)
		members.PUT("/:id", h.UpdateStaff)
		members.DELETE("/:id", h.DeleteStaff)
		members.GET("/:id/appointments", h.ListAppointments)
		members.POST("/:id/shifts", h.ScheduleShift)
		members.GET("/:id/shifts", h.ListShifts)
		members.POST("/:id/time-off", h.RequestTimeOff)
	}
}

func (h *Handler) CreateStaff(c *gin.Context) {
	var req model.CreateStaffRequest
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

func (h *Handler) GetStaff(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) ListStaff(c *gin.Context) {
	filters := &model.StaffFilters{
		JobType:        model.JobType(c.Query("job_type")),
		Specialization: c.Query("specialization"),
	}
	if active := c.Query("active"); active != "" {
		v := active == "true"
		filters.Active = &v
	}

	members, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(members))
}

func (h *Handler) UpdateStaff(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateStaffRequest
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

func (h *Handler) DeleteStaff(c *gin.Context) {
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

func (h *Handler) ListAppointments(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.service.GetWithAppointments(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(detail))
}

func (h *Handler) ScheduleShift(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	var req model.ScheduleShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result := h.rosterSvc.ScheduleShift(c.Request.Context(), id, &req)
	if !result.OK {
		c.JSON(http.StatusConflict, handler.NewErrorResponse(result.Message))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(result))
}

func (h *Handler) ListShifts(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	shifts, err := h.rosterSvc.ListShifts(c.Request.Context(), id, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(shifts))
}

func (h *Handler) RequestTimeOff(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	var req model.RequestTimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result := h.rosterSvc.RequestTimeOff(c.Request.Context(), id, &req)
	if !result.OK {
		c.JSON(http.StatusConflict, handler.NewErrorResponse(result.Message))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(result))
}

func (h *Handler) Coverage(c *gin.Context) {
	dateStr, ok := handler.ParseDateQuery(c, "date")
	if !ok {
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid date"))
		return
	}

	report, err := h.rosterSvc.Coverage(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(report))
}

func parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	from, err := time.Parse("2006-01-02", c.DefaultQuery("from", time.Now().Format("2006-01-02")))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid from date"))
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse("2006-01-02", c.DefaultQuery("to", from.AddDate(0, 0, 30).Format("2006-01-02")))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid to date"))
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
