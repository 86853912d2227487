package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/franciscosanchezn/gin-shift-api/internal/models"
	"github.com/franciscosanchezn/gin-shift-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ScheduleController serves schedule queries and status transitions
type ScheduleController struct {
	scheduleService services.ScheduleService
}

// NewScheduleController creates a new ScheduleController
func NewScheduleController(scheduleService services.ScheduleService) *ScheduleController {
	return &ScheduleController{scheduleService: scheduleService}
}

type scheduleResponse struct {
	Email     string `json:"email"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	TimeRange string `json:"timeRange"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Reason    string `json:"reason"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

func newScheduleResponse(email, date, status, timeRange, reason, imageURL string) scheduleResponse {
	start, end := services.SplitTimeRange(timeRange)
	return scheduleResponse{
		Email:     email,
		Date:      date,
		Status:    status,
		TimeRange: timeRange,
		StartTime: start,
		EndTime:   end,
		Reason:    reason,
		ImageURL:  imageURL,
	}
}

type listSchedulesRequest struct {
	Email string `json:"email"`
}

type scheduleKeyRequest struct {
	Email string `json:"email"`
	Date  string `json:"date"`
}

type requestLeaveRequest struct {
	Email     string `json:"email"`
	Date      string `json:"date"`
	TimeRange string `json:"timeRange"`
	Reason    string `json:"reason"`
}

type statusRequest struct {
	Email  string `json:"email"`
	Date   string `json:"date"`
	Status string `json:"status"`
}

type addScheduleRequest struct {
	Email     string `json:"email"`
	Date      string `json:"date"`
	TimeRange string `json:"timeRange"`
	Status    string `json:"status"`
}

type updateScheduleRequest struct {
	Email        string `json:"email"`
	OldDate      string `json:"oldDate"`
	OldTimeRange string `json:"oldTimeRange"`
	Date         string `json:"date"`
	TimeRange    string `json:"timeRange"`
	Status       string `json:"status"`
}

// ListSchedules godoc
// @Summary List schedules
// @Description With an email: that user's rows by date. Without one, or with "*": every pending row.
// @Tags schedules
// @Accept json
// @Produce json
// @Param filter body listSchedulesRequest false "Optional email"
// @Success 200 {object} map[string][]scheduleResponse
// @Failure 500 {object} models.APIError
// @Router /api/schedule [post]
func (sc *ScheduleController) ListSchedules(c *gin.Context) {
	var req listSchedulesRequest
	// An empty body means "all pending"
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "Invalid request body", err)
		return
	}

	var rows []models.Schedule
	var err error
	if email, ok := services.ParseEmailSelector(req.Email).Email(); ok {
		rows, err = sc.scheduleService.FetchByEmail(c.Request.Context(), email)
	} else {
		rows, err = sc.scheduleService.FetchPending(c.Request.Context())
	}
	if err != nil {
		respondError(c, err, "Failed to fetch schedules")
		return
	}

	out := make([]scheduleResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, newScheduleResponse(r.Email, r.Date, r.Status, r.TimeRange, r.Reason, ""))
	}
	c.JSON(http.StatusOK, gin.H{"schedules": out})
}

// GetSchedule godoc
// @Summary Schedules on a day
// @Description One user's row (badge scan) or, with email "*" or omitted, every user's row on the date
// @Tags schedules
// @Produce json
// @Param email query string false "User email or *"
// @Param date query string true "Day, YYYY-MM-DD"
// @Success 200 {object} map[string][]scheduleResponse
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /api/schedule [get]
func (sc *ScheduleController) GetSchedule(c *gin.Context) {
	who := services.ParseEmailSelector(c.Query("email"))

	views, err := sc.scheduleService.FetchByDate(c.Request.Context(), who, c.Query("date"))
	if err != nil {
		respondError(c, err, "Failed to fetch")
		return
	}
	if len(views) == 0 {
		respondError(c, services.ErrScheduleNotFound, "")
		return
	}

	out := make([]scheduleResponse, 0, len(views))
	for _, v := range views {
		out = append(out, newScheduleResponse(v.Email, v.Date, v.Status, v.TimeRange, v.Reason, v.ImageURL))
	}
	c.JSON(http.StatusOK, gin.H{"schedules": out})
}

// RequestLeave godoc
// @Summary Request leave
// @Description Marks the day pending, creating the schedule row when there is none
// @Tags leave
// @Accept json
// @Produce json
// @Param leave body requestLeaveRequest true "Leave request"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Router /api/request-leave [post]
func (sc *ScheduleController) RequestLeave(c *gin.Context) {
	var req requestLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	err := sc.scheduleService.RequestLeave(c.Request.Context(), services.LeaveRequest{
		Email:     req.Email,
		Date:      req.Date,
		TimeRange: req.TimeRange,
		Reason:    req.Reason,
	})
	if err != nil {
		respondError(c, err, "Failed to request leave")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Leave requested", "date": req.Date})
}

// CancelLeave godoc
// @Summary Cancel leave
// @Description Sets the day back to work. Unknown days are ignored.
// @Tags leave
// @Accept json
// @Produce json
// @Param key body scheduleKeyRequest true "Email and date"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Router /api/cancel-leave [post]
func (sc *ScheduleController) CancelLeave(c *gin.Context) {
	var req scheduleKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	if err := sc.scheduleService.CancelLeave(c.Request.Context(), req.Email, req.Date); err != nil {
		respondError(c, err, "Failed to cancel leave")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Leave canceled", "date": req.Date})
}

// ApproveLeave godoc
// @Summary Approve leave
// @Tags leave
// @Accept json
// @Produce json
// @Param key body scheduleKeyRequest true "Email and date"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.APIError
// @Router /api/approve-leave [post]
func (sc *ScheduleController) ApproveLeave(c *gin.Context) {
	var req scheduleKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	if err := sc.scheduleService.ApproveLeave(c.Request.Context(), req.Email, req.Date); err != nil {
		respondError(c, err, "Failed to approve leave")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Leave approved", "date": req.Date})
}

// RejectLeave godoc
// @Summary Reject leave
// @Tags leave
// @Accept json
// @Produce json
// @Param key body scheduleKeyRequest true "Email and date"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.APIError
// @Router /api/reject-leave [post]
func (sc *ScheduleController) RejectLeave(c *gin.Context) {
	var req scheduleKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	if err := sc.scheduleService.RejectLeave(c.Request.Context(), req.Email, req.Date); err != nil {
		respondError(c, err, "Failed to reject leave")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Leave rejected", "date": req.Date})
}

// UpdateLeaveStatus godoc
// @Summary Decide a leave request
// @Description Moves a pending day to the given status, typically leave or work
// @Tags leave
// @Accept json
// @Produce json
// @Param decision body statusRequest true "Email, date and new status"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /api/update-leave-status [post]
func (sc *ScheduleController) UpdateLeaveStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	if err := sc.scheduleService.UpdateLeaveStatus(c.Request.Context(), req.Email, req.Date, req.Status); err != nil {
		respondError(c, err, "Failed to update status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Status updated to '%s'", req.Status), "date": req.Date})
}

// CheckIn godoc
// @Summary Check in
// @Description Marks a work day as attended. May be restricted to the day's time range.
// @Tags schedules
// @Accept json
// @Produce json
// @Param checkin body statusRequest true "Email, date and optional status"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /api/checkin [post]
func (sc *ScheduleController) CheckIn(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	status, err := sc.scheduleService.CheckIn(c.Request.Context(), req.Email, req.Date, req.Status)
	if err != nil {
		respondError(c, err, "Server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Check-in successful: %s", status), "date": req.Date})
}

// AddSchedule godoc
// @Summary Add a schedule row
// @Tags schedules
// @Accept json
// @Produce json
// @Param schedule body addScheduleRequest true "Schedule row"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Router /api/add-schedule [post]
func (sc *ScheduleController) AddSchedule(c *gin.Context) {
	var req addScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	err := sc.scheduleService.AddSchedule(c.Request.Context(), services.ScheduleInput{
		Email:     req.Email,
		Date:      req.Date,
		TimeRange: req.TimeRange,
		Status:    req.Status,
	})
	if err != nil {
		respondError(c, err, "Failed to add schedule")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Schedule added successfully"})
}

// UpdateSchedule godoc
// @Summary Update a schedule row
// @Description The row is matched on email, oldDate and oldTimeRange
// @Tags schedules
// @Accept json
// @Produce json
// @Param schedule body updateScheduleRequest true "Old key and new values"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /api/update-schedule [post]
func (sc *ScheduleController) UpdateSchedule(c *gin.Context) {
	var req updateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	err := sc.scheduleService.UpdateSchedule(c.Request.Context(), services.ScheduleChange{
		Email:        req.Email,
		OldDate:      req.OldDate,
		OldTimeRange: req.OldTimeRange,
		Date:         req.Date,
		TimeRange:    req.TimeRange,
		Status:       req.Status,
	})
	if err != nil {
		respondError(c, err, "Failed to update schedule")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Schedule updated"})
}
