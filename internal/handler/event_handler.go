package handler

import (
	"github.com/gin-gonic/gin"

	"unisocial_server/internal/dto/request"
	"unisocial_server/internal/service"
)

// EventHandler 社团活动请求处理器
type EventHandler struct {
	eventSvc service.EventService
}

// NewEventHandler 创建活动处理器实例
func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

// Create 发布活动
// POST /club/event/create
func (h *EventHandler) Create(c *gin.Context) {
	var req request.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.eventSvc.CreateEvent(c.Request.Context(), currentUserId(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Update 修改活动
// POST /club/event/update
func (h *EventHandler) Update(c *gin.Context) {
	var req request.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.eventSvc.UpdateEvent(c.Request.Context(), currentUserId(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Delete 删除活动
// POST /club/event/delete
func (h *EventHandler) Delete(c *gin.Context) {
	var req request.EventIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.eventSvc.DeleteEvent(c.Request.Context(), currentUserId(c), req.EventId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// Get 活动详情
// GET /club/event/get?event_id=xxx
func (h *EventHandler) Get(c *gin.Context) {
	var req request.EventIdRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.eventSvc.GetEvent(c.Request.Context(), req.EventId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListByClub 社团的全部活动
// GET /club/event/list?club_id=xxx
func (h *EventHandler) ListByClub(c *gin.Context) {
	var req request.ClubIdRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.eventSvc.ListClubEvents(c.Request.Context(), req.ClubId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Upcoming 尚未结束的活动
// GET /club/event/upcoming
func (h *EventHandler) Upcoming(c *gin.Context) {
	data, err := h.eventSvc.ListUpcomingEvents(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ByMonth 按月查询活动
// GET /club/event/month?year=2026&month=3
func (h *EventHandler) ByMonth(c *gin.Context) {
	var req request.EventMonthRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.eventSvc.ListEventsByMonth(c.Request.Context(), req.Year, req.Month)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
