package controller

import (
	"errors"
	"teamwelly_backend/internal/model"
	"teamwelly_backend/internal/service"
	"teamwelly_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BookingController struct {
	BookingService  *service.BookingService
	BehaviorService *service.BehaviorService
}

func NewBookingController(bookingService *service.BookingService, behaviorService *service.BehaviorService) *BookingController {
	return &BookingController{
		BookingService:  bookingService,
		BehaviorService: behaviorService,
	}
}

// Create godoc
// @Summary 预约教练课程
// @Description 创建一条教练预约并记录行为事件
// @Tags 预约
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.CreateBookingInput true "预约信息"
// @Success 201 {object} util.Response{data=model.Booking} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/bookings [post]
func (c *BookingController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.CreateBookingInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	booking, err := c.BookingService.Create(claims.UserID, input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	c.BehaviorService.Track(claims.UserID, model.ActionBookSession, "bookings", map[string]interface{}{
		"coach_id":     booking.CoachID,
		"session_type": booking.SessionType,
	}, "")

	util.Created(ctx, booking)
}

// List godoc
// @Summary 获取我的预约
// @Tags 预约
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Booking} "成功"
// @Router /api/bookings [get]
func (c *BookingController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	bookings, err := c.BookingService.ListByUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, bookings)
}

// Cancel godoc
// @Summary 取消预约
// @Description 只能取消本人的预约
// @Tags 预约
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "预约ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "预约不存在"
// @Router /api/bookings/{id} [delete]
func (c *BookingController) Cancel(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	bookingID := util.MustParseUint(ctx.Param("id"))
	if err := c.BookingService.Cancel(claims.UserID, bookingID); err != nil {
		if errors.Is(err, util.ErrBookingNotFound) {
			util.NotFound(ctx, "booking not found")
		} else if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"cancelled": true})
}
