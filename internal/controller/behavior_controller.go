package controller

import (
	"strconv"
	"teamwelly_backend/internal/service"
	"teamwelly_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BehaviorController struct {
	BehaviorService *service.BehaviorService
	ProgressService *service.ProgressService
}

func NewBehaviorController(behaviorService *service.BehaviorService, progressService *service.ProgressService) *BehaviorController {
	return &BehaviorController{
		BehaviorService: behaviorService,
		ProgressService: progressService,
	}
}

// TrackRequest 行为上报。action 为任意字符串，未知动作只记录不加分。
type TrackRequest struct {
	Action    string                 `json:"action" binding:"required"`
	Page      string                 `json:"page"`
	Details   map[string]interface{} `json:"details"`
	SessionID string                 `json:"sessionId"`
}

// Track godoc
// @Summary 上报行为事件
// @Description 追加一条行为事件并按策略表结算积分
// @Tags 行为
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body TrackRequest true "行为数据"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/behavior/track [post]
func (c *BehaviorController) Track(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req TrackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	event := c.BehaviorService.Track(claims.UserID, req.Action, req.Page, req.Details, req.SessionID)
	progress := c.ProgressService.GetProgress(claims.UserID)

	util.Success(ctx, gin.H{
		"eventId":       event.ID,
		"pointsEarned":  event.PointsEarned,
		"wellyPoints":   progress.WellyPoints,
		"currentStreak": progress.CurrentStreak,
	})
}

// Events godoc
// @Summary 最近行为事件
// @Description 返回窗口内最近的行为事件，按时间倒序
// @Tags 行为
// @Produce  json
// @Security ApiKeyAuth
// @Param   days query int false "时间窗口（天）" default(7)
// @Param   limit query int false "数量上限" default(50)
// @Success 200 {object} util.Response{data=[]model.BehaviorEvent} "成功"
// @Router /api/behavior/events [get]
func (c *BehaviorController) Events(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	days, _ := strconv.Atoi(ctx.DefaultQuery("days", "7"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	util.Success(ctx, c.BehaviorService.GetRecentEvents(claims.UserID, days, limit))
}

// Progress godoc
// @Summary 用户积分账本
// @Description 当前积分、连续打卡和完成清单
// @Tags 行为
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.UserProgress} "成功"
// @Router /api/behavior/progress [get]
func (c *BehaviorController) Progress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, c.ProgressService.GetProgress(claims.UserID))
}
