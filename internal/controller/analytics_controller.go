package controller

import (
	"strconv"
	"teamwelly_backend/internal/service"
	"teamwelly_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService      *service.AnalyticsService
	RecommendationService *service.RecommendationService
	BehaviorService       *service.BehaviorService
	ProgressService       *service.ProgressService
	UserService           *service.UserService
}

func NewAnalyticsController(
	analyticsService *service.AnalyticsService,
	recommendationService *service.RecommendationService,
	behaviorService *service.BehaviorService,
	progressService *service.ProgressService,
	userService *service.UserService,
) *AnalyticsController {
	return &AnalyticsController{
		AnalyticsService:      analyticsService,
		RecommendationService: recommendationService,
		BehaviorService:       behaviorService,
		ProgressService:       progressService,
		UserService:           userService,
	}
}

// UserAnalytics godoc
// @Summary 用户综合分析
// @Description 近30天的活跃概览和参与度评级
// @Tags 分析
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.UserAnalytics} "成功"
// @Router /api/analytics/user [get]
func (c *AnalyticsController) UserAnalytics(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, c.AnalyticsService.GetUserAnalytics(claims.UserID))
}

// BehaviorAnalytics godoc
// @Summary 行为分析
// @Description 窗口内的动作分布、页面热度和参与趋势
// @Tags 分析
// @Produce  json
// @Security ApiKeyAuth
// @Param   days query int false "时间窗口（天）" default(7)
// @Success 200 {object} util.Response{data=model.BehaviorAnalytics} "成功"
// @Router /api/analytics/behavior [get]
func (c *AnalyticsController) BehaviorAnalytics(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	days, _ := strconv.Atoi(ctx.DefaultQuery("days", "7"))
	util.Success(ctx, c.AnalyticsService.GetBehaviorAnalytics(claims.UserID, days))
}

// ProgressAnalytics godoc
// @Summary 进度分析
// @Description 积分、完成率和进度阶段
// @Tags 分析
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.ProgressAnalytics} "成功"
// @Router /api/analytics/progress [get]
func (c *AnalyticsController) ProgressAnalytics(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, c.AnalyticsService.GetProgressAnalytics(claims.UserID))
}

// WellnessScore godoc
// @Summary 健康综合评分
// @Description 参与、坚持、进度、多样性四项的加权总分和改进建议
// @Tags 分析
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.WellnessScore} "成功"
// @Router /api/analytics/wellness-score [get]
func (c *AnalyticsController) WellnessScore(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, c.AnalyticsService.GetWellnessScore(claims.UserID))
}

// Insights godoc
// @Summary 用户洞察
// @Description 活跃时段偏好、最常用页面和坚持度
// @Tags 分析
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.UserInsights} "成功"
// @Router /api/analytics/insights [get]
func (c *AnalyticsController) Insights(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, c.AnalyticsService.GetInsights(claims.UserID))
}

// Recommendations godoc
// @Summary 个性化建议
// @Description 根据目标、打卡和近期行为生成的行动建议
// @Tags 分析
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/analytics/recommendations [get]
func (c *AnalyticsController) Recommendations(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	user, err := c.UserService.GetByID(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	progress := c.ProgressService.GetProgress(claims.UserID)
	events := c.BehaviorService.EventsSince(claims.UserID, 7)

	util.Success(ctx, gin.H{
		"general":  c.RecommendationService.General(user, progress, events),
		"behavior": c.RecommendationService.FromBehavior(progress, events),
	})
}
