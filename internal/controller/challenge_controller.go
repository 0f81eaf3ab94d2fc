package controller

import (
	"errors"
	"teamwelly_backend/internal/model"
	"teamwelly_backend/internal/service"
	"teamwelly_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChallengeController struct {
	ChallengeService *service.ChallengeService
	BehaviorService  *service.BehaviorService
	ProgressService  *service.ProgressService
}

func NewChallengeController(
	challengeService *service.ChallengeService,
	behaviorService *service.BehaviorService,
	progressService *service.ProgressService,
) *ChallengeController {
	return &ChallengeController{
		ChallengeService: challengeService,
		BehaviorService:  behaviorService,
		ProgressService:  progressService,
	}
}

// List godoc
// @Summary 获取挑战列表
// @Description 按类型筛选挑战，带当前用户完成状态
// @Tags 挑战
// @Produce  json
// @Security ApiKeyAuth
// @Param   type query string false "类型" Enums(daily, weekly)
// @Success 200 {object} util.Response{data=[]service.ChallengeWithStatus} "成功"
// @Router /api/challenges [get]
func (c *ChallengeController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	challenges, err := c.ChallengeService.List(claims.UserID, ctx.Query("type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, challenges)
}

// Complete godoc
// @Summary 完成挑战
// @Description 记录完成挑战的行为事件，按挑战定义的分值计分
// @Tags 挑战
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "挑战ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "挑战不存在"
// @Router /api/challenges/{id}/complete [post]
func (c *ChallengeController) Complete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	challenge, err := c.ChallengeService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrChallengeNotFound) {
			util.NotFound(ctx, "challenge not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	event := c.BehaviorService.Track(claims.UserID, model.ActionCompleteChallenge, "challenges", map[string]interface{}{
		"challenge_id":     challenge.ID,
		"challenge_points": challenge.Points,
	}, "")

	progress := c.ProgressService.GetProgress(claims.UserID)
	util.Success(ctx, gin.H{
		"pointsEarned":  event.PointsEarned,
		"wellyPoints":   progress.WellyPoints,
		"currentStreak": progress.CurrentStreak,
	})
}
