package controller

import (
	"errors"
	"teamwelly_backend/internal/model"
	"teamwelly_backend/internal/service"
	"teamwelly_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type OAuthController struct {
	OAuthService    *service.OAuthService
	AuthService     *service.AuthService
	BehaviorService *service.BehaviorService
}

func NewOAuthController(oauthService *service.OAuthService, authService *service.AuthService, behaviorService *service.BehaviorService) *OAuthController {
	return &OAuthController{
		OAuthService:    oauthService,
		AuthService:     authService,
		BehaviorService: behaviorService,
	}
}

// Authorize godoc
// @Summary 发起第三方登录
// @Description 重定向到对应提供商的授权页面
// @Tags 认证
// @Produce  json
// @Param   provider path string true "提供商" Enums(google, apple, twitter)
// @Success 307 "重定向到授权页"
// @Failure 400 {object} util.Response "不支持的提供商"
// @Router /api/auth/{provider} [get]
func (c *OAuthController) Authorize(ctx *gin.Context) {
	provider := ctx.Param("provider")

	url, err := c.OAuthService.AuthURL(provider)
	if err != nil {
		util.BadRequest(ctx, "unsupported oauth provider: "+provider)
		return
	}

	ctx.Redirect(307, url)
}

// Callback godoc
// @Summary 第三方登录回调
// @Description 校验 state 后交换授权码，登录或创建账号并返回JWT
// @Tags 认证
// @Produce  json
// @Param   provider path string true "提供商" Enums(google, apple, twitter)
// @Param   code query string true "授权码"
// @Param   state query string true "防CSRF状态值"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "state 校验失败或授权码无效"
// @Router /api/auth/{provider}/callback [get]
func (c *OAuthController) Callback(ctx *gin.Context) {
	provider := ctx.Param("provider")
	code := ctx.Query("code")
	state := ctx.Query("state")

	if code == "" {
		util.BadRequest(ctx, "missing authorization code")
		return
	}

	user, err := c.OAuthService.HandleCallback(ctx.Request.Context(), provider, code, state)
	if err != nil {
		if errors.Is(err, util.ErrOAuthStateMismatch) {
			util.BadRequest(ctx, "invalid oauth state")
		} else {
			util.Error(ctx, 400, "oauth login failed: "+err.Error())
		}
		return
	}

	token, err := c.AuthService.IssueToken(user)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	c.BehaviorService.Track(user.ID, model.ActionLogin, "login", map[string]interface{}{
		"provider": provider,
	}, "")

	util.Success(ctx, gin.H{
		"token": token,
		"user": gin.H{
			"id":                  user.ID,
			"name":                user.Name,
			"email":               user.Email,
			"plan":                user.Plan,
			"onboardingCompleted": user.OnboardingCompleted,
		},
	})
}
