package controller

import (
	"errors"
	"io"
	"teamwelly_backend/internal/service"
	"teamwelly_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	PaymentService *service.PaymentService
}

func NewPaymentController(paymentService *service.PaymentService) *PaymentController {
	return &PaymentController{PaymentService: paymentService}
}

// Packages godoc
// @Summary 获取套餐列表
// @Description 可购买的订阅套餐及价格
// @Tags 支付
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.WellnessPackage} "成功"
// @Router /api/payments/packages [get]
func (c *PaymentController) Packages(ctx *gin.Context) {
	util.Success(ctx, c.PaymentService.Packages())
}

// CheckoutRequest 发起结算请求
type CheckoutRequest struct {
	PackageID string `json:"packageId" binding:"required"`
}

// CreateCheckoutSession godoc
// @Summary 创建支付会话
// @Description 创建 Stripe Checkout 会话并返回跳转地址
// @Tags 支付
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CheckoutRequest true "套餐ID"
// @Success 200 {object} util.Response{data=service.CheckoutSessionResult} "成功"
// @Failure 400 {object} util.Response "套餐不存在"
// @Router /api/payments/checkout [post]
func (c *PaymentController) CreateCheckoutSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.PaymentService.CreateCheckoutSession(claims.UserID, req.PackageID)
	if err != nil {
		if errors.Is(err, util.ErrPackageNotFound) {
			util.BadRequest(ctx, "unknown package: "+req.PackageID)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// CheckoutStatus godoc
// @Summary 查询支付会话状态
// @Description 向 Stripe 查询会话状态，已支付则升级套餐
// @Tags 支付
// @Produce  json
// @Security ApiKeyAuth
// @Param   sessionId path string true "会话ID"
// @Success 200 {object} util.Response{data=service.CheckoutStatus} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/payments/checkout/{sessionId} [get]
func (c *PaymentController) CheckoutStatus(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	status, err := c.PaymentService.GetCheckoutStatus(claims.UserID, ctx.Param("sessionId"))
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx, "checkout session not found")
		} else if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, status)
}

// Webhook godoc
// @Summary Stripe 回调
// @Description 校验签名后处理 checkout.session.completed 事件
// @Tags 支付
// @Accept  json
// @Produce  json
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "签名校验失败"
// @Router /api/payments/webhook [post]
func (c *PaymentController) Webhook(ctx *gin.Context) {
	payload, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		util.BadRequest(ctx, "failed to read request body")
		return
	}

	signature := ctx.GetHeader("Stripe-Signature")
	if err := c.PaymentService.HandleWebhook(payload, signature); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, gin.H{"received": true})
}

// History godoc
// @Summary 支付记录
// @Tags 支付
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.PaymentTransaction} "成功"
// @Router /api/payments/history [get]
func (c *PaymentController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	history, err := c.PaymentService.History(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, history)
}
