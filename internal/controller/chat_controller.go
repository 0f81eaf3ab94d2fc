package controller

import (
	"fmt"
	"io"
	"teamwelly_backend/internal/service"
	"teamwelly_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	ChatService *service.ChatService
}

func NewChatController(chatService *service.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

// ChatRequest 对话请求
type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"sessionId"`
}

// Chat godoc
// @Summary 与 Welly 对话
// @Description 带用户画像上下文调用 AI 助手，保存对话记录并计入行为积分
// @Tags 对话
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ChatRequest true "消息内容，sessionId 为空时开启新会话"
// @Success 200 {object} util.Response{data=service.ChatResult} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 500 {object} util.Response "AI 服务不可用"
// @Router /api/chat [post]
func (c *ChatController) Chat(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ChatService.Chat(claims.UserID, req.Message, req.SessionID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// ChatStream godoc
// @Summary 与 Welly 流式对话
// @Description SSE 逐段返回 AI 回复，结束时发送 done 事件
// @Tags 对话
// @Accept  json
// @Produce  text/event-stream
// @Security ApiKeyAuth
// @Param   body body ChatRequest true "消息内容，sessionId 为空时开启新会话"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/chat/stream [post]
func (c *ChatController) ChatStream(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sessionID, chunks, errs, err := c.ChatService.ChatStream(ctx.Request.Context(), claims.UserID, req.Message, req.SessionID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")

	ctx.Stream(func(w io.Writer) bool {
		select {
		case chunk, ok := <-chunks:
			if !ok {
				fmt.Fprintf(w, "event: done\ndata: %s\n\n", sessionID)
				return false
			}
			ctx.SSEvent("message", chunk)
			return true
		case err, ok := <-errs:
			if ok && err != nil {
				ctx.SSEvent("error", err.Error())
			}
			return false
		case <-ctx.Request.Context().Done():
			return false
		}
	})
}

// History godoc
// @Summary 对话历史
// @Description 按会话查询，sessionId 为空时返回最近的记录
// @Tags 对话
// @Produce  json
// @Security ApiKeyAuth
// @Param   sessionId query string false "会话ID"
// @Success 200 {object} util.Response{data=[]model.ChatRecord} "成功"
// @Router /api/chat/history [get]
func (c *ChatController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	records, err := c.ChatService.History(claims.UserID, ctx.Query("sessionId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, records)
}
