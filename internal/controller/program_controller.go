package controller

import (
	"errors"
	"strconv"
	"teamwelly_backend/internal/model"
	"teamwelly_backend/internal/service"
	"teamwelly_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgramController struct {
	ProgramService  *service.ProgramService
	UserService     *service.UserService
	BehaviorService *service.BehaviorService
	ProgressService *service.ProgressService
}

func NewProgramController(
	programService *service.ProgramService,
	userService *service.UserService,
	behaviorService *service.BehaviorService,
	progressService *service.ProgressService,
) *ProgramController {
	return &ProgramController{
		ProgramService:  programService,
		UserService:     userService,
		BehaviorService: behaviorService,
		ProgressService: progressService,
	}
}

// List godoc
// @Summary 获取项目列表
// @Description 按分类和难度筛选健康项目
// @Tags 项目
// @Produce  json
// @Security ApiKeyAuth
// @Param   category query string false "分类" Enums(stretch_mobility, breath_stress, mindset_growth)
// @Param   level query string false "难度"
// @Success 200 {object} util.Response{data=[]model.Program} "成功"
// @Router /api/programs [get]
func (c *ProgramController) List(ctx *gin.Context) {
	category := ctx.Query("category")
	level := ctx.Query("level")

	programs, err := c.ProgramService.List(ctx.Request.Context(), category, level)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, programs)
}

// Get godoc
// @Summary 获取项目详情
// @Tags 项目
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "项目ID"
// @Success 200 {object} util.Response{data=model.Program} "成功"
// @Failure 404 {object} util.Response "项目不存在"
// @Router /api/programs/{id} [get]
func (c *ProgramController) Get(ctx *gin.Context) {
	program, err := c.ProgramService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrProgramNotFound) {
			util.NotFound(ctx, "program not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, program)
}

// Start godoc
// @Summary 开始项目
// @Description 记录开始项目的行为事件
// @Tags 项目
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "项目ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "项目不存在"
// @Router /api/programs/{id}/start [post]
func (c *ProgramController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	program, err := c.ProgramService.Get(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx, "program not found")
		return
	}

	event := c.BehaviorService.Track(claims.UserID, model.ActionStartProgram, "programs", map[string]interface{}{
		"program_id": program.ID,
		"category":   program.Category,
	}, "")

	util.Success(ctx, gin.H{"pointsEarned": event.PointsEarned})
}

// Complete godoc
// @Summary 完成项目
// @Description 记录完成项目的行为事件并累计积分
// @Tags 项目
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "项目ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "项目不存在"
// @Router /api/programs/{id}/complete [post]
func (c *ProgramController) Complete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	program, err := c.ProgramService.Get(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx, "program not found")
		return
	}

	event := c.BehaviorService.Track(claims.UserID, model.ActionCompleteProgram, "programs", map[string]interface{}{
		"program_id": program.ID,
		"category":   program.Category,
	}, "")

	progress := c.ProgressService.GetProgress(claims.UserID)
	util.Success(ctx, gin.H{
		"pointsEarned":      event.PointsEarned,
		"wellyPoints":       progress.WellyPoints,
		"completedPrograms": len(progress.CompletedPrograms),
	})
}

// Bookmark godoc
// @Summary 收藏项目
// @Tags 项目
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "项目ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/programs/{id}/bookmark [post]
func (c *ProgramController) Bookmark(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	programID := ctx.Param("id")
	c.ProgressService.BookmarkProgram(claims.UserID, programID)
	c.BehaviorService.Track(claims.UserID, model.ActionBookmarkProgram, "programs", map[string]interface{}{
		"program_id": programID,
	}, "")

	util.Success(ctx, gin.H{"bookmarked": true})
}

// Unbookmark godoc
// @Summary 取消收藏项目
// @Tags 项目
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "项目ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/programs/{id}/bookmark [delete]
func (c *ProgramController) Unbookmark(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	c.ProgressService.UnbookmarkProgram(claims.UserID, ctx.Param("id"))
	util.Success(ctx, gin.H{"bookmarked": false})
}

// CategoryStats godoc
// @Summary 分类统计
// @Description 各分类下的项目数量
// @Tags 项目
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.CategoryStats} "成功"
// @Router /api/programs/categories [get]
func (c *ProgramController) CategoryStats(ctx *gin.Context) {
	stats, err := c.ProgramService.CategoryStats()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}

// Recommendations godoc
// @Summary 推荐项目
// @Description 根据用户目标推荐未完成的项目
// @Tags 项目
// @Produce  json
// @Security ApiKeyAuth
// @Param   limit query int false "数量上限" default(5)
// @Success 200 {object} util.Response{data=[]model.Program} "成功"
// @Router /api/programs/recommended [get]
func (c *ProgramController) Recommendations(ctx *gin.Context) {
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

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "5"))
	programs, err := c.ProgramService.Recommend(ctx.Request.Context(), user, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, programs)
}

// ProgramRequest 创建/更新项目的字段
type ProgramRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	Category     string   `json:"category" binding:"required,oneof=stretch_mobility breath_stress mindset_growth"`
	Level        string   `json:"level"`
	Duration     int      `json:"duration"`
	Instructions []string `json:"instructions"`
	Benefits     []string `json:"benefits"`
}

// CreateProgram godoc
// @Summary 创建项目
// @Tags 项目
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ProgramRequest true "项目信息"
// @Success 201 {object} util.Response{data=model.Program} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/admin/programs [post]
func (c *ProgramController) CreateProgram(ctx *gin.Context) {
	var req ProgramRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	program := &model.Program{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Level:        req.Level,
		Duration:     req.Duration,
		Instructions: req.Instructions,
		Benefits:     req.Benefits,
	}

	if err := c.ProgramService.Create(ctx.Request.Context(), program); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, program)
}

// UpdateProgram godoc
// @Summary 更新项目
// @Tags 项目
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "项目ID"
// @Param   body body ProgramRequest true "项目信息"
// @Success 200 {object} util.Response{data=model.Program} "成功"
// @Failure 404 {object} util.Response "项目不存在"
// @Router /api/admin/programs/{id} [put]
func (c *ProgramController) UpdateProgram(ctx *gin.Context) {
	program, err := c.ProgramService.Get(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx, "program not found")
		return
	}

	var req ProgramRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	program.Title = req.Title
	program.Description = req.Description
	program.Category = req.Category
	program.Level = req.Level
	program.Duration = req.Duration
	program.Instructions = req.Instructions
	program.Benefits = req.Benefits

	if err := c.ProgramService.Update(ctx.Request.Context(), program); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, program)
}

// UploadVideo godoc
// @Summary 上传项目视频
// @Description 管理员上传项目演示视频，自动生成缩略图
// @Tags 项目
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "项目ID"
// @Param   file formData file true "视频文件"
// @Success 200 {object} util.Response{data=model.Program} "成功"
// @Failure 400 {object} util.Response "文件类型不支持"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/admin/programs/{id}/video [post]
func (c *ProgramController) UploadVideo(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	program, err := c.ProgramService.AttachVideo(ctx.Request.Context(), ctx.Param("id"), file)
	if err != nil {
		if errors.Is(err, util.ErrProgramNotFound) {
			util.NotFound(ctx, "program not found")
		} else {
			util.Error(ctx, 400, err.Error())
		}
		return
	}

	util.Success(ctx, program)
}
