package controller

import (
	"time"

	"study_rewards_backend/internal/service"
	"study_rewards_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestController struct {
	QuestService *service.QuestService
}

func NewQuestController(questService *service.QuestService) *QuestController {
	return &QuestController{QuestService: questService}
}

func questID(ctx *gin.Context) (uint, bool) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid quest id")
		return 0, false
	}
	return id, true
}

// @Summary 可参加的任务列表
// @Tags 挑战任务
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.QuestSummary}
// @Router /api/quests [get]
func (c *QuestController) List(ctx *gin.Context) {
	quests, err := c.QuestService.ListAvailable(ctx.Request.Context(), time.Now())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, quests)
}

// @Summary 获取任务题目
// @Description 返回题目和选项，不包含正确答案
// @Tags 挑战任务
// @Produce json
// @Security BearerAuth
// @Param id path int true "任务ID"
// @Success 200 {object} util.Response{data=model.Quest}
// @Router /api/quests/{id} [get]
func (c *QuestController) Get(ctx *gin.Context) {
	id, ok := questID(ctx)
	if !ok {
		return
	}

	quest, err := c.QuestService.GetForPlay(ctx.Request.Context(), id, time.Now())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, quest)
}

// @Summary 提交任务答案
// @Tags 挑战任务
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "任务ID"
// @Param body body service.SubmitQuestRequest true "题目ID到选项下标"
// @Success 200 {object} util.Response{data=model.QuestResult}
// @Router /api/quests/{id}/submit [post]
func (c *QuestController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := questID(ctx)
	if !ok {
		return
	}

	var req service.SubmitQuestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuestService.Grade(ctx.Request.Context(), user.UserID, id, req.Answers, time.Now())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 我的提交记录
// @Tags 挑战任务
// @Produce json
// @Security BearerAuth
// @Param id path int true "任务ID"
// @Success 200 {object} util.Response{data=[]model.QuestResult}
// @Router /api/quests/{id}/results [get]
func (c *QuestController) Results(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := questID(ctx)
	if !ok {
		return
	}

	results, err := c.QuestService.ListResults(ctx.Request.Context(), user.UserID, id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, results)
}
