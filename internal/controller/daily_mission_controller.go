package controller

import (
	"time"

	"study_rewards_backend/internal/service"
	"study_rewards_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DailyMissionController struct {
	MissionService *service.DailyMissionService
}

func NewDailyMissionController(missionService *service.DailyMissionService) *DailyMissionController {
	return &DailyMissionController{MissionService: missionService}
}

// @Summary 获取今日任务
// @Description 当天第一次请求时分配任务，之后返回同一条
// @Tags 每日任务
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.DailyMission}
// @Router /api/daily-mission [get]
func (c *DailyMissionController) GetToday(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	mission, err := c.MissionService.Allocate(ctx.Request.Context(), user.UserID, time.Now())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, mission)
}

// @Summary 完成今日任务
// @Tags 每日任务
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CompleteMissionRequest true "任务ID与用时"
// @Success 200 {object} util.Response{data=service.MissionCompletion}
// @Router /api/daily-mission/complete [post]
func (c *DailyMissionController) Complete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CompleteMissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.MissionService.Complete(ctx.Request.Context(), user.UserID, req.MissionID, *req.ElapsedSeconds, time.Now())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
