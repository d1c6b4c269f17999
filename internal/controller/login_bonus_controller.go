package controller

import (
	"time"

	"study_rewards_backend/internal/service"
	"study_rewards_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LoginBonusController struct {
	StreakService *service.StreakService
}

func NewLoginBonusController(streakService *service.StreakService) *LoginBonusController {
	return &LoginBonusController{StreakService: streakService}
}

// @Summary 领取登录奖励
// @Description 记录今日登录并更新连续登录天数，同一服务日只发放一次
// @Tags 奖励
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.LoginBonusResult}
// @Router /api/login-bonus [post]
func (c *LoginBonusController) Claim(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.StreakService.RecordLogin(ctx.Request.Context(), user.UserID, time.Now())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 连续登录状态
// @Tags 奖励
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.StreakStatus}
// @Router /api/login-bonus [get]
func (c *LoginBonusController) Status(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	status, err := c.StreakService.Status(ctx.Request.Context(), user.UserID, time.Now())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, status)
}
