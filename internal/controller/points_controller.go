package controller

import (
	"study_rewards_backend/internal/service"
	"study_rewards_backend/internal/util"
	"study_rewards_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PointsController struct {
	Issuer *service.RewardIssuer
}

func NewPointsController(issuer *service.RewardIssuer) *PointsController {
	return &PointsController{Issuer: issuer}
}

// @Summary 我的积分
// @Description 当前余额与积分流水
// @Tags 积分
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=service.PointsSummary}
// @Router /api/points [get]
func (c *PointsController) Summary(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := util.ParsePage(ctx.Query("page"), ctx.Query("limit"))
	summary, err := c.Issuer.Summary(ctx.Request.Context(), user.UserID, page, limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// @Summary 调整用户积分
// @Description 管理员手动发放或扣除积分，相同请求键只生效一次
// @Tags 积分
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.AdminGrantRequest true "调整内容"
// @Success 200 {object} util.Response{data=service.IssueResult}
// @Router /api/admin/points/grant [post]
func (c *PointsController) AdminGrant(ctx *gin.Context) {
	var req service.AdminGrantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Issuer.AdminGrant(ctx.Request.Context(), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	admin := util.GetUserFromContext(ctx)
	if admin != nil && result.Applied {
		logger.Log.Info("admin points grant",
			zap.Uint("admin_id", admin.UserID),
			zap.Uint("user_id", req.UserID),
			zap.Int64("delta", req.Delta))
	}
	util.Success(ctx, result)
}
