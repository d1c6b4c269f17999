package controller

import (
	"study_rewards_backend/internal/service"
	"study_rewards_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type LotteryController struct {
	LotteryService *service.LotteryService
}

func NewLotteryController(lotteryService *service.LotteryService) *LotteryController {
	return &LotteryController{LotteryService: lotteryService}
}

// @Summary 抽奖页信息
// @Description 抽奖消耗、当前余额、是否可抽以及奖品库存
// @Tags 抽奖
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.LotteryOverview}
// @Router /api/lottery [get]
func (c *LotteryController) Overview(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	overview, err := c.LotteryService.Overview(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

// @Summary 抽奖
// @Description 扣除积分抽取一个奖品；带 Idempotency-Key 的重试返回已提交的结果
// @Tags 抽奖
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "客户端请求键"
// @Success 200 {object} util.Response{data=service.DrawResult}
// @Failure 402 {object} util.Response{data=service.DrawResult}
// @Failure 409 {object} util.Response
// @Router /api/lottery/draw [post]
func (c *LotteryController) Draw(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.LotteryService.Draw(ctx.Request.Context(), user.UserID, ctx.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		if result != nil {
			util.RespondErrorWithData(ctx, err, result)
			return
		}
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 抽奖记录
// @Tags 抽奖
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/lottery/draws [get]
func (c *LotteryController) History(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := util.ParsePage(ctx.Query("page"), ctx.Query("limit"))
	draws, err := c.LotteryService.History(ctx.Request.Context(), user.UserID, page, limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, draws)
}

// @Summary 调整奖品库存
// @Description 直接修改库存、权重与上架状态（管理员权限）
// @Tags 抽奖
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "奖品ID"
// @Param body body service.PrizeUpdate true "要修改的字段"
// @Success 200 {object} util.Response{data=model.Prize}
// @Router /api/lottery/prizes/{id} [put]
func (c *LotteryController) UpdatePrize(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid prize id")
		return
	}

	var req service.PrizeUpdate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	prize, err := c.LotteryService.UpdatePrizeStock(ctx.Request.Context(), id, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, prize)
}
