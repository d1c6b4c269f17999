package app

import (
	"study_rewards_backend/docs"
	"study_rewards_backend/internal/config"
	"study_rewards_backend/internal/middleware"
	"study_rewards_backend/internal/model"
	"study_rewards_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.Use(middleware.RequestID())

	// 接口路径已包含 /api 前缀
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	router.GET("/api/health", c.health.HealthCheck)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.PolicyMiddleware(a.Policy))
	{
		a.registerStudentRoutes(authGroup, c)

		// 3. 管理员相关接口
		admin := authGroup.Group("")
		admin.Use(middleware.RoleMiddleware(model.Admin))
		a.registerAdminRoutes(admin, c)
	}
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	// 登录奖励
	group.POST("/login-bonus", c.loginBonus.Claim)
	group.GET("/login-bonus", c.loginBonus.Status)

	// 每日任务
	group.GET("/daily-mission", c.mission.GetToday)
	group.POST("/daily-mission/complete", c.mission.Complete)

	// 挑战任务
	group.GET("/quests", c.quest.List)
	group.GET("/quests/:id", c.quest.Get)
	group.POST("/quests/:id/submit", c.quest.Submit)
	group.GET("/quests/:id/results", c.quest.Results)

	// 抽奖
	group.GET("/lottery", c.lottery.Overview)
	group.POST("/lottery/draw", c.lottery.Draw)
	group.GET("/lottery/draws", c.lottery.History)

	group.GET("/points", c.points.Summary)
}

func (a *App) registerAdminRoutes(group *gin.RouterGroup, c *controllers) {
	group.PUT("/lottery/prizes/:id", c.lottery.UpdatePrize)
	group.POST("/admin/points/grant", c.points.AdminGrant)
}
