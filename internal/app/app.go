package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"study_rewards_backend/internal/config"
	"study_rewards_backend/internal/controller"
	"study_rewards_backend/internal/repository"
	"study_rewards_backend/internal/service"
	"study_rewards_backend/internal/util"
	"study_rewards_backend/pkg/configwatcher"
	"study_rewards_backend/pkg/database"
	"study_rewards_backend/pkg/logger"
	"study_rewards_backend/pkg/monitoring"
	"study_rewards_backend/pkg/security"
	"study_rewards_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const catalogCacheSize = 16

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	Policy          *config.PolicyStore
	limiter         *security.Limiter
	tracer          *sdktrace.TracerProvider
	services        *services
	configCallbacks []func(*config.Config)
	stop            chan struct{}
}

type repositories struct {
	ledger  *repository.LedgerRepository
	streak  *repository.StreakRepository
	mission *repository.MissionRepository
	catalog *repository.CatalogRepository
	quest   *repository.QuestRepository
	prize   *repository.PrizeRepository
}

type services struct {
	issuer   *service.RewardIssuer
	notifier service.RewardNotifier
	catalog  *service.CatalogCache
	streak   *service.StreakService
	mission  *service.DailyMissionService
	quest    *service.QuestService
	lottery  *service.LotteryService
}

type controllers struct {
	health     *controller.HealthController
	loginBonus *controller.LoginBonusController
	mission    *controller.DailyMissionController
	quest      *controller.QuestController
	lottery    *controller.LotteryController
	points     *controller.PointsController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		ledger:  repository.NewLedgerRepository(db),
		streak:  repository.NewStreakRepository(db),
		mission: repository.NewMissionRepository(db),
		catalog: repository.NewCatalogRepository(db),
		quest:   repository.NewQuestRepository(db),
		prize:   repository.NewPrizeRepository(db),
	}
}

func (a *App) initServices(repos *repositories, db *gorm.DB, rdb *redis.Client, random util.RandomSource) *services {
	s := &services{}

	if rdb != nil {
		s.notifier = service.NewRedisRewardNotifier(rdb, a.Config.Redis.Channel)
	} else {
		s.notifier = service.LogRewardNotifier{}
	}

	s.issuer = service.NewRewardIssuer(db, repos.ledger)
	s.catalog = service.NewCatalogCache(repos.catalog, catalogCacheSize)
	s.streak = service.NewStreakService(db, repos.streak, s.issuer, a.Policy, s.notifier)
	s.mission = service.NewDailyMissionService(db, repos.mission, s.catalog, s.issuer, a.Policy, random, s.notifier)
	s.quest = service.NewQuestService(db, repos.quest, s.issuer, a.Policy, s.notifier)
	s.lottery = service.NewLotteryService(db, repos.prize, s.issuer, a.Policy, random, s.notifier)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		health:     controller.NewHealthController(db, rdb),
		loginBonus: controller.NewLoginBonusController(s.streak),
		mission:    controller.NewDailyMissionController(s.mission),
		quest:      controller.NewQuestController(s.quest),
		lottery:    controller.NewLotteryController(s.lottery),
		points:     controller.NewPointsController(s.issuer),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(a.limiter, security.ClientIPKey))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New 用已打开的存储组装应用，random 为 nil 时使用运行时随机源
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, random util.RandomSource) (*App, error) {
	if random == nil {
		random = util.NewRuntimeRandom()
	}
	if err := controller.RegisterValidators(); err != nil {
		return nil, err
	}

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	app := &App{
		Config:  cfg,
		DB:      db,
		Redis:   rdb,
		Policy:  config.NewPolicyStore(cfg.Rewards),
		limiter: security.NewLimiter(cfg.RateLimit.MaxRequests, window),
		stop:    make(chan struct{}),
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, db, rdb, random)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	app.RegisterConfigCallback(func(next *config.Config) {
		if err := app.Policy.Update(next.Rewards); err != nil {
			logger.Log.Error("rejected rewards policy reload", zap.Error(err))
			return
		}
		services.catalog.Invalidate()
		logger.Log.Info("rewards policy reloaded",
			zap.Int64("lottery_cost", next.Rewards.LotteryCost),
			zap.Bool("lottery", next.Rewards.Features.Lottery),
			zap.Bool("daily_mission", next.Rewards.Features.DailyMission))
	})

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	return app, nil
}

func NewApp(cfg *config.Config) *App {
	if err := logger.InitLogger(cfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	migrate := cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode
	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	// 监控初始化
	monitoring.Init()

	app, err := New(cfg, db, rdb, nil)
	if err != nil {
		logger.Log.Fatal("Failed to assemble application", zap.Error(err))
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

func (a *App) startBackgroundTasks() {
	go a.limiter.RunSweeper(a.stop)

	if a.Config.ConfigPath != "" {
		go configwatcher.WatchConfig(a.Config.ConfigPath, func(next *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(next)
			}
		}, a.stop)
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	a.startBackgroundTasks()

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	close(a.stop)
	a.Close(ctx)

	logger.Log.Info("Server exiting")
}

// Close 释放追踪、Redis 与数据库连接
func (a *App) Close(ctx context.Context) {
	if !service.WaitNotifications(2 * time.Second) {
		logger.Log.Warn("Reward notifications still pending at shutdown")
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Warn("Failed to close redis", zap.Error(err))
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
