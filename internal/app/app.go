package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"teamwelly_backend/internal/config"
	"teamwelly_backend/internal/controller"
	"teamwelly_backend/internal/repository"
	"teamwelly_backend/internal/service"
	"teamwelly_backend/internal/util"
	"teamwelly_backend/pkg/database"
	"teamwelly_backend/pkg/docstore"
	"teamwelly_backend/pkg/logger"
	"teamwelly_backend/pkg/monitoring"
	"teamwelly_backend/pkg/security"
	"teamwelly_backend/pkg/tracing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	DocStore        *docstore.Store
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user      *repository.UserRepository
	program   *repository.ProgramRepository
	challenge *repository.ChallengeRepository
	booking   *repository.BookingRepository
	payment   *repository.PaymentRepository
	chat      *repository.ChatRepository
	behavior  *repository.BehaviorRepository
	progress  *repository.ProgressRepository
}

type services struct {
	auth           *service.AuthService
	oauth          *service.OAuthService
	user           *service.UserService
	storage        *service.StorageService
	progress       *service.ProgressService
	behavior       *service.BehaviorService
	analytics      *service.AnalyticsService
	recommendation *service.RecommendationService
	program        *service.ProgramService
	challenge      *service.ChallengeService
	booking        *service.BookingService
	payment        *service.PaymentService
	ai             *service.AIService
	chat           *service.ChatService
}

type controllers struct {
	auth      *controller.AuthController
	oauth     *controller.OAuthController
	user      *controller.UserController
	program   *controller.ProgramController
	challenge *controller.ChallengeController
	booking   *controller.BookingController
	payment   *controller.PaymentController
	chat      *controller.ChatController
	behavior  *controller.BehaviorController
	analytics *controller.AnalyticsController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 热加载后把新配置派发给各回调
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB, store *docstore.Store) *repositories {
	return &repositories{
		user:      repository.NewUserRepository(db),
		program:   repository.NewProgramRepository(db),
		challenge: repository.NewChallengeRepository(db),
		booking:   repository.NewBookingRepository(db),
		payment:   repository.NewPaymentRepository(db),
		chat:      repository.NewChatRepository(db),
		behavior:  repository.NewBehaviorRepository(store),
		progress:  repository.NewProgressRepository(store),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.oauth = service.NewOAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)

	s.progress = service.NewProgressService(repos.progress)
	s.behavior = service.NewBehaviorService(repos.behavior, s.progress)
	s.analytics = service.NewAnalyticsService(repos.behavior, s.progress, repos.program)
	s.recommendation = service.NewRecommendationService()

	s.program = service.NewProgramService(repos.program, s.progress, s.storage, rdb, cfg)
	s.challenge = service.NewChallengeService(repos.challenge, s.progress)
	s.booking = service.NewBookingService(repos.booking)
	s.payment = service.NewPaymentService(repos.payment, repos.user, s.behavior, cfg)

	s.ai = service.NewAIService(cfg.AI)
	s.chat = service.NewChatService(s.ai, repos.chat, repos.user, s.progress, s.behavior)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth, s.user, s.behavior),
		oauth:     controller.NewOAuthController(s.oauth, s.auth, s.behavior),
		user:      controller.NewUserController(s.user, s.storage),
		program:   controller.NewProgramController(s.program, s.user, s.behavior, s.progress),
		challenge: controller.NewChallengeController(s.challenge, s.behavior, s.progress),
		booking:   controller.NewBookingController(s.booking, s.behavior),
		payment:   controller.NewPaymentController(s.payment),
		chat:      controller.NewChatController(s.chat),
		behavior:  controller.NewBehaviorController(s.behavior, s.progress),
		analytics: controller.NewAnalyticsController(s.analytics, s.recommendation, s.behavior, s.progress, s.user),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	// 行为流和积分账本走内存文档存储
	store := docstore.New()

	app := &App{
		Config:   cfg,
		DB:       db,
		Redis:    rdb,
		DocStore: store,
	}

	repos := app.initRepositories(db, store)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, repos, db, rdb)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("wellness-platform", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
		router.Static("/api/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
