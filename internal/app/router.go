package app

import (
	"teamwelly_backend/docs"
	"teamwelly_backend/internal/config"
	"teamwelly_backend/internal/middleware"
	"teamwelly_backend/internal/model"
	"teamwelly_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerUserRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.Health)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/payments/packages", c.payment.Packages)

		// 第三方登录
		oauth := public.Group("/auth")
		{
			oauth.GET("/:provider", c.oauth.Authorize)
			oauth.GET("/:provider/callback", c.oauth.Callback)
		}

		// Stripe 回调走签名校验，不走 JWT
		public.POST("/payments/webhook", c.payment.Webhook)
	}
}

func (a *App) registerUserRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/profile", c.user.UpdateProfile)
	rg.POST("/profile/avatar", c.user.UploadAvatar)
	rg.POST("/onboarding", c.user.CompleteOnboarding)

	// 项目
	rg.GET("/programs", c.program.List)
	rg.GET("/programs/categories", c.program.CategoryStats)
	rg.GET("/programs/recommended", c.program.Recommendations)
	rg.GET("/programs/:id", c.program.Get)
	rg.POST("/programs/:id/start", c.program.Start)
	rg.POST("/programs/:id/complete", c.program.Complete)
	rg.POST("/programs/:id/bookmark", c.program.Bookmark)
	rg.DELETE("/programs/:id/bookmark", c.program.Unbookmark)

	// 挑战
	rg.GET("/challenges", c.challenge.List)
	rg.POST("/challenges/:id/complete", c.challenge.Complete)

	// 预约
	rg.POST("/bookings", c.booking.Create)
	rg.GET("/bookings", c.booking.List)
	rg.DELETE("/bookings/:id", c.booking.Cancel)

	// 支付
	rg.POST("/payments/checkout", c.payment.CreateCheckoutSession)
	rg.GET("/payments/checkout/:sessionId", c.payment.CheckoutStatus)
	rg.GET("/payments/history", c.payment.History)

	// AI 对话
	rg.POST("/chat", c.chat.Chat)
	rg.POST("/chat/stream", c.chat.ChatStream)
	rg.GET("/chat/history", c.chat.History)

	// 行为追踪
	rg.POST("/behavior/track", c.behavior.Track)
	rg.GET("/behavior/events", c.behavior.Events)
	rg.GET("/behavior/progress", c.behavior.Progress)

	// 分析
	rg.GET("/analytics/user", c.analytics.UserAnalytics)
	rg.GET("/analytics/behavior", c.analytics.BehaviorAnalytics)
	rg.GET("/analytics/progress", c.analytics.ProgressAnalytics)
	rg.GET("/analytics/wellness-score", c.analytics.WellnessScore)
	rg.GET("/analytics/insights", c.analytics.Insights)
	rg.GET("/analytics/recommendations", c.analytics.Recommendations)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/programs", c.program.CreateProgram)
		admin.PUT("/programs/:id", c.program.UpdateProgram)
		admin.POST("/programs/:id/video", c.program.UploadVideo)
	}
}
