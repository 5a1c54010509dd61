package routes

import (
	"MindwellGo/config"
	"MindwellGo/controllers"
	"MindwellGo/middleware"
	"MindwellGo/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, client *services.LLMClient) {
	riskService := services.NewRiskService(config.DB, client.Chat)
	capsuleService := services.NewCapsuleService(config.DB)
	throttle := services.NewAssessmentThrottle(services.NewRedisLastRunStore(config.RedisClient))

	authController := controllers.AuthController{}
	userController := controllers.UserController{}
	moodController := controllers.MoodController{}
	journalController := controllers.JournalController{}
	cbtController := controllers.CBTController{}
	emotionController := controllers.EmotionController{}
	syncController := controllers.SyncController{}
	riskController := controllers.NewRiskController(riskService, capsuleService, throttle)
	capsuleController := controllers.NewCapsuleController(capsuleService)

	// 公开路由（无需认证）
	public := r.Group("/api/v1")
	{
		public.POST("/auth/register", authController.Register)
		public.POST("/auth/login", authController.Login)
		public.POST("/auth/test-user", authController.CreateTestUser)
	}

	// 需要认证的路由
	private := r.Group("/api/v1")
	private.Use(middleware.AuthMiddleware()) // 应用认证中间件
	{
		// 记录同步接口
		private.POST("/sync/moods", moodController.SyncMoods)
		private.POST("/sync/journals", journalController.SyncJournals)
		private.POST("/sync/cbt-records", cbtController.SyncCBTRecords)
		private.POST("/sync/emotions", emotionController.SyncEmotions)
		private.GET("/sync/updates", syncController.GetUpdates)

		// 风险评估接口
		private.POST("/risk/assess", riskController.Assess)
		private.GET("/risk/alerts/latest", riskController.LatestAlert)
		private.GET("/risk/alerts", riskController.ListAlerts)

		// 时间胶囊接口
		private.POST("/capsules", capsuleController.CreateCapsule)
		private.GET("/capsules", capsuleController.ListCapsules)
		private.DELETE("/capsules/:id", capsuleController.DeleteCapsule)

		private.GET("/user", userController.GetUser)
	}

	// 测试路由
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
