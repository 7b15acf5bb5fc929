package app

import (
	"quiz_tournament_backend/docs"
	"quiz_tournament_backend/internal/config"
	"quiz_tournament_backend/internal/middleware"
	"quiz_tournament_backend/internal/model"
	"quiz_tournament_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.POST("/password/forgot", c.auth.ForgotPassword)
		public.POST("/password/reset", c.auth.ResetPassword)
	}

	// 用户管理
	users := router.Group("/api")
	users.Use(middleware.AuthMiddleware(cfg))
	{
		users.GET("/profile", c.user.GetProfile)
		users.GET("/users", middleware.RoleMiddleware(model.Admin), c.user.GetAllUsers)
		users.GET("/users/:id", c.user.GetUser)
		users.PUT("/users/:id", c.user.UpdateUser)
		users.DELETE("/users/:id", middleware.RoleMiddleware(model.Admin), c.user.DeleteUser)
	}

	// 比赛模块，路径沿用既有对外契约
	quiz := router.Group("/quiz")
	{
		// 公开读取
		quiz.GET("/all", c.quiz.GetAllQuizzes)
		quiz.GET("/all-with-status", c.quiz.GetAllQuizzesWithStatus)
		quiz.GET("/summaries/:status", c.quiz.GetQuizzesByStatus)
		quiz.GET("/categories", c.quiz.FetchCategories)
		quiz.GET("/:id/scores", c.quiz.GetQuizScores)
		quiz.GET("/user/:userId/scores", c.quiz.GetUserScores)

		authed := quiz.Group("")
		authed.Use(middleware.AuthMiddleware(cfg))
		{
			// 管理员操作
			authed.POST("/create", middleware.RoleMiddleware(model.Admin), c.quiz.CreateQuiz)
			authed.PUT("/:id", middleware.RoleMiddleware(model.Admin), c.quiz.UpdateQuizDetails)
			authed.DELETE("/:id/delete", middleware.RoleMiddleware(model.Admin), c.quiz.DeleteQuiz)

			// 玩家操作
			authed.GET("/participated", c.quiz.GetParticipatedQuizzes)
			authed.GET("/:id/play", middleware.RoleMiddleware(model.Player), c.quiz.PlayQuiz)
			authed.POST("/:id/submit", c.quiz.SubmitAnswer)
			authed.POST("/:id/like", c.quiz.LikeQuiz)
			authed.POST("/:id/unlike", c.quiz.UnlikeQuiz)
			authed.POST("/:id/unreact", c.quiz.UnreactQuiz)
			authed.POST("/:id/score", c.quiz.RecordScore)
		}
	}
}
