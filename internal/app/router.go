package app

import (
	"skillswap_backend/docs"
	"skillswap_backend/internal/config"
	"skillswap_backend/internal/middleware"
	"skillswap_backend/internal/model"
	"skillswap_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/skills", c.skill.List)
		public.GET("/skills/:id", c.skill.Get)
		public.GET("/credentials/:publicId/verify", c.credential.Verify)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.GET("/credentials", c.credential.ListMine)

		authGroup.GET("/sessions", c.session.List)
		authGroup.GET("/sessions/:id", c.session.Get)
		authGroup.POST("/sessions/:id/book", c.session.Book)

		// Evaluation quiz flow.
		authGroup.POST("/sessions/:id/quiz", c.quiz.GetOrCreate)
		authGroup.GET("/sessions/:id/quiz/attempts", c.quiz.RemainingAttempts)
		authGroup.GET("/quizzes/:quizId", c.quiz.Get)
		authGroup.PATCH("/quizzes/:quizId/answers", c.quiz.SaveAnswer)
		authGroup.POST("/quizzes/:quizId/submit", c.quiz.Submit)

		mentor := authGroup.Group("")
		mentor.Use(middleware.RoleMiddleware(model.Mentor))
		{
			mentor.POST("/skills", c.skill.Create)
			mentor.POST("/sessions", c.session.Create)
			mentor.POST("/sessions/:id/attendance", c.session.MarkAttendance)
			mentor.POST("/sessions/:id/complete", c.session.Complete)
			mentor.PUT("/sessions/:id/transcript", c.session.SaveTranscript)
			mentor.GET("/sessions/:id/transcript", c.session.GetTranscript)
			mentor.POST("/sessions/:id/recording", c.session.UploadRecording)
		}
	}
}
