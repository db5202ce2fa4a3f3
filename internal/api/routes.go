package api

import (
	"net/http"
	"time"

	"alcyxob/fitlab/internal/domain"
	"alcyxob/fitlab/internal/service"
	"alcyxob/fitlab/internal/session"
	"alcyxob/fitlab/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouteDeps carries everything SetupRoutes wires into the handlers.
type RouteDeps struct {
	AuthService    service.AuthService
	Sessions       *session.Manager
	Gatherer       prometheus.Gatherer // nil disables /metrics
	Now            func() time.Time
	MaxUploadBytes int64
	// Photos is set when uploads are kept in memory; its objects are served under /photos.
	Photos storage.MemoryStorage
	// AppURL is linked from member welcome messages.
	AppURL string
}

func SetupRoutes(router *gin.Engine, deps RouteDeps) {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.Sessions)
	exerciseHandler := NewExerciseHandler()
	trainerHandler := NewTrainerHandler(now, deps.AppURL)
	memberHandler := NewMemberHandler(now, deps.MaxUploadBytes)
	workoutHandler := NewWorkoutHandler()

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}
	if deps.Photos != nil {
		router.GET("/photos/*key", NewObjectHandler(deps.Photos).Get)
	}

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(deps.AuthService), StoreMiddleware(deps.Sessions))
	{
		protected.POST("/auth/logout", authHandler.Logout)

		protected.GET("/me", authHandler.Me)
		protected.PATCH("/me", authHandler.UpdateProfile)
		protected.PUT("/me/password", authHandler.ChangePassword)
		protected.POST("/me/refresh", authHandler.Refresh)
		protected.PUT("/me/view", authHandler.SetView)

		// --- Exercise Routes ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.GetCatalog)
			exerciseGroup.GET("/suggest", exerciseHandler.Suggest)
			exerciseGroup.POST("", RoleMiddleware(domain.RoleTrainer), exerciseHandler.CreateExercise)
			exerciseGroup.DELETE("/:id", RoleMiddleware(domain.RoleTrainer), exerciseHandler.DeleteExercise)
			exerciseGroup.POST("/categories", RoleMiddleware(domain.RoleTrainer), exerciseHandler.AddCategory)
		}

		protected.GET("/content", exerciseHandler.ListContent)

		// --- Trainer Specific Routes ---
		trainerApiGroup := protected.Group("/trainer")
		trainerApiGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			trainerApiGroup.GET("/dashboard", trainerHandler.Dashboard)

			trainerApiGroup.GET("/members", trainerHandler.ListMembers)
			trainerApiGroup.POST("/members", trainerHandler.AddMember)
			trainerApiGroup.PATCH("/members/:memberId", trainerHandler.UpdateMember)
			trainerApiGroup.GET("/members/:memberId/stats", trainerHandler.MemberStats)
			trainerApiGroup.POST("/members/:memberId/checkins", trainerHandler.RecordCheckIn)

			// --- Plan Management ---
			trainerApiGroup.GET("/members/:memberId/plan", trainerHandler.GetPlan)
			trainerApiGroup.POST("/members/:memberId/plan", trainerHandler.CreatePlan)
			trainerApiGroup.PUT("/members/:memberId/plan", trainerHandler.SavePlan)
			trainerApiGroup.DELETE("/members/:memberId/plan", trainerHandler.DeletePlan)
			trainerApiGroup.POST("/members/:memberId/plan/divisions", trainerHandler.AddDivision)
			trainerApiGroup.PUT("/members/:memberId/plan/divisions/:letter", trainerHandler.RenameDivision)
			trainerApiGroup.DELETE("/members/:memberId/plan/divisions/:letter", trainerHandler.RemoveDivision)
			trainerApiGroup.POST("/members/:memberId/plan/divisions/:letter/exercises", trainerHandler.AddPlanExercise)
			trainerApiGroup.PUT("/members/:memberId/plan/divisions/:letter/exercises/:index", trainerHandler.UpdatePlanExercise)
			trainerApiGroup.DELETE("/members/:memberId/plan/divisions/:letter/exercises/:index", trainerHandler.RemovePlanExercise)

			// --- Content Library ---
			trainerApiGroup.POST("/content", trainerHandler.UpsertContent)
			trainerApiGroup.PUT("/content/:id", trainerHandler.UpsertContent)
			trainerApiGroup.POST("/content/:id/pin", trainerHandler.TogglePin)
			trainerApiGroup.DELETE("/content/:id", trainerHandler.DeleteContent)
		}

		// --- Member Specific Routes ---
		memberApiGroup := protected.Group("/member")
		memberApiGroup.Use(RoleMiddleware(domain.RoleMember))
		{
			memberApiGroup.GET("/plan", memberHandler.GetPlan)

			memberApiGroup.GET("/loads", memberHandler.ListLoads)
			memberApiGroup.GET("/loads/latest", memberHandler.LatestLoads)
			memberApiGroup.POST("/loads", memberHandler.LogLoad)
			memberApiGroup.DELETE("/loads/:id", memberHandler.DeleteLoad)
			memberApiGroup.GET("/stats", memberHandler.Stats)
			memberApiGroup.PUT("/goals", memberHandler.SetGoal)

			memberApiGroup.GET("/checkins", memberHandler.CheckIns)

			memberApiGroup.GET("/photos", memberHandler.ListPhotos)
			memberApiGroup.POST("/photos", memberHandler.UploadPhoto)
			memberApiGroup.DELETE("/photos/:id", memberHandler.DeletePhoto)

			workoutGroup := memberApiGroup.Group("/workout")
			{
				workoutGroup.GET("", workoutHandler.Status)
				workoutGroup.POST("", workoutHandler.Start)
				workoutGroup.POST("/pause", workoutHandler.Pause)
				workoutGroup.POST("/resume", workoutHandler.Resume)
				workoutGroup.POST("/rest", workoutHandler.StartRest)
				workoutGroup.DELETE("/rest", workoutHandler.CancelRest)
				workoutGroup.POST("/finish", workoutHandler.Finish)
				workoutGroup.DELETE("", workoutHandler.Abandon)
			}
		}
	}
}
