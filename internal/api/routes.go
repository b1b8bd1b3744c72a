package api

import (
	"net/http"

	"gymtracker/gym-api/internal/auth"
	"gymtracker/gym-api/internal/domain"
	"gymtracker/gym-api/internal/service"

	"github.com/gin-gonic/gin"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Auth        service.AuthService
	Users       service.UserService
	Sessions    service.SessionService
	Memberships service.MembershipService
	Plans       service.WorkoutPlanService
	Exercises   service.ExerciseService
	Reviews     service.ReviewService
	Dashboard   service.DashboardService
}

// RouteOptions carries the optional cross-cutting middleware. Nil values are skipped.
type RouteOptions struct {
	Metrics     *Metrics
	AuthLimiter *RateLimiter
}

func SetupRoutes(router *gin.Engine, tokens *auth.TokenManager, svc Services, opts RouteOptions) {
	useJSONFieldNames()

	authHandler := NewAuthHandler(svc.Auth)
	userHandler := NewUserHandler(svc.Users)
	sessionHandler := NewSessionHandler(svc.Sessions)
	membershipHandler := NewMembershipHandler(svc.Memberships)
	planHandler := NewWorkoutPlanHandler(svc.Plans)
	exerciseHandler := NewExerciseHandler(svc.Exercises)
	reviewHandler := NewReviewHandler(svc.Reviews)
	dashboardHandler := NewDashboardHandler(svc.Dashboard)

	authMiddleware := AuthMiddleware(tokens)
	staffOnly := RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin)
	adminOnly := RoleMiddleware(domain.RoleAdmin)

	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	apiGroup := router.Group("/api")

	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "Route not found")
	})

	apiGroup.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Gym API is running"})
	})

	// --- Auth Routes ---
	authGroup := apiGroup.Group("/auth")
	{
		public := authGroup.Group("")
		if opts.AuthLimiter != nil {
			public.Use(opts.AuthLimiter.Middleware())
		}
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)

		authGroup.GET("/profile", authMiddleware, authHandler.GetProfile)
		authGroup.PUT("/profile", authMiddleware, authHandler.UpdateProfile)
		authGroup.POST("/change-password", authMiddleware, authHandler.ChangePassword)
		authGroup.POST("/profile/picture", authMiddleware, authHandler.RequestProfilePictureUpload)
		authGroup.PUT("/profile/picture", authMiddleware, authHandler.ConfirmProfilePicture)
	}

	// Public so that a scheduler can poll it without credentials.
	apiGroup.GET("/sessions/missed", sessionHandler.GetMissedSessions)

	protected := apiGroup.Group("")
	protected.Use(authMiddleware)

	// --- User Routes ---
	users := protected.Group("/users")
	{
		users.GET("", userHandler.ListUsers)
		users.GET("/stats", adminOnly, userHandler.GetUserStats)
		users.GET("/:id", userHandler.GetUser)
		users.POST("", adminOnly, userHandler.CreateUser)
		users.PUT("/:id", adminOnly, userHandler.UpdateUser)
		users.DELETE("/:id", adminOnly, userHandler.DeleteUser)
	}

	// --- Session Routes ---
	sessions := protected.Group("/sessions")
	{
		sessions.GET("", sessionHandler.ListSessions)
		sessions.GET("/stats", sessionHandler.GetMemberStats)
		sessions.GET("/stats/:memberId", sessionHandler.GetMemberStats)
		sessions.GET("/:id", sessionHandler.GetSession)
		sessions.POST("", staffOnly, sessionHandler.CreateSession)
		// Ownership of completion is checked by the service.
		sessions.PUT("/:id/complete", sessionHandler.CompleteSession)
		sessions.PUT("/:id", staffOnly, sessionHandler.UpdateSession)
		sessions.DELETE("/:id", staffOnly, sessionHandler.DeleteSession)
	}

	// --- Workout Plan Routes ---
	plans := protected.Group("/workout-plans")
	{
		plans.GET("", planHandler.ListWorkoutPlans)
		plans.GET("/trainer/:trainerId", planHandler.GetTrainerWorkoutPlans)
		plans.GET("/:id", planHandler.GetWorkoutPlan)
		plans.POST("", staffOnly, planHandler.CreateWorkoutPlan)
		plans.PUT("/:id", staffOnly, planHandler.UpdateWorkoutPlan)
		plans.DELETE("/:id", staffOnly, planHandler.DeleteWorkoutPlan)
	}

	// --- Exercise Routes ---
	exercises := protected.Group("/exercises")
	{
		exercises.GET("", exerciseHandler.ListExercises)
		exercises.GET("/workout/:workoutId", exerciseHandler.GetWorkoutPlanExercises)
		exercises.GET("/:id", exerciseHandler.GetExercise)
		exercises.POST("", staffOnly, exerciseHandler.CreateExercise)
		exercises.PUT("/:id", staffOnly, exerciseHandler.UpdateExercise)
		exercises.DELETE("/:id", staffOnly, exerciseHandler.DeleteExercise)
	}

	// --- Membership Routes ---
	memberships := protected.Group("/memberships")
	{
		memberships.GET("", staffOnly, membershipHandler.ListMemberships)
		memberships.GET("/revenue", adminOnly, membershipHandler.GetRevenue)
		memberships.GET("/user", membershipHandler.GetUserMemberships)
		memberships.GET("/user/:userId", membershipHandler.GetUserMemberships)
		memberships.GET("/active", membershipHandler.GetActiveMembership)
		memberships.GET("/active/:userId", membershipHandler.GetActiveMembership)
		memberships.GET("/:id", membershipHandler.GetMembership)
		memberships.POST("", adminOnly, membershipHandler.CreateMembership)
		memberships.PUT("/:id", adminOnly, membershipHandler.UpdateMembership)
		memberships.DELETE("/:id", adminOnly, membershipHandler.DeleteMembership)
	}

	// --- Review Routes ---
	reviews := protected.Group("/reviews")
	{
		reviews.GET("", reviewHandler.ListReviews)
		reviews.GET("/trainer/:trainerId", reviewHandler.GetTrainerReviews)
		reviews.GET("/trainer/:trainerId/rating", reviewHandler.GetTrainerRating)
		reviews.GET("/:id", reviewHandler.GetReview)
		reviews.POST("", reviewHandler.CreateReview)
		reviews.PUT("/:id", reviewHandler.UpdateReview)
		reviews.DELETE("/:id", reviewHandler.DeleteReview)
	}

	// --- Dashboard Routes ---
	dashboard := protected.Group("/dashboard")
	{
		dashboard.GET("/member", RoleMiddleware(domain.RoleMember), dashboardHandler.GetMemberDashboard)
		dashboard.GET("/trainer", RoleMiddleware(domain.RoleTrainer), dashboardHandler.GetTrainerDashboard)
		dashboard.GET("/admin", adminOnly, dashboardHandler.GetAdminDashboard)
	}
}
