package router

import (
	"net/http"
	"time"

	"github.com/franciscosanchezn/gin-shift-api/internal/auth"
	"github.com/franciscosanchezn/gin-shift-api/internal/controllers"
	"github.com/franciscosanchezn/gin-shift-api/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// ServiceName is reported by the health check
const ServiceName = "gin-shift-api"

// Options configures the engine built by Setup
type Options struct {
	CORSAllowOrigins []string
	// EnableSwagger mounts the API documentation under /swagger
	EnableSwagger bool
}

// Handlers groups the controllers served by the router
type Handlers struct {
	Auth     *controllers.AuthController
	User     *controllers.UserController
	Schedule *controllers.ScheduleController
}

// Setup initializes the gin engine with the global middleware and every route
func Setup(opts Options, h Handlers, tokens *auth.TokenIssuer, log logrus.FieldLogger) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(opts.CORSAllowOrigins))
	r.Use(middleware.IdentifyCaller(tokens))
	r.Use(middleware.Logger(log))

	r.GET("/health", healthCheckHandler)

	api := r.Group("/api")
	{
		// Accounts
		api.POST("/register", h.Auth.Register)
		api.POST("/login", h.Auth.Login)
		api.POST("/change-password", h.Auth.ChangePassword)
		api.GET("/users", h.User.ListUsers)
		api.POST("/update-user", h.User.UpdateUser)
		api.DELETE("/users/:email", h.User.DisableUser)

		// Schedules
		api.POST("/schedule", h.Schedule.ListSchedules)
		api.GET("/schedule", h.Schedule.GetSchedule)
		api.POST("/add-schedule", h.Schedule.AddSchedule)
		api.POST("/update-schedule", h.Schedule.UpdateSchedule)
		api.POST("/checkin", h.Schedule.CheckIn)

		// Leave workflow
		api.POST("/request-leave", h.Schedule.RequestLeave)
		api.POST("/cancel-leave", h.Schedule.CancelLeave)
		api.POST("/approve-leave", h.Schedule.ApproveLeave)
		api.POST("/reject-leave", h.Schedule.RejectLeave)
		api.POST("/update-leave-status", h.Schedule.UpdateLeaveStatus)
	}

	if opts.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	return r
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   ServiceName,
	})
}
