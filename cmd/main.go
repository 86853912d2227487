package main

import (
	"fmt"

	_ "github.com/franciscosanchezn/gin-shift-api/docs" // Import generated docs
	"github.com/franciscosanchezn/gin-shift-api/internal/auth"
	"github.com/franciscosanchezn/gin-shift-api/internal/config"
	"github.com/franciscosanchezn/gin-shift-api/internal/controllers"
	"github.com/franciscosanchezn/gin-shift-api/internal/database"
	"github.com/franciscosanchezn/gin-shift-api/internal/router"
	"github.com/franciscosanchezn/gin-shift-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// @title Shift Scheduling API
// @version 1.0
// @description Accounts, schedules, leave requests and check-ins
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration := loadConfig()

	// Initialize database connection
	db := setupDatabase(configuration)

	// Initialize services and controllers
	tokens := auth.NewTokenIssuer(configuration.JWTSecret, configuration.TokenTTL)
	userService := services.NewUserService(db, configuration.BcryptCost, log.WithField("component", "users"))
	scheduleService := services.NewScheduleService(db, services.ScheduleOptions{
		EnforceCheckInWindow: configuration.EnforceCheckInWindow,
		Location:             configuration.Location,
	}, log.WithField("component", "schedules"))

	handlers := router.Handlers{
		Auth:     controllers.NewAuthController(userService, tokens),
		User:     controllers.NewUserController(userService),
		Schedule: controllers.NewScheduleController(scheduleService),
	}

	// Initialize Gin router
	if configuration.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.Setup(router.Options{
		CORSAllowOrigins: configuration.CORSAllowOrigins,
		EnableSwagger:    configuration.Environment != "production",
	}, handlers, tokens, log.StandardLogger())

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	checkPanicErr(engine.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port)))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment.
// LOG_LEVEL, when valid, overrides the environment default.
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	level := config.LevelForEnvironment(config.GetEnvWithDefault("APP_ENV", "development"))
	if override, err := log.ParseLevel(config.GetEnvWithDefault("LOG_LEVEL", "")); err == nil {
		level = override
	}
	log.SetLevel(level)
	database.SetLogLevel(level)
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase opens the configured database and migrates the schema
func setupDatabase(conf *config.Config) *gorm.DB {
	db, err := database.InitDatabase(database.DatabaseConfig{
		Driver:   conf.DBDriver,
		URL:      conf.DatabaseURL,
		Host:     conf.DBHost,
		Port:     conf.DBPort,
		User:     conf.DBUser,
		Password: conf.DBPassword,
		Name:     conf.DBName,
		SSLMode:  conf.DBSSLMode,
		Path:     conf.DBPath,
	})
	checkPanicErr(err)
	checkPanicErr(database.Migrate(db))
	log.Info("Database schema migrated")
	return db
}
