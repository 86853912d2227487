package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/franciscosanchezn/gin-shift-api/internal/config"
	"github.com/franciscosanchezn/gin-shift-api/internal/database"
	"github.com/franciscosanchezn/gin-shift-api/internal/services"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Seeds an account, by default an admin, into the configured database.
//
//	go run scripts/create_admin_user.go -email admin@example.com -password secret
func main() {
	email := flag.String("email", "admin@example.com", "Account email")
	password := flag.String("password", "admin-secret-123", "Account password")
	role := flag.String("role", "admin", "Account role")
	fullname := flag.String("fullname", "Administrator", "Display name")
	flag.Parse()

	_ = godotenv.Load()
	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

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
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	users := services.NewUserService(db, conf.BcryptCost, logrus.StandardLogger())
	ctx := context.Background()

	user, err := users.Register(ctx, services.RegisterInput{
		Email:    *email,
		Password: *password,
		Role:     *role,
		Fullname: *fullname,
	})
	if errors.Is(err, services.ErrUserExists) {
		existing, lookupErr := users.GetUserByEmail(ctx, *email)
		if lookupErr != nil {
			log.Fatal("Failed to look up existing user: ", lookupErr)
		}
		fmt.Printf("User already exists: %s (role: %s, status: %s)\n", existing.Email, existing.Role, existing.NormalizedStatus())
		return
	}
	if err != nil {
		log.Fatal("Failed to create user: ", err)
	}

	fmt.Printf("✓ Created %s account %s\n", user.Role, user.Email)
	fmt.Println("\nLog in with:")
	fmt.Printf("curl -X POST http://localhost:%d/api/login \\\n", conf.Port)
	fmt.Printf("  -H 'Content-Type: application/json' \\\n")
	fmt.Printf("  -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", user.Email, *password)
}
