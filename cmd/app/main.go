package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
	"github.com/stockpod/stockpod-core/injector"
	"github.com/stockpod/stockpod-core/internal/infrastructures"
)

func main() {
	infrastructures.LoadConfig()

	app, err := injector.InitializeApplication()
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}

	// Fiber configuration
	config := fiber.Config{
		ReadTimeout:  time.Second * 60,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
	}

	router := fiber.New(config)

	// Add CORS middleware
	router.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Device-ID, X-Cron-Secret",
		AllowMethods:  "GET, POST, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Disposition",
		MaxAge:        300,
	}))

	app.RegisterRoutes(router)

	logrus.Fatal(router.Listen(":8080"))
}
