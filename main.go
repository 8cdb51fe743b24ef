package main

import (
	"context"
	"fmt"
	"os"
	"session-booking/database"
	"session-booking/database/seeders"
	"session-booking/logger"
	"session-booking/routes"
	"session-booking/services/capacity"
	"session-booking/services/clock"
	"session-booking/services/lifecycle"
	"session-booking/services/notification"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	app := fiber.New(fiber.Config{
		ReadBufferSize:  32768, // 32KB read buffer
		WriteBufferSize: 32768, // 32KB write buffer
		ReadTimeout:     time.Second * 30,
		WriteTimeout:    time.Second * 30,
	})
	env := godotenv.Load()
	if env != nil {
		logger.Error("Error loading .env file", env)
		fmt.Println("Error loading .env file", env)
	}
	logger.Success("Server is running on ip: " + os.Getenv("APP_HOST") + " port: " + os.Getenv("APP_PORT") +
		"\n\t\t\t\t\t\t******************************************************************************************\n")

	db, err := database.InitDB()
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return
	}
	seeders.SeedSessions(db)

	dispatcher := buildDispatcher()
	defer dispatcher.Close()

	engine := lifecycle.NewEngine(db, clock.System(), capacity.NewLedger(), dispatcher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go engine.StartExpirySweep(ctx, expirySweepInterval())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("FRONTEND_URL"),
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	routes.SetupRoutes(app, db, engine, clock.System())

	app_host := os.Getenv("APP_HOST")
	app_port := os.Getenv("APP_PORT")
	app.Listen(app_host + ":" + app_port)
}

// buildDispatcher connects to RabbitMQ when RABBITMQ_URL is set, otherwise
// notifications are dropped so the service still runs without a broker.
func buildDispatcher() notification.Dispatcher {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		logger.Warning("RABBITMQ_URL not set, booking notifications disabled")
		return notification.Noop{}
	}
	exchange := os.Getenv("RABBITMQ_EXCHANGE")
	if exchange == "" {
		exchange = "booking.events"
	}
	dispatcher, err := notification.NewAMQPDispatcher(url, exchange)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ, booking notifications disabled", err)
		return notification.Noop{}
	}
	logger.Success("Connected to RabbitMQ exchange: " + exchange)
	return dispatcher
}

func expirySweepInterval() time.Duration {
	minutes, err := strconv.Atoi(os.Getenv("EXPIRY_SWEEP_MINUTES"))
	if err != nil || minutes <= 0 {
		minutes = 15
	}
	return time.Duration(minutes) * time.Minute
}
