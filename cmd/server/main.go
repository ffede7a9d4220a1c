package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-booking/internal/booking"
	"github.com/iliyamo/theatre-booking/internal/config"
	"github.com/iliyamo/theatre-booking/internal/database"
	"github.com/iliyamo/theatre-booking/internal/handler"
	"github.com/iliyamo/theatre-booking/internal/queue"
	"github.com/iliyamo/theatre-booking/internal/repository"
	"github.com/iliyamo/theatre-booking/internal/router"
	queue_publisher "github.com/iliyamo/theatre-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set variables in the environment.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: when unreachable, rate limiting and response
	// caching degrade to pass-through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and caching disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	theatres := repository.NewTheatreRepo(db)
	screens := repository.NewScreenRepo(db)
	shows := repository.NewShowRepo(db)
	bookings := repository.NewBookingRepo(db)
	parking := repository.NewParkingRepo(db)

	engine := booking.NewService(shows, screens, bookings, parking, users, queue_publisher.Publisher{})

	// Consumer appends confirmed bookings to logs/booking.log; it reconnects
	// on broker failure and never blocks the HTTP path.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterPublic(e, handler.NewPublicHandler(shows, theatres, screens, bookings, parking), rdb)
	router.RegisterCustomer(e, handler.NewCustomerHandler(engine, bookings, users), cfg.JWTSecret, rdb)
	router.RegisterOwner(e, handler.NewOwnerHandler(theatres, screens, parking, shows), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
