package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/book-marketplace/internal/auth"
	"github.com/iliyamo/book-marketplace/internal/config"
	"github.com/iliyamo/book-marketplace/internal/database"
	"github.com/iliyamo/book-marketplace/internal/handler"
	"github.com/iliyamo/book-marketplace/internal/middleware"
	"github.com/iliyamo/book-marketplace/internal/payment"
	"github.com/iliyamo/book-marketplace/internal/queue"
	"github.com/iliyamo/book-marketplace/internal/repository"
	"github.com/iliyamo/book-marketplace/internal/router"
	queuepublisher "github.com/iliyamo/book-marketplace/internal/service"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	client, err := database.Open(cfg.MongoURI)
	if err != nil {
		log.Fatalf("mongo: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()
	db := client.Database(cfg.MongoDB)

	orders := repository.NewOrderRepo(db)
	users := repository.NewUserRepo(db)
	books := repository.NewBookRepo(client, db)
	wishlist := repository.NewWishlistRepo(db)

	gateway := payment.NewStripeClient(cfg.StripeSecret, cfg.StripeAPIURL, cfg.ClientOrigin)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	events := queuepublisher.New()

	// Background consumer writing the paid-order audit log. It reconnects
	// on its own; the HTTP server does not depend on the broker.
	go queue.StartOrderPaidConsumer()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.ClientOrigin},
		AllowCredentials: true,
	}))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), config.NewRedisClient()))

	router.RegisterRoutes(e, router.Deps{
		Orders:   handler.NewOrderHandler(orders, events),
		Payments: handler.NewPaymentHandler(orders, gateway, events),
		Users:    handler.NewUserHandler(users),
		Books:    handler.NewBookHandler(books),
		Wishlist: handler.NewWishlistHandler(wishlist),
		Verifier: verifier,
		Roles:    users,
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
