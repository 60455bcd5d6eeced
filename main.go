// @title CampusConnect Q&A API
// @version 1.0
// @description Real-time question and answer core for college communities.
// @host localhost:3000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/Udaymore741/Campus-Connect-sub000/docs"

	"github.com/Udaymore741/Campus-Connect-sub000/bootstrap"
	"github.com/Udaymore741/Campus-Connect-sub000/config"
	"github.com/Udaymore741/Campus-Connect-sub000/database"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/realtime"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/repository"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/repository/inmem"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/routes"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/services"

	"github.com/gofiber/fiber/v2/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg := config.LoadConfig()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	registry := realtime.NewRegistry()
	broadcaster := realtime.NewBroadcaster(registry)

	var svc *services.QAService
	switch cfg.Store {
	case "memory":
		log.Warn("STORE=memory: data is lost on restart")
		db := inmem.Open()
		svc = services.NewQAService(inmem.NewQuestionRepository(db), inmem.NewAnswerRepository(db), broadcaster)
	default:
		client, err := database.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatalf("mongo: %v", err)
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()

		db := client.Database(cfg.MongoDB)
		if err := bootstrap.EnsureIndexes(ctx, db); err != nil {
			log.Fatalf("ensure indexes failed: %v", err)
		}
		svc = services.NewQAService(
			repository.NewQuestionRepository(client, db),
			repository.NewAnswerRepository(client, db),
			broadcaster,
		)
	}

	app := routes.NewApp(cfg, svc, registry)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	// RUN SERVER
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Errorf("listen: %v", err)
	}
}
