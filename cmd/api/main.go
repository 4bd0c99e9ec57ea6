package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clinibook/clinic-api/internal/booking"
	"github.com/clinibook/clinic-api/internal/config"
	"github.com/clinibook/clinic-api/internal/handlers"
	"github.com/clinibook/clinic-api/internal/jobs"
	"github.com/clinibook/clinic-api/internal/middleware"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration error")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(level)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to MongoDB failed")
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal().Err(err).Msg("MongoDB is unreachable")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("disconnecting from MongoDB failed")
		}
	}()
	log.Info().Str("database", cfg.MongoDatabase).Msg("connected to MongoDB")

	db := client.Database(cfg.MongoDatabase)

	svc := booking.NewService(
		booking.NewMongoDoctorStore(db),
		booking.NewMongoUserStore(db),
		booking.NewMongoAppointmentStore(db),
	)
	h := handlers.NewHandler(db, svc, cfg, log)

	maintenance := jobs.NewMaintenance(db, log)
	if err := maintenance.Start(); err != nil {
		log.Fatal().Err(err).Msg("scheduling maintenance jobs failed")
	}
	defer maintenance.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "token", "dtoken"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handlers.RegisterRoutes(r, h)

	log.Info().Str("port", cfg.Port).Msg("starting API server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
