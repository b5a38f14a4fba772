package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/meinhoongagan/clinic-app/auth"
	"github.com/meinhoongagan/clinic-app/config"
	"github.com/meinhoongagan/clinic-app/controllers"
	"github.com/meinhoongagan/clinic-app/controllers/admin"
	"github.com/meinhoongagan/clinic-app/controllers/diagnosis"
	"github.com/meinhoongagan/clinic-app/controllers/doctor"
	"github.com/meinhoongagan/clinic-app/controllers/user"
	"github.com/meinhoongagan/clinic-app/cron"
	"github.com/meinhoongagan/clinic-app/db"
	"github.com/meinhoongagan/clinic-app/ledger"
	"github.com/meinhoongagan/clinic-app/logger"
	"github.com/meinhoongagan/clinic-app/middleware"
	"github.com/meinhoongagan/clinic-app/redis"
	"github.com/meinhoongagan/clinic-app/routes"
	"github.com/meinhoongagan/clinic-app/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info").WithError(err).Fatal("Failed to load configuration")
	}
	log := logger.New(cfg.App.LogLevel)

	conn, err := db.Open(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to open database")
	}
	if err := db.Migrate(conn); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	redisClient, err := redis.Connect(startCtx, cfg)
	cancel()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to redis")
	}

	// Left as untyped nils when redis is not configured so the nil checks downstream hold.
	var (
		invalidator ledger.Invalidator
		doctorList  doctor.ListCache
		doctorCache controllers.DoctorCache
	)
	if redisClient != nil {
		cache := redis.NewDoctorListCache(redisClient, cfg.Redis.DoctorListTTL, log)
		invalidator, doctorList, doctorCache = cache, cache, cache
	} else {
		log.Warn("REDIS_ADDR not set, doctor list is served without cache")
	}

	var uploader utils.Uploader
	if cfg.CloudinaryEnabled() {
		cld, err := utils.NewCloudinaryUploader(cfg)
		if err != nil {
			log.WithError(err).Fatal("Failed to configure cloudinary")
		}
		uploader = cld
	}

	slotStore := db.NewSlotStore(conn)
	slots := ledger.New(slotStore, invalidator, log)
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	users := db.NewUserRepository(conn)
	doctors := db.NewDoctorRepository(conn)
	appointments := db.NewAppointmentRepository(conn)
	diagnoses := db.NewDiagnosisRepository(conn)

	scheduler, err := cron.New(cfg, slotStore, invalidator, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to schedule slot pruning")
	}
	scheduler.Start()

	app := fiber.New(fiber.Config{
		AppName:               "clinic-app",
		DisableStartupMessage: !cfg.IsLocal(),
	})
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(log.Middleware())

	protect := middleware.Protected(tokens.Secret(), log.WithComponent("auth"))

	routes.SetupUserRoutes(app, &user.Handler{
		Users:        users,
		Appointments: appointments,
		Ledger:       slots,
		Tokens:       tokens,
		Uploader:     uploader,
		Log:          log.WithComponent("user"),
	}, protect)
	routes.SetupDoctorRoutes(app, &doctor.Handler{
		Doctors:      doctors,
		Appointments: appointments,
		Ledger:       slots,
		Tokens:       tokens,
		Cache:        doctorList,
		Log:          log.WithComponent("doctor"),
	}, protect)
	routes.SetupAdminRoutes(app, &admin.Handler{
		Policy: auth.StaticAdminPolicy{
			Email:    cfg.Auth.AdminEmail,
			Password: cfg.Auth.AdminPassword,
		},
		Doctors:      doctors,
		Appointments: appointments,
		Diagnoses:    diagnoses,
		Ledger:       slots,
		Tokens:       tokens,
		Cache:        doctorCache,
		Uploader:     uploader,
		Log:          log.WithComponent("admin"),
	}, protect)
	routes.SetupDiagnosisRoutes(app, &diagnosis.Handler{
		Diagnoses: diagnoses,
		Location:  cfg.Location(),
		Now:       time.Now,
		Log:       log.WithComponent("diagnosis"),
	}, protect)
	routes.SetupOpsRoutes(app, func(ctx context.Context) error {
		return db.Ping(ctx, conn)
	}, log.WithComponent("ops"))

	go func() {
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			log.WithError(err).Fatal("Server stopped")
		}
	}()
	log.WithField("port", cfg.App.Port).Info("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
	scheduler.Stop()

	if sqlDB, err := conn.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.WithError(err).Error("Failed to close database")
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.WithError(err).Error("Failed to close redis")
		}
	}
}
