package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/babyline/internal/access"
	"github.com/xxxsen/babyline/internal/config"
	"github.com/xxxsen/babyline/internal/db"
	"github.com/xxxsen/babyline/internal/filestore"
	"github.com/xxxsen/babyline/internal/handler"
	"github.com/xxxsen/babyline/internal/job"
	"github.com/xxxsen/babyline/internal/middleware"
	"github.com/xxxsen/babyline/internal/pkg/password"
	"github.com/xxxsen/babyline/internal/repo"
	"github.com/xxxsen/babyline/internal/schedule"
	"github.com/xxxsen/babyline/internal/service"
)

const photoURLRefreshSpec = "0 3 * * *"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "babyline",
		Short: "babyline backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run babyline server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			conn, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(conn); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, conn)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, conn *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("db_name", cfg.Database.DBName),
		zap.String("file_store", cfg.FileStore.Type),
	)

	userRepo := repo.NewUserRepo(conn)
	babyRepo := repo.NewBabyRepo(conn)
	measurementRepo := repo.NewMeasurementRepo(conn)
	photoRepo := repo.NewPhotoRepo(conn)
	shareRepo := repo.NewShareRepo(conn)

	engineAccess := access.NewEngine(babyRepo, shareRepo, password.Compare, nil)

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	authService := service.NewAuthService(userRepo, []byte(cfg.JWTSecret), time.Hour*time.Duration(cfg.JWTTTLHours))
	babyService := service.NewBabyService(babyRepo, engineAccess)
	measurementService := service.NewMeasurementService(measurementRepo, engineAccess)
	photoURLTTL := 24 * time.Hour * time.Duration(cfg.PhotoURLTTL)
	photoService := service.NewPhotoService(photoRepo, store, engineAccess, photoURLTTL)
	shareService := service.NewShareService(shareRepo, babyRepo, measurementRepo, photoRepo, engineAccess)

	deps := handler.RouterDeps{
		Auth:         handler.NewAuthHandler(authService),
		Babies:       handler.NewBabyHandler(babyService),
		Measurements: handler.NewMeasurementHandler(measurementService),
		Photos:       handler.NewPhotoHandler(photoService, store),
		Shares:       handler.NewShareHandler(shareService),
		JWTSecret:    []byte(cfg.JWTSecret),
		RateWindow:   time.Second,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.AllowOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	refreshJob := job.NewPhotoURLRefreshJob(photoService, 24*time.Hour, 200)
	if err := scheduler.AddJob(refreshJob, photoURLRefreshSpec); err != nil {
		return fmt.Errorf("schedule %s: %w", refreshJob.Name(), err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
