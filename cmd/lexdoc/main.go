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

	"github.com/lexkit/lexdoc/internal/ai"
	"github.com/lexkit/lexdoc/internal/config"
	"github.com/lexkit/lexdoc/internal/db"
	"github.com/lexkit/lexdoc/internal/filestore"
	"github.com/lexkit/lexdoc/internal/handler"
	"github.com/lexkit/lexdoc/internal/job"
	"github.com/lexkit/lexdoc/internal/middleware"
	"github.com/lexkit/lexdoc/internal/repo"
	"github.com/lexkit/lexdoc/internal/schedule"
	"github.com/lexkit/lexdoc/internal/service"
	"github.com/lexkit/lexdoc/internal/summarizer"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "lexdoc",
		Short: "lexdoc backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run lexdoc server",
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

			database, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(database); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, database)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, database *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("file_store", cfg.FileStore.Type),
		zap.String("summary_engine", cfg.Summarizer.Engine),
	)

	userRepo := repo.NewUserRepo(database)
	docRepo := repo.NewDocumentRepo(database)
	summaryRepo := repo.NewDocumentSummaryRepo(database)
	uploadRepo := repo.NewUploadRepo(database)

	var aiProvider ai.IProvider
	if cfg.AI.Provider != "" {
		provider, err := ai.NewProvider(cfg.AI.Provider, cfg.AI.Data)
		if err != nil {
			return fmt.Errorf("init ai provider: %w", err)
		}
		aiProvider = provider
	}

	smart := summarizer.New(cfg.SummarizerSettings())
	summaryService := service.NewSummaryService(
		smart,
		aiProvider,
		cfg.AI.Model,
		time.Duration(cfg.AI.TimeoutSeconds)*time.Second,
		cfg.Summarizer.Engine,
		summarizer.Tier(cfg.Summarizer.DefaultTier),
	)
	authService := service.NewAuthService(userRepo, []byte(cfg.JWTSecret), time.Hour*time.Duration(cfg.JWTTTLHours))
	documentService := service.NewDocumentService(docRepo, summaryRepo, summaryService)

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}
	uploadService := service.NewUploadService(uploadRepo, documentService, store, cfg.Upload.MaxSizeBytes)

	deps := handler.RouterDeps{
		Auth:      handler.NewAuthHandler(authService),
		Documents: handler.NewDocumentHandler(documentService),
		Uploads:   handler.NewUploadHandler(uploadService),
		NLP:       handler.NewNLPHandler(documentService, summaryService),
		Files:     handler.NewFileHandler(store),
		Health:    handler.NewHealthHandler(database),
		JWTSecret: []byte(cfg.JWTSecret),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(nil),
			middleware.RequestID(),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.New()
	if err := scheduler.AddJob(job.NewSummaryJob(documentService, cfg.Jobs.SummaryDelaySeconds), cfg.Jobs.SummarySpec); err != nil {
		return fmt.Errorf("schedule summary job: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
