package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bryanwahyu/textlens/internal/application"
	appai "github.com/bryanwahyu/textlens/internal/application/ai"
	appanalyses "github.com/bryanwahyu/textlens/internal/application/analyses"
	"github.com/bryanwahyu/textlens/internal/config"
	"github.com/bryanwahyu/textlens/internal/domain/ai"
	domain "github.com/bryanwahyu/textlens/internal/domain/analysis"
	"github.com/bryanwahyu/textlens/internal/infra/ai/anthropic"
	"github.com/bryanwahyu/textlens/internal/infra/ai/gemini"
	"github.com/bryanwahyu/textlens/internal/infra/ai/openai"
	mysqlp "github.com/bryanwahyu/textlens/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/textlens/internal/infra/db/postgres"
	sqlitep "github.com/bryanwahyu/textlens/internal/infra/db/sqlite"
	"github.com/bryanwahyu/textlens/internal/infra/httpserver"
	"github.com/bryanwahyu/textlens/internal/infra/nlp"
	minioStore "github.com/bryanwahyu/textlens/internal/infra/storage"
	"github.com/bryanwahyu/textlens/internal/middleware"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx := context.Background()

	db, repo, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal("database connect error", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer db.Close()

	if cfg.Migrate() {
		if err := repo.Migrate(ctx); err != nil {
			logger.Fatal("database migrate error", zap.Error(err))
		}
	}

	aiSvc := newAIService(cfg)

	svc := &appanalyses.Service{
		Repo:     repo,
		AI:       aiSvc,
		Keywords: nlp.NewExtractor(),
		Clock:    application.SystemClock{},
	}

	checkers := map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}

	// raw-response archive is optional
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			logger.Warn("minio init failed, raw responses will not be archived", zap.Error(err))
		} else {
			svc.Archive = store
		}
	}

	handler := httpserver.NewRouter(svc, aiSvc, httpserver.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		HealthCheckers: checkers,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server listening",
			zap.String("addr", addr),
			zap.String("driver", cfg.Database.Driver),
			zap.Any("engines", aiSvc.Engines()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Log.Level)
	if err != nil {
		return nil, eris.Wrapf(err, "log level %q", cfg.Log.Level)
	}
	zc := zap.NewProductionConfig()
	if cfg.Log.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}

func openStore(ctx context.Context, cfg *config.Config) (*sql.DB, domain.Repository, error) {
	dsn := cfg.DSN()
	switch cfg.Database.Driver {
	case "sqlite":
		db, err := sqlitep.Connect(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return db, sqlitep.NewAnalysisRepository(db), nil
	case "mysql":
		db, err := mysqlp.Connect(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return db, mysqlp.NewAnalysisRepository(db), nil
	case "postgres":
		db, err := postgresp.Connect(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return db, postgresp.NewAnalysisRepository(db), nil
	}
	return nil, nil, eris.Errorf("unsupported database driver %q", cfg.Database.Driver)
}

// newAIService registers gemini and openai always; anthropic only when a key
// is configured. Missing gemini/openai keys surface as provider errors.
func newAIService(cfg *config.Config) *appai.Service {
	httpClient := &http.Client{Timeout: cfg.LLM.Timeout}
	svc := appai.NewService()

	g := cfg.LLM.Gemini
	svc.Register(ai.EngineGemini, appai.Provider{
		Client: gemini.NewClient(g.APIKey, g.Model, g.BaseURL, httpClient),
		Policy: ai.ParseFailurePolicy(g.OnFailure, ai.PolicyPropagate),
	})

	o := cfg.LLM.OpenAI
	svc.Register(ai.EngineOpenAI, appai.Provider{
		Client: openai.NewClient(o.APIKey, o.Model, o.BaseURL, httpClient),
		Policy: ai.ParseFailurePolicy(o.OnFailure, ai.PolicyDegrade),
	})

	if a := cfg.LLM.Anthropic; a.APIKey != "" {
		svc.Register(ai.EngineAnthropic, appai.Provider{
			Client: anthropic.NewClient(a.APIKey, a.Model, a.BaseURL, httpClient),
			Policy: ai.ParseFailurePolicy(a.OnFailure, ai.PolicyPropagate),
		})
	}
	return svc
}
