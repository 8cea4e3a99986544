package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/smartconsult/consult-engine/internal/application"
	"github.com/smartconsult/consult-engine/internal/application/analysis"
	"github.com/smartconsult/consult-engine/internal/config"
	"github.com/smartconsult/consult-engine/internal/domain/cases"
	"github.com/smartconsult/consult-engine/internal/domain/faults"
	"github.com/smartconsult/consult-engine/internal/domain/reports"
	mysqlp "github.com/smartconsult/consult-engine/internal/infra/db/mysql"
	postgresp "github.com/smartconsult/consult-engine/internal/infra/db/postgres"
	"github.com/smartconsult/consult-engine/internal/infra/httpserver"
	infrallm "github.com/smartconsult/consult-engine/internal/infra/llm"
	"github.com/smartconsult/consult-engine/internal/infra/llm/parse"
	"github.com/smartconsult/consult-engine/internal/infra/llm/prompt"
	"github.com/smartconsult/consult-engine/internal/infra/render"
	minioStore "github.com/smartconsult/consult-engine/internal/infra/storage"
	"github.com/smartconsult/consult-engine/internal/middleware"
)

func main() {
	// .env first so ${VAR} expansion in config.yaml sees API keys
	_ = godotenv.Load()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect database
	var db *sql.DB
	var caseRepo cases.Repository
	var reportRepo reports.Repository
	var faultRepo faults.Repository
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		caseRepo = postgresp.NewCaseRepository(db)
		reportRepo = postgresp.NewReportRepository(db)
		faultRepo = postgresp.NewFaultRepository(db)
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		caseRepo = mysqlp.NewCaseRepository(db)
		reportRepo = mysqlp.NewReportRepository(db)
		faultRepo = mysqlp.NewFaultRepository(db)
	}
	defer db.Close()

	// init provider registry
	registry, err := infrallm.NewRegistry(ctx, cfg.Providers)
	if err != nil {
		log.Fatalf("provider registry error: %v", err)
	}
	log.Printf("providers available: %v", registry.Available())

	// init minio archive (optional)
	var archive reports.ArchiveStore
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
			log.Fatalf("minio init error: %v", err)
		}
		archive = store
	}

	// init service
	svc := &analysis.Service{
		Cases:       caseRepo,
		Reports:     reportRepo,
		Faults:      faultRepo,
		Providers:   registry,
		Prompter:    prompt.Builder{MaxInputChars: cfg.Limits.MaxInputChars},
		Parser:      parse.Parser{},
		Renderer:    render.HTML{},
		Archive:     archive,
		Clock:       application.SystemClock{},
		CallTimeout: time.Duration(cfg.Limits.ProviderTimeoutSeconds) * time.Second,
	}

	// init router
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(20, 2))

	mux.Get("/health", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"database":  &middleware.DatabaseHealthChecker{DB: db},
		"providers": &middleware.ProviderHealthChecker{Count: func() int { return len(registry.Available()) }},
	}))
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Mount("/", httpserver.NewRouter(svc))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: time.Duration(cfg.Limits.ProviderTimeoutSeconds+30) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
