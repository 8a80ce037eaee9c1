package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/roomkeep/dataroom/internal/config"
	"github.com/roomkeep/dataroom/internal/db"
	"github.com/roomkeep/dataroom/internal/handlers"
	"github.com/roomkeep/dataroom/internal/mailer"
	"github.com/roomkeep/dataroom/internal/policy"
	"github.com/roomkeep/dataroom/internal/server"
	"github.com/roomkeep/dataroom/internal/services"
	"github.com/roomkeep/dataroom/internal/storage"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()

	conn, err := db.Connect(cfg.Database.DSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if *migrateOnlyFlag {
		if err := db.Migrate(conn); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
		slog.Info("migrations completed")
		return
	}

	if cfg.App.Migrations {
		if err := db.Migrate(conn); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
	}

	taxonomy, err := config.LoadTaxonomy(cfg.App.TaxonomyFile)
	if err != nil {
		slog.Error("taxonomy load failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	blobs, err := storage.NewMinioStore(ctx, cfg.Storage)
	if err != nil {
		slog.Error("blob store init failed", "error", err)
		os.Exit(1)
	}

	var mail mailer.Mailer = mailer.Noop{}
	if cfg.Mail.APIURL != "" {
		mail = mailer.NewHTTPMailer(cfg.Mail)
	}

	authGate := policy.NewAuthGate(conn, 30*time.Second)
	auditSvc := services.NewAuditService(conn, authGate)
	docSvc := services.NewDocumentService(conn, blobs, authGate, auditSvc, cfg.Storage.MaxUploadSize)
	grantSvc := services.NewGrantService(conn, authGate)
	userSvc := services.NewUserService(conn, authGate, mail, cfg.Auth.DefaultUserPassword)

	router := server.New(server.Handlers{
		Auth:       handlers.NewAuthHandler(userSvc, cfg.Auth.JWTSecret),
		Documents:  handlers.NewDocumentHandler(docSvc),
		Users:      handlers.NewUserHandler(userSvc),
		Grants:     handlers.NewGrantHandler(grantSvc),
		Audit:      handlers.NewAuditHandler(auditSvc),
		Categories: handlers.NewCategoryHandler(taxonomy),
	}, server.Options{
		CORSOrigin: cfg.Server.CORSOrigin,
		JWTSecret:  cfg.Auth.JWTSecret,
		Verify:     userSvc.Exists,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("error during shutdown", "error", err)
	}
	slog.Info("server stopped gracefully")
}
