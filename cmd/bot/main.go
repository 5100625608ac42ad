package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gatetracker/bot/internal/app"
	"gatetracker/bot/internal/backup"
	"gatetracker/bot/internal/bot"
	"gatetracker/bot/internal/config"
	"gatetracker/bot/internal/history"
	"gatetracker/bot/internal/schedule"
	"gatetracker/bot/internal/search"
	"gatetracker/bot/internal/store"
)

// logSender is the default broadcast channel until a chat transport is
// attached: scheduled messages go to the process log.
type logSender struct{}

func (logSender) Send(_ context.Context, chatID int64, text string) error {
	log.Printf("broadcast to chat %d:\n%s", chatID, text)
	return nil
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	var repo store.Repository
	switch {
	case strings.TrimSpace(cfg.DatabaseURL) != "":
		db, err := store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		defer db.Close()
		pg := store.NewPostgresRepository(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatalf("schema setup failed: %v", err)
		}
		log.Printf("Using PostgreSQL document store")
		repo = pg
	case strings.TrimSpace(cfg.RedisURL) != "":
		redisRepo, err := store.NewRedisRepository(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		defer redisRepo.Close()
		log.Printf("Using Redis document store")
		repo = redisRepo
	default:
		log.Printf("Using file document store at %s", cfg.DataFile)
		repo = store.NewFileRepository(cfg.DataFile)
	}

	var audit app.AuditLog
	if strings.TrimSpace(cfg.HistoryDir) != "" {
		audit = history.New(cfg.HistoryDir)
	}

	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
		defer meiliClient.Close()
	}
	searchService := search.NewService(meiliClient)

	service := app.New(repo, audit, searchService)

	// Seed the search index from whatever is already persisted.
	if doc, err := service.Snapshot(ctx); err == nil {
		searchService.IndexDocument(doc)
	}

	scheduler := schedule.New()
	defer scheduler.Stop()

	tracker := bot.New(service, scheduler, searchService, logSender{})

	if strings.TrimSpace(cfg.BackupEndpoint) != "" {
		backupService, err := backup.New(ctx, cfg.BackupEndpoint, cfg.BackupAccessKey, cfg.BackupSecretKey, cfg.BackupBucket, cfg.BackupUseSSL)
		if err != nil {
			log.Fatalf("backup setup failed: %v", err)
		}
		hour, minute, err := schedule.ParseClock(cfg.BackupTime)
		if err != nil {
			log.Fatalf("invalid BACKUP_TIME: %v", err)
		}
		scheduler.RegisterDaily(0, "backup", hour, minute, func() {
			snapshotCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			doc, err := service.Snapshot(snapshotCtx)
			if err != nil {
				log.Printf("backup: load document: %v", err)
				return
			}
			name, err := backupService.Snapshot(snapshotCtx, doc)
			if err != nil {
				log.Printf("backup: %v", err)
				return
			}
			log.Printf("backup: uploaded %s", name)
		})
		log.Printf("Daily backup scheduled at %s", cfg.BackupTime)
	}

	httpServer := bot.NewHTTPServer(tracker)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("GateTracker bot listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
