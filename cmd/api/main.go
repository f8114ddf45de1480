package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gramsewa/internal/admin"
	"gramsewa/internal/auth"
	"gramsewa/internal/blob"
	"gramsewa/internal/citizen"
	"gramsewa/internal/complaint"
	"gramsewa/internal/config"
	"gramsewa/internal/httpapi"
	"gramsewa/internal/identity"
	"gramsewa/internal/ratelimit"
	"gramsewa/pkg/logger"
	"gramsewa/pkg/mongoutil"
	"gramsewa/pkg/redisutil"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Missing .env is fine; containers set real env.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	mongoClient, err := mongoutil.Open(rootCtx, mongoutil.Config{URI: cfg.Mongo.URI})
	if err != nil {
		log.Error("mongo init failed", "err", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Error("mongo disconnect failed", "err", err)
		}
	}()
	db := mongoClient.Database(cfg.Mongo.Database)

	citizenStore := citizen.NewMongoStore(db)
	adminStore := admin.NewMongoStore(db)
	complaintStore := complaint.NewMongoStore(db)

	adminService := admin.NewService(adminStore)
	complaintService := complaint.NewService(complaintStore, citizenStore, adminStore)
	resolver := citizen.NewResolver(citizenStore)

	sessionManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	loginLimiter := ratelimit.Disabled()
	if cfg.RedisEnabled() {
		rdb, err := redisutil.Open(rootCtx, redisutil.Config{Addr: cfg.RedisAddr()})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()

		loginLimiter, err = ratelimit.NewRedisLimiter(rdb, "gramsewa", cfg.Auth.LoginAttemptLimit, cfg.Auth.LoginAttemptWindow)
		if err != nil {
			log.Error("login limiter init failed", "err", err)
			os.Exit(1)
		}
	}

	blobStore, serveUploads, err := newBlobStore(rootCtx, cfg.Blob)
	if err != nil {
		log.Error("blob store init failed", "err", err)
		os.Exit(1)
	}

	if err := adminService.EnsureSuperadmin(rootCtx,
		cfg.Bootstrap.SuperadminName,
		cfg.Bootstrap.SuperadminEmail,
		cfg.Bootstrap.SuperadminPassword,
	); err != nil {
		log.Error("superadmin bootstrap failed", "err", err)
		os.Exit(1)
	}

	verifier := identity.NewGoogleVerifier(cfg.Google.ClientID)

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	if serveUploads != "" {
		r.Static("/uploads", serveUploads)
	}

	h := httpapi.Handlers{
		Complaints:   complaintService,
		Admins:       adminService,
		Sessions:     sessionManager,
		Verifier:     verifier,
		Citizens:     resolver,
		Blob:         blobStore,
		LoginLimiter: loginLimiter,
	}
	registerRoutes(r, h,
		auth.RequireCitizen(verifier, resolver),
		auth.RequireAdmin(sessionManager, adminStore),
	)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}

// newBlobStore builds the configured image store. The returned dir is
// non-empty only for the disk backend, which the router then serves
// under /uploads.
func newBlobStore(ctx context.Context, cfg config.BlobConfig) (blob.Store, string, error) {
	switch cfg.Backend {
	case "gcs":
		s, err := blob.NewGCSStore(ctx, cfg.Bucket)
		return s, "", err
	default:
		s, err := blob.NewDiskStore(cfg.Dir, cfg.BaseURL)
		if err != nil {
			return nil, "", err
		}
		return s, s.Dir(), nil
	}
}
