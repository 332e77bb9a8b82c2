package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/nats-io/nats.go/jetstream"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/your-org/faceauth/internal/api"
	"github.com/your-org/faceauth/internal/api/ws"
	"github.com/your-org/faceauth/internal/config"
	"github.com/your-org/faceauth/internal/faceindex"
	"github.com/your-org/faceauth/internal/observability"
	"github.com/your-org/faceauth/internal/queue"
	"github.com/your-org/faceauth/internal/service"
	"github.com/your-org/faceauth/internal/storage"
	"github.com/your-org/faceauth/internal/vision"
	"github.com/your-org/faceauth/migrations"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("starting faceauth API service", "port", cfg.Server.Port)

	// Connect to Postgres and apply migrations
	db, err := storage.NewPostgresStore(cfg.Database)
	if err != nil {
		slog.Error("connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	migrationDB := stdlib.OpenDBFromPool(db.Pool())
	if err := migrations.Migrate(migrationDB); err != nil {
		slog.Error("apply migrations", "error", err)
		os.Exit(1)
	}

	// Connect to MinIO when the deployment keeps profile photos
	var minioStore *storage.MinIOStore
	if cfg.MinIO.Enabled {
		minioStore, err = storage.NewMinIOStore(cfg.MinIO)
		if err != nil {
			slog.Error("connect to minio", "error", err)
			os.Exit(1)
		}
		if err := minioStore.EnsureBucket(context.Background()); err != nil {
			slog.Warn("ensure minio bucket", "error", err)
		}
	} else {
		slog.Info("object storage disabled, enrolling from raw photo bytes")
	}

	// Connect to NATS
	producer, err := queue.NewProducer(cfg.NATS.URL)
	if err != nil {
		slog.Error("connect to nats", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	if err := producer.EnsureStream(context.Background()); err != nil {
		slog.Warn("ensure nats stream", "error", err)
	}

	// Load the recognition engine
	ort.SetSharedLibraryPath(getONNXLibPath())
	if err := ort.InitializeEnvironment(); err != nil {
		slog.Error("onnx runtime init", "error", err)
		os.Exit(1)
	}
	defer ort.DestroyEnvironment()

	extractor, err := vision.NewExtractor(cfg.Vision)
	if err != nil {
		slog.Error("load vision models", "error", err)
		os.Exit(1)
	}
	defer extractor.Close()

	// Face index over the shared pool
	var objects faceindex.ObjectGetter
	if minioStore != nil {
		objects = minioStore
	}
	index := faceindex.NewPgvectorIndex(db.Pool(), extractor, objects,
		cfg.FaceIndex.Collection, cfg.FaceIndex.DedupThreshold)

	// Bootstrap the collection before taking traffic. Fatal on failure: the
	// service must not serve biometric requests against a missing collection.
	bootstrapper := service.NewBootstrapper(index)
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = bootstrapper.EnsureCollection(bootCtx, cfg.FaceIndex.Collection, cfg.FaceIndex.ResetPolicy)
	bootCancel()
	if err != nil {
		slog.Error("bootstrap collection", "error", err)
		os.Exit(1)
	}

	// Orchestrators: long-lived, shared read-only across requests
	var photos service.ObjectStore
	if minioStore != nil {
		photos = minioStore
	}
	enroller := service.NewEnroller(index, db, photos, producer, cfg.FaceIndex)
	identifier := service.NewIdentifier(index, db, producer)

	// WebSocket hub fed by the identity event stream
	hub := ws.NewHub()
	go hub.Run()

	consumer, err := queue.NewConsumer(cfg.NATS.URL)
	if err != nil {
		slog.Error("create identity event consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = consumer.ConsumeIdentityEvents(ctx, "api-identity-events", func(ctx context.Context, msg jetstream.Msg) error {
		hub.Broadcast(msg.Data())
		return nil
	})
	if err != nil {
		slog.Warn("start identity event consumer", "error", err)
	}

	// Setup router
	router := api.NewRouter(api.RouterConfig{
		APIKey:     cfg.Server.APIKey,
		DB:         db,
		MinIO:      minioStore,
		Producer:   producer,
		Hub:        hub,
		Index:      index,
		Enroller:   enroller,
		Identifier: identifier,
	})

	// Start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("API server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down API server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("API server stopped")
}

// getONNXLibPath returns the ONNX Runtime shared library path.
func getONNXLibPath() string {
	switch runtime.GOOS {
	case "windows":
		return "onnxruntime.dll"
	case "linux":
		return "libonnxruntime.so"
	case "darwin":
		return "libonnxruntime.dylib"
	default:
		return "onnxruntime.dll"
	}
}
