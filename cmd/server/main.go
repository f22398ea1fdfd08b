package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bedflow/internal/config"
	"bedflow/internal/events"
	"bedflow/internal/handler"
	"bedflow/internal/logger"
	"bedflow/internal/middleware"
	"bedflow/internal/realtime"
	"bedflow/internal/repository"
	"bedflow/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Load configuration
	cfg := config.LoadConfig()

	// 2. Initialize logger
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "bedflow")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server exited with error", zap.Error(err))
	}
	log.Info("Server exited")
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Initialize store and event fan-out
	store := repository.NewStore()
	broadcaster := events.NewBroadcaster(log)
	hub := realtime.NewHub(realtime.DefaultSendBuffer, log)
	broadcaster.Subscribe("websocket", hub)

	relays := dialRelays(ctx, cfg.Relay, log)
	for _, relay := range relays {
		broadcaster.Subscribe(relay.Name(), relay)
	}

	// 4. Initialize services
	bedService := service.NewBedService(store, broadcaster, log)
	queueService := service.NewQueueService(store, broadcaster, log)
	assignmentService := service.NewAssignmentService(store, queueService, broadcaster, log)
	censusService := service.NewCensusService(store)
	workerService := service.NewWorkerService(queueService, cfg.Queue.RefreshInterval, log)

	// 5. Seed beds from the layout file
	if cfg.Layout.File != "" {
		layout, err := config.LoadLayout(cfg.Layout.File)
		if err != nil {
			return err
		}
		created, err := bedService.LoadLayout(layout)
		if err != nil {
			return fmt.Errorf("failed to seed beds from %s: %w", cfg.Layout.File, err)
		}
		log.Info("Bed layout loaded", zap.String("file", cfg.Layout.File), zap.Int("beds", created))
	}

	// 6. Setup Gin router
	gin.SetMode(cfg.Server.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg))

	handler.RegisterRoutes(r, handler.Handlers{
		Beds:       handler.NewBedHandler(bedService, censusService),
		Assignment: handler.NewAssignmentHandler(assignmentService),
		Queue:      handler.NewQueueHandler(queueService),
		Realtime:   handler.NewRealtimeHandler(hub),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 7. Run everything until a signal arrives or a component fails
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		workerService.Start(gctx)
		return nil
	})

	g.Go(func() error {
		return hub.Run(gctx)
	})

	for _, relay := range relays {
		relay := relay
		g.Go(func() error {
			return relay.Run(gctx)
		})
	}

	return g.Wait()
}

// dialRelays connects every configured broker. A broker that cannot be
// reached is logged and skipped so the allocation engine still starts.
func dialRelays(ctx context.Context, cfg config.RelayConfig, log *zap.Logger) []*events.Relay {
	var relays []*events.Relay

	if cfg.Redis.Addr != "" {
		publisher, err := events.DialRedis(ctx, cfg.Redis)
		if err != nil {
			log.Error("Redis relay disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			relays = append(relays, events.NewRelay("redis", publisher, cfg.Buffer, cfg.Timeout, log))
		}
	}

	if cfg.NATS.URL != "" {
		publisher, err := events.DialNATS(cfg.NATS)
		if err != nil {
			log.Error("NATS relay disabled", zap.String("url", cfg.NATS.URL), zap.Error(err))
		} else {
			relays = append(relays, events.NewRelay("nats", publisher, cfg.Buffer, cfg.Timeout, log))
		}
	}

	if cfg.MQTT.Broker != "" {
		publisher, err := events.DialMQTT(cfg.MQTT)
		if err != nil {
			log.Error("MQTT relay disabled", zap.String("broker", cfg.MQTT.Broker), zap.Error(err))
		} else {
			relays = append(relays, events.NewRelay("mqtt", publisher, cfg.Buffer, cfg.Timeout, log))
		}
	}

	for _, relay := range relays {
		log.Info("Event relay enabled", zap.String("relay", relay.Name()))
	}
	return relays
}
