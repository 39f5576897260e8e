package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jobboard/jobs-api/internal/config"
	"github.com/jobboard/jobs-api/internal/database"
	"github.com/jobboard/jobs-api/internal/events"
	"github.com/jobboard/jobs-api/internal/job/service"
	"github.com/jobboard/jobs-api/internal/server"
	"github.com/jobboard/jobs-api/pkg/logger"
	"github.com/jobboard/jobs-api/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := &cobra.Command{
		Use:          "jobs-api",
		Short:        "Job listings HTTP API backed by MongoDB",
		SilenceUsage: true,
	}
	serve := serveCommand()
	root.AddCommand(serve)
	// running the binary without a subcommand serves
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Connect to MongoDB and serve the jobs API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
	}
	cmd.Flags().String("port", "8000", "listen port (overrides PORT)")
	_ = viper.BindPFlag("PORT", cmd.Flags().Lookup("port"))
	return cmd
}

func run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.Log.Level)
	defer func() { _ = logger.Sync() }()
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	if cfg.Server.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	// no retries: a store that is down at startup stops the process
	client, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	dbName := database.DatabaseName(cfg.MongoDB.URI, cfg.MongoDB.Database)
	logger.Infof("Connected to MongoDB successfully (db=%s collection=%s)", dbName, cfg.MongoDB.Collection)

	var pub events.Publisher = events.Nop{}
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s), job events disabled: %v", cfg.Redis.Addr(), err)
		} else {
			pub = events.NewRedisPublisher(rdb, cfg.Events.Channel)
			logger.Infof("publishing job events to Redis channel %q", cfg.Events.Channel)
		}
	}

	col := client.Database(dbName).Collection(cfg.MongoDB.Collection)
	svc := service.NewMongoService(col, pub)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r := server.NewRouter(svc, prometheus.DefaultGatherer)

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return server.Serve(ctx, ln, r, cfg.Server.ShutdownTimeout)
}
