package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"trivia-jack/internal/config"
	"trivia-jack/internal/db"
	"trivia-jack/internal/game"
	"trivia-jack/internal/logger"
	"trivia-jack/internal/publish"
	"trivia-jack/internal/server"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	zlog, err := logger.New(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("logger setup failed: %v", err)
	}
	defer zlog.Sync()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recorders, closeRecorders, err := openRecorders(ctx, cfg, zlog)
	if err != nil {
		return err
	}
	defer closeRecorders()

	engine := game.New(
		game.WithLogger(zlog.Named("engine")),
		game.WithRecorder(recorders...),
		game.WithRecordTimeout(cfg.RecordTimeout),
	)
	scheduler := game.NewScheduler(engine, cfg.TickInterval, zlog.Named("scheduler"))
	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		_ = scheduler.Run(ctx)
	}()

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(engine, cfg, zlog.Named("http"))
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		zlog.Info("trivia server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			stop()
			<-schedulerDone
			return err
		}
	}

	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	srv.Close()
	err = httpServer.Shutdown(shutdownCtx)
	<-schedulerDone
	return err
}

// openRecorders wires the optional sinks. A sink is enabled by its
// connection setting; an unreachable sink fails startup.
func openRecorders(ctx context.Context, cfg config.Config, zlog *zap.Logger) ([]game.Recorder, func(), error) {
	var recorders []game.Recorder
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.DatabaseURL != "" {
		conn, err := db.Open(db.Options{
			DSN:             cfg.DatabaseURL,
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime(),
		})
		if err != nil {
			return nil, closeAll, err
		}
		if sqlDB, err := conn.DB(); err == nil {
			closers = append(closers, func() { _ = sqlDB.Close() })
		}
		if cfg.DBAutoMigrate {
			if err := db.Migrate(conn, zlog); err != nil {
				closeAll()
				return nil, func() {}, err
			}
		}
		recorders = append(recorders, server.NewDBRecorder(conn, zlog.Named("db")))
		zlog.Info("postgres recorder enabled")
	}

	if cfg.RedisAddr != "" {
		client, err := publish.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		closers = append(closers, func() { _ = client.Close() })
		recorders = append(recorders, publish.NewBoardCache(client, cfg.BoardTTL(), zlog.Named("redis")))
		zlog.Info("redis board cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	if cfg.AMQPURL != "" {
		publisher, err := publish.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange, zlog.Named("amqp"))
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		closers = append(closers, func() { _ = publisher.Close() })
		recorders = append(recorders, publisher)
		zlog.Info("amqp publisher enabled", zap.String("exchange", cfg.AMQPExchange))
	}

	return recorders, closeAll, nil
}
