package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lokanidao9991/SmartBusBoard/config"
	"github.com/lokanidao9991/SmartBusBoard/dlog"
	"github.com/lokanidao9991/SmartBusBoard/repository"
	"github.com/lokanidao9991/SmartBusBoard/stops"
)

const (
	defaultConfigPath = "config.yaml"
	defaultListenAddr = ":5000"
	defaultStopsCSV   = "Betriebspunkt.csv"
)

func main() {
	loggerOptions := []dlog.LoggerOption{
		dlog.LoggerSetOutput(os.Stderr),
		dlog.LoggerSetPrefix("config-editor: "),
		dlog.LoggerSetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Llongfile),
	}

	logger := dlog.NewLogger(loggerOptions...)

	logger.Debug("main")

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Printf("cannot read .env file: %s", err)
	}

	var store config.Store
	redisHost, exists := os.LookupEnv("BOARD_REDIS_HOST")
	if exists && redisHost != "" {
		store = &repository.RedisStore{
			Logger: logger,
			Pool:   repository.NewRedisPool(redisHost),
			Key:    lookupEnv("BOARD_REDIS_KEY", repository.DefaultConfigKey),
		}
	} else {
		store = config.NewFileStore(lookupEnv("BOARD_CONFIG_PATH", defaultConfigPath))
	}

	directory := &stops.Directory{
		Client: &http.Client{
			Timeout: time.Minute,
		},
		Logger: logger,
	}

	if stopsURL, exists := os.LookupEnv("EDITOR_STOPS_URL"); exists && stopsURL != "" {
		directory.URL = stopsURL
	} else {
		directory.Path = lookupEnv("EDITOR_STOPS_CSV", defaultStopsCSV)
	}

	editor := &Editor{
		Logger: logger,
		Store:  store,
	}

	if err := directory.Load(); err != nil {
		logger.Printf("stop autocomplete disabled: %s", err)
	} else {
		editor.Stops = directory
	}

	server := &http.Server{
		Addr:              lookupEnv("EDITOR_LISTEN_ADDR", defaultListenAddr),
		Handler:           editor.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Printf("cannot shut down cleanly: %s", err)
		}
	}()

	logger.Printf("listening on %s", server.Addr)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal(err)
	}
}

func lookupEnv(key string, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	return value
}
