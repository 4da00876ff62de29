package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/ChannelMeter/iso8601duration"
	"github.com/joho/godotenv"
	"github.com/lokanidao9991/SmartBusBoard/config"
	"github.com/lokanidao9991/SmartBusBoard/departures"
	"github.com/lokanidao9991/SmartBusBoard/dlog"
	"github.com/lokanidao9991/SmartBusBoard/model"
	"github.com/lokanidao9991/SmartBusBoard/repository"
	trias_client "github.com/lokanidao9991/SmartBusBoard/trias-client"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	defaultConfigPath   = "config.yaml"
	defaultImagePath    = "display_image.png"
	defaultTriasTimeout = "PT30S"
)

var logger *dlog.Logger

var rootCmd = &cobra.Command{
	Use:   "departures-board",
	Short: "Live departures for one stop on a small e-paper display",
	Long: `departures-board polls the opentransportdata.swiss TRIAS API for the
configured stop and draws the next departures, going quiet overnight.`,
	SilenceUsage: true,
}

func main() {
	loggerOptions := []dlog.LoggerOption{
		dlog.LoggerSetOutput(os.Stderr),
		dlog.LoggerSetPrefix("departures-board: "),
		dlog.LoggerSetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Llongfile),
	}

	logger = dlog.NewLogger(loggerOptions...)

	logger.Debug("main")

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Printf("cannot read .env file: %s", err)
	}

	rootCmd.AddCommand(runCmd, fetchCmd, configureCmd)

	if err := rootCmd.Execute(); err != nil {
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

// newStore picks the Redis store when BOARD_REDIS_HOST is set and the YAML
// file otherwise.
func newStore() config.Store {
	redisHost, exists := os.LookupEnv("BOARD_REDIS_HOST")
	if exists && redisHost != "" {
		logger.Debugf("configuration in Redis at %s", redisHost)
		return &repository.RedisStore{
			Logger: logger,
			Pool:   repository.NewRedisPool(redisHost),
			Key:    lookupEnv("BOARD_REDIS_KEY", repository.DefaultConfigKey),
		}
	}

	path := lookupEnv("BOARD_CONFIG_PATH", defaultConfigPath)
	logger.Debugf("configuration in %s", path)

	return config.NewFileStore(path)
}

// parseTimeout reads an ISO 8601 duration such as PT30S.
func parseTimeout(s string) (time.Duration, error) {
	d, err := duration.FromString(s)
	if err != nil {
		return 0, errors.Wrapf(err, "TRIAS_TIMEOUT value `%s` is not a valid ISO8601 duration", s)
	}

	timeout := d.ToDuration()
	if timeout <= 0 {
		return 0, errors.Errorf("TRIAS_TIMEOUT value `%s` must be greater than 0", s)
	}

	return timeout, nil
}

func newFetcher(loc *time.Location) *departures.Fetcher {
	timeout, err := parseTimeout(lookupEnv("TRIAS_TIMEOUT", defaultTriasTimeout))
	if err != nil {
		logger.Fatal(err)
	}

	client := trias_client.TriasClient{
		Client: &http.Client{
			Timeout: timeout,
		},
		Logger:   logger,
		TriasURL: lookupEnv("TRIAS_URL", trias_client.DefaultURL),
	}

	return &departures.Fetcher{
		Logger:   logger,
		Client:   &client,
		Clock:    model.SystemClock{},
		Location: loc,
	}
}

func stopLocation() *time.Location {
	loc, err := model.StopLocation()
	if err != nil {
		logger.Fatal(err)
	}
	return loc
}
