package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lokanidao9991/SmartBusBoard/display"
	"github.com/lokanidao9991/SmartBusBoard/model"
	"github.com/lokanidao9991/SmartBusBoard/scheduler"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the board until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		loc := stopLocation()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		board := &display.Board{
			Device: &display.PNGDevice{
				Logger: logger,
				Path:   lookupEnv("BOARD_IMAGE_PATH", defaultImagePath),
			},
			Logger:   logger,
			Clock:    model.SystemClock{},
			Location: loc,
		}
		defer func() {
			if err := board.Close(); err != nil {
				logger.Print(err)
			}
		}()

		s := &scheduler.Scheduler{
			Logger:   logger,
			Config:   newStore(),
			Fetcher:  newFetcher(loc),
			Renderer: board,
			Clock:    model.SystemClock{},
			Location: loc,
		}

		logger.Print("board started")

		err := s.Run(ctx)
		if errors.Is(err, context.Canceled) {
			logger.Print("interrupted, releasing display")
			return nil
		}

		return err
	},
}
