package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/lokanidao9991/SmartBusBoard/config"
	"github.com/lokanidao9991/SmartBusBoard/display"
	"github.com/lokanidao9991/SmartBusBoard/model"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the current departures once and print them",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := newStore().Load()
		if err != nil {
			return err
		}

		departures, err := newFetcher(stopLocation()).Fetch(context.Background(), cfg)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), departuresTable(departures, cfg))

		return nil
	},
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// departuresTable lays the list out the way the panel does: line, shortened
// destination and minutes.
func departuresTable(departures []model.Departure, cfg config.Snapshot) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Line", "Destination", "Min").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == 0 {
				return headerStyle
			}
			return cellStyle
		})

	for _, d := range departures {
		t.Row(d.Line, display.TruncateText(d.Destination, display.DestinationMaxLength), strconv.Itoa(d.Minutes)+"'")
	}

	title := titleStyle.Render(display.TruncateText(cfg.StopTitle, display.TitleMaxLength) + " (" + cfg.StopPointRef + ")")
	if len(departures) == 0 {
		return title + "\nNo departures."
	}

	return title + "\n" + t.Render()
}
