package main

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/lokanidao9991/SmartBusBoard/config"
	"github.com/lokanidao9991/SmartBusBoard/repository"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Edit the stop and display settings in a terminal form",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newStore()

		doc, err := store.Document()
		if err != nil && !config.IsNotExist(err) && errors.Cause(err) != repository.ErrNoConfiguration {
			return err
		}

		values := formValuesFromDocument(doc)

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Stop point reference").
					Description("DiDok number, e.g. 8503000").
					Value(&values.StopPointRef).
					Validate(requireValue),
				huh.NewInput().
					Title("Stop title").
					Value(&values.StopTitle).
					Validate(requireValue),
				huh.NewInput().
					Title("Number of results").
					Value(&values.NumberOfResults).
					Validate(validatePositiveInt),
				huh.NewInput().
					Title("Desired destinations").
					Description("Comma separated, or all").
					Value(&values.DesiredDestinations).
					Validate(requireValue),
				huh.NewInput().
					Title("Threshold").
					Description("Hide departures leaving in fewer minutes than this").
					Value(&values.Threshold).
					Validate(validateInt),
			),
		)

		if err := form.Run(); err != nil {
			return errors.Wrap(err, "configuration form aborted")
		}

		if err := store.Update(values.apply); err != nil {
			return err
		}

		logger.Print("configuration updated")

		return nil
	},
}

// formValues holds the editable settings as text, the way both the terminal
// form and the HTML form submit them.
type formValues struct {
	StopPointRef        string
	StopTitle           string
	NumberOfResults     string
	DesiredDestinations string
	Threshold           string
}

func formValuesFromDocument(doc config.Document) formValues {
	v := formValues{
		StopPointRef:        config.StringValue(doc.StopPointRef, ""),
		StopTitle:           config.StringValue(doc.StopTitle, ""),
		NumberOfResults:     "10",
		DesiredDestinations: "all",
		Threshold:           "0",
	}

	if doc.NumberOfResults != nil {
		v.NumberOfResults = strconv.Itoa(*doc.NumberOfResults)
	}

	if len(doc.DesiredDestinations) > 0 {
		v.DesiredDestinations = config.JoinDestinations(doc.DesiredDestinations)
	}

	if doc.Threshold != nil {
		v.Threshold = strconv.Itoa(*doc.Threshold)
	}

	return v
}

// apply is only called after the form validated every field.
func (v formValues) apply(doc *config.Document) {
	numberOfResults, _ := strconv.Atoi(strings.TrimSpace(v.NumberOfResults))
	threshold, _ := strconv.Atoi(strings.TrimSpace(v.Threshold))

	doc.SetStopPointRef(strings.TrimSpace(v.StopPointRef))
	doc.SetStopTitle(strings.TrimSpace(v.StopTitle))
	doc.SetNumberOfResults(numberOfResults)
	doc.SetDesiredDestinations(v.DesiredDestinations)
	doc.SetThreshold(threshold)
}

func requireValue(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func validateInt(s string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return errors.New("must be a whole number")
	}
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.New("must be a whole number greater than 0")
	}
	return nil
}
