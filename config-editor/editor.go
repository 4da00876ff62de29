package main

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/lokanidao9991/SmartBusBoard/config"
	"github.com/lokanidao9991/SmartBusBoard/dlog"
	"github.com/lokanidao9991/SmartBusBoard/repository"
	"github.com/lokanidao9991/SmartBusBoard/stops"
	"github.com/pkg/errors"
)

//go:embed templates/index.html
var templates embed.FS

var indexTemplate = template.Must(template.ParseFS(templates, "templates/index.html"))

type StopSearcher interface {
	Search(q string) []stops.Stop
}

// Editor serves the operator pages. It is the only writer of the
// configuration store.
type Editor struct {
	Logger *dlog.Logger
	Store  config.Store
	// Stops is nil when the stop list could not be loaded.
	Stops StopSearcher
}

type settings struct {
	StopPointRef        string
	StopTitle           string
	NumberOfResults     string
	DesiredDestinations string
	Threshold           string
}

type updateStopRequest struct {
	Ref   string `json:"ref"`
	Title string `json:"title"`
}

type messageResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (e *Editor) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/", e.Index)
	r.Post("/update", e.Update)
	r.Get("/stops", e.ListStops)
	r.Post("/update_stop", e.UpdateStop)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}

func (e *Editor) Index(w http.ResponseWriter, r *http.Request) {
	doc, err := e.document()
	if err != nil {
		e.Logger.Printf("cannot read configuration: %s", err)
		http.Error(w, "cannot read configuration", http.StatusInternalServerError)
		return
	}

	s := settings{
		StopPointRef:        config.StringValue(doc.StopPointRef, ""),
		StopTitle:           config.StringValue(doc.StopTitle, ""),
		DesiredDestinations: config.JoinDestinations(doc.DesiredDestinations),
	}
	if doc.NumberOfResults != nil {
		s.NumberOfResults = strconv.Itoa(*doc.NumberOfResults)
	}
	if doc.Threshold != nil {
		s.Threshold = strconv.Itoa(*doc.Threshold)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, s); err != nil {
		e.Logger.Printf("cannot render index: %s", err)
	}
}

// Update saves the full settings form. Every field must be present, the two
// numeric fields must be whole numbers and the result must pass the same
// validation the board applies when it loads the configuration.
func (e *Editor) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "cannot parse form", http.StatusBadRequest)
		return
	}

	fields := []string{"stop_point_ref", "stop_title", "number_of_results", "desired_destinations", "threshold"}
	for _, f := range fields {
		if _, ok := r.PostForm[f]; !ok {
			http.Error(w, "missing field "+f, http.StatusBadRequest)
			return
		}
	}

	numberOfResults, err := strconv.Atoi(strings.TrimSpace(r.PostForm.Get("number_of_results")))
	if err != nil {
		http.Error(w, "number_of_results must be a whole number", http.StatusBadRequest)
		return
	}

	threshold, err := strconv.Atoi(strings.TrimSpace(r.PostForm.Get("threshold")))
	if err != nil {
		http.Error(w, "threshold must be a whole number", http.StatusBadRequest)
		return
	}

	apply := func(doc *config.Document) {
		doc.SetStopPointRef(r.PostForm.Get("stop_point_ref"))
		doc.SetStopTitle(r.PostForm.Get("stop_title"))
		doc.SetNumberOfResults(numberOfResults)
		doc.SetDesiredDestinations(r.PostForm.Get("desired_destinations"))
		doc.SetThreshold(threshold)
	}

	// The form sets every key the board checks, so the submitted values
	// alone decide whether the board can run with them.
	submitted := config.Document{}
	apply(&submitted)
	if err := submitted.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := e.Store.Update(apply); err != nil {
		e.Logger.Printf("cannot save configuration: %s", err)
		http.Error(w, "cannot save configuration", http.StatusInternalServerError)
		return
	}

	e.Logger.Printf("configuration updated: stop `%s`", r.PostForm.Get("stop_point_ref"))

	http.Redirect(w, r, "/", http.StatusFound)
}

func (e *Editor) ListStops(w http.ResponseWriter, r *http.Request) {
	if e.Stops == nil {
		writeJSON(w, http.StatusInternalServerError, messageResponse{Error: "stop list not available"})
		return
	}

	writeJSON(w, http.StatusOK, e.Stops.Search(r.URL.Query().Get("q")))
}

func (e *Editor) UpdateStop(w http.ResponseWriter, r *http.Request) {
	var req updateStopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Error: "invalid JSON body"})
		return
	}

	if req.Ref == "" {
		writeJSON(w, http.StatusBadRequest, messageResponse{Error: "ref is required"})
		return
	}

	err := e.Store.Update(func(doc *config.Document) {
		doc.SetStopPointRef(req.Ref)
		doc.SetStopTitle(req.Title)
	})
	if err != nil {
		e.Logger.Printf("cannot save configuration: %s", err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Error: "cannot save configuration"})
		return
	}

	e.Logger.Printf("stop changed to `%s` (%s)", req.Ref, req.Title)

	writeJSON(w, http.StatusOK, messageResponse{Message: "Configuration updated"})
}

// document tolerates an empty store so that the first visit shows a blank
// form.
func (e *Editor) document() (config.Document, error) {
	doc, err := e.Store.Document()
	if err == nil || config.IsNotExist(err) || errors.Cause(err) == repository.ErrNoConfiguration {
		return doc, nil
	}
	return config.Document{}, err
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
