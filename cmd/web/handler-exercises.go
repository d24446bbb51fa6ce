package main

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/repforge/repforge/internal/errors"
	"github.com/repforge/repforge/internal/fitness"
	"github.com/repforge/repforge/internal/store"
	"github.com/yuin/goldmark"
)

var instructionMarkdown = goldmark.New()

// exerciseResponse augments a library entry with its derived classification
// and the instruction steps rendered from markdown.
type exerciseResponse struct {
	store.Exercise
	Movement         fitness.MovementType `json:"movement"`
	Compound         bool                 `json:"compound"`
	Difficulty       fitness.Difficulty   `json:"difficulty"`
	InstructionsHTML string               `json:"instructionsHtml,omitempty"`
}

func (app *application) exerciseListGET(w http.ResponseWriter, r *http.Request) {
	exercises, err := app.store.Exercises.List(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, exercises)
}

func (app *application) exerciseGET(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r)
	if !ok {
		return
	}
	exercise, err := app.store.Exercises.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}

	classified := app.fitnessService.Classify(exercise)
	resp := exerciseResponse{
		Exercise:   exercise,
		Movement:   classified.Movement,
		Compound:   classified.Compound,
		Difficulty: classified.Difficulty,
	}
	if resp.InstructionsHTML, err = renderInstructions(exercise.Instructions); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, resp)
}

// renderInstructions converts the markdown instruction steps into a single
// HTML fragment, one paragraph per step.
func renderInstructions(steps []string) (string, error) {
	if len(steps) == 0 {
		return "", nil
	}
	var buf bytes.Buffer
	source := strings.Join(steps, "\n\n")
	if err := instructionMarkdown.Convert([]byte(source), &buf); err != nil {
		return "", errors.Wrap(err, "render instructions")
	}
	return buf.String(), nil
}

func (app *application) exerciseCreatePOST(w http.ResponseWriter, r *http.Request) {
	var exercise store.Exercise
	if !app.readJSON(w, r, &exercise) {
		return
	}
	if exercise.Name == "" {
		app.clientError(w, r, http.StatusBadRequest, "name is required")
		return
	}
	created, err := app.store.Exercises.Create(r.Context(), exercise)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, created)
}

func (app *application) exerciseSubstitutesGET(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filters := fitness.SubstituteFilters{
		Difficulty: query.Get("difficulty"),
	}
	if equipment := query.Get("equipment"); equipment != "" {
		filters.Equipment = strings.Split(equipment, ",")
	}
	maxResults := 0
	if rawMax := query.Get("max"); rawMax != "" {
		parsed, err := strconv.Atoi(rawMax)
		if err != nil || parsed < 1 {
			app.clientError(w, r, http.StatusBadRequest, "max must be a positive integer")
			return
		}
		maxResults = parsed
	}

	substitutes, err := app.fitnessService.FindSubstitutes(r.Context(), id, filters, maxResults)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, substitutes)
}

func (app *application) exerciseQuickSubstitutesGET(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r)
	if !ok {
		return
	}
	scenario := r.URL.Query().Get("scenario")
	substitutes, err := app.fitnessService.QuickSubstitutes(r.Context(), id, scenario)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFound(w, r)
			return
		}
		if errors.Is(err, fitness.ErrUnknownScenario) {
			app.clientError(w, r, http.StatusBadRequest, "unknown scenario: "+scenario)
			return
		}
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, substitutes)
}
