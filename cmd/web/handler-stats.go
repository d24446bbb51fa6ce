package main

import (
	"net/http"
	"strconv"

	"github.com/repforge/repforge/internal/errors"
	"github.com/repforge/repforge/internal/fitness"
	"github.com/repforge/repforge/internal/store"
)

func (app *application) statsStreakGET(w http.ResponseWriter, r *http.Request) {
	streak, err := app.fitnessService.CalculateStreak(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, streak)
}

func (app *application) statsRecordsGET(w http.ResponseWriter, r *http.Request) {
	records, err := app.fitnessService.CalculatePersonalRecords(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	stats, err := app.fitnessService.PersonalRecordStats(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, struct {
		Records []fitness.PersonalRecord `json:"records"`
		Stats   fitness.PRStats          `json:"stats"`
	}{Records: records, Stats: stats})
}

func (app *application) statsRecordGET(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r)
	if !ok {
		return
	}
	record, err := app.fitnessService.PersonalRecordFor(r.Context(), id)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if record == nil {
		app.notFound(w, r)
		return
	}
	app.writeJSON(w, r, http.StatusOK, record)
}

func (app *application) statsOverloadGET(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r)
	if !ok {
		return
	}
	suggestion, err := app.fitnessService.DetectProgressiveOverload(
		r.Context(), id, fitness.DefaultMinConsecutiveSuccesses)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, struct {
		Ready      bool                        `json:"ready"`
		Suggestion *fitness.OverloadSuggestion `json:"suggestion,omitempty"`
	}{Ready: suggestion != nil, Suggestion: suggestion})
}

func (app *application) statsRecoveryGET(w http.ResponseWriter, r *http.Request) {
	days := 0
	if rawDays := r.URL.Query().Get("days"); rawDays != "" {
		parsed, err := strconv.Atoi(rawDays)
		if err != nil || parsed < 1 {
			app.clientError(w, r, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}
	recovery, err := app.fitnessService.CalculateRecoveryScore(r.Context(), days)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, recovery)
}

func (app *application) statsRecommendationsGET(w http.ResponseWriter, r *http.Request) {
	recommendations, err := app.fitnessService.WorkoutRecommendations(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, recommendations)
}
