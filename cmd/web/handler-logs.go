package main

import (
	"net/http"
	"time"

	"github.com/repforge/repforge/internal/errors"
	"github.com/repforge/repforge/internal/fitness"
	"github.com/repforge/repforge/internal/store"
)

// parseRangeParams reads optional from/to query parameters in YYYY-MM-DD
// form. A false return means the error response has been sent.
func (app *application) parseRangeParams(w http.ResponseWriter, r *http.Request) (from, to time.Time, ranged, ok bool) {
	const layout = "2006-01-02"
	query := r.URL.Query()
	rawFrom, rawTo := query.Get("from"), query.Get("to")
	if rawFrom == "" && rawTo == "" {
		return time.Time{}, time.Time{}, false, true
	}
	var err error
	if from, err = time.Parse(layout, rawFrom); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "from must be YYYY-MM-DD")
		return time.Time{}, time.Time{}, false, false
	}
	if to, err = time.Parse(layout, rawTo); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "to must be YYYY-MM-DD")
		return time.Time{}, time.Time{}, false, false
	}
	return from, to, true, true
}

func (app *application) workoutLogListGET(w http.ResponseWriter, r *http.Request) {
	from, to, ranged, ok := app.parseRangeParams(w, r)
	if !ok {
		return
	}

	var (
		logs []store.WorkoutLog
		err  error
	)
	if ranged {
		logs, err = app.store.Logs.ListRange(r.Context(), from, to)
	} else {
		logs, err = app.store.Logs.List(r.Context())
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, logs)
}

func (app *application) workoutLogCreatePOST(w http.ResponseWriter, r *http.Request) {
	var log store.WorkoutLog
	if !app.readJSON(w, r, &log) {
		return
	}
	created, err := app.store.Logs.Create(r.Context(), log)
	if err != nil {
		if errors.Is(err, store.ErrInvalidSessionData) {
			app.clientError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		app.serverError(w, r, err)
		return
	}

	// Surface any records the session just set alongside the stored log.
	newPRs, err := app.fitnessService.CheckNewPRs(r.Context(), created)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.triggerSync(r)
	app.writeJSON(w, r, http.StatusCreated, struct {
		Log    store.WorkoutLog `json:"log"`
		NewPRs []fitness.NewPR  `json:"newPRs"`
	}{Log: created, NewPRs: newPRs})
}

func (app *application) restDayListGET(w http.ResponseWriter, r *http.Request) {
	from, to, ranged, ok := app.parseRangeParams(w, r)
	if !ok {
		return
	}

	var (
		restDays []store.RestDay
		err      error
	)
	if ranged {
		restDays, err = app.store.RestDays.ListRange(r.Context(), from, to)
	} else {
		restDays, err = app.store.RestDays.List(r.Context())
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, restDays)
}

func (app *application) restDayCreatePOST(w http.ResponseWriter, r *http.Request) {
	var restDay store.RestDay
	if !app.readJSON(w, r, &restDay) {
		return
	}
	created, err := app.store.RestDays.Create(r.Context(), restDay)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.triggerSync(r)
	app.writeJSON(w, r, http.StatusCreated, created)
}
