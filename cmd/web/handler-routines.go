package main

import (
	"net/http"

	"github.com/repforge/repforge/internal/errors"
	"github.com/repforge/repforge/internal/store"
)

func (app *application) routineListGET(w http.ResponseWriter, r *http.Request) {
	routines, err := app.store.Routines.List(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, routines)
}

func (app *application) routineGET(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r)
	if !ok {
		return
	}
	routine, err := app.store.Routines.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, routine)
}

func (app *application) routineCreatePOST(w http.ResponseWriter, r *http.Request) {
	var routine store.Routine
	if !app.readJSON(w, r, &routine) {
		return
	}
	if routine.Name == "" {
		app.clientError(w, r, http.StatusBadRequest, "name is required")
		return
	}
	created, err := app.store.Routines.Create(r.Context(), routine)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.triggerSync(r)
	app.writeJSON(w, r, http.StatusCreated, created)
}

func (app *application) routineUpdatePUT(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r)
	if !ok {
		return
	}
	var routine store.Routine
	if !app.readJSON(w, r, &routine) {
		return
	}
	routine.ID = id
	if err := app.store.Routines.Put(r.Context(), routine); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}
	app.triggerSync(r)
	app.writeJSON(w, r, http.StatusOK, routine)
}

func (app *application) routineDELETE(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r)
	if !ok {
		return
	}
	if err := app.store.Routines.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}
	app.triggerSync(r)
	w.WriteHeader(http.StatusNoContent)
}
