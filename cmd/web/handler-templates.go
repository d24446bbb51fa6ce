package main

import (
	"net/http"

	"github.com/repforge/repforge/internal/fitness"
	"github.com/repforge/repforge/internal/store"
)

func (app *application) templateListGET(w http.ResponseWriter, r *http.Request) {
	templates, err := app.fitnessService.GenerateAllTemplates(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, templates)
}

func (app *application) templateGET(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	template, err := app.fitnessService.GenerateTemplate(r.Context(), kind)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if template == nil {
		app.clientError(w, r, http.StatusConflict, "exercise library cannot satisfy this template")
		return
	}
	app.writeJSON(w, r, http.StatusOK, template)
}

func (app *application) templateValidatePOST(w http.ResponseWriter, r *http.Request) {
	var template fitness.GeneratedTemplate
	if !app.readJSON(w, r, &template) {
		return
	}
	result, err := app.fitnessService.ValidateTemplate(r.Context(), template)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, result)
}

func (app *application) templateSyncPOST(w http.ResponseWriter, r *http.Request) {
	var template fitness.GeneratedTemplate
	if !app.readJSON(w, r, &template) {
		return
	}
	synced, err := app.fitnessService.SyncTemplate(r.Context(), template)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, synced)
}

// templateSavePOST materializes a generated template as a user routine.
func (app *application) templateSavePOST(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	template, err := app.fitnessService.GenerateTemplate(r.Context(), kind)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if template == nil {
		app.clientError(w, r, http.StatusConflict, "exercise library cannot satisfy this template")
		return
	}

	routine, err := app.store.Routines.Create(r.Context(), routineFromTemplate(*template))
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.triggerSync(r)
	app.writeJSON(w, r, http.StatusCreated, routine)
}

func routineFromTemplate(template fitness.GeneratedTemplate) store.Routine {
	routine := store.Routine{Name: template.Name}
	for _, slot := range template.Exercises {
		routine.Workouts = append(routine.Workouts, store.RoutineExercise{
			ExerciseID:    slot.ExerciseID,
			ExerciseName:  slot.ExerciseName,
			DefaultSets:   slot.Sets,
			DefaultReps:   slot.Reps,
			DefaultWeight: slot.Weight,
		})
	}
	return routine
}
