package main

import (
	"net/http"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	var (
		public = func(next http.Handler) http.Handler {
			return app.recoverPanic(app.logAndTraceRequest(secureHeaders(app.timeout(next))))
		}
		authed = func(next http.Handler) http.Handler {
			return public(app.authenticate(app.mustAuthenticate(next)))
		}
	)

	mux.Handle("GET /api/exercises", authed(http.HandlerFunc(app.exerciseListGET)))
	mux.Handle("POST /api/exercises", authed(http.HandlerFunc(app.exerciseCreatePOST)))
	mux.Handle("GET /api/exercises/{id}", authed(http.HandlerFunc(app.exerciseGET)))
	mux.Handle("GET /api/exercises/{id}/substitutes", authed(http.HandlerFunc(app.exerciseSubstitutesGET)))
	mux.Handle("GET /api/exercises/{id}/quick-substitutes", authed(http.HandlerFunc(app.exerciseQuickSubstitutesGET)))

	mux.Handle("GET /api/routines", authed(http.HandlerFunc(app.routineListGET)))
	mux.Handle("POST /api/routines", authed(http.HandlerFunc(app.routineCreatePOST)))
	mux.Handle("GET /api/routines/{id}", authed(http.HandlerFunc(app.routineGET)))
	mux.Handle("PUT /api/routines/{id}", authed(http.HandlerFunc(app.routineUpdatePUT)))
	mux.Handle("DELETE /api/routines/{id}", authed(http.HandlerFunc(app.routineDELETE)))

	mux.Handle("GET /api/logs", authed(http.HandlerFunc(app.workoutLogListGET)))
	mux.Handle("POST /api/logs", authed(http.HandlerFunc(app.workoutLogCreatePOST)))
	mux.Handle("GET /api/rest-days", authed(http.HandlerFunc(app.restDayListGET)))
	mux.Handle("POST /api/rest-days", authed(http.HandlerFunc(app.restDayCreatePOST)))

	mux.Handle("GET /api/templates", authed(http.HandlerFunc(app.templateListGET)))
	mux.Handle("GET /api/templates/{kind}", authed(http.HandlerFunc(app.templateGET)))
	mux.Handle("POST /api/templates/validate", authed(http.HandlerFunc(app.templateValidatePOST)))
	mux.Handle("POST /api/templates/sync", authed(http.HandlerFunc(app.templateSyncPOST)))
	mux.Handle("POST /api/templates/{kind}/save", authed(http.HandlerFunc(app.templateSavePOST)))

	mux.Handle("GET /api/stats/streak", authed(http.HandlerFunc(app.statsStreakGET)))
	mux.Handle("GET /api/stats/records", authed(http.HandlerFunc(app.statsRecordsGET)))
	mux.Handle("GET /api/stats/records/{id}", authed(http.HandlerFunc(app.statsRecordGET)))
	mux.Handle("GET /api/stats/overload/{id}", authed(http.HandlerFunc(app.statsOverloadGET)))
	mux.Handle("GET /api/stats/recovery", authed(http.HandlerFunc(app.statsRecoveryGET)))
	mux.Handle("GET /api/stats/recommendations", authed(http.HandlerFunc(app.statsRecommendationsGET)))

	syncHandler := app.syncServer.Handler()
	mux.Handle("POST /sync/push", authed(syncHandler))
	mux.Handle("GET /sync/pull", authed(syncHandler))
	mux.Handle("POST /api/sync/trigger", authed(http.HandlerFunc(app.syncTriggerPOST)))

	mux.Handle("POST /auth/register", public(http.HandlerFunc(app.registerPOST)))
	mux.Handle("POST /auth/login", public(http.HandlerFunc(app.loginPOST)))
	mux.Handle("GET /auth/me", authed(http.HandlerFunc(app.meGET)))

	mux.Handle("GET /api/healthy", public(http.HandlerFunc(app.healthy)))

	return mux
}
