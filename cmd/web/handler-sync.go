package main

import (
	"net/http"
)

// triggerSync kicks off a best-effort background sync after a local write.
// No upstream configured means no sync.
func (app *application) triggerSync(r *http.Request) {
	if app.syncClient != nil {
		app.syncClient.Trigger(r.Context())
	}
}

// syncTriggerPOST lets clients request an immediate background sync cycle.
func (app *application) syncTriggerPOST(w http.ResponseWriter, r *http.Request) {
	if app.syncClient == nil {
		app.clientError(w, r, http.StatusConflict, "no sync upstream configured")
		return
	}
	app.syncClient.Trigger(r.Context())
	app.writeJSON(w, r, http.StatusAccepted, map[string]string{"status": "sync started"})
}
