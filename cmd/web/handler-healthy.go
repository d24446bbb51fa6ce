package main

import (
	"net/http"
)

// healthy reports liveness. The e2e harness polls it to see when the server
// has come up.
func (app *application) healthy(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
