package main

import (
	"net/http"

	"github.com/repforge/repforge/internal/contexthelpers"
	"github.com/repforge/repforge/internal/errors"
	"github.com/repforge/repforge/internal/store"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

const minPasswordLength = 8

func (app *application) registerPOST(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !app.readJSON(w, r, &req) {
		return
	}
	if req.Username == "" {
		app.clientError(w, r, http.StatusBadRequest, "username is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		app.clientError(w, r, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := app.authenticator.HashPassword(req.Password)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if _, err = app.store.Users.Create(r.Context(), req.Username, hash); err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			app.clientError(w, r, http.StatusConflict, "username is taken")
			return
		}
		app.serverError(w, r, err)
		return
	}

	token, err := app.authenticator.IssueToken(req.Username)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, tokenResponse{Token: token, Username: req.Username})
}

func (app *application) loginPOST(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !app.readJSON(w, r, &req) {
		return
	}

	user, err := app.store.Users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.clientError(w, r, http.StatusUnauthorized, "invalid credentials")
			return
		}
		app.serverError(w, r, err)
		return
	}
	if err = app.authenticator.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		app.clientError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := app.authenticator.IssueToken(user.Username)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, tokenResponse{Token: token, Username: user.Username})
}

func (app *application) meGET(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, map[string]string{
		"username": contexthelpers.AuthenticatedUsername(r.Context()),
	})
}
