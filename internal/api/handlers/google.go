package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"contactdeck/internal/api/services"
	"contactdeck/internal/models"
)

// googleUserInfoURL is a var so tests can point the callback at a local
// server.
var googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GET /api/auth/google/login
// GoogleLogin godoc
// @Summary Start the Google sign-in flow
// @Tags Auth
// @Param redirect query string false "Flow: login or register"
// @Success 307
// @Router /api/auth/google/login [get]
func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	redirectType := r.URL.Query().Get("redirect") // "login" or "register"
	if redirectType == "" {
		redirectType = "login"
	}

	state, err := GenerateState(map[string]string{"flow": redirectType})
	if err != nil {
		http.Error(w, "Failed to generate OAuth state", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GET /api/auth/google/callback
// GoogleCallback godoc
// @Summary Complete the Google sign-in flow
// @Description Exchanges the code, finds or creates the user by email, and redirects to the frontend with a bearer token.
// @Tags Auth
// @Success 307
// @Router /api/auth/google/callback [get]
func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	stateData, err := DecodeState(r.FormValue("state"))
	if err != nil {
		http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}

	flowType := stateData["flow"] // "login" or "register"
	code := r.FormValue("code")

	token, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		http.Error(w, "Code exchange failed", http.StatusInternalServerError)
		return
	}

	client := h.google.Client(r.Context(), token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		http.Error(w, "Failed to read user info", http.StatusInternalServerError)
		return
	}

	var googleUser struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(data, &googleUser); err != nil {
		http.Error(w, "Failed to parse user info", http.StatusInternalServerError)
		return
	}

	var user *models.User
	switch flowType {
	case "register":
		user, err = h.auth.CreateFederated(r.Context(), googleUser.Name, googleUser.Email)
		if err != nil {
			if errors.Is(err, services.ErrDuplicateEmail) {
				http.Redirect(w, r, h.frontendURL+"/login?error=user_already_exists", http.StatusTemporaryRedirect)
				return
			}
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
			return
		}

	default: // login
		user, err = h.auth.GetByEmail(r.Context(), googleUser.Email)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				http.Redirect(w, r, h.frontendURL+"/register?error=user_not_found", http.StatusTemporaryRedirect)
				return
			}
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
	}

	sessionToken, err := h.tokens.Issue(user.ID)
	if err != nil {
		http.Error(w, "Failed to create token", http.StatusInternalServerError)
		return
	}

	redirectURL := fmt.Sprintf("%s/auth/callback?token=%s&flow=%s",
		h.frontendURL, url.QueryEscape(sessionToken), url.QueryEscape(flowType))
	http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
}
