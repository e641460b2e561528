package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"contactdeck/internal/api/services"
	"contactdeck/internal/utils"
	"contactdeck/internal/validation"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// POST /api/auth/register
// Register godoc
// @Summary Register a new user
// @Description Creates a user account. The password hash is never returned.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body registerRequest true "Registration payload"
// @Success 201 {object} models.User
// @Failure 400 {object} utils.ErrorBody
// @Failure 500 {object} utils.ErrorBody
// @Router /api/auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var input registerRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := validation.Check(input); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.auth.Register(r.Context(), input.Name, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			utils.Error(w, http.StatusBadRequest, "Email already exists")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "User registration failed")
		return
	}

	utils.JSON(w, http.StatusCreated, user)
}

// POST /api/auth/login
// Login godoc
// @Summary Log in with email and password
// @Description Verifies credentials and returns a bearer token valid for 24h.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "Login payload"
// @Success 200 {object} map[string]string
// @Failure 400 {object} utils.ErrorBody
// @Failure 401 {object} utils.ErrorBody
// @Router /api/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input loginRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := validation.Check(input); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.auth.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Login failed")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to create token")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"token": token})
}
