package handlers

import (
	"errors"
	"net/http"

	"contactdeck/internal/api/middleware"
	"contactdeck/internal/api/services"
	"contactdeck/internal/utils"
)

// GET /api/users/profile
// Profile godoc
// @Summary Fetch the authenticated user's profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} utils.ErrorBody
// @Failure 404 {object} utils.ErrorBody
// @Router /api/users/profile [get]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication token required")
		return
	}

	user, err := h.auth.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "User not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.JSON(w, http.StatusOK, user)
}
