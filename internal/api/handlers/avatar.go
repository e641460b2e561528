package handlers

import (
	"fmt"
	"net/http"
	"time"

	"contactdeck/internal/api/middleware"
	"contactdeck/internal/models"
	"contactdeck/internal/utils"
	"github.com/google/uuid"
)

const avatarURLTTL = 15 * time.Minute

func avatarKey(userID, contactID uuid.UUID) string {
	return fmt.Sprintf("avatars/%s/%s", userID, contactID)
}

// POST /api/contacts/{id}/avatar/presign
// PresignAvatarUpload godoc
// @Summary Generate a presigned avatar upload URL
// @Description Returns a temporary signed URL the client PUTs the avatar to directly.
// @Tags Avatars
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact id"
// @Success 200 {object} map[string]string
// @Failure 403 {object} utils.ErrorBody
// @Failure 404 {object} utils.ErrorBody
// @Router /api/contacts/{id}/avatar/presign [post]
func (h *Handler) PresignAvatarUpload(w http.ResponseWriter, r *http.Request) {
	userID, contact, ok := h.ownedContact(w, r)
	if !ok {
		return
	}
	if h.avatars == nil {
		utils.Error(w, http.StatusInternalServerError, "Storage service not configured")
		return
	}

	key := avatarKey(userID, contact.ID)
	url, err := h.avatars.PresignPut(r.Context(), key, avatarURLTTL)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to generate upload URL")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{
		"url": url,
		"key": key,
	})
}

// POST /api/contacts/{id}/avatar/complete
// CompleteAvatarUpload godoc
// @Summary Confirm an avatar upload
// @Description Verifies the object landed in storage and records it on the contact.
// @Tags Avatars
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact id"
// @Success 200 {object} models.Contact
// @Failure 400 {object} utils.ErrorBody
// @Failure 404 {object} utils.ErrorBody
// @Router /api/contacts/{id}/avatar/complete [post]
func (h *Handler) CompleteAvatarUpload(w http.ResponseWriter, r *http.Request) {
	userID, contact, ok := h.ownedContact(w, r)
	if !ok {
		return
	}
	if h.avatars == nil {
		utils.Error(w, http.StatusInternalServerError, "Storage service not configured")
		return
	}

	key := avatarKey(userID, contact.ID)
	exists, err := h.avatars.Exists(r.Context(), key)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to verify upload")
		return
	}
	if !exists {
		utils.Error(w, http.StatusBadRequest, "Avatar upload not found")
		return
	}

	updated, err := h.contacts.SetAvatarKey(r.Context(), userID, contact.ID, key)
	if err != nil {
		contactError(w, err, "Failed to record avatar")
		return
	}

	utils.JSON(w, http.StatusOK, updated)
}

// GET /api/contacts/{id}/avatar
// GetAvatarURL godoc
// @Summary Generate a presigned avatar download URL
// @Tags Avatars
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} utils.ErrorBody
// @Router /api/contacts/{id}/avatar [get]
func (h *Handler) GetAvatarURL(w http.ResponseWriter, r *http.Request) {
	_, contact, ok := h.ownedContact(w, r)
	if !ok {
		return
	}
	if h.avatars == nil {
		utils.Error(w, http.StatusInternalServerError, "Storage service not configured")
		return
	}

	if contact.AvatarKey == "" {
		utils.Error(w, http.StatusNotFound, "No avatar uploaded")
		return
	}

	url, err := h.avatars.PresignGet(r.Context(), contact.AvatarKey, avatarURLTTL)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to generate download URL")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"url": url})
}

// ownedContact resolves the {id} path value to a contact owned by the
// caller, writing the error reply itself when that fails.
func (h *Handler) ownedContact(w http.ResponseWriter, r *http.Request) (uuid.UUID, *models.Contact, bool) {
	userID, ok := middleware.UserID(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication token required")
		return uuid.Nil, nil, false
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid contact id")
		return uuid.Nil, nil, false
	}

	contact, err := h.contacts.GetOwned(r.Context(), userID, id)
	if err != nil {
		contactError(w, err, "Failed to fetch contact")
		return uuid.Nil, nil, false
	}
	return userID, contact, true
}
