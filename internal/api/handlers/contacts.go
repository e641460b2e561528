package handlers

import (
	"encoding/json"
	"net/http"

	"contactdeck/internal/api/middleware"
	"contactdeck/internal/api/services"
	"contactdeck/internal/models"
	"contactdeck/internal/utils"
	"github.com/google/uuid"
)

// Contacts dispatches /api/contacts by method, mirroring the resource's
// single-path CRUD surface.
func (h *Handler) Contacts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listContacts(w, r)
	case http.MethodPost:
		h.createContacts(w, r)
	case http.MethodPut:
		h.updateContacts(w, r)
	case http.MethodDelete:
		h.deleteContact(w, r)
	default:
		utils.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// GET /api/contacts
// listContacts godoc
// @Summary List the caller's contacts
// @Description Returns all non-deleted contacts owned by the authenticated user.
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Contact
// @Failure 401 {object} utils.ErrorBody
// @Failure 403 {object} utils.ErrorBody
// @Router /api/contacts [get]
func (h *Handler) listContacts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication token required")
		return
	}

	contacts, err := h.contacts.List(r.Context(), userID)
	if err != nil {
		contactError(w, err, "Failed to fetch contacts")
		return
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}

	utils.JSON(w, http.StatusOK, contacts)
}

// POST /api/contacts
// createContacts godoc
// @Summary Bulk-create contacts
// @Description Inserts a batch of contacts owned by the caller, all-or-nothing.
// @Tags Contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body []services.ContactInput true "Contacts to create"
// @Success 201 {object} map[string]any
// @Failure 400 {object} utils.ErrorBody
// @Failure 500 {object} utils.ErrorBody
// @Router /api/contacts [post]
func (h *Handler) createContacts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication token required")
		return
	}

	var inputs []services.ContactInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input: must be a non-empty array of contacts")
		return
	}

	created, err := h.contacts.Create(r.Context(), userID, inputs)
	if err != nil {
		contactError(w, err, "Failed to create contacts")
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]any{
		"message":     "Contacts created successfully",
		"newContacts": created,
	})
}

// PUT /api/contacts
// updateContacts godoc
// @Summary Bulk-update contacts
// @Description Overwrites the mutable fields of each identified contact. Ownership is verified per row.
// @Tags Contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body []services.ContactInput true "Contacts to update, each with an id"
// @Success 200 {object} map[string]any
// @Failure 400 {object} utils.ErrorBody
// @Failure 403 {object} utils.ErrorBody
// @Failure 404 {object} utils.ErrorBody
// @Router /api/contacts [put]
func (h *Handler) updateContacts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication token required")
		return
	}

	var inputs []services.ContactInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input: must be a non-empty array of contacts")
		return
	}

	updated, err := h.contacts.Update(r.Context(), userID, inputs)
	if err != nil {
		contactError(w, err, "Failed to update contacts")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{
		"message":         "Contacts updated successfully",
		"updatedContacts": updated,
	})
}

// DELETE /api/contacts
// deleteContact godoc
// @Summary Soft-delete a contact
// @Description Marks the contact deleted; the record is kept with isDeleted=true.
// @Tags Contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body object true "{\"id\": \"<contact id>\"}"
// @Success 200 {object} map[string]any
// @Failure 400 {object} utils.ErrorBody
// @Failure 403 {object} utils.ErrorBody
// @Failure 404 {object} utils.ErrorBody
// @Router /api/contacts [delete]
func (h *Handler) deleteContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authentication token required")
		return
	}

	var input struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.ID == "" {
		utils.Error(w, http.StatusBadRequest, "Contact ID is required")
		return
	}

	id, err := uuid.Parse(input.ID)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid contact id")
		return
	}

	deleted, err := h.contacts.SoftDelete(r.Context(), userID, id)
	if err != nil {
		contactError(w, err, "Failed to delete contact")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{
		"message":        "Contact deleted successfully",
		"deletedContact": deleted,
	})
}
