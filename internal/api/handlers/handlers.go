package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"contactdeck/internal/api/services"
	"contactdeck/internal/utils"
	"contactdeck/internal/validation"
	"golang.org/x/oauth2"
)

// AvatarStorage is the slice of the object store the avatar routes need.
// repositories.AvatarStore satisfies it; may be nil when storage is
// unconfigured.
type AvatarStorage interface {
	PresignPut(ctx context.Context, key string, expires time.Duration) (string, error)
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// Handler wires HTTP routes to the auth and contact services.
type Handler struct {
	auth        *services.AuthService
	contacts    *services.ContactService
	tokens      *services.TokenService
	avatars     AvatarStorage
	google      *oauth2.Config
	frontendURL string
}

func New(
	auth *services.AuthService,
	contacts *services.ContactService,
	tokens *services.TokenService,
	avatars AvatarStorage,
	google *oauth2.Config,
	frontendURL string,
) *Handler {
	return &Handler{
		auth:        auth,
		contacts:    contacts,
		tokens:      tokens,
		avatars:     avatars,
		google:      google,
		frontendURL: frontendURL,
	}
}

// contactError maps a contact-service failure to its HTTP reply. No store
// internals leak past this point.
func contactError(w http.ResponseWriter, err error, fallback string) {
	var mfe *services.MissingFieldsError
	var verr *validation.Error
	switch {
	case errors.As(err, &mfe):
		utils.ErrorDetails(w, http.StatusBadRequest, "Missing fields in contacts", mfe.Details)
	case errors.As(err, &verr):
		utils.Error(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, services.ErrEmptyBatch):
		utils.Error(w, http.StatusBadRequest, "Invalid input: must be a non-empty array of contacts")
	case errors.Is(err, services.ErrMissingContactID):
		utils.Error(w, http.StatusBadRequest, "Contact ID is required for update")
	case errors.Is(err, services.ErrMissingID):
		utils.Error(w, http.StatusBadRequest, "Contact ID is required")
	case errors.Is(err, services.ErrDuplicateEmail):
		utils.Error(w, http.StatusBadRequest, "Email already exists")
	case errors.Is(err, services.ErrForbidden):
		utils.Error(w, http.StatusForbidden, "You do not have access to this contact")
	case errors.Is(err, services.ErrNotFound):
		utils.Error(w, http.StatusNotFound, "Contact not found")
	default:
		utils.Error(w, http.StatusInternalServerError, fallback)
	}
}
