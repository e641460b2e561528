package services

import (
	"context"
	"errors"
	"fmt"

	"contactdeck/internal/models"
	"contactdeck/internal/repositories"
	"contactdeck/internal/validation"
	"github.com/google/uuid"
)

var (
	// ErrEmptyBatch rejects bulk requests without any entries.
	ErrEmptyBatch = errors.New("must be a non-empty array of contacts")
	// ErrMissingContactID rejects bulk updates with an id-less entry.
	ErrMissingContactID = errors.New("contact id is required for update")
	// ErrMissingID rejects deletes without a contact id.
	ErrMissingID = errors.New("contact id is required")
	// ErrForbidden signals an ownership violation.
	ErrForbidden = errors.New("contact belongs to another user")
)

// MissingFieldsError reports which bulk-create entries lack required fields.
type MissingFieldsError struct {
	Details []MissingFieldDetail
}

type MissingFieldDetail struct {
	Index  int      `json:"index"`
	Fields []string `json:"missingFields"`
}

func (e *MissingFieldsError) Error() string {
	return "missing fields in contacts"
}

// ContactInput is one entry of a bulk create or update request.
type ContactInput struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name" validate:"required,min=1,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=10,max=15"`
	Address  string `json:"address" validate:"omitempty"`
	Timezone string `json:"timezone" validate:"omitempty"`
}

// ContactService orchestrates contact CRUD. Every operation is scoped to
// the authenticated user; mutations verify ownership before writing.
type ContactService struct {
	contacts repositories.ContactRepository
}

func NewContactService(contacts repositories.ContactRepository) *ContactService {
	return &ContactService{contacts: contacts}
}

// Create inserts the batch stamped with userID, all-or-nothing. Every entry
// must carry name, email, phone, address and timezone; violations are
// reported per entry before anything is written.
func (s *ContactService) Create(ctx context.Context, userID uuid.UUID, inputs []ContactInput) ([]models.Contact, error) {
	if len(inputs) == 0 {
		return nil, ErrEmptyBatch
	}

	var missing []MissingFieldDetail
	for i, in := range inputs {
		var fields []string
		if in.Name == "" {
			fields = append(fields, "name")
		}
		if in.Email == "" {
			fields = append(fields, "email")
		}
		if in.Phone == "" {
			fields = append(fields, "phone")
		}
		if in.Address == "" {
			fields = append(fields, "address")
		}
		if in.Timezone == "" {
			fields = append(fields, "timezone")
		}
		if len(fields) > 0 {
			missing = append(missing, MissingFieldDetail{Index: i, Fields: fields})
		}
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Details: missing}
	}

	contacts := make([]*models.Contact, 0, len(inputs))
	for _, in := range inputs {
		if err := validation.Check(in); err != nil {
			return nil, err
		}
		contacts = append(contacts, &models.Contact{
			Name:     in.Name,
			Email:    in.Email,
			Phone:    in.Phone,
			Address:  in.Address,
			Timezone: in.Timezone,
			UserID:   userID,
		})
	}

	if err := s.contacts.CreateBatch(ctx, contacts); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	created := make([]models.Contact, len(contacts))
	for i, c := range contacts {
		created[i] = *c
	}
	return created, nil
}

// List returns the caller's non-deleted contacts, order unspecified.
func (s *ContactService) List(ctx context.Context, userID uuid.UUID) ([]models.Contact, error) {
	return s.contacts.ListByOwner(ctx, userID)
}

// Update overwrites the mutable fields of each identified contact in one
// transaction. Every entry must name an id, and every target row must
// belong to userID.
func (s *ContactService) Update(ctx context.Context, userID uuid.UUID, inputs []ContactInput) ([]models.Contact, error) {
	if len(inputs) == 0 {
		return nil, ErrEmptyBatch
	}

	updates := make([]*models.Contact, 0, len(inputs))
	for _, in := range inputs {
		if in.ID == "" {
			return nil, ErrMissingContactID
		}
		id, err := uuid.Parse(in.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMissingContactID, in.ID)
		}
		if err := validation.Check(in); err != nil {
			return nil, err
		}

		existing, err := s.getOwned(ctx, userID, id)
		if err != nil {
			return nil, err
		}

		existing.Name = in.Name
		existing.Email = in.Email
		existing.Phone = in.Phone
		existing.Address = in.Address
		existing.Timezone = in.Timezone
		updates = append(updates, existing)
	}

	if err := s.contacts.UpdateBatch(ctx, updates); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updated := make([]models.Contact, len(updates))
	for i, c := range updates {
		updated[i] = *c
	}
	return updated, nil
}

// SoftDelete flips is_deleted on the caller's contact. The row is never
// physically removed.
func (s *ContactService) SoftDelete(ctx context.Context, userID, id uuid.UUID) (*models.Contact, error) {
	if id == uuid.Nil {
		return nil, ErrMissingID
	}

	contact, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	contact.IsDeleted = true
	if err := s.contacts.UpdateBatch(ctx, []*models.Contact{contact}); err != nil {
		return nil, err
	}
	return contact, nil
}

// GetOwned fetches a single contact after verifying ownership.
func (s *ContactService) GetOwned(ctx context.Context, userID, id uuid.UUID) (*models.Contact, error) {
	return s.getOwned(ctx, userID, id)
}

// SetAvatarKey records the storage key of a confirmed avatar upload.
func (s *ContactService) SetAvatarKey(ctx context.Context, userID, id uuid.UUID, key string) (*models.Contact, error) {
	contact, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	contact.AvatarKey = key
	if err := s.contacts.UpdateBatch(ctx, []*models.Contact{contact}); err != nil {
		return nil, err
	}
	return contact, nil
}

// getOwned is the fetch-and-compare ownership check every mutation goes
// through before writing.
func (s *ContactService) getOwned(ctx context.Context, userID, id uuid.UUID) (*models.Contact, error) {
	contact, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if contact.UserID != userID {
		return nil, ErrForbidden
	}
	return contact, nil
}
