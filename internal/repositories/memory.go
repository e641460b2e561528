package repositories

import (
	"context"
	"sync"
	"time"

	"contactdeck/internal/models"
	"github.com/google/uuid"
)

// In-memory repository implementations. They satisfy the same interfaces as
// the gorm-backed ones and enforce the same uniqueness rules, so the service
// layer can be exercised without a running postgres instance.

type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[uuid.UUID]models.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return ErrDuplicateEmail
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u := user
	return &u, nil
}

type MemoryContactRepository struct {
	mu       sync.RWMutex
	contacts map[uuid.UUID]models.Contact
}

func NewMemoryContactRepository() *MemoryContactRepository {
	return &MemoryContactRepository{contacts: make(map[uuid.UUID]models.Contact)}
}

func (r *MemoryContactRepository) CreateBatch(_ context.Context, contacts []*models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// All-or-nothing: check the whole batch before touching the map.
	seen := make(map[string]struct{}, len(contacts))
	for _, contact := range contacts {
		if _, dup := seen[contact.Email]; dup {
			return ErrDuplicateEmail
		}
		seen[contact.Email] = struct{}{}
		for _, existing := range r.contacts {
			if existing.Email == contact.Email {
				return ErrDuplicateEmail
			}
		}
	}

	now := time.Now().UTC()
	for _, contact := range contacts {
		if contact.ID == uuid.Nil {
			contact.ID = uuid.New()
		}
		contact.CreatedAt = now
		contact.UpdatedAt = now
		r.contacts[contact.ID] = *contact
	}
	return nil
}

func (r *MemoryContactRepository) ListByOwner(_ context.Context, userID uuid.UUID) ([]models.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contacts := make([]models.Contact, 0)
	for _, contact := range r.contacts {
		if contact.UserID == userID && !contact.IsDeleted {
			contacts = append(contacts, contact)
		}
	}
	return contacts, nil
}

func (r *MemoryContactRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contact, ok := r.contacts[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := contact
	return &c, nil
}

func (r *MemoryContactRepository) UpdateBatch(_ context.Context, contacts []*models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, contact := range contacts {
		existing, ok := r.contacts[contact.ID]
		if !ok {
			return ErrNotFound
		}
		for id, other := range r.contacts {
			if id != contact.ID && other.Email == contact.Email {
				return ErrDuplicateEmail
			}
		}
		existing.Name = contact.Name
		existing.Email = contact.Email
		existing.Phone = contact.Phone
		existing.Address = contact.Address
		existing.Timezone = contact.Timezone
		existing.AvatarKey = contact.AvatarKey
		existing.IsDeleted = contact.IsDeleted
		existing.UpdatedAt = time.Now().UTC()
		r.contacts[contact.ID] = existing
	}
	return nil
}
