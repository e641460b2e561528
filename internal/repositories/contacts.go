package repositories

import (
	"context"
	"errors"
	"fmt"

	"contactdeck/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactRepository defines persistence operations for contact records.
// Batch operations are transactional: a failed element rolls the batch back.
type ContactRepository interface {
	CreateBatch(ctx context.Context, contacts []*models.Contact) error
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.Contact, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	UpdateBatch(ctx context.Context, contacts []*models.Contact) error
}

type gormContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &gormContactRepository{db: db}
}

func (r *gormContactRepository) CreateBatch(ctx context.Context, contacts []*models.Contact) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, contact := range contacts {
			if err := tx.Create(contact).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert contacts: %w", err)
	}
	return nil
}

func (r *gormContactRepository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.Contact, error) {
	var contacts []models.Contact
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Find(&contacts).Error
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	return contacts, nil
}

func (r *gormContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	var contact models.Contact
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query contact by id: %w", err)
	}
	return &contact, nil
}

func (r *gormContactRepository) UpdateBatch(ctx context.Context, contacts []*models.Contact) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, contact := range contacts {
			res := tx.Model(&models.Contact{}).
				Where("id = ?", contact.ID).
				Updates(map[string]any{
					"name":       contact.Name,
					"email":      contact.Email,
					"phone":      contact.Phone,
					"address":    contact.Address,
					"timezone":   contact.Timezone,
					"avatar_key": contact.AvatarKey,
					"is_deleted": contact.IsDeleted,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrNotFound
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("update contacts: %w", err)
	}
	return nil
}
