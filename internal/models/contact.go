package models

import (
	"time"

	"github.com/google/uuid"
)

type Contact struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Phone     string    `json:"phone" gorm:"not null"`
	Address   string    `json:"address"`
	Timezone  string    `json:"timezone"`
	AvatarKey string    `json:"-"` // R2 object key, exposed only via presigned URLs
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"` // owner
	IsDeleted bool      `json:"isDeleted" gorm:"default:false"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
