package model

import (
	"time"

	"github.com/google/uuid"
)

// PlatformConnectionModel mirrors the 'platform_connections' table. Token
// columns store sealed ciphertext, never plaintext.
type PlatformConnectionModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	AccountID      string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_connection_account_platform"`
	Platform       string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_connection_account_platform"`
	PlatformUserID string    `gorm:"type:varchar(255);not null"`
	AccessToken    string    `gorm:"type:text;not null"`
	RefreshToken   string    `gorm:"type:text"`
	Scope          string    `gorm:"type:text"`
	ExpiresIn      int64     `gorm:"not null"`
	ExpiresAt      time.Time `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (PlatformConnectionModel) TableName() string {
	return "platform_connections"
}
