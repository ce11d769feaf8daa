package model

import (
	"time"

	"github.com/google/uuid"
)

// IdentityLinkModel mirrors the 'identity_links' table. Two unique indexes
// enforce the linking rules: one link per (account, provider) and one
// account per (provider, subject).
type IdentityLinkModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	AccountID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_identity_account_provider"`
	Provider  string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_identity_account_provider;uniqueIndex:idx_identity_provider_subject"`
	SubjectID string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_identity_provider_subject"`
	Email     string    `gorm:"type:varchar(255)"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (IdentityLinkModel) TableName() string {
	return "identity_links"
}
