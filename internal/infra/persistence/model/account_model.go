// Package model holds the GORM models mirroring the PostgreSQL schema.
package model

import "time"

// AccountModel mirrors the 'accounts' table. The primary key is the
// application-assigned account id, not a database sequence.
type AccountModel struct {
	ID              string `gorm:"type:varchar(36);primary_key"`
	Email           string `gorm:"type:varchar(255)"`
	DisplayName     string `gorm:"type:varchar(255)"`
	AvatarURL       string `gorm:"type:text"`
	PrimaryProvider string `gorm:"type:varchar(50);not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}
