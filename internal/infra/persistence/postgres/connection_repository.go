package postgres

import (
	"context"
	"time"

	"multimusic/internal/domain/entity"
	domainerrors "multimusic/internal/domain/errors"
	"multimusic/internal/domain/repository"
	"multimusic/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// connectionRepository implements the repository.ConnectionRepository interface.
type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository is the constructor for connectionRepository.
func NewConnectionRepository(db *gorm.DB) repository.ConnectionRepository {
	return &connectionRepository{db: db}
}

// Upsert creates or replaces the connection for (account, platform).
func (repo *connectionRepository) Upsert(ctx context.Context, conn *entity.PlatformConnection) error {
	connM := fromConnectionDomain(conn)

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "account_id"}, {Name: "platform"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"platform_user_id",
				"access_token",
				"refresh_token",
				"scope",
				"expires_in",
				"expires_at",
				"updated_at",
			}),
		}).
		Create(connM).Error
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrAccountNotFound.WrapMessage("invalid account reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrInternalError.WrapMessage("missing required connection information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert platform connection")
	}

	conn.ConnectedAt = connM.CreatedAt
	conn.UpdatedAt = connM.UpdatedAt

	return nil
}

// Find retrieves the connection for (account, platform).
func (repo *connectionRepository) Find(ctx context.Context, accountID string, platform entity.Platform) (*entity.PlatformConnection, error) {
	var connM model.PlatformConnectionModel
	err := repo.db.WithContext(ctx).
		Where("account_id = ? AND platform = ?", accountID, string(platform)).
		First(&connM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrConnectionNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toConnectionDomain(&connM), nil
}

// UpdateAccessToken replaces only the access token and its expiry.
func (repo *connectionRepository) UpdateAccessToken(ctx context.Context, accountID string, platform entity.Platform, encryptedAccessToken string, expiresIn int64, expiresAt time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.PlatformConnectionModel{}).
		Where("account_id = ? AND platform = ?", accountID, string(platform)).
		Updates(map[string]any{
			"access_token": encryptedAccessToken,
			"expires_in":   expiresIn,
			"expires_at":   expiresAt,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update access token")
	}
	if result.RowsAffected == 0 {
		return repository.ErrConnectionNotFound
	}

	return nil
}

// ListByAccount returns all platform connections of an account.
func (repo *connectionRepository) ListByAccount(ctx context.Context, accountID string) ([]*entity.PlatformConnection, error) {
	var connModels []*model.PlatformConnectionModel
	err := repo.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Find(&connModels).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	conns := make([]*entity.PlatformConnection, 0, len(connModels))
	for _, connM := range connModels {
		conns = append(conns, toConnectionDomain(connM))
	}

	return conns, nil
}

// Delete removes the connection for (account, platform). Absent records are
// not an error so the operation stays idempotent.
func (repo *connectionRepository) Delete(ctx context.Context, accountID string, platform entity.Platform) error {
	err := repo.db.WithContext(ctx).
		Where("account_id = ? AND platform = ?", accountID, string(platform)).
		Delete(&model.PlatformConnectionModel{}).Error
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// --- Mapper Functions ---

// toConnectionDomain converts a GORM PlatformConnectionModel to a domain entity.
func toConnectionDomain(data *model.PlatformConnectionModel) *entity.PlatformConnection {
	if data == nil {
		return nil
	}

	return &entity.PlatformConnection{
		AccountID:      data.AccountID,
		Platform:       entity.Platform(data.Platform),
		PlatformUserID: data.PlatformUserID,
		AccessToken:    data.AccessToken,
		RefreshToken:   data.RefreshToken,
		Scope:          data.Scope,
		ExpiresIn:      data.ExpiresIn,
		ExpiresAt:      data.ExpiresAt,
		ConnectedAt:    data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

// fromConnectionDomain converts a domain entity to a GORM PlatformConnectionModel.
func fromConnectionDomain(data *entity.PlatformConnection) *model.PlatformConnectionModel {
	if data == nil {
		return nil
	}

	return &model.PlatformConnectionModel{
		AccountID:      data.AccountID,
		Platform:       string(data.Platform),
		PlatformUserID: data.PlatformUserID,
		AccessToken:    data.AccessToken,
		RefreshToken:   data.RefreshToken,
		Scope:          data.Scope,
		ExpiresIn:      data.ExpiresIn,
		ExpiresAt:      data.ExpiresAt,
	}
}
