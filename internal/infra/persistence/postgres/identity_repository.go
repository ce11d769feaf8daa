package postgres

import (
	"context"

	"multimusic/internal/domain/entity"
	domainerrors "multimusic/internal/domain/errors"
	"multimusic/internal/domain/repository"
	"multimusic/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// identityRepository implements the repository.IdentityRepository interface.
type identityRepository struct {
	db *gorm.DB
}

// NewIdentityRepository is the constructor for identityRepository.
func NewIdentityRepository(db *gorm.DB) repository.IdentityRepository {
	return &identityRepository{db: db}
}

// Create persists a new identity link record.
func (repo *identityRepository) Create(ctx context.Context, link *entity.IdentityLink) error {
	linkM := fromIdentityDomain(link)

	if err := repo.db.WithContext(ctx).Create(linkM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrIdentityConflict.WrapMessage("identity link already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrAccountNotFound.WrapMessage("invalid account reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrInternalError.WrapMessage("missing required identity information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create identity link")
	}

	// Update the entity with generated values
	link.ID = linkM.ID
	link.LinkedAt = linkM.CreatedAt

	return nil
}

// FindBySubject retrieves a link by its provider and subject id.
func (repo *identityRepository) FindBySubject(ctx context.Context, provider entity.Provider, subjectID string) (*entity.IdentityLink, error) {
	var linkM model.IdentityLinkModel
	err := repo.db.WithContext(ctx).
		Where("provider = ? AND subject_id = ?", string(provider), subjectID).
		First(&linkM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrIdentityNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toIdentityDomain(&linkM), nil
}

// FindByAccountAndProvider retrieves the link an account has with a provider.
func (repo *identityRepository) FindByAccountAndProvider(ctx context.Context, accountID string, provider entity.Provider) (*entity.IdentityLink, error) {
	var linkM model.IdentityLinkModel
	err := repo.db.WithContext(ctx).
		Where("account_id = ? AND provider = ?", accountID, string(provider)).
		First(&linkM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrIdentityNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toIdentityDomain(&linkM), nil
}

// ListByAccount returns all identity links of an account.
func (repo *identityRepository) ListByAccount(ctx context.Context, accountID string) ([]*entity.IdentityLink, error) {
	var linkModels []*model.IdentityLinkModel
	err := repo.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Find(&linkModels).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	links := make([]*entity.IdentityLink, 0, len(linkModels))
	for _, linkM := range linkModels {
		links = append(links, toIdentityDomain(linkM))
	}

	return links, nil
}

// Delete removes the link between an account and a provider.
func (repo *identityRepository) Delete(ctx context.Context, accountID string, provider entity.Provider) error {
	result := repo.db.WithContext(ctx).
		Where("account_id = ? AND provider = ?", accountID, string(provider)).
		Delete(&model.IdentityLinkModel{})
	if result.Error != nil {
		return errors.WithStack(result.Error)
	}

	// If no rows were affected, the link was not there.
	if result.RowsAffected == 0 {
		return repository.ErrIdentityNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toIdentityDomain converts a GORM IdentityLinkModel to a domain IdentityLink entity.
func toIdentityDomain(data *model.IdentityLinkModel) *entity.IdentityLink {
	if data == nil {
		return nil
	}

	return &entity.IdentityLink{
		ID:        data.ID,
		AccountID: data.AccountID,
		Provider:  entity.Provider(data.Provider),
		SubjectID: data.SubjectID,
		Email:     data.Email,
		LinkedAt:  data.CreatedAt,
	}
}

// fromIdentityDomain converts a domain IdentityLink entity to a GORM IdentityLinkModel.
func fromIdentityDomain(data *entity.IdentityLink) *model.IdentityLinkModel {
	if data == nil {
		return nil
	}

	return &model.IdentityLinkModel{
		ID:        data.ID,
		AccountID: data.AccountID,
		Provider:  string(data.Provider),
		SubjectID: data.SubjectID,
		Email:     data.Email,
	}
}
