package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/gocollective/collective-server/internal/domain"
	"github.com/gocollective/collective-server/internal/infra/database/models"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetUser(ctx context.Context, id int64) (domain.Actor, error) {
	var record models.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Actor{}, domain.NotFoundError{Resource: "user"}
		}
		return domain.Actor{}, err
	}
	return domain.Actor{
		ID:           record.ID,
		CollectiveID: record.CollectiveID,
		Email:        record.Email,
	}, nil
}

// GetConnectedAccount returns nil when no credential is linked; deciding what
// that means is the caller's business rule.
func (r *AccountRepository) GetConnectedAccount(ctx context.Context, collectiveID int64, service string) (*domain.ConnectedAccount, error) {
	var record models.ConnectedAccount
	err := r.db.WithContext(ctx).
		Where("collective_id = ? AND service = ?", collectiveID, service).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &domain.ConnectedAccount{
		CollectiveID: record.CollectiveID,
		Service:      record.Service,
		Token:        record.Token,
	}, nil
}

func (r *AccountRepository) GetUserCollective(ctx context.Context, collectiveID int64) (domain.Collective, error) {
	var record models.Collective
	err := r.db.WithContext(ctx).
		Where("id = ?", collectiveID).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Collective{}, domain.NotFoundError{Resource: "collective"}
		}
		return domain.Collective{}, err
	}
	return toDomainCollective(record)
}
