package repository

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/gocollective/collective-server/internal/domain"
	"github.com/gocollective/collective-server/internal/infra/database/models"
)

type HostRepository struct {
	db *gorm.DB
}

func NewHostRepository(db *gorm.DB) *HostRepository {
	return &HostRepository{db: db}
}

// Resolve finds the collective a host reference points at. It validates
// existence only; the host capability flag is checked by the caller.
func (r *HostRepository) Resolve(ctx context.Context, ref domain.HostRef) (domain.Host, error) {
	query := r.db.WithContext(ctx)
	if ref.ID != 0 {
		query = query.Where("id = ?", ref.ID)
	} else {
		query = query.Where("slug = ?", strings.ToLower(ref.Slug))
	}

	var record models.Collective
	err := query.Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Host{}, domain.NotFoundError{Resource: "host"}
		}
		return domain.Host{}, err
	}

	return domain.Host{
		ID:            record.ID,
		Name:          record.Name,
		Slug:          record.Slug,
		IsHostAccount: record.IsHostAccount,
	}, nil
}
