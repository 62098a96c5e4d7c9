package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gocollective/collective-server/internal/domain"
	"github.com/gocollective/collective-server/internal/infra/database/models"
)

type CollectiveRepository struct {
	db *gorm.DB
}

func NewCollectiveRepository(db *gorm.DB) *CollectiveRepository {
	return &CollectiveRepository{db: db}
}

func (r *CollectiveRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Collective{}).
		Where("slug = ?", slug).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *CollectiveRepository) Create(ctx context.Context, draft domain.CollectiveDraft) (domain.Collective, error) {
	settings, err := json.Marshal(draft.Settings)
	if err != nil {
		return domain.Collective{}, errors.Wrap(err, "settings serialization failed")
	}

	record := models.Collective{
		Name:            draft.Name,
		Slug:            draft.Slug,
		Description:     draft.Description,
		Tags:            draft.Tags,
		Settings:        string(settings),
		IsActive:        draft.IsActive,
		CreatedByUserID: draft.CreatedByUserID,
	}

	err = r.db.WithContext(ctx).Create(&record).Error
	if err != nil {
		// The slug unique index is the race-safety net behind the guard.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Collective{}, domain.ConflictError{
				Message: fmt.Sprintf("the slug %s is already taken, please use another slug for your collective", draft.Slug),
			}
		}
		return domain.Collective{}, err
	}

	return toDomainCollective(record)
}

func (r *CollectiveRepository) GrantRole(ctx context.Context, collectiveID int64, actor domain.Actor, role string) error {
	member := models.Member{
		CollectiveID:       collectiveID,
		MemberCollectiveID: actor.CollectiveID,
		Role:               role,
		CreatedByUserID:    actor.ID,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		DoNothing: true,
	}).Create(&member).Error
}

func (r *CollectiveRepository) AttachHost(ctx context.Context, collectiveID int64, host domain.Host, actor domain.Actor, preApproved bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"host_id": host.ID}
		if preApproved {
			updates["approved_at"] = time.Now()
		}
		if err := tx.Model(&models.Collective{}).
			Where("id = ?", collectiveID).
			Updates(updates).Error; err != nil {
			return err
		}

		member := models.Member{
			CollectiveID:       collectiveID,
			MemberCollectiveID: host.ID,
			Role:               domain.RoleHost,
			CreatedByUserID:    actor.ID,
		}
		return tx.Clauses(clause.OnConflict{
			DoNothing: true,
		}).Create(&member).Error
	})
}

func (r *CollectiveRepository) GetBySlug(ctx context.Context, slug string) (domain.Collective, error) {
	var record models.Collective
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Collective{}, domain.NotFoundError{Resource: "collective"}
		}
		return domain.Collective{}, err
	}
	return toDomainCollective(record)
}

func toDomainCollective(record models.Collective) (domain.Collective, error) {
	settings := domain.Settings{}
	if record.Settings != "" {
		if err := json.Unmarshal([]byte(record.Settings), &settings); err != nil {
			return domain.Collective{}, errors.Wrap(err, "settings deserialization failed")
		}
	}
	return domain.Collective{
		ID:              record.ID,
		Name:            record.Name,
		Slug:            record.Slug,
		Description:     record.Description,
		Tags:            record.Tags,
		Settings:        settings,
		IsActive:        record.IsActive,
		CreatedByUserID: record.CreatedByUserID,
		HostID:          record.HostID,
		ApprovedAt:      record.ApprovedAt,
		CreatedAt:       record.CDate,
	}, nil
}
