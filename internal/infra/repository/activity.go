package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/gocollective/collective-server/internal/domain"
	"github.com/gocollective/collective-server/internal/infra/database/models"
	"github.com/gocollective/collective-server/internal/service"
)

type ActivityRepository struct {
	db     *gorm.DB
	signal *service.SignalService
}

func NewActivityRepository(db *gorm.DB, signal *service.SignalService) *ActivityRepository {
	return &ActivityRepository{db: db, signal: signal}
}

// Record persists the activity and broadcasts it on the signal channel.
func (r *ActivityRepository) Record(ctx context.Context, activity domain.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}

	data, err := json.Marshal(activity.Data)
	if err != nil {
		return errors.Wrap(err, "activity data serialization failed")
	}

	record := models.Activity{
		ID:           activity.ID,
		Type:         activity.Type,
		UserID:       activity.UserID,
		CollectiveID: activity.CollectiveID,
		Data:         string(data),
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return err
	}

	return r.signal.Publish(ctx, activity)
}
