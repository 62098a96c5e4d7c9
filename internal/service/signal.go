package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/gocollective/collective-server/internal/domain"
)

type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

// Publish broadcasts an activity on the shared channel.
func (s *SignalService) Publish(ctx context.Context, activity domain.Activity) error {
	jsonstr, err := json.Marshal(activity)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, domain.ActivityChannel, jsonstr).Err()
	if err != nil {
		return err
	}

	return nil
}

// Realtime forwards published activities to output until ctx is done.
func (s *SignalService) Realtime(ctx context.Context, output chan<- domain.Activity) {
	pubsub := s.rdb.Subscribe(ctx, domain.ActivityChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var activity domain.Activity
			if err := json.Unmarshal([]byte(msg.Payload), &activity); err != nil {
				continue
			}
			select {
			case output <- activity:
			case <-ctx.Done():
				return
			}
		}
	}
}
