package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"devtrack-backend/internal/models"
)

// SessionEvents publishes session lifecycle changes on a per-user pubsub
// channel so a user's other open tabs keep their timer state honest.
type SessionEvents struct {
	redis *redis.Client
}

func NewSessionEvents(redisClient *redis.Client) *SessionEvents {
	return &SessionEvents{redis: redisClient}
}

func SessionChannel(userID uuid.UUID) string {
	return fmt.Sprintf("user:%s:sessions", userID)
}

func (e *SessionEvents) SessionChanged(ctx context.Context, userID uuid.UUID, event string, session *models.StudySession) {
	payload, err := json.Marshal(map[string]interface{}{
		"event":   event,
		"session": session,
	})
	if err != nil {
		return
	}

	if err := e.redis.Publish(ctx, SessionChannel(userID), payload).Err(); err != nil {
		log.Printf("failed to publish %s for user %s: %v", event, userID, err)
	}
}
