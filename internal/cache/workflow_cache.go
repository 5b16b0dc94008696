package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"task-flow-api/internal/domain"
)

const (
	transitionKeyPrefix = "workflow:transitions:"
	transitionTTL       = 5 * time.Minute
)

// WorkflowCache caches the transition set of a workflow. A failed read or
// write never fails the caller; the database stays authoritative.
type WorkflowCache interface {
	GetTransitions(ctx context.Context, workflowID uuid.UUID) ([]domain.Transition, bool)
	SetTransitions(ctx context.Context, workflowID uuid.UUID, transitions []domain.Transition)
	Invalidate(ctx context.Context, workflowID uuid.UUID)
}

type workflowCacheImpl struct {
	client *redis.Client
	logger *zap.Logger
}

// NewWorkflowCache creates a new instance of WorkflowCache
func NewWorkflowCache(client *redis.Client, logger *zap.Logger) WorkflowCache {
	return &workflowCacheImpl{client: client, logger: logger}
}

func transitionKey(workflowID uuid.UUID) string {
	return fmt.Sprintf("%s%s", transitionKeyPrefix, workflowID)
}

// GetTransitions returns the cached transitions and whether the key was present
func (c *workflowCacheImpl) GetTransitions(ctx context.Context, workflowID uuid.UUID) ([]domain.Transition, bool) {
	if c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, transitionKey(workflowID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Failed to read workflow transitions from cache",
				zap.String("workflowId", workflowID.String()),
				zap.Error(err))
		}
		return nil, false
	}

	var transitions []domain.Transition
	if err := json.Unmarshal(data, &transitions); err != nil {
		c.logger.Warn("Failed to decode cached workflow transitions",
			zap.String("workflowId", workflowID.String()),
			zap.Error(err))
		return nil, false
	}
	return transitions, true
}

// SetTransitions stores the transitions of a workflow with a short TTL
func (c *workflowCacheImpl) SetTransitions(ctx context.Context, workflowID uuid.UUID, transitions []domain.Transition) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(transitions)
	if err != nil {
		c.logger.Warn("Failed to encode workflow transitions for cache",
			zap.String("workflowId", workflowID.String()),
			zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, transitionKey(workflowID), data, transitionTTL).Err(); err != nil {
		c.logger.Warn("Failed to write workflow transitions to cache",
			zap.String("workflowId", workflowID.String()),
			zap.Error(err))
	}
}

// Invalidate drops the cached transitions of a workflow
func (c *workflowCacheImpl) Invalidate(ctx context.Context, workflowID uuid.UUID) {
	if c.client == nil {
		return
	}

	if err := c.client.Del(ctx, transitionKey(workflowID)).Err(); err != nil {
		c.logger.Warn("Failed to invalidate workflow transition cache",
			zap.String("workflowId", workflowID.String()),
			zap.Error(err))
	}
}
