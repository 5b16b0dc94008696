package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Task event actions sent to the notification service
const (
	ActionTaskCreated = "task.created"
	ActionTaskUpdated = "task.updated"
	ActionTaskDeleted = "task.deleted"
)

// TaskEvent describes a task change for downstream notification
type TaskEvent struct {
	Action    string    `json:"action"`
	TaskID    uuid.UUID `json:"taskId"`
	ProjectID uuid.UUID `json:"projectId"`
	ActorID   uuid.UUID `json:"actorId"`
}

// NotificationClient delivers task events to the notification service.
// Delivery is fire-and-forget; a failure never affects the calling request.
type NotificationClient interface {
	NotifyTaskEvent(event TaskEvent)
}

type notificationClientImpl struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewNotificationClient creates a new instance of NotificationClient.
// An empty baseURL disables delivery entirely.
func NewNotificationClient(baseURL string, timeout time.Duration, logger *zap.Logger) NotificationClient {
	return &notificationClientImpl{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// NotifyTaskEvent posts the event to the notification service in the
// background
func (c *notificationClientImpl) NotifyTaskEvent(event TaskEvent) {
	if c.baseURL == "" {
		return
	}
	go c.send(event)
}

func (c *notificationClientImpl) send(event TaskEvent) {
	body, err := json.Marshal(event)
	if err != nil {
		c.logger.Warn("Failed to encode task event", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.httpClient.Timeout)
	defer cancel()

	url := fmt.Sprintf("%s/api/noti/events", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		c.logger.Warn("Failed to build notification request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Failed to deliver task event",
			zap.String("action", event.Action),
			zap.String("taskId", event.TaskID.String()),
			zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Warn("Notification service rejected task event",
			zap.String("action", event.Action),
			zap.Int("status", resp.StatusCode))
	}
}
